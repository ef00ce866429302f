package service

import (
	"context"
	"fmt"
	"time"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/logger"
	"costume-rental-backend/internal/metrics"
	"costume-rental-backend/internal/repository"
)

type orderAdminService struct {
	tx          repository.Transactor
	orderRepo   repository.OrderRepository
	historyRepo repository.RentalHistoryRepository
	userRepo    repository.UserRepository
	emailSvc    EmailService
	now         func() time.Time
}

func NewOrderAdminService(
	tx repository.Transactor,
	orderRepo repository.OrderRepository,
	historyRepo repository.RentalHistoryRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
) OrderAdminService {
	return &orderAdminService{
		tx:          tx,
		orderRepo:   orderRepo,
		historyRepo: historyRepo,
		userRepo:    userRepo,
		emailSvc:    emailSvc,
		now:         time.Now,
	}
}

func (s *orderAdminService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]domain.RentalOrder, int, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	if filter.PaymentStatus != "" && !filter.PaymentStatus.Valid() {
		return nil, 0, ErrInvalidPayment
	}
	return s.orderRepo.List(ctx, filter)
}

// GetOrder returns the order with its lines and return history.
func (s *orderAdminService) GetOrder(ctx context.Context, orderID string) (*domain.RentalOrder, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, notFound(err, domain.ErrOrderNotFound)
	}
	if order.Items, err = s.orderRepo.ListDetails(ctx, orderID); err != nil {
		return nil, err
	}
	if order.History, err = s.historyRepo.ListByOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderAdminService) UpdateStatus(ctx context.Context, actor domain.Actor, orderID string, status domain.OrderStatus, notes string) (*domain.RentalOrder, error) {
	logger.EnterMethod("orderAdminService.UpdateStatus", "orderID", orderID, "status", status)
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var (
		order *domain.RentalOrder
		from  domain.OrderStatus
	)
	err := s.tx.WithTx(ctx, func(uow repository.UnitOfWork) error {
		o, err := uow.Orders().GetForUpdate(ctx, orderID)
		if err != nil {
			return notFound(err, domain.ErrOrderNotFound)
		}
		if o.Status.IsTerminal() {
			return ErrTerminalOrder
		}
		if !domain.CanTransition(o.Status, status) {
			return domain.Conflict("Cannot change status from %s to %s", o.Status, status)
		}

		from = o.Status
		o.Status = status
		o.Notes = mergeNotes(o.Notes, notes)
		if status == domain.OrderStatusRented {
			start := s.now().UTC()
			end := start.AddDate(0, 0, o.RentalDays)
			o.ActualStartDate = &start
			o.ActualEndDate = &end
		}
		if err := uow.Orders().UpdateStatus(ctx, o); err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		if status.IsTerminal() {
			if err := releaseInventory(ctx, uow, o.ID); err != nil {
				return err
			}
		}

		entry := actor.Activity(domain.ActionUpdateOrderStatus, "order", o.ID, map[string]any{
			"old_status": from,
			"new_status": status,
			"notes":      notes,
		})
		if err := uow.Activity().Create(ctx, entry); err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}
		order = o
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("orderAdminService.UpdateStatus", err, "orderID", orderID)
		return nil, err
	}

	metrics.StatusTransitions.WithLabelValues(string(from), string(status)).Inc()
	logger.Info("Order status updated", "orderID", orderID, "from", from, "to", status, "adminID", actor.AdminID)
	s.notifyStatus(ctx, order)
	return order, nil
}

// notifyStatus e-mails the customer about the new status. Failures are logged only.
func (s *orderAdminService) notifyStatus(ctx context.Context, order *domain.RentalOrder) {
	user, err := s.userRepo.GetByID(ctx, order.UserID)
	if err != nil {
		logger.Warn("Skipping status notification", "orderID", order.ID, "error", err)
		return
	}
	if err := s.emailSvc.SendOrderStatusNotification(ctx, user.Email, user.Name, order.OrderNumber, order.Status); err != nil {
		logger.Warn("Failed to send status notification", "orderID", order.ID, "error", err)
	}
}

func (s *orderAdminService) Cancel(ctx context.Context, actor domain.Actor, orderID, reason string) (*domain.RentalOrder, error) {
	var (
		order *domain.RentalOrder
		from  domain.OrderStatus
	)
	err := s.tx.WithTx(ctx, func(uow repository.UnitOfWork) error {
		o, err := uow.Orders().GetForUpdate(ctx, orderID)
		if err != nil {
			return notFound(err, domain.ErrOrderNotFound)
		}
		if !o.Status.Cancellable() {
			return ErrNotCancellable
		}

		from = o.Status
		o.Status = domain.OrderStatusCancelled
		o.Notes = mergeNotes(o.Notes, reason)
		if err := uow.Orders().UpdateStatus(ctx, o); err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}
		if err := releaseInventory(ctx, uow, o.ID); err != nil {
			return err
		}

		entry := actor.Activity(domain.ActionCancelOrder, "order", o.ID, map[string]any{
			"old_status": from,
			"reason":     reason,
		})
		if err := uow.Activity().Create(ctx, entry); err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.StatusTransitions.WithLabelValues(string(from), string(domain.OrderStatusCancelled)).Inc()
	logger.Info("Order cancelled", "orderID", orderID, "adminID", actor.AdminID)
	s.notifyStatus(ctx, order)
	return order, nil
}

func (s *orderAdminService) UpdatePaymentStatus(ctx context.Context, actor domain.Actor, orderID string, status domain.PaymentStatus) (*domain.RentalOrder, error) {
	if !status.Valid() {
		return nil, ErrInvalidPayment
	}

	var order *domain.RentalOrder
	err := s.tx.WithTx(ctx, func(uow repository.UnitOfWork) error {
		o, err := uow.Orders().GetForUpdate(ctx, orderID)
		if err != nil {
			return notFound(err, domain.ErrOrderNotFound)
		}
		if o.PaymentStatus == domain.PaymentStatusRefunded {
			return ErrPaymentRefunded
		}

		old := o.PaymentStatus
		if err := uow.Orders().UpdatePaymentStatus(ctx, o.ID, status); err != nil {
			return fmt.Errorf("failed to update payment status: %w", err)
		}
		o.PaymentStatus = status

		entry := actor.Activity(domain.ActionUpdatePaymentStatus, "order", o.ID, map[string]any{
			"old_payment_status": old,
			"new_payment_status": status,
			"total_amount":       o.TotalAmount,
		})
		if err := uow.Activity().Create(ctx, entry); err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Order payment status updated", "orderID", orderID, "paymentStatus", status, "adminID", actor.AdminID)
	return order, nil
}
