package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/logger"
	"costume-rental-backend/internal/metrics"
	"costume-rental-backend/internal/repository"
	"costume-rental-backend/internal/utils"
)

type orderService struct {
	tx        repository.Transactor
	orderRepo repository.OrderRepository
	now       func() time.Time
}

func NewOrderService(tx repository.Transactor, orderRepo repository.OrderRepository) OrderService {
	return &orderService{
		tx:        tx,
		orderRepo: orderRepo,
		now:       time.Now,
	}
}

// CreateOrder turns the customer's cart into a pending rental order. Stock is reserved for
// every line and the cart is emptied in the same transaction.
func (s *orderService) CreateOrder(ctx context.Context, userID string, in CreateOrderInput) (*domain.RentalOrder, error) {
	logger.EnterMethod("orderService.CreateOrder", "userID", userID)

	if strings.TrimSpace(in.PaymentMethod) == "" || strings.TrimSpace(in.ShippingAddress) == "" ||
		strings.TrimSpace(in.RentalStartDate) == "" || strings.TrimSpace(in.RentalEndDate) == "" {
		return nil, ErrOrderFieldsRequired
	}

	start, err := utils.ParseDate(in.RentalStartDate)
	if err != nil {
		return nil, ErrInvalidRentalDates
	}
	end, err := utils.ParseDate(in.RentalEndDate)
	if err != nil {
		return nil, ErrInvalidRentalDates
	}
	days := utils.RentalDays(start, end)
	if days < 1 {
		return nil, ErrRentalDateOrder
	}

	method := domain.DeliveryMethod(in.DeliveryMethod)
	if method == "" {
		method = domain.DeliveryMethodDelivery
	}
	if !method.Valid() {
		return nil, ErrInvalidDelivery
	}

	order := &domain.RentalOrder{
		ID:                uuid.NewString(),
		UserID:            userID,
		OrderNumber:       fmt.Sprintf("RNT-%d", s.now().UnixMilli()),
		ExpectedStartDate: start,
		ExpectedEndDate:   end,
		RentalDays:        days,
		ShippingAddress:   in.ShippingAddress,
		DeliveryMethod:    method,
		PaymentMethod:     in.PaymentMethod,
		Status:            domain.OrderStatusPending,
		PaymentStatus:     domain.PaymentStatusUnpaid,
		Notes:             in.Notes,
	}

	var items []domain.RentalOrderDetail
	err = s.tx.WithTx(ctx, func(uow repository.UnitOfWork) error {
		lines, err := uow.Carts().ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load cart: %w", err)
		}
		if len(lines) == 0 {
			return ErrCartEmpty
		}

		var totals utils.OrderTotals
		for _, line := range lines {
			available, err := uow.Products().CheckAvailability(ctx, line.ProductID, line.Quantity, start, end)
			if err != nil {
				return fmt.Errorf("failed to check availability: %w", err)
			}
			if !available {
				return productUnavailable(line.ProductName)
			}
			reserved, err := uow.Products().Reserve(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return fmt.Errorf("failed to reserve product: %w", err)
			}
			if !reserved {
				return productUnavailable(line.ProductName)
			}

			subtotal := utils.LineSubtotal(line.DailyPrice, days, line.Quantity)
			deposit := utils.LineDeposit(line.DepositAmount, line.Quantity)
			totals.Add(subtotal, deposit)
			items = append(items, domain.RentalOrderDetail{
				ID:            uuid.NewString(),
				RentalOrderID: order.ID,
				ProductID:     line.ProductID,
				ProductName:   line.ProductName,
				Quantity:      line.Quantity,
				DailyPrice:    line.DailyPrice,
				RentalDays:    days,
				Subtotal:      subtotal,
				DepositAmount: deposit,
			})
		}

		order.Subtotal = totals.Subtotal
		order.DepositTotal = totals.DepositTotal
		order.TotalAmount = totals.Total()

		if err := uow.Orders().Create(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		for i := range items {
			if err := uow.Orders().CreateDetail(ctx, &items[i]); err != nil {
				return fmt.Errorf("failed to create order line: %w", err)
			}
		}
		return uow.Carts().Clear(ctx, userID)
	})
	if err != nil {
		logger.ExitMethodWithError("orderService.CreateOrder", err, "userID", userID)
		return nil, err
	}

	order.Items = items
	metrics.OrdersCreated.Inc()
	logger.Info("Rental order created", "orderID", order.ID, "orderNumber", order.OrderNumber, "userID", userID,
		"total", order.TotalAmount.String())
	logger.ExitMethod("orderService.CreateOrder", "orderID", order.ID)
	return order, nil
}

func (s *orderService) ListOwnOrders(ctx context.Context, userID string) ([]domain.RentalOrder, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

func (s *orderService) GetOwnOrder(ctx context.Context, userID, orderID string) (*domain.RentalOrder, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, notFound(err, domain.ErrOrderNotFound)
	}
	if order.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}
	order.Items, err = s.orderRepo.ListDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOwnOrder lets a customer withdraw an order that nobody has confirmed yet.
func (s *orderService) CancelOwnOrder(ctx context.Context, userID, orderID string) (*domain.RentalOrder, error) {
	var order *domain.RentalOrder
	err := s.tx.WithTx(ctx, func(uow repository.UnitOfWork) error {
		o, err := uow.Orders().GetForUpdate(ctx, orderID)
		if err != nil {
			return notFound(err, ErrOwnOrderNotFound)
		}
		if o.UserID != userID || o.Status != domain.OrderStatusPending {
			return ErrOwnOrderNotFound
		}
		o.Status = domain.OrderStatusCancelled
		if err := uow.Orders().UpdateStatus(ctx, o); err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}
		if err := releaseInventory(ctx, uow, o.ID); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.StatusTransitions.WithLabelValues(string(domain.OrderStatusPending), string(domain.OrderStatusCancelled)).Inc()
	logger.Info("Rental order cancelled by customer", "orderID", orderID, "userID", userID)
	return order, nil
}
