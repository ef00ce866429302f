package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/logger"
	"costume-rental-backend/internal/metrics"
	"costume-rental-backend/internal/repository"
	"costume-rental-backend/internal/utils"
)

type settlementService struct {
	tx                repository.Transactor
	lateFeeMultiplier decimal.Decimal
}

func NewSettlementService(tx repository.Transactor, lateFeeMultiplier decimal.Decimal) SettlementService {
	if lateFeeMultiplier.IsZero() {
		lateFeeMultiplier = utils.DefaultLateFeeMultiplier
	}
	return &settlementService{
		tx:                tx,
		lateFeeMultiplier: lateFeeMultiplier,
	}
}

func (s *settlementService) ProcessReturn(ctx context.Context, actor domain.Actor, orderID string, req ReturnRequest) (*Settlement, error) {
	return s.settle(ctx, ReturnModeComputed, &actor, "", orderID, req)
}

func (s *settlementService) ConfirmReturn(ctx context.Context, userID, orderID string, req ReturnRequest) (*Settlement, error) {
	return s.settle(ctx, ReturnModeDirect, nil, userID, orderID, req)
}

// settle completes the order and records its fees and refund. The order row stays locked
// for the whole transaction. actor is nil for customer initiated returns, which instead
// must own the order.
func (s *settlementService) settle(ctx context.Context, mode ReturnMode, actor *domain.Actor, ownerID, orderID string, req ReturnRequest) (*Settlement, error) {
	logger.EnterMethod("settlementService.settle", "orderID", orderID, "mode", mode)

	if req.ActualReturnDate == "" {
		return nil, ErrReturnDateRequired
	}
	returned, err := utils.ParseDate(req.ActualReturnDate)
	if err != nil {
		return nil, ErrInvalidReturnDate
	}
	if err := validateReturn(mode, req); err != nil {
		return nil, err
	}

	result := &Settlement{OrderID: orderID, Mode: mode, ActualReturnDate: returned}
	err = s.tx.WithTx(ctx, func(uow repository.UnitOfWork) error {
		o, err := uow.Orders().GetForUpdate(ctx, orderID)
		if err != nil {
			return notFound(err, domain.ErrOrderNotFound)
		}

		switch mode {
		case ReturnModeComputed:
			if o.Status != domain.OrderStatusRented {
				return ErrNotRented
			}
			if err := s.assessComputed(ctx, uow, o, returned, req.Items, result); err != nil {
				return err
			}
		case ReturnModeDirect:
			if o.UserID != ownerID {
				return domain.ErrOrderNotFound
			}
			if o.Status.IsTerminal() {
				return ErrTerminalOrder
			}
			if err := applyDirect(ctx, uow, o, req, result); err != nil {
				return err
			}
		}

		result.RefundAmount = utils.Refund(o.DepositTotal, result.LateFee, result.DamageFee)

		from := o.Status
		o.Status = domain.OrderStatusCompleted
		o.ActualReturnDate = &returned
		o.LateFee = result.LateFee
		o.DamageFee = result.DamageFee
		o.RefundAmount = result.RefundAmount
		o.Notes = mergeNotes(o.Notes, req.Notes)
		if mode == ReturnModeDirect {
			o.PaymentStatus = domain.PaymentStatusRefunded
		}
		if err := uow.Orders().Complete(ctx, o); err != nil {
			return fmt.Errorf("failed to complete order: %w", err)
		}
		if err := releaseInventory(ctx, uow, o.ID); err != nil {
			return err
		}

		if actor != nil {
			entry := actor.Activity(domain.ActionProcessReturn, "order", o.ID, map[string]any{
				"old_status":         from,
				"late_fee":           result.LateFee,
				"damage_fee":         result.DamageFee,
				"refund_amount":      result.RefundAmount,
				"actual_return_date": returned.Format(time.RFC3339),
			})
			if err := uow.Activity().Create(ctx, entry); err != nil {
				return fmt.Errorf("failed to record activity: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("settlementService.settle", err, "orderID", orderID, "mode", mode)
		return nil, err
	}

	metrics.ReturnsSettled.WithLabelValues(string(mode)).Inc()
	logger.Info("Return settled", "orderID", orderID, "mode", mode, "lateFee", result.LateFee.String(),
		"damageFee", result.DamageFee.String(), "refund", result.RefundAmount.String())
	return result, nil
}

func validateReturn(mode ReturnMode, req ReturnRequest) error {
	if mode == ReturnModeDirect {
		if req.LateFee.IsNegative() || req.DamageFee.IsNegative() {
			return ErrNegativeFee
		}
		if req.Condition != "" && !req.Condition.Valid() {
			return domain.Validation("Invalid condition: %s", req.Condition)
		}
		return nil
	}
	for _, item := range req.Items {
		if item.ProductID == "" {
			return domain.Validation("Product id is required for every returned item")
		}
		if !item.Condition.Valid() {
			return domain.Validation("Invalid condition: %s", item.Condition)
		}
		if item.DamageFee.IsNegative() {
			return ErrNegativeFee
		}
	}
	return nil
}

// assessComputed derives the late fee from the order lines and applies each item report.
func (s *settlementService) assessComputed(ctx context.Context, uow repository.UnitOfWork, o *domain.RentalOrder, returned time.Time, items []ItemCondition, result *Settlement) error {
	if lateDays := utils.LateDays(o.LateReference(), returned); lateDays > 0 {
		avg, err := uow.Orders().AverageDailyPrice(ctx, o.ID)
		if err != nil {
			return fmt.Errorf("failed to compute average daily price: %w", err)
		}
		result.LateFee = utils.LateFee(lateDays, avg, s.lateFeeMultiplier)
	}

	for _, item := range items {
		result.DamageFee = result.DamageFee.Add(item.DamageFee)

		found, err := uow.Orders().UpdateDetailCondition(ctx, o.ID, item.ProductID, item.Condition, item.Notes)
		if err != nil {
			return fmt.Errorf("failed to update return condition: %w", err)
		}
		if !found {
			return domain.Validation("Product %s is not part of this order", item.ProductID)
		}

		history := &domain.RentalHistory{
			ID:               uuid.NewString(),
			ProductID:        item.ProductID,
			RentalOrderID:    o.ID,
			UserID:           o.UserID,
			RentalStartDate:  o.RentalStart(),
			RentalEndDate:    o.LateReference(),
			ActualReturnDate: returned,
			ConditionAfter:   item.Condition,
			Notes:            item.Notes,
		}
		if err := uow.History().Create(ctx, history); err != nil {
			return fmt.Errorf("failed to record rental history: %w", err)
		}

		if item.Condition.Degraded() {
			if err := uow.Products().UpdateCondition(ctx, item.ProductID, item.Condition); err != nil {
				return fmt.Errorf("failed to update product condition: %w", err)
			}
		}
	}
	return nil
}

// applyDirect takes the caller's fees and stamps the condition on every line.
func applyDirect(ctx context.Context, uow repository.UnitOfWork, o *domain.RentalOrder, req ReturnRequest, result *Settlement) error {
	result.LateFee = req.LateFee
	result.DamageFee = req.DamageFee
	if req.Condition == "" {
		return nil
	}
	details, err := uow.Orders().ListDetails(ctx, o.ID)
	if err != nil {
		return fmt.Errorf("failed to load order lines: %w", err)
	}
	for _, d := range details {
		if _, err := uow.Orders().UpdateDetailCondition(ctx, o.ID, d.ProductID, req.Condition, ""); err != nil {
			return fmt.Errorf("failed to update return condition: %w", err)
		}
	}
	return nil
}
