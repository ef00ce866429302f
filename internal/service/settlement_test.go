package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"costume-rental-backend/internal/domain"
)

func assertAmount(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.NewFromInt(want)), "want %d, got %s", want, got)
}

// completedOrder returns the order passed to Complete.
func completedOrder(t *testing.T, orders *MockOrderRepo) *domain.RentalOrder {
	t.Helper()
	for _, c := range orders.Calls {
		if c.Method == "Complete" {
			return c.Arguments.Get(1).(*domain.RentalOrder)
		}
	}
	t.Fatal("Complete was not called")
	return nil
}

func rentedOrder(deposit int64) *domain.RentalOrder {
	start := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	return &domain.RentalOrder{
		ID:              "o1",
		UserID:          "u1",
		Status:          domain.OrderStatusRented,
		PaymentStatus:   domain.PaymentStatusPaid,
		RentalDays:      3,
		ActualStartDate: &start,
		ActualEndDate:   &end,
		DepositTotal:    decimal.NewFromInt(deposit),
	}
}

func TestSettlementService_ProcessReturn(t *testing.T) {
	ctx := context.Background()
	actor := domain.Actor{AdminID: "a1", Role: domain.AdminRoleAdmin}

	t.Run("Late and damaged return", func(t *testing.T) {
		tx := newFakeTx()
		u := tx.uow
		svc := NewSettlementService(tx, decimal.NewFromFloat(1.5))

		u.orders.On("GetForUpdate", ctx, "o1").Return(rentedOrder(1000000), nil)
		u.orders.On("AverageDailyPrice", ctx, "o1").Return(decimal.NewFromInt(100000), nil)
		u.orders.On("UpdateDetailCondition", ctx, "o1", "p1", domain.ProductConditionDamaged, "torn sleeve").Return(true, nil)
		u.history.On("Create", ctx, mock.MatchedBy(func(h *domain.RentalHistory) bool {
			return h.ProductID == "p1" && h.ConditionAfter == domain.ProductConditionDamaged
		})).Return(nil)
		u.products.On("UpdateCondition", ctx, "p1", domain.ProductConditionDamaged).Return(nil)
		u.orders.On("Complete", ctx, mock.AnythingOfType("*domain.RentalOrder")).Return(nil)
		u.orders.On("ListDetails", ctx, "o1").Return([]domain.RentalOrderDetail{{ProductID: "p1", Quantity: 1}}, nil)
		u.products.On("Release", ctx, "p1", 1).Return(nil)
		u.activity.On("Create", ctx, mock.MatchedBy(func(e *domain.ActivityLog) bool {
			return e.Action == domain.ActionProcessReturn && e.EntityID == "o1"
		})).Return(nil)

		res, err := svc.ProcessReturn(ctx, actor, "o1", ReturnRequest{
			ActualReturnDate: "2024-01-13",
			Items: []ItemCondition{
				{ProductID: "p1", Condition: domain.ProductConditionDamaged, Notes: "torn sleeve", DamageFee: decimal.NewFromInt(100000)},
			},
		})
		require.NoError(t, err)
		// 3 late days * 100000 * 1.5
		assertAmount(t, 450000, res.LateFee)
		assertAmount(t, 100000, res.DamageFee)
		assertAmount(t, 450000, res.RefundAmount)

		completed := completedOrder(t, u.orders)
		assert.Equal(t, domain.OrderStatusCompleted, completed.Status)
		assert.Equal(t, domain.PaymentStatusPaid, completed.PaymentStatus)
		u.products.AssertCalled(t, "Release", ctx, "p1", 1)
		u.activity.AssertExpectations(t)
	})

	t.Run("Refund never negative", func(t *testing.T) {
		tx := newFakeTx()
		u := tx.uow
		svc := NewSettlementService(tx, decimal.Zero)

		u.orders.On("GetForUpdate", ctx, "o1").Return(rentedOrder(100000), nil)
		u.orders.On("UpdateDetailCondition", ctx, "o1", "p1", domain.ProductConditionBroken, "").Return(true, nil)
		u.history.On("Create", ctx, mock.Anything).Return(nil)
		u.products.On("UpdateCondition", ctx, "p1", domain.ProductConditionBroken).Return(nil)
		u.orders.On("Complete", ctx, mock.Anything).Return(nil)
		u.orders.On("ListDetails", ctx, "o1").Return([]domain.RentalOrderDetail{}, nil)
		u.activity.On("Create", ctx, mock.Anything).Return(nil)

		res, err := svc.ProcessReturn(ctx, actor, "o1", ReturnRequest{
			ActualReturnDate: "2024-01-10",
			Items: []ItemCondition{
				{ProductID: "p1", Condition: domain.ProductConditionBroken, DamageFee: decimal.NewFromInt(200000)},
			},
		})
		require.NoError(t, err)
		assertAmount(t, 0, res.LateFee)
		assertAmount(t, 0, res.RefundAmount)
		u.orders.AssertNotCalled(t, "AverageDailyPrice", mock.Anything, mock.Anything)
	})

	t.Run("Only rented orders", func(t *testing.T) {
		tx := newFakeTx()
		u := tx.uow
		svc := NewSettlementService(tx, decimal.Zero)
		o := rentedOrder(100000)
		o.Status = domain.OrderStatusDelivering
		u.orders.On("GetForUpdate", ctx, "o1").Return(o, nil)

		_, err := svc.ProcessReturn(ctx, actor, "o1", ReturnRequest{ActualReturnDate: "2024-01-10"})
		assert.Equal(t, ErrNotRented, err)
		assert.Equal(t, domain.OrderStatusDelivering, o.Status)
		u.orders.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})

	t.Run("Unknown product", func(t *testing.T) {
		tx := newFakeTx()
		u := tx.uow
		svc := NewSettlementService(tx, decimal.Zero)
		u.orders.On("GetForUpdate", ctx, "o1").Return(rentedOrder(100000), nil)
		u.orders.On("UpdateDetailCondition", ctx, "o1", "p9", domain.ProductConditionGood, "").Return(false, nil)

		_, err := svc.ProcessReturn(ctx, actor, "o1", ReturnRequest{
			ActualReturnDate: "2024-01-10",
			Items:            []ItemCondition{{ProductID: "p9", Condition: domain.ProductConditionGood}},
		})
		require.Error(t, err)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	})

	t.Run("Missing order", func(t *testing.T) {
		tx := newFakeTx()
		svc := NewSettlementService(tx, decimal.Zero)
		tx.uow.orders.On("GetForUpdate", ctx, "nope").Return(nil, sql.ErrNoRows)

		_, err := svc.ProcessReturn(ctx, actor, "nope", ReturnRequest{ActualReturnDate: "2024-01-10"})
		assert.Equal(t, domain.ErrOrderNotFound, err)
	})

	t.Run("Input validation", func(t *testing.T) {
		tx := newFakeTx()
		svc := NewSettlementService(tx, decimal.Zero)

		_, err := svc.ProcessReturn(ctx, actor, "o1", ReturnRequest{})
		assert.Equal(t, ErrReturnDateRequired, err)

		_, err = svc.ProcessReturn(ctx, actor, "o1", ReturnRequest{ActualReturnDate: "yesterday-ish"})
		assert.Equal(t, ErrInvalidReturnDate, err)

		_, err = svc.ProcessReturn(ctx, actor, "o1", ReturnRequest{
			ActualReturnDate: "2024-01-10",
			Items:            []ItemCondition{{ProductID: "p1", Condition: domain.ProductConditionGood, DamageFee: decimal.NewFromInt(-1)}},
		})
		assert.Equal(t, ErrNegativeFee, err)

		assert.Equal(t, 0, tx.calls)
	})
}

func TestSettlementService_ConfirmReturn(t *testing.T) {
	ctx := context.Background()

	t.Run("Caller supplied fees", func(t *testing.T) {
		tx := newFakeTx()
		u := tx.uow
		svc := NewSettlementService(tx, decimal.Zero)

		u.orders.On("GetForUpdate", ctx, "o1").Return(rentedOrder(300000), nil)
		u.orders.On("ListDetails", ctx, "o1").Return([]domain.RentalOrderDetail{{ProductID: "p1", Quantity: 2}}, nil)
		u.orders.On("UpdateDetailCondition", ctx, "o1", "p1", domain.ProductConditionGood, "").Return(true, nil)
		u.orders.On("Complete", ctx, mock.AnythingOfType("*domain.RentalOrder")).Return(nil)
		u.products.On("Release", ctx, "p1", 2).Return(nil)

		res, err := svc.ConfirmReturn(ctx, "u1", "o1", ReturnRequest{
			ActualReturnDate: "2024-01-10",
			Condition:        domain.ProductConditionGood,
			LateFee:          decimal.NewFromInt(50000),
			DamageFee:        decimal.NewFromInt(100000),
		})
		require.NoError(t, err)
		assertAmount(t, 150000, res.RefundAmount)

		completed := completedOrder(t, u.orders)
		assert.Equal(t, domain.PaymentStatusRefunded, completed.PaymentStatus)
		assert.Equal(t, domain.OrderStatusCompleted, completed.Status)
		u.activity.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Someone else's order", func(t *testing.T) {
		tx := newFakeTx()
		svc := NewSettlementService(tx, decimal.Zero)
		tx.uow.orders.On("GetForUpdate", ctx, "o1").Return(rentedOrder(300000), nil)

		_, err := svc.ConfirmReturn(ctx, "u2", "o1", ReturnRequest{ActualReturnDate: "2024-01-10"})
		assert.Equal(t, domain.ErrOrderNotFound, err)
	})

	t.Run("Terminal order", func(t *testing.T) {
		tx := newFakeTx()
		svc := NewSettlementService(tx, decimal.Zero)
		o := rentedOrder(300000)
		o.Status = domain.OrderStatusCancelled
		tx.uow.orders.On("GetForUpdate", ctx, "o1").Return(o, nil)

		_, err := svc.ConfirmReturn(ctx, "u1", "o1", ReturnRequest{ActualReturnDate: "2024-01-10"})
		assert.Equal(t, ErrTerminalOrder, err)
	})
}
