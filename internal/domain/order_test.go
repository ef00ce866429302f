package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusRented, false},
		{OrderStatusConfirmed, OrderStatusPreparing, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusPreparing, OrderStatusCancelled, false},
		{OrderStatusPreparing, OrderStatusDelivering, true},
		{OrderStatusDelivering, OrderStatusRented, true},
		{OrderStatusRented, OrderStatusReturning, true},
		{OrderStatusRented, OrderStatusCompleted, true},
		{OrderStatusReturning, OrderStatusCompleted, true},
		{OrderStatusReturning, OrderStatusRented, false},
		{OrderStatusCompleted, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s to %s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestOrderStatus(t *testing.T) {
	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusReturning.IsTerminal())

	assert.True(t, OrderStatusPending.Cancellable())
	assert.True(t, OrderStatusConfirmed.Cancellable())
	assert.False(t, OrderStatusPreparing.Cancellable())

	assert.True(t, OrderStatusDelivering.Valid())
	assert.False(t, OrderStatus("lost").Valid())
	assert.False(t, PaymentStatus("partial").Valid())
	assert.True(t, DeliveryMethodPickup.Valid())
}

func TestRentalOrder_LateReference(t *testing.T) {
	expected := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	o := &RentalOrder{ExpectedEndDate: expected}
	assert.Equal(t, expected, o.LateReference())

	actual := expected.AddDate(0, 0, 2)
	o.ActualEndDate = &actual
	assert.Equal(t, actual, o.LateReference())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(ErrOrderNotFound))
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("reserve: %w", Conflict("sold out"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("connection reset")))
	assert.Equal(t, KindInternal, KindOf(nil))
	assert.Equal(t, "Quantity must be 3", Validation("Quantity must be %d", 3).Error())
}
