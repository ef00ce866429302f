package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusPreparing  OrderStatus = "preparing"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusRented     OrderStatus = "rented"
	OrderStatusReturning  OrderStatus = "returning"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// orderTransitions lists the statuses reachable from each non-terminal status.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:  {OrderStatusDelivering},
	OrderStatusDelivering: {OrderStatusRented},
	OrderStatusRented:     {OrderStatusReturning, OrderStatusCompleted},
	OrderStatusReturning:  {OrderStatusCompleted},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing, OrderStatusDelivering,
		OrderStatusRented, OrderStatusReturning, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further status change is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransition reports whether from → to is an edge of the order lifecycle.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Cancellable reports whether an admin may cancel an order in this status.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

// ProductBlockingStatuses are the order statuses that keep a referenced product from being deleted.
var ProductBlockingStatuses = []OrderStatus{
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusDelivering,
	OrderStatusRented,
}

// UserBlockingStatuses are the order statuses that keep a customer account from being deleted.
var UserBlockingStatuses = []OrderStatus{
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusDelivering,
	OrderStatusRented,
	OrderStatusReturning,
}

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func (p PaymentStatus) Valid() bool {
	return p == PaymentStatusUnpaid || p == PaymentStatusPaid || p == PaymentStatusRefunded
}

type DeliveryMethod string

const (
	DeliveryMethodDelivery DeliveryMethod = "delivery"
	DeliveryMethodPickup   DeliveryMethod = "pickup"
)

func (d DeliveryMethod) Valid() bool {
	return d == DeliveryMethodDelivery || d == DeliveryMethodPickup
}

type RentalOrder struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	OrderNumber       string          `json:"order_number"`
	ExpectedStartDate time.Time       `json:"expected_start_date"`
	ExpectedEndDate   time.Time       `json:"expected_end_date"`
	ActualStartDate   *time.Time      `json:"actual_start_date"`
	ActualEndDate     *time.Time      `json:"actual_end_date"`
	ActualReturnDate  *time.Time      `json:"actual_return_date"`
	RentalDays        int             `json:"rental_days"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	DepositTotal      decimal.Decimal `json:"deposit_total"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	LateFee           decimal.Decimal `json:"late_fee"`
	DamageFee         decimal.Decimal `json:"damage_fee"`
	RefundAmount      decimal.Decimal `json:"refund_amount"`
	ShippingAddress   string          `json:"shipping_address"`
	DeliveryMethod    DeliveryMethod  `json:"delivery_method"`
	PaymentMethod     string          `json:"payment_method"`
	Status            OrderStatus     `json:"status"`
	PaymentStatus     PaymentStatus   `json:"payment_status"`
	Notes             string          `json:"notes"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	// Populated by list and detail reads.
	CustomerName  string              `json:"customer_name,omitempty"`
	CustomerEmail string              `json:"customer_email,omitempty"`
	ItemsCount    int                 `json:"items_count,omitempty"`
	Items         []RentalOrderDetail `json:"items,omitempty"`
	History       []RentalHistory     `json:"history,omitempty"`
}

// LateReference is the deadline used to decide whether a return is late.
func (o *RentalOrder) LateReference() time.Time {
	if o.ActualEndDate != nil {
		return *o.ActualEndDate
	}
	return o.ExpectedEndDate
}

// RentalStart is when the customer took possession, or the requested start before that.
func (o *RentalOrder) RentalStart() time.Time {
	if o.ActualStartDate != nil {
		return *o.ActualStartDate
	}
	return o.ExpectedStartDate
}

type RentalOrderDetail struct {
	ID              string           `json:"id"`
	RentalOrderID   string           `json:"rental_order_id"`
	ProductID       string           `json:"product_id"`
	ProductName     string           `json:"product_name,omitempty"`
	CategoryName    string           `json:"category_name,omitempty"`
	Quantity        int              `json:"quantity"`
	DailyPrice      decimal.Decimal  `json:"daily_price"`
	RentalDays      int              `json:"rental_days"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
	DepositAmount   decimal.Decimal  `json:"deposit_amount"`
	ReturnCondition ProductCondition `json:"return_condition,omitempty"`
	ConditionNotes  string           `json:"condition_notes,omitempty"`
}

// RentalHistory is written once per returned item and never updated.
type RentalHistory struct {
	ID               string           `json:"id"`
	ProductID        string           `json:"product_id"`
	ProductName      string           `json:"product_name,omitempty"`
	RentalOrderID    string           `json:"rental_order_id"`
	UserID           string           `json:"user_id"`
	RentalStartDate  time.Time        `json:"rental_start_date"`
	RentalEndDate    time.Time        `json:"rental_end_date"`
	ActualReturnDate time.Time        `json:"actual_return_date"`
	ConditionAfter   ProductCondition `json:"condition_after"`
	Notes            string           `json:"notes,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

// OverdueOrder is a rented order past its deadline, joined with the customer contact.
type OverdueOrder struct {
	OrderID       string
	OrderNumber   string
	UserID        string
	CustomerName  string
	CustomerEmail string
	DueDate       time.Time
}
