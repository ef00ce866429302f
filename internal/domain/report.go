package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RevenueSummary struct {
	Today decimal.Decimal `json:"today" db:"today_revenue"`
	Month decimal.Decimal `json:"month" db:"month_revenue"`
}

type OrderCounts struct {
	Pending   int `json:"pending" db:"pending_orders"`
	Active    int `json:"active" db:"active_orders"`
	Completed int `json:"completed" db:"completed_orders"`
	Cancelled int `json:"cancelled" db:"cancelled_orders"`
	Total     int `json:"total" db:"total_orders"`
}

type InventoryCounts struct {
	Total         int `json:"total" db:"total_products"`
	TotalQuantity int `json:"total_quantity" db:"total_quantity"`
	Available     int `json:"available" db:"available_quantity"`
	Rented        int `json:"rented" db:"rented_quantity"`
}

type DashboardStats struct {
	Revenue   RevenueSummary  `json:"revenue"`
	Orders    OrderCounts     `json:"orders"`
	Products  InventoryCounts `json:"products"`
	Customers int             `json:"customers"`
	Overdue   int             `json:"overdue_orders"`
	LowStock  int             `json:"low_stock_products"`
}

type RevenuePoint struct {
	Date    time.Time       `json:"date" db:"date"`
	Revenue decimal.Decimal `json:"revenue" db:"revenue"`
	Orders  int             `json:"orders" db:"orders"`
}

type TopProduct struct {
	ProductID   string          `json:"product_id" db:"product_id"`
	Name        string          `json:"name" db:"name"`
	RentalCount int             `json:"rental_count" db:"rental_count"`
	UnitsRented int             `json:"units_rented" db:"units_rented"`
	Revenue     decimal.Decimal `json:"revenue" db:"revenue"`
}

type StatusCount struct {
	Status OrderStatus `json:"status" db:"status"`
	Count  int         `json:"count" db:"count"`
}

type OverdueAlert struct {
	OrderID      string    `json:"order_id" db:"order_id"`
	OrderNumber  string    `json:"order_number" db:"order_number"`
	CustomerName string    `json:"customer_name" db:"customer_name"`
	DueDate      time.Time `json:"due_date" db:"due_date"`
	DaysOverdue  int       `json:"days_overdue" db:"days_overdue"`
}

type LowStockAlert struct {
	ProductID         string `json:"product_id" db:"product_id"`
	Name              string `json:"name" db:"name"`
	AvailableQuantity int    `json:"available_quantity" db:"available_quantity"`
	TotalQuantity     int    `json:"total_quantity" db:"total_quantity"`
}

type Alerts struct {
	Overdue  []OverdueAlert  `json:"overdue_orders"`
	LowStock []LowStockAlert `json:"low_stock"`
}
