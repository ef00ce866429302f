package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductCondition string

const (
	ProductConditionNew     ProductCondition = "new"
	ProductConditionGood    ProductCondition = "good"
	ProductConditionNormal  ProductCondition = "normal"
	ProductConditionDamaged ProductCondition = "damaged"
	ProductConditionBroken  ProductCondition = "broken"
)

func (c ProductCondition) Valid() bool {
	switch c {
	case ProductConditionNew, ProductConditionGood, ProductConditionNormal,
		ProductConditionDamaged, ProductConditionBroken:
		return true
	}
	return false
}

// Degraded reports whether a returned unit should mark the product itself.
func (c ProductCondition) Degraded() bool {
	return c == ProductConditionDamaged || c == ProductConditionBroken
}

type Product struct {
	ID                string              `json:"id"`
	Name              string              `json:"name"`
	CharacterName     string              `json:"character_name"`
	CategoryID        string              `json:"category_id"`
	CategoryName      string              `json:"category_name,omitempty"`
	Description       string              `json:"description"`
	Size              string              `json:"size"`
	Images            []string            `json:"images"`
	DailyPrice        decimal.Decimal     `json:"daily_price"`
	WeeklyPrice       decimal.NullDecimal `json:"weekly_price"`
	DepositAmount     decimal.Decimal     `json:"deposit_amount"`
	TotalQuantity     int                 `json:"total_quantity"`
	AvailableQuantity int                 `json:"available_quantity"`
	Condition         ProductCondition    `json:"condition"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// ProductSummary is a product row in the back office list.
type ProductSummary struct {
	Product
	TotalRentals int             `json:"total_rentals"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type ProductStats struct {
	ProductID        string          `json:"product_id" db:"product_id"`
	TotalRentals     int             `json:"total_rentals" db:"total_rentals"`
	TotalUnitsRented int             `json:"total_units_rented" db:"total_units_rented"`
	ActiveRentals    int             `json:"active_rentals" db:"active_rentals"`
	TotalRevenue     decimal.Decimal `json:"total_revenue" db:"total_revenue"`
	DamagedReturns   int             `json:"damaged_returns" db:"damaged_returns"`
	LastRentedAt     *time.Time      `json:"last_rented_at" db:"last_rented_at"`
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
