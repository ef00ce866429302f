package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one (user, product) pair in a customer's cart, joined with the product fields
// needed for pricing.
type CartLine struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	ProductID         string          `json:"product_id"`
	Quantity          int             `json:"quantity"`
	ProductName       string          `json:"product_name"`
	Images            []string        `json:"images"`
	Size              string          `json:"size"`
	DailyPrice        decimal.Decimal `json:"daily_price"`
	DepositAmount     decimal.Decimal `json:"deposit_amount"`
	AvailableQuantity int             `json:"available_quantity"`
	CreatedAt         time.Time       `json:"created_at"`
}

type WishlistItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
