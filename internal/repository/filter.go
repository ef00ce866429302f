package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"costume-rental-backend/internal/domain"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a 1-based page request.
type Page struct {
	Page  int
	Limit int
}

// Normalize clamps the page into a usable range.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// Sort names a column by its public key. Repositories map the key onto a whitelisted column.
type Sort struct {
	Field string
	Desc  bool
}

type ProductFilter struct {
	Search     string
	CategoryID string
	Condition  domain.ProductCondition
	Sort       Sort
	Page       Page
}

type OrderFilter struct {
	Status        domain.OrderStatus
	PaymentStatus domain.PaymentStatus
	Search        string
	StartDate     *time.Time
	EndDate       *time.Time
	Sort          Sort
	Page          Page
}

type UserFilter struct {
	Search string
	Sort   Sort
	Page   Page
}

// ProductPatch holds the fields of a partial product update. Nil fields are left unchanged.
type ProductPatch struct {
	Name              *string
	CharacterName     *string
	CategoryID        *string
	Description       *string
	Size              *string
	Images            []string
	DailyPrice        *decimal.Decimal
	WeeklyPrice       *decimal.Decimal
	DepositAmount     *decimal.Decimal
	TotalQuantity     *int
	AvailableQuantity *int
	Condition         *domain.ProductCondition
}

func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.CharacterName == nil && p.CategoryID == nil && p.Description == nil &&
		p.Size == nil && p.Images == nil && p.DailyPrice == nil && p.WeeklyPrice == nil &&
		p.DepositAmount == nil && p.TotalQuantity == nil && p.AvailableQuantity == nil && p.Condition == nil
}

type UserPatch struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Address == nil
}

type AdminPatch struct {
	Email    *string
	FullName *string
	Role     *domain.AdminRole
	IsActive *bool
}

func (p AdminPatch) Empty() bool {
	return p.Email == nil && p.FullName == nil && p.Role == nil && p.IsActive == nil
}
