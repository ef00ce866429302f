package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CustomerSummary is a customer row in the back office list.
type CustomerSummary struct {
	User
	TotalOrders int             `json:"total_orders"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
}

type CustomerStats struct {
	UserID          string          `json:"user_id" db:"user_id"`
	TotalOrders     int             `json:"total_orders" db:"total_orders"`
	ActiveOrders    int             `json:"active_orders" db:"active_orders"`
	CompletedOrders int             `json:"completed_orders" db:"completed_orders"`
	CancelledOrders int             `json:"cancelled_orders" db:"cancelled_orders"`
	TotalSpent      decimal.Decimal `json:"total_spent" db:"total_spent"`
	TotalLateFees   decimal.Decimal `json:"total_late_fees" db:"total_late_fees"`
	TotalDamageFees decimal.Decimal `json:"total_damage_fees" db:"total_damage_fees"`
	LastOrderAt     *time.Time      `json:"last_order_at" db:"last_order_at"`
}

type AdminRole string

const (
	AdminRoleStaff      AdminRole = "staff"
	AdminRoleAdmin      AdminRole = "admin"
	AdminRoleSuperAdmin AdminRole = "super_admin"
)

func (r AdminRole) Valid() bool {
	return r == AdminRoleStaff || r == AdminRoleAdmin || r == AdminRoleSuperAdmin
}

// In reports whether r is one of roles.
func (r AdminRole) In(roles ...AdminRole) bool {
	for _, role := range roles {
		if r == role {
			return true
		}
	}
	return false
}

type AdminUser struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Role         AdminRole  `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
