package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
)

type CreateOrderInput struct {
	RentalStartDate string
	RentalEndDate   string
	ShippingAddress string
	DeliveryMethod  string
	PaymentMethod   string
	Notes           string
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Address  string
}

type CreateAdminInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     domain.AdminRole
}

type ProductInput struct {
	Name          string
	CharacterName string
	CategoryID    string
	Description   string
	Size          string
	Images        []string
	DailyPrice    decimal.Decimal
	WeeklyPrice   decimal.NullDecimal
	DepositAmount *decimal.Decimal
	TotalQuantity int
	Condition     domain.ProductCondition
}

// ReturnMode selects how a settlement obtains its fees.
type ReturnMode string

const (
	// ReturnModeComputed derives the late fee from the order lines and takes per-item damage fees.
	ReturnModeComputed ReturnMode = "computed"
	// ReturnModeDirect takes both fees as supplied by the caller.
	ReturnModeDirect ReturnMode = "direct"
)

type ItemCondition struct {
	ProductID string
	Condition domain.ProductCondition
	Notes     string
	DamageFee decimal.Decimal
}

type ReturnRequest struct {
	ActualReturnDate string
	Notes            string

	// computed mode
	Items []ItemCondition

	// direct mode
	Condition domain.ProductCondition
	LateFee   decimal.Decimal
	DamageFee decimal.Decimal
}

// Settlement is the money outcome of a completed return.
type Settlement struct {
	OrderID          string          `json:"order_id"`
	Mode             ReturnMode      `json:"-"`
	LateFee          decimal.Decimal `json:"late_fee"`
	DamageFee        decimal.Decimal `json:"damage_fee"`
	RefundAmount     decimal.Decimal `json:"refund_amount"`
	ActualReturnDate time.Time       `json:"actual_return_date"`
}

type CustomerDetail struct {
	User         domain.User          `json:"user"`
	RecentOrders []domain.RentalOrder `json:"recent_orders"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, patch repository.UserPatch) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

type CatalogService interface {
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CheckAvailability(ctx context.Context, productID string, quantity int, startDate, endDate string) (bool, error)
}

type CartService interface {
	List(ctx context.Context, userID string) ([]domain.CartLine, error)
	Add(ctx context.Context, userID, productID string, quantity int) (*domain.CartLine, error)
	UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.CartLine, error)
	Remove(ctx context.Context, userID, lineID string) error
	Clear(ctx context.Context, userID string) error
}

type WishlistService interface {
	List(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	Add(ctx context.Context, userID, productID string) (*domain.WishlistItem, error)
	Remove(ctx context.Context, userID, productID string) error
}

type OrderService interface {
	CreateOrder(ctx context.Context, userID string, in CreateOrderInput) (*domain.RentalOrder, error)
	ListOwnOrders(ctx context.Context, userID string) ([]domain.RentalOrder, error)
	GetOwnOrder(ctx context.Context, userID, orderID string) (*domain.RentalOrder, error)
	CancelOwnOrder(ctx context.Context, userID, orderID string) (*domain.RentalOrder, error)
}

type OrderAdminService interface {
	ListOrders(ctx context.Context, filter repository.OrderFilter) ([]domain.RentalOrder, int, error)
	GetOrder(ctx context.Context, orderID string) (*domain.RentalOrder, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, orderID string, status domain.OrderStatus, notes string) (*domain.RentalOrder, error)
	Cancel(ctx context.Context, actor domain.Actor, orderID, reason string) (*domain.RentalOrder, error)
	UpdatePaymentStatus(ctx context.Context, actor domain.Actor, orderID string, status domain.PaymentStatus) (*domain.RentalOrder, error)
}

type SettlementService interface {
	// ProcessReturn settles a rented order on behalf of an admin.
	ProcessReturn(ctx context.Context, actor domain.Actor, orderID string, req ReturnRequest) (*Settlement, error)
	// ConfirmReturn settles an order owned by userID with caller supplied fees.
	ConfirmReturn(ctx context.Context, userID, orderID string, req ReturnRequest) (*Settlement, error)
}

type AdminAuthService interface {
	Login(ctx context.Context, login, password string, meta domain.Actor) (*domain.AdminUser, string, error)
	Me(ctx context.Context, adminID string) (*domain.AdminUser, error)
	ChangePassword(ctx context.Context, adminID, currentPassword, newPassword string) error
	CreateAdmin(ctx context.Context, actor domain.Actor, in CreateAdminInput) (*domain.AdminUser, error)
	ListAdmins(ctx context.Context) ([]domain.AdminUser, error)
	UpdateAdmin(ctx context.Context, actor domain.Actor, adminID string, patch repository.AdminPatch) (*domain.AdminUser, error)
}

type ProductAdminService interface {
	List(ctx context.Context, filter repository.ProductFilter) ([]domain.ProductSummary, int, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, actor domain.Actor, in ProductInput) (*domain.Product, error)
	Update(ctx context.Context, actor domain.Actor, id string, patch repository.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	Stats(ctx context.Context, id string) (*domain.ProductStats, error)
	BulkUpdate(ctx context.Context, actor domain.Actor, ids []string, patch repository.ProductPatch) (int64, error)
}

type CustomerAdminService interface {
	List(ctx context.Context, filter repository.UserFilter) ([]domain.CustomerSummary, int, error)
	Get(ctx context.Context, id string) (*CustomerDetail, error)
	Update(ctx context.Context, actor domain.Actor, id string, patch repository.UserPatch) (*domain.User, error)
	ResetPassword(ctx context.Context, actor domain.Actor, id, newPassword string) error
	Delete(ctx context.Context, actor domain.Actor, id string) error
	Stats(ctx context.Context, id string) (*domain.CustomerStats, error)
}

type DashboardService interface {
	Stats(ctx context.Context) (*domain.DashboardStats, error)
	RevenueChart(ctx context.Context, days int) ([]domain.RevenuePoint, error)
	TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error)
	Alerts(ctx context.Context) (*domain.Alerts, error)
	StatusDistribution(ctx context.Context) ([]domain.StatusCount, error)
}

type EmailService interface {
	SendOrderStatusNotification(ctx context.Context, email, name, orderNumber string, status domain.OrderStatus) error
	SendOverdueReminder(ctx context.Context, email, name, orderNumber string, dueDate time.Time) error
	SendAdminNotification(ctx context.Context, adminEmail, subject, message string) error
}
