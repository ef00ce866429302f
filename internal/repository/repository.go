package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"costume-rental-backend/internal/domain"
)

type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)
	ListWithStats(ctx context.Context, filter ProductFilter) ([]domain.ProductSummary, int, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, id string, patch ProductPatch) error
	BulkUpdate(ctx context.Context, ids []string, patch ProductPatch) (int64, error)
	Delete(ctx context.Context, id string) error
	UpdateCondition(ctx context.Context, id string, condition domain.ProductCondition) error
	CountActiveRentals(ctx context.Context, id string) (int, error)
	Stats(ctx context.Context, id string) (*domain.ProductStats, error)

	// CheckAvailability asks the database whether quantity units are free for the window.
	CheckAvailability(ctx context.Context, id string, quantity int, start, end time.Time) (bool, error)
	// Reserve takes quantity units out of available stock. It reports false when stock is short.
	Reserve(ctx context.Context, id string, quantity int) (bool, error)
	// Release puts quantity units back, capped at the total quantity.
	Release(ctx context.Context, id string, quantity int) error
}

type CartRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error)
	Upsert(ctx context.Context, userID, productID string, quantity int) (*domain.CartLine, error)
	UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.CartLine, error)
	Remove(ctx context.Context, userID, lineID string) (bool, error)
	Clear(ctx context.Context, userID string) error
}

type WishlistRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	Add(ctx context.Context, userID, productID string) (*domain.WishlistItem, error)
	Remove(ctx context.Context, userID, productID string) (bool, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *domain.RentalOrder) error
	CreateDetail(ctx context.Context, d *domain.RentalOrderDetail) error
	GetByID(ctx context.Context, id string) (*domain.RentalOrder, error)
	// GetForUpdate reads the order and locks its row until the enclosing transaction ends.
	GetForUpdate(ctx context.Context, id string) (*domain.RentalOrder, error)
	ListByUser(ctx context.Context, userID string) ([]domain.RentalOrder, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.RentalOrder, int, error)
	ListDetails(ctx context.Context, orderID string) ([]domain.RentalOrderDetail, error)
	UpdateStatus(ctx context.Context, o *domain.RentalOrder) error
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error
	Complete(ctx context.Context, o *domain.RentalOrder) error
	// UpdateDetailCondition reports false when the product is not a line of the order.
	UpdateDetailCondition(ctx context.Context, orderID, productID string, condition domain.ProductCondition, notes string) (bool, error)
	AverageDailyPrice(ctx context.Context, orderID string) (decimal.Decimal, error)
	CountByUserInStatuses(ctx context.Context, userID string, statuses []domain.OrderStatus) (int, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]domain.OverdueOrder, error)
	CountPendingCreatedBefore(ctx context.Context, before time.Time) (int, error)
}

type RentalHistoryRepository interface {
	Create(ctx context.Context, h *domain.RentalHistory) error
	ListByOrder(ctx context.Context, orderID string) ([]domain.RentalHistory, error)
}

type ActivityLogRepository interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
}

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.CustomerSummary, int, error)
	Update(ctx context.Context, id string, patch UserPatch) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, id string) (*domain.CustomerStats, error)
}

type AdminRepository interface {
	Create(ctx context.Context, a *domain.AdminUser) error
	GetByID(ctx context.Context, id string) (*domain.AdminUser, error)
	GetByLogin(ctx context.Context, login string) (*domain.AdminUser, error)
	List(ctx context.Context) ([]domain.AdminUser, error)
	Update(ctx context.Context, id string, patch AdminPatch) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

type ReportRepository interface {
	DashboardStats(ctx context.Context, lowStockThreshold int) (*domain.DashboardStats, error)
	RevenueChart(ctx context.Context, days int) ([]domain.RevenuePoint, error)
	TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error)
	OverdueAlerts(ctx context.Context, limit int) ([]domain.OverdueAlert, error)
	LowStockAlerts(ctx context.Context, threshold, limit int) ([]domain.LowStockAlert, error)
	StatusDistribution(ctx context.Context, since time.Time) ([]domain.StatusCount, error)
}

// UnitOfWork exposes repositories bound to one open transaction.
type UnitOfWork interface {
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository
	History() RentalHistoryRepository
	Activity() ActivityLogRepository
	Users() UserRepository
	Admins() AdminRepository
}

// Transactor runs fn inside a transaction. The transaction commits when fn returns nil and
// rolls back otherwise.
type Transactor interface {
	WithTx(ctx context.Context, fn func(uow UnitOfWork) error) error
}
