package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
	"costume-rental-backend/internal/security"
)

// fakeTx runs the callback against mocked repositories without a database.
type fakeTx struct {
	uow   *fakeUoW
	calls int
}

func (f *fakeTx) WithTx(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	f.calls++
	return fn(f.uow)
}

type fakeUoW struct {
	products *MockProductRepo
	carts    *MockCartRepo
	orders   *MockOrderRepo
	history  *MockHistoryRepo
	activity *MockActivityRepo
	users    *MockUserRepo
	admins   *MockAdminRepo
}

func newFakeTx() *fakeTx {
	return &fakeTx{uow: &fakeUoW{
		products: new(MockProductRepo),
		carts:    new(MockCartRepo),
		orders:   new(MockOrderRepo),
		history:  new(MockHistoryRepo),
		activity: new(MockActivityRepo),
		users:    new(MockUserRepo),
		admins:   new(MockAdminRepo),
	}}
}

func (u *fakeUoW) Products() repository.ProductRepository { return u.products }
func (u *fakeUoW) Carts() repository.CartRepository { return u.carts }
func (u *fakeUoW) Orders() repository.OrderRepository { return u.orders }
func (u *fakeUoW) History() repository.RentalHistoryRepository { return u.history }
func (u *fakeUoW) Activity() repository.ActivityLogRepository { return u.activity }
func (u *fakeUoW) Users() repository.UserRepository { return u.users }
func (u *fakeUoW) Admins() repository.AdminRepository { return u.admins }

// MockProductRepo
type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}
func (m *MockProductRepo) ListWithStats(ctx context.Context, filter repository.ProductFilter) ([]domain.ProductSummary, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.ProductSummary), args.Int(1), args.Error(2)
}
func (m *MockProductRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}
func (m *MockProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}
func (m *MockProductRepo) Update(ctx context.Context, id string, patch repository.ProductPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}
func (m *MockProductRepo) BulkUpdate(ctx context.Context, ids []string, patch repository.ProductPatch) (int64, error) {
	args := m.Called(ctx, ids, patch)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockProductRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockProductRepo) UpdateCondition(ctx context.Context, id string, condition domain.ProductCondition) error {
	return m.Called(ctx, id, condition).Error(0)
}
func (m *MockProductRepo) CountActiveRentals(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *MockProductRepo) Stats(ctx context.Context, id string) (*domain.ProductStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductStats), args.Error(1)
}
func (m *MockProductRepo) CheckAvailability(ctx context.Context, id string, quantity int, start, end time.Time) (bool, error) {
	args := m.Called(ctx, id, quantity, start, end)
	return args.Bool(0), args.Error(1)
}
func (m *MockProductRepo) Reserve(ctx context.Context, id string, quantity int) (bool, error) {
	args := m.Called(ctx, id, quantity)
	return args.Bool(0), args.Error(1)
}
func (m *MockProductRepo) Release(ctx context.Context, id string, quantity int) error {
	return m.Called(ctx, id, quantity).Error(0)
}

// MockCartRepo
type MockCartRepo struct {
	mock.Mock
}

func (m *MockCartRepo) ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.CartLine), args.Error(1)
}
func (m *MockCartRepo) Upsert(ctx context.Context, userID, productID string, quantity int) (*domain.CartLine, error) {
	args := m.Called(ctx, userID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartLine), args.Error(1)
}
func (m *MockCartRepo) UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.CartLine, error) {
	args := m.Called(ctx, userID, lineID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartLine), args.Error(1)
}
func (m *MockCartRepo) Remove(ctx context.Context, userID, lineID string) (bool, error) {
	args := m.Called(ctx, userID, lineID)
	return args.Bool(0), args.Error(1)
}
func (m *MockCartRepo) Clear(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// MockOrderRepo
type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) Create(ctx context.Context, o *domain.RentalOrder) error {
	return m.Called(ctx, o).Error(0)
}
func (m *MockOrderRepo) CreateDetail(ctx context.Context, d *domain.RentalOrderDetail) error {
	return m.Called(ctx, d).Error(0)
}
func (m *MockOrderRepo) GetByID(ctx context.Context, id string) (*domain.RentalOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalOrder), args.Error(1)
}
func (m *MockOrderRepo) GetForUpdate(ctx context.Context, id string) (*domain.RentalOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalOrder), args.Error(1)
}
func (m *MockOrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.RentalOrder, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.RentalOrder), args.Error(1)
}
func (m *MockOrderRepo) List(ctx context.Context, filter repository.OrderFilter) ([]domain.RentalOrder, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.RentalOrder), args.Int(1), args.Error(2)
}
func (m *MockOrderRepo) ListDetails(ctx context.Context, orderID string) ([]domain.RentalOrderDetail, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]domain.RentalOrderDetail), args.Error(1)
}
func (m *MockOrderRepo) UpdateStatus(ctx context.Context, o *domain.RentalOrder) error {
	return m.Called(ctx, o).Error(0)
}
func (m *MockOrderRepo) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *MockOrderRepo) Complete(ctx context.Context, o *domain.RentalOrder) error {
	return m.Called(ctx, o).Error(0)
}
func (m *MockOrderRepo) UpdateDetailCondition(ctx context.Context, orderID, productID string, condition domain.ProductCondition, notes string) (bool, error) {
	args := m.Called(ctx, orderID, productID, condition, notes)
	return args.Bool(0), args.Error(1)
}
func (m *MockOrderRepo) AverageDailyPrice(ctx context.Context, orderID string) (decimal.Decimal, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockOrderRepo) CountByUserInStatuses(ctx context.Context, userID string, statuses []domain.OrderStatus) (int, error) {
	args := m.Called(ctx, userID, statuses)
	return args.Int(0), args.Error(1)
}
func (m *MockOrderRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.OverdueOrder, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.OverdueOrder), args.Error(1)
}
func (m *MockOrderRepo) CountPendingCreatedBefore(ctx context.Context, before time.Time) (int, error) {
	args := m.Called(ctx, before)
	return args.Int(0), args.Error(1)
}

// MockHistoryRepo
type MockHistoryRepo struct {
	mock.Mock
}

func (m *MockHistoryRepo) Create(ctx context.Context, h *domain.RentalHistory) error {
	return m.Called(ctx, h).Error(0)
}
func (m *MockHistoryRepo) ListByOrder(ctx context.Context, orderID string) ([]domain.RentalHistory, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]domain.RentalHistory), args.Error(1)
}

// MockActivityRepo
type MockActivityRepo struct {
	mock.Mock
}

func (m *MockActivityRepo) Create(ctx context.Context, entry *domain.ActivityLog) error {
	return m.Called(ctx, entry).Error(0)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) List(ctx context.Context, filter repository.UserFilter) ([]domain.CustomerSummary, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.CustomerSummary), args.Int(1), args.Error(2)
}
func (m *MockUserRepo) Update(ctx context.Context, id string, patch repository.UserPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}
func (m *MockUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}
func (m *MockUserRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockUserRepo) Stats(ctx context.Context, id string) (*domain.CustomerStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerStats), args.Error(1)
}

// MockAdminRepo
type MockAdminRepo struct {
	mock.Mock
}

func (m *MockAdminRepo) Create(ctx context.Context, a *domain.AdminUser) error {
	return m.Called(ctx, a).Error(0)
}
func (m *MockAdminRepo) GetByID(ctx context.Context, id string) (*domain.AdminUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminUser), args.Error(1)
}
func (m *MockAdminRepo) GetByLogin(ctx context.Context, login string) (*domain.AdminUser, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminUser), args.Error(1)
}
func (m *MockAdminRepo) List(ctx context.Context) ([]domain.AdminUser, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.AdminUser), args.Error(1)
}
func (m *MockAdminRepo) Update(ctx context.Context, id string, patch repository.AdminPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}
func (m *MockAdminRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}
func (m *MockAdminRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendOrderStatusNotification(ctx context.Context, email, name, orderNumber string, status domain.OrderStatus) error {
	return m.Called(ctx, email, name, orderNumber, status).Error(0)
}
func (m *MockEmailService) SendOverdueReminder(ctx context.Context, email, name, orderNumber string, dueDate time.Time) error {
	return m.Called(ctx, email, name, orderNumber, dueDate).Error(0)
}
func (m *MockEmailService) SendAdminNotification(ctx context.Context, adminEmail, subject, message string) error {
	return m.Called(ctx, adminEmail, subject, message).Error(0)
}

func newTestTokens() security.TokenManager {
	return security.NewTokenManager("test-secret-that-is-long-enough-123456", time.Hour, time.Hour)
}
