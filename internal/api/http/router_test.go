package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
	"costume-rental-backend/internal/security"
	"costume-rental-backend/internal/service"
)

// The mocks embed their interface so that only the methods under test need a body.

type mockOrders struct {
	service.OrderService
	mock.Mock
}

func (m *mockOrders) CreateOrder(ctx context.Context, userID string, in service.CreateOrderInput) (*domain.RentalOrder, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalOrder), args.Error(1)
}

type mockCatalog struct {
	service.CatalogService
	mock.Mock
}

func (m *mockCatalog) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

type mockAdminAuth struct {
	service.AdminAuthService
	mock.Mock
}

func (m *mockAdminAuth) Me(ctx context.Context, adminID string) (*domain.AdminUser, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminUser), args.Error(1)
}

type routerFixture struct {
	handler http.Handler
	tokens  security.TokenManager
	orders  *mockOrders
	catalog *mockCatalog
	admins  *mockAdminAuth
}

func newRouterFixture() *routerFixture {
	f := &routerFixture{
		tokens:  security.NewTokenManager("test-secret-that-is-long-enough-123456", time.Hour, time.Hour),
		orders:  &mockOrders{},
		catalog: &mockCatalog{},
		admins:  &mockAdminAuth{},
	}
	f.handler = NewRouter(Services{
		Orders:    f.orders,
		Catalog:   f.catalog,
		AdminAuth: f.admins,
	}, f.tokens, []string{"http://localhost:3000"})
	return f
}

func (f *routerFixture) customerToken(t *testing.T) string {
	token, err := f.tokens.GenerateCustomerToken("u1", "ann@example.com")
	require.NoError(t, err)
	return token
}

func (f *routerFixture) adminToken(t *testing.T, id string, role domain.AdminRole) string {
	token, err := f.tokens.GenerateAdminToken(id, "root", string(role))
	require.NoError(t, err)
	return token
}

func (f *routerFixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestRouter_PublicRoutes(t *testing.T) {
	f := newRouterFixture()

	rec := f.do("GET", "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK"}`, rec.Body.String())

	rec = f.do("GET", "/api/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", errorBody(t, rec))

	f.catalog.On("ListProducts", mock.Anything, mock.MatchedBy(func(filter repository.ProductFilter) bool {
		return filter.Search == "cape"
	})).Return(nil, 0, nil)

	rec = f.do("GET", "/api/products?search=cape", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Products []domain.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotNil(t, body.Products)
	assert.Empty(t, body.Products)
}

func TestRouter_CreateRental(t *testing.T) {
	payload := `{"rental_start_date":"2024-01-07","rental_end_date":"2024-01-10","shipping_address":"12 Main St","delivery_method":"delivery","payment_method":"cod"}`

	t.Run("Missing token", func(t *testing.T) {
		f := newRouterFixture()
		rec := f.do("POST", "/api/rentals/create", "", payload)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Access token required", errorBody(t, rec))
	})

	t.Run("Invalid token", func(t *testing.T) {
		f := newRouterFixture()
		rec := f.do("POST", "/api/rentals/create", "garbage", payload)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid or expired token", errorBody(t, rec))
	})

	t.Run("Admin token on customer route", func(t *testing.T) {
		f := newRouterFixture()
		rec := f.do("POST", "/api/rentals/create", f.adminToken(t, "a1", domain.AdminRoleSuperAdmin), payload)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Customer access required", errorBody(t, rec))
	})

	t.Run("Created", func(t *testing.T) {
		f := newRouterFixture()
		f.orders.On("CreateOrder", mock.Anything, "u1", mock.MatchedBy(func(in service.CreateOrderInput) bool {
			return in.RentalStartDate == "2024-01-07" && in.DeliveryMethod == "delivery"
		})).Return(&domain.RentalOrder{ID: "o1", OrderNumber: "RO-20240105-0001"}, nil)

		rec := f.do("POST", "/api/rentals/create", f.customerToken(t), payload)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "Rental order created successfully")
		assert.Contains(t, rec.Body.String(), "RO-20240105-0001")
	})

	t.Run("Business rule violation", func(t *testing.T) {
		f := newRouterFixture()
		f.orders.On("CreateOrder", mock.Anything, "u1", mock.Anything).
			Return(nil, domain.Conflict("Product Robe is not available for the selected dates"))

		rec := f.do("POST", "/api/rentals/create", f.customerToken(t), payload)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Product Robe is not available for the selected dates", errorBody(t, rec))
	})

	t.Run("Unexpected failure", func(t *testing.T) {
		f := newRouterFixture()
		f.orders.On("CreateOrder", mock.Anything, "u1", mock.Anything).Return(nil, errors.New("pq: deadlock detected"))

		rec := f.do("POST", "/api/rentals/create", f.customerToken(t), payload)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error", errorBody(t, rec))
	})

	t.Run("Malformed body", func(t *testing.T) {
		f := newRouterFixture()
		rec := f.do("POST", "/api/rentals/create", f.customerToken(t), "{")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body", errorBody(t, rec))
	})
}

func TestRouter_AdminRoles(t *testing.T) {
	t.Run("Customer token on admin route", func(t *testing.T) {
		f := newRouterFixture()
		rec := f.do("GET", "/api/admin/products", f.customerToken(t), "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Admin access required", errorBody(t, rec))
	})

	t.Run("Staff cannot create products", func(t *testing.T) {
		f := newRouterFixture()
		f.admins.On("Me", mock.Anything, "a2").Return(&domain.AdminUser{ID: "a2", Role: domain.AdminRoleStaff, IsActive: true}, nil)

		rec := f.do("POST", "/api/admin/products", f.adminToken(t, "a2", domain.AdminRoleStaff), `{}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Insufficient permissions", errorBody(t, rec))
	})

	t.Run("Deactivated admin", func(t *testing.T) {
		f := newRouterFixture()
		f.admins.On("Me", mock.Anything, "a3").Return(&domain.AdminUser{ID: "a3", Role: domain.AdminRoleSuperAdmin}, nil)

		rec := f.do("GET", "/api/admin/products", f.adminToken(t, "a3", domain.AdminRoleSuperAdmin), "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Admin account is deactivated", errorBody(t, rec))
	})

	t.Run("Deleted admin", func(t *testing.T) {
		f := newRouterFixture()
		f.admins.On("Me", mock.Anything, "a4").Return(nil, domain.NotFound("Admin not found"))

		rec := f.do("GET", "/api/admin/products", f.adminToken(t, "a4", domain.AdminRoleAdmin), "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRouter_Preflight(t *testing.T) {
	f := newRouterFixture()

	req := httptest.NewRequest("OPTIONS", "/api/rentals/create", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("OPTIONS", "/api/rentals/create", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", errorBody(t, rec))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.KindValidation))
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.KindConflict))
	assert.Equal(t, http.StatusNotFound, statusFor(domain.KindNotFound))
	assert.Equal(t, http.StatusUnauthorized, statusFor(domain.KindUnauthorized))
	assert.Equal(t, http.StatusForbidden, statusFor(domain.KindForbidden))
	assert.Equal(t, http.StatusInternalServerError, statusFor(domain.KindInternal))
}
