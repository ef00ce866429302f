package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"costume-rental-backend/internal/metrics"
	"costume-rental-backend/internal/security"
	"costume-rental-backend/internal/service"
)

// Services groups everything the router dispatches to.
type Services struct {
	Auth       service.AuthService
	Catalog    service.CatalogService
	Cart       service.CartService
	Wishlist   service.WishlistService
	Orders     service.OrderService
	Settlement service.SettlementService
	AdminAuth  service.AdminAuthService
	AdminOrder service.OrderAdminService
	Products   service.ProductAdminService
	Customers  service.CustomerAdminService
	Dashboard  service.DashboardService
}

// NewRouter builds the API handler. CORS and panic recovery wrap the router itself so that
// preflight requests are answered before route matching.
func NewRouter(svc Services, tokens security.TokenManager, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorMessage(w, http.StatusNotFound, "Route not found")
	})

	auth := NewAuthMiddleware(tokens, svc.AdminAuth)
	r.Use(LoggingMiddleware, auth.Handler)

	r.HandleFunc("/health", health).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	registerCustomerRoutes(api, svc)
	registerAdminRoutes(api.PathPrefix("/admin").Subrouter(), svc)

	return RecoveryMiddleware(CORSMiddleware(allowedOrigins)(r))
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func registerCustomerRoutes(r *mux.Router, svc Services) {
	authH := NewAuthHandler(svc.Auth)
	r.HandleFunc("/auth/register", authH.Register).Methods("POST")
	r.HandleFunc("/auth/login", authH.Login).Methods("POST")
	r.HandleFunc("/auth/me", authH.Me).Methods("GET")
	r.HandleFunc("/auth/profile", authH.UpdateProfile).Methods("PUT")
	r.HandleFunc("/auth/change-password", authH.ChangePassword).Methods("PUT")

	catalogH := NewCatalogHandler(svc.Catalog)
	r.HandleFunc("/products", catalogH.ListProducts).Methods("GET")
	r.HandleFunc("/products/categories/all", catalogH.ListCategories).Methods("GET")
	r.HandleFunc("/products/{id}", catalogH.GetProduct).Methods("GET")
	r.HandleFunc("/products/{id}/availability", catalogH.CheckAvailability).Methods("GET")

	cartH := NewCartHandler(svc.Cart, svc.Wishlist)
	r.HandleFunc("/cart", cartH.List).Methods("GET")
	r.HandleFunc("/cart", cartH.Add).Methods("POST")
	r.HandleFunc("/cart", cartH.Clear).Methods("DELETE")
	r.HandleFunc("/cart/{id}", cartH.Update).Methods("PUT")
	r.HandleFunc("/cart/{id}", cartH.Remove).Methods("DELETE")
	r.HandleFunc("/wishlist", cartH.ListWishlist).Methods("GET")
	r.HandleFunc("/wishlist", cartH.AddWishlist).Methods("POST")
	r.HandleFunc("/wishlist/{productId}", cartH.RemoveWishlist).Methods("DELETE")

	rentalH := NewRentalHandler(svc.Orders, svc.Catalog, svc.Settlement)
	r.HandleFunc("/rentals/check-availability", rentalH.CheckAvailability).Methods("POST")
	r.HandleFunc("/rentals/create", rentalH.Create).Methods("POST")
	r.HandleFunc("/rentals", rentalH.List).Methods("GET")
	r.HandleFunc("/rentals/{id}", rentalH.Get).Methods("GET")
	r.HandleFunc("/rentals/{id}/cancel", rentalH.Cancel).Methods("PUT")
	r.HandleFunc("/rentals/{id}/confirm-return", rentalH.ConfirmReturn).Methods("PUT")
}

func registerAdminRoutes(r *mux.Router, svc Services) {
	adminH := NewAdminAuthHandler(svc.AdminAuth)
	r.HandleFunc("/auth/login", adminH.Login).Methods("POST")
	r.HandleFunc("/auth/me", adminH.Me).Methods("GET")
	r.HandleFunc("/auth/logout", adminH.Logout).Methods("POST")
	r.HandleFunc("/auth/change-password", adminH.ChangePassword).Methods("PUT")
	r.HandleFunc("/auth/admins", adminH.ListAdmins).Methods("GET")
	r.HandleFunc("/auth/admins", adminH.CreateAdmin).Methods("POST")
	r.HandleFunc("/auth/admins/{id}", adminH.UpdateAdmin).Methods("PUT")

	orderH := NewAdminOrderHandler(svc.AdminOrder, svc.Settlement)
	r.HandleFunc("/orders", orderH.List).Methods("GET")
	r.HandleFunc("/orders/{id}", orderH.Get).Methods("GET")
	r.HandleFunc("/orders/{id}/status", orderH.UpdateStatus).Methods("PUT")
	r.HandleFunc("/orders/{id}/payment", orderH.UpdatePayment).Methods("PUT")
	r.HandleFunc("/orders/{id}/return", orderH.ProcessReturn).Methods("POST")
	r.HandleFunc("/orders/{id}/cancel", orderH.Cancel).Methods("POST")

	productH := NewAdminProductHandler(svc.Products)
	r.HandleFunc("/products", productH.List).Methods("GET")
	r.HandleFunc("/products", productH.Create).Methods("POST")
	r.HandleFunc("/products/bulk-update", productH.BulkUpdate).Methods("PUT")
	r.HandleFunc("/products/{id}", productH.Get).Methods("GET")
	r.HandleFunc("/products/{id}", productH.Update).Methods("PUT")
	r.HandleFunc("/products/{id}", productH.Delete).Methods("DELETE")
	r.HandleFunc("/products/{id}/stats", productH.Stats).Methods("GET")

	userH := NewAdminUserHandler(svc.Customers)
	r.HandleFunc("/users", userH.List).Methods("GET")
	r.HandleFunc("/users/{id}", userH.Get).Methods("GET")
	r.HandleFunc("/users/{id}", userH.Update).Methods("PUT")
	r.HandleFunc("/users/{id}", userH.Delete).Methods("DELETE")
	r.HandleFunc("/users/{id}/stats", userH.Stats).Methods("GET")
	r.HandleFunc("/users/{id}/reset-password", userH.ResetPassword).Methods("PUT")

	dashH := NewDashboardHandler(svc.Dashboard)
	r.HandleFunc("/dashboard/stats", dashH.Stats).Methods("GET")
	r.HandleFunc("/dashboard/revenue-chart", dashH.RevenueChart).Methods("GET")
	r.HandleFunc("/dashboard/top-products", dashH.TopProducts).Methods("GET")
	r.HandleFunc("/dashboard/alerts", dashH.Alerts).Methods("GET")
	r.HandleFunc("/dashboard/order-status-distribution", dashH.StatusDistribution).Methods("GET")
}
