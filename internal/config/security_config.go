// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic     SecurityLevel = iota // No authentication
	SecurityCustomer                        // Customer token required
	SecurityStaff                           // Any active admin (staff, admin, super_admin)
	SecurityAdmin                           // admin or super_admin
	SecuritySuperAdmin                      // super_admin only
)

func (l SecurityLevel) String() string {
	switch l {
	case SecurityPublic:
		return "public"
	case SecurityCustomer:
		return "customer"
	case SecurityStaff:
		return "staff"
	case SecurityAdmin:
		return "admin"
	case SecuritySuperAdmin:
		return "super_admin"
	}
	return "unknown"
}

// EndpointSecurityConfig maps "METHOD route-template" to its required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Health and metrics
	"GET /health":  SecurityPublic,
	"GET /metrics": SecurityPublic,

	// Customer auth
	"POST /api/auth/register":       SecurityPublic,
	"POST /api/auth/login":          SecurityPublic,
	"GET /api/auth/me":              SecurityCustomer,
	"PUT /api/auth/profile":         SecurityCustomer,
	"PUT /api/auth/change-password": SecurityCustomer,

	// Catalog - Public
	"GET /api/products":                   SecurityPublic,
	"GET /api/products/categories/all":    SecurityPublic,
	"GET /api/products/{id}":              SecurityPublic,
	"GET /api/products/{id}/availability": SecurityPublic,

	// Cart
	"GET /api/cart":         SecurityCustomer,
	"POST /api/cart":        SecurityCustomer,
	"DELETE /api/cart":      SecurityCustomer,
	"PUT /api/cart/{id}":    SecurityCustomer,
	"DELETE /api/cart/{id}": SecurityCustomer,

	// Wishlist
	"GET /api/wishlist":                SecurityCustomer,
	"POST /api/wishlist":               SecurityCustomer,
	"DELETE /api/wishlist/{productId}": SecurityCustomer,

	// Rentals
	"POST /api/rentals/check-availability": SecurityCustomer,
	"POST /api/rentals/create":             SecurityCustomer,
	"GET /api/rentals":                     SecurityCustomer,
	"GET /api/rentals/{id}":                SecurityCustomer,
	"PUT /api/rentals/{id}/cancel":         SecurityCustomer,
	"PUT /api/rentals/{id}/confirm-return": SecurityCustomer,

	// Admin auth
	"POST /api/admin/auth/login":          SecurityPublic,
	"GET /api/admin/auth/me":              SecurityStaff,
	"POST /api/admin/auth/logout":         SecurityStaff,
	"PUT /api/admin/auth/change-password": SecurityStaff,
	"GET /api/admin/auth/admins":          SecurityAdmin,
	"POST /api/admin/auth/admins":         SecuritySuperAdmin,
	"PUT /api/admin/auth/admins/{id}":     SecuritySuperAdmin,

	// Admin orders
	"GET /api/admin/orders":              SecurityStaff,
	"GET /api/admin/orders/{id}":         SecurityStaff,
	"PUT /api/admin/orders/{id}/status":  SecurityStaff,
	"PUT /api/admin/orders/{id}/payment": SecurityStaff,
	"POST /api/admin/orders/{id}/return": SecurityAdmin,
	"POST /api/admin/orders/{id}/cancel": SecurityAdmin,

	// Admin products
	"GET /api/admin/products":             SecurityStaff,
	"POST /api/admin/products":            SecurityAdmin,
	"PUT /api/admin/products/bulk-update": SecurityAdmin,
	"GET /api/admin/products/{id}":        SecurityStaff,
	"PUT /api/admin/products/{id}":        SecurityAdmin,
	"DELETE /api/admin/products/{id}":     SecurityAdmin,
	"GET /api/admin/products/{id}/stats":  SecurityStaff,

	// Admin customers
	"GET /api/admin/users":                     SecurityStaff,
	"GET /api/admin/users/{id}":                SecurityStaff,
	"GET /api/admin/users/{id}/stats":          SecurityStaff,
	"PUT /api/admin/users/{id}":                SecurityAdmin,
	"PUT /api/admin/users/{id}/reset-password": SecurityAdmin,
	"DELETE /api/admin/users/{id}":             SecurityAdmin,

	// Dashboard
	"GET /api/admin/dashboard/stats":                     SecurityStaff,
	"GET /api/admin/dashboard/revenue-chart":             SecurityStaff,
	"GET /api/admin/dashboard/top-products":              SecurityStaff,
	"GET /api/admin/dashboard/alerts":                    SecurityStaff,
	"GET /api/admin/dashboard/order-status-distribution": SecurityStaff,
}

// GetSecurityLevel returns the level for a route. Unlisted routes require super_admin.
func GetSecurityLevel(method, template string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[method+" "+template]; ok {
		return level
	}
	return SecuritySuperAdmin
}
