package http

import (
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"costume-rental-backend/internal/config"
	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/logger"
	"costume-rental-backend/internal/metrics"
	"costume-rental-backend/internal/security"
	"costume-rental-backend/internal/service"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}

// LoggingMiddleware logs every request and records the request metrics.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		route := routeTemplate(r)
		metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPDuration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())
		logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}

// RecoveryMiddleware turns a handler panic into a 500.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("Panic in HTTP handler", "panic", rec, "path", r.URL.Path, "stack", string(debug.Stack()))
				writeErrorMessage(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// CORSMiddleware allows the configured origins. "*" allows any origin.
func CORSMiddleware(allowed []string) mux.MiddlewareFunc {
	origins := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		origins[strings.TrimSpace(o)] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (origins["*"] || origins[origin]) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				w.Header().Add("Vary", "Origin")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AuthMiddleware enforces config.EndpointSecurityConfig for the matched route.
type AuthMiddleware struct {
	tokenManager security.TokenManager
	admins       service.AdminAuthService
}

func NewAuthMiddleware(tm security.TokenManager, admins service.AdminAuthService) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm, admins: admins}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level := config.GetSecurityLevel(r.Method, routeTemplate(r))

		// Public endpoint - skip auth
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token := extractToken(r)
		if token == "" {
			writeErrorMessage(w, http.StatusUnauthorized, "Access token required")
			return
		}
		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			writeErrorMessage(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		if level == config.SecurityCustomer {
			if claims.Type != security.TokenTypeCustomer {
				writeErrorMessage(w, http.StatusForbidden, "Customer access required")
				return
			}
			next.ServeHTTP(w, r.WithContext(withCustomerID(r.Context(), claims.SubjectID())))
			return
		}

		if claims.Type != security.TokenTypeAdmin {
			writeErrorMessage(w, http.StatusForbidden, "Admin access required")
			return
		}
		admin, err := m.admins.Me(r.Context(), claims.SubjectID())
		if err != nil {
			if domain.KindOf(err) == domain.KindNotFound {
				writeErrorMessage(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			writeError(w, r, err)
			return
		}
		if !admin.IsActive {
			writeErrorMessage(w, http.StatusForbidden, "Admin account is deactivated")
			return
		}
		if !roleAllowed(level, admin.Role) {
			writeErrorMessage(w, http.StatusForbidden, "Insufficient permissions")
			return
		}

		actor := requestMeta(r)
		actor.AdminID, actor.Role = admin.ID, admin.Role
		next.ServeHTTP(w, r.WithContext(withActor(r.Context(), actor)))
	})
}

// roleAllowed reports whether role satisfies an admin security level.
func roleAllowed(level config.SecurityLevel, role domain.AdminRole) bool {
	switch level {
	case config.SecurityStaff:
		return role.Valid()
	case config.SecurityAdmin:
		return role.In(domain.AdminRoleAdmin, domain.AdminRoleSuperAdmin)
	case config.SecuritySuperAdmin:
		return role == domain.AdminRoleSuperAdmin
	}
	return false
}

func extractToken(r *http.Request) string {
	token := r.Header.Get("Authorization")
	// Remove Bearer prefix if present
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		token = token[7:]
	}
	return strings.TrimSpace(token)
}
