package http

import (
	"context"
	"net"
	"net/http"
	"strings"

	"costume-rental-backend/internal/domain"
)

type contextKey int

const (
	customerIDKey contextKey = iota
	actorKey
)

func withCustomerID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, customerIDKey, userID)
}

// CustomerIDFromContext returns the id of the authenticated customer, or "".
func CustomerIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(customerIDKey).(string)
	return id
}

func withActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the authenticated admin. ok is false on customer and public routes.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

// requestMeta captures the request origin for audit entries.
func requestMeta(r *http.Request) domain.Actor {
	return domain.Actor{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// adminActor returns the actor set by AuthMiddleware on admin routes.
func adminActor(r *http.Request) domain.Actor {
	actor, _ := ActorFromContext(r.Context())
	return actor
}
