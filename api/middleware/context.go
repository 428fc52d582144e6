package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/jewelstack/jewelpos-backend/pkg/logger"
)

const sessionIDHeader = "X-Session-Id"

// DefaultSessionID is used when a client sends no session header. Single-till
// shops never set the header and share one cart.
const DefaultSessionID = "default"

type sessionIDKey struct{}

// Session resolves the operator session from the X-Session-Id header and
// stores it in the request context for the cart and sale handlers.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(sessionIDHeader))
			if sessionID == "" {
				sessionID = DefaultSessionID
			}

			ctx := context.WithValue(r.Context(), sessionIDKey{}, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFromContext returns the session id resolved by Session, or the
// default when the middleware did not run.
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDKey{}).(string); ok && v != "" {
		return v
	}
	return DefaultSessionID
}
