package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/jewelstack/jewelpos-backend/api/responses"
	pkgerrors "github.com/jewelstack/jewelpos-backend/pkg/errors"
	"github.com/jewelstack/jewelpos-backend/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// SaleRateLimitPolicy throttles sale submissions per session. A stuck
// client re-posting in a loop should not be able to flood the bill table.
type SaleRateLimitPolicy struct {
	Window time.Duration
	Limit  int
}

func (p SaleRateLimitPolicy) enabled() bool {
	return p.Window > 0 && p.Limit > 0
}

// SaleRateLimit enforces a fixed-window per-session counter on the wrapped
// handler.
func SaleRateLimit(policy SaleRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := store.RateLimitKey("sales:" + SessionIDFromContext(ctx))

			count, err := store.IncrWithTTL(ctx, key, policy.Window)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeRepository, err, "rate limiting"))
				return
			}
			if count > int64(policy.Limit) {
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"attempts":       count,
						"limit":          policy.Limit,
						"window_seconds": int(policy.Window.Seconds()),
					})
					logg.Warn(logCtx, "sale.rate_limit.blocked")
				}
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many sale submissions; slow down"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
