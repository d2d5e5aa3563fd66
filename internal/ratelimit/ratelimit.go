// Package ratelimit throttles the credential endpoints per client address.
package ratelimit

import (
	"context"
	"net/http"

	"github.com/redmonkez12/family-health-api/internal/apperr"
	"github.com/redmonkez12/family-health-api/internal/httputil"
	"github.com/redmonkez12/family-health-api/internal/logging"
)

var ErrRateLimited = apperr.New(apperr.KindRateLimited, httputil.CodeTooManyRequests, "too many requests, please try again later")

// Limiter decides whether one more request for key fits the budget.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Middleware rejects requests over budget with 429, keyed on scope and the
// address clients resolves. Limiter failures are logged and the request is
// let through.
func Middleware(limiter Limiter, scope string, clients *ClientAddr, responder *httputil.Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := logging.GetLoggerFromContext(r.Context())
			ip := clients.Resolve(r)

			allowed, err := limiter.Allow(r.Context(), scope+":"+ip)
			if err != nil {
				logger.Error("failed to check rate limit", "scope", scope, "error", err.Error())
			} else if !allowed {
				logger.Warn("rate limit exceeded", "scope", scope, "ip", ip)
				responder.Error(w, r, ErrRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
