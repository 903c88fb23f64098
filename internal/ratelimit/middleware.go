package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/noah-isme/backend-reward/internal/common"
)

// Config derives the limit key and thresholds for one route.
type Config struct {
	Key    func(*http.Request) string
	Window time.Duration
	Max    int
}

// PerClientIP keys the limit on the caller address. Calculation requests are
// anonymous, so the client IP is the only stable identity available.
func PerClientIP(route string) func(*http.Request) string {
	return func(r *http.Request) string {
		return route + ":" + common.ClientIP(r)
	}
}

// Handler enforces a rate limit before delegating to the next handler. Limiter
// errors fail open: a Redis outage must not take the pricing API down with it.
type Handler struct {
	Limiter Limiter
	Config  Config
	OnError func(error)
}

// Middleware implements the chi middleware contract.
func (h Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Config.Key == nil {
			next.ServeHTTP(w, r)
			return
		}
		key := h.Config.Key(r)
		allowed, remaining, resetAt, err := h.Limiter.Allow(r.Context(), key, h.Config.Window, h.Config.Max)
		if err != nil {
			if h.OnError != nil {
				h.OnError(err)
			}
			next.ServeHTTP(w, r)
			return
		}

		limitValue := h.Config.Max
		if limitValue < 0 {
			limitValue = 0
		}
		headers := w.Header()
		headers.Set("X-RateLimit-Limit", strconv.Itoa(limitValue))
		headers.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !allowed {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			headers.Set("Retry-After", strconv.Itoa(retryAfter))
			common.JSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many calculation requests", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
