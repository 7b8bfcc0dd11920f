package ratelimit

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"regportal/internal/models"
)

// Middleware returns HTTP middleware enforcing the given rule against the
// shared registry, keyed by endpoint category and client IP. A nil registry
// disables enforcement (pass-through), so routes can be wired identically
// whether or not rate limiting is configured.
func Middleware(registry *Registry, rule Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if registry == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := rule.Key(ClientIP(r))
			res := registry.Check(key, rule.MaxRequests, rule.Window)

			// Always set rate limit headers. Reset is derived from the
			// registry's clock so tests with a fake clock see consistent
			// values.
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rule.MaxRequests))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", res.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", registry.now().Add(res.ResetIn).Unix()))

			if !res.Allowed {
				retryAfterSecs := int((res.ResetIn + time.Second - 1) / time.Second)
				w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfterSecs))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)

				errorResp := models.NewErrorResponse(
					"Too many requests. Please try again later.",
					models.ErrorCodeRateLimited,
				)
				json.NewEncoder(w).Encode(errorResp)

				slog.Warn("Rate limit exceeded",
					"key", key,
					"limit", rule.MaxRequests,
					"retry_after", retryAfterSecs,
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP extracts the client address from the first X-Forwarded-For entry.
// Without the header it returns "unknown" rather than failing closed: the
// header is spoofable anyway at this design point, and a shared bucket for
// headerless clients beats rejecting them outright.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	return "unknown"
}
