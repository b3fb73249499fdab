package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	h "eventpages/internal/delivery/http/helpers"
	"eventpages/internal/ratelimit"
)

// RateLimit returns a wrapper that applies a per-client-IP fixed window limit.
// Requests over the limit get 429 with a rate_limited envelope. When the
// limiter backend itself fails the request is let through; throttling is
// protection, not a gate.
func RateLimit(limiter ratelimit.Limiter, limit int, window time.Duration, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ok, count, err := limiter.Allow(r.Context(), clientIP(r), limit, window)
			if err != nil {
				logger.Error("rate limiter unavailable", "err", err)
				next(w, r)
				return
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, limit-count)))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				h.WriteJSONError(w, http.StatusTooManyRequests, h.ErrCodeRateLimited, "too many requests")
				return
			}
			next(w, r)
		}
	}
}

// clientIP prefers X-Forwarded-For (first hop) so limits hold behind a proxy.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
