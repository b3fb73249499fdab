// Package ratelimit provides fixed-window rate limiting for the public
// endpoints (RSVP submission, analytics tracking, public page lookups).
package ratelimit

import (
	"context"
	"time"
)

// Limiter reports whether the caller identified by key may perform another
// request within the current fixed window.
type Limiter interface {
	// Allow increments the counter for key and returns whether the request is
	// within limit, plus the current count in the window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, count int, err error)
}
