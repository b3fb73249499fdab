package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventpages/internal/delivery/http/helpers"
	"eventpages/internal/ratelimit"
)

func TestRateLimit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	limiter := ratelimit.NewMemoryLimiter(0)
	defer limiter.Close()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RateLimit(limiter, 2, time.Minute, logger)(next)

	do := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "http://test/rsvp", nil)
		req.RemoteAddr = remoteAddr
		rr := httptest.NewRecorder()
		handler(rr, req)
		return rr
	}

	first := do("10.0.0.1:1234")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	second := do("10.0.0.1:1234")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	rr := do("10.0.0.1:1234")
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))
	assert.Equal(t, "0", rr.Header().Get("X-RateLimit-Remaining"), "remaining never goes negative")
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, helpers.ErrCodeRateLimited, envelope.Error.Code)

	// A different client is unaffected.
	require.Equal(t, http.StatusOK, do("10.0.0.2:1234").Code)
}

func TestRateLimit_XForwardedFor(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	limiter := ratelimit.NewMemoryLimiter(0)
	defer limiter.Close()

	handler := RateLimit(limiter, 1, time.Minute, logger)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "http://test/rsvp", nil)
	req.RemoteAddr = "127.0.0.1:9999"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	rr := httptest.NewRecorder()
	handler(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	// Same forwarded client, different proxy address: still the same bucket.
	req2 := httptest.NewRequest(http.MethodPost, "http://test/rsvp", nil)
	req2.RemoteAddr = "127.0.0.2:9999"
	req2.Header.Set("X-Forwarded-For", "203.0.113.7")
	rr2 := httptest.NewRecorder()
	handler(rr2, req2)
	require.Equal(t, http.StatusTooManyRequests, rr2.Code)
}
