package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventpages/internal/delivery/http/helpers"
)

type stubVerifier struct {
	userID string
	err    error
	tokens []string
}

func (v *stubVerifier) Verify(token string) (string, error) {
	v.tokens = append(v.tokens, token)
	if v.err != nil {
		return "", v.err
	}
	return v.userID, nil
}

func unauthorizedCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		authHeader string
		verifier   *stubVerifier
		wantStatus int
	}{
		{
			name:       "valid token",
			authHeader: "Bearer valid-token",
			verifier:   &stubVerifier{userID: "user-123"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "no authorization header",
			verifier:   &stubVerifier{userID: "user-123"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			verifier:   &stubVerifier{userID: "user-123"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty bearer token",
			authHeader: "Bearer ",
			verifier:   &stubVerifier{userID: "user-123"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "verifier rejects token",
			authHeader: "Bearer expired-token",
			verifier:   &stubVerifier{err: errors.New("token is expired")},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var gotUserID string
			next := func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotUserID, _ = UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}

			req := httptest.NewRequest(http.MethodGet, "http://test/events", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			RequireAuth(tt.verifier, logger)(next)(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.True(t, nextCalled)
				assert.Equal(t, "user-123", gotUserID)
				require.Len(t, tt.verifier.tokens, 1)
				assert.Equal(t, "valid-token", tt.verifier.tokens[0])
			} else {
				assert.False(t, nextCalled)
				assert.Equal(t, helpers.ErrCodeUnauthorized, unauthorizedCode(t, rr))
			}
		})
	}
}

func TestRequireAuth_MalformedHeaderSkipsVerifier(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	verifier := &stubVerifier{userID: "user-123"}
	next := func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	}

	req := httptest.NewRequest(http.MethodGet, "http://test/events", nil)
	req.Header.Set("Authorization", "bearer lowercase-scheme")
	rr := httptest.NewRecorder()

	RequireAuth(verifier, logger)(next)(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, verifier.tokens)
}
