package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventpages/internal/domain"
)

type fakeAnalyticsService struct {
	trackErr        error
	lastSlug        string
	lastKind        string
	lastInviteToken string
	lastUserAgent   string

	statsErr    error
	statsResult *domain.EventStats
}

func (f *fakeAnalyticsService) Track(ctx context.Context, eventSlug, kind, inviteToken, userAgent string) error {
	f.lastSlug = eventSlug
	f.lastKind = kind
	f.lastInviteToken = inviteToken
	f.lastUserAgent = userAgent
	return f.trackErr
}

func (f *fakeAnalyticsService) Stats(ctx context.Context, eventID, callerID string) (*domain.EventStats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.statsResult, nil
}

func TestAnalyticsController_Track(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		fake := &fakeAnalyticsService{}
		ctrl := NewAnalyticsController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPost, "/public/events/nora-tom/track",
			bytes.NewBufferString(`{"kind":"page_view","invite_token":"tok-1"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "Mozilla/5.0")
		req.SetPathValue("slug", "nora-tom")
		rr := httptest.NewRecorder()

		ctrl.Track(rr, req)

		require.Equal(t, http.StatusAccepted, rr.Code)
		assert.Equal(t, "nora-tom", fake.lastSlug)
		assert.Equal(t, domain.PageEventKindPageView, fake.lastKind)
		assert.Equal(t, "tok-1", fake.lastInviteToken)
		assert.Equal(t, "Mozilla/5.0", fake.lastUserAgent)
	})

	t.Run("bad kind rejected before the service", func(t *testing.T) {
		fake := &fakeAnalyticsService{}
		ctrl := NewAnalyticsController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPost, "/public/events/nora-tom/track",
			bytes.NewBufferString(`{"kind":"CLICK"}`))
		req.Header.Set("Content-Type", "application/json")
		req.SetPathValue("slug", "nora-tom")
		rr := httptest.NewRecorder()

		ctrl.Track(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, fake.lastKind, "invalid kinds never reach the service")
	})

	t.Run("unknown slug", func(t *testing.T) {
		ctrl := NewAnalyticsController(testLogger, &fakeAnalyticsService{trackErr: domain.ErrNotFound})
		req := httptest.NewRequest(http.MethodPost, "/public/events/missing/track",
			bytes.NewBufferString(`{"kind":"page_view"}`))
		req.Header.Set("Content-Type", "application/json")
		req.SetPathValue("slug", "missing")
		rr := httptest.NewRecorder()

		ctrl.Track(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestAnalyticsController_Stats(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeAnalyticsService{
			statsResult: &domain.EventStats{
				PageViews:    12,
				RSVPOpens:    5,
				InvitesTotal: 8,
				RSVPSummary:  &domain.RSVPSummary{Yes: 4, No: 1, Maybe: 2, ExpectedGuests: 9},
			},
		}
		ctrl := NewAnalyticsController(testLogger, fake)
		req := authedRequest(http.MethodGet, "/events/ev-1/stats", "")
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()

		ctrl.Stats(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.Nil(t, envelope.Error)
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		ctrl := NewAnalyticsController(testLogger, &fakeAnalyticsService{statsErr: domain.ErrForbidden})
		req := authedRequest(http.MethodGet, "/events/ev-1/stats", "")
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()

		ctrl.Stats(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)
	})
}
