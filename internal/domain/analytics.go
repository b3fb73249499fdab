package domain

import (
	"context"
	"time"
)

// Tracked page event kinds.
const (
	PageEventKindPageView = "page_view"
	PageEventKindRSVPOpen = "rsvp_open"
)

// PageViewEvent is a single tracked interaction with a public event page.
// swagger:model PageViewEvent
type PageViewEvent struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	InviteID   *string   `json:"invite_id,omitempty"`
	Kind       string    `json:"kind"`
	UserAgent  *string   `json:"user_agent,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventStats is the dashboard roll-up for a single event.
// swagger:model EventStats
type EventStats struct {
	PageViews    int          `json:"page_views"`
	RSVPOpens    int          `json:"rsvp_opens"`
	InvitesTotal int          `json:"invites_total"`
	RSVPSummary  *RSVPSummary `json:"rsvp_summary"`
}

// AnalyticsRepository defines storage operations for tracked page events.
type AnalyticsRepository interface {
	Insert(ctx context.Context, ev *PageViewEvent) error
	CountByKind(ctx context.Context, eventID, kind string) (int, error)
}

// AnalyticsService records public page interactions and serves dashboard stats.
type AnalyticsService interface {
	Track(ctx context.Context, eventSlug, kind string, inviteToken, userAgent string) error
	Stats(ctx context.Context, eventID, callerID string) (*EventStats, error)
}
