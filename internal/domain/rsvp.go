package domain

import (
	"context"
	"time"
)

// RSVP responses.
const (
	RSVPResponseYes   = "YES"
	RSVPResponseNo    = "NO"
	RSVPResponseMaybe = "MAYBE"
)

// RSVP is a guest's recorded response plus guest count and notes.
// There is at most one RSVP per invite; resubmission updates it in place.
// swagger:model RSVP
type RSVP struct {
	ID         string    `json:"id"`
	InviteID   string    `json:"invite_id"`
	EventID    string    `json:"event_id"`
	Response   string    `json:"response"`
	GuestCount int       `json:"guest_count"`
	Notes      *string   `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RSVPSummary aggregates responses for an event's dashboard.
// swagger:model RSVPSummary
type RSVPSummary struct {
	Yes            int `json:"yes"`
	No             int `json:"no"`
	Maybe          int `json:"maybe"`
	ExpectedGuests int `json:"expected_guests"`
}

// InviteResolution is what the public RSVP page needs to render: the invite
// plus a snapshot of the event, and the guest's current response if any.
type InviteResolution struct {
	Invite *Invite `json:"invite"`
	Event  *Event  `json:"event"`
	RSVP   *RSVP   `json:"rsvp,omitempty"`
}

// RSVPRepository defines storage operations for guest responses.
type RSVPRepository interface {
	// Upsert inserts the RSVP or, when one exists for the invite, updates
	// response, guest count, notes, and updated_at in place.
	Upsert(ctx context.Context, rsvp *RSVP) error
	GetByInviteID(ctx context.Context, inviteID string) (*RSVP, error)
	Summary(ctx context.Context, eventID string) (*RSVPSummary, error)
}

// RSVPService defines the guest-facing RSVP flow.
type RSVPService interface {
	// ResolveInvite verifies the public token and returns the invite with its
	// event. Unknown, tampered, and revoked tokens are all ErrNotFound.
	ResolveInvite(ctx context.Context, token string) (*InviteResolution, error)
	// Submit records or updates the guest's response and enqueues
	// confirmation/notification emails.
	Submit(ctx context.Context, token, response string, guestCount int, notes *string) (*RSVP, error)
	Summary(ctx context.Context, eventID, callerID string) (*RSVPSummary, error)
}
