package domain

import (
	"context"
	"time"
)

// Invite lifecycle states.
const (
	InviteStatusPending   = "PENDING"
	InviteStatusSent      = "SENT"
	InviteStatusResponded = "RESPONDED"
	InviteStatusRevoked   = "REVOKED"
)

// Invite is a per-guest record carrying a hashed access token and RSVP relation.
// The raw token is only ever returned once, at creation or resend time.
// swagger:model Invite
type Invite struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	GuestName  string    `json:"guest_name"`
	GuestEmail string    `json:"guest_email"`
	TokenHash  string    `json:"-"`
	Status     string    `json:"status"`
	MaxGuests  int       `json:"max_guests"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// InviteGuest is the per-guest input for bulk invite creation.
type InviteGuest struct {
	Name      string
	Email     string
	MaxGuests int
}

// CreatedInvite bundles a stored invite with its one-time public token.
type CreatedInvite struct {
	Invite *Invite `json:"invite"`
	Token  string  `json:"token"`
}

// InviteTokenSource generates and verifies invite/preview token pairs.
// GeneratePair returns the public token (handed to the guest) and the hash
// that is persisted; Hash recomputes the stored form of a presented token.
type InviteTokenSource interface {
	GeneratePair() (token, tokenHash string, err error)
	Hash(token string) string
	// Equal compares two stored hashes in constant time.
	Equal(hashA, hashB string) bool
}

// InviteRepository defines storage operations for guest invites.
type InviteRepository interface {
	Create(ctx context.Context, inv *Invite) error
	GetByID(ctx context.Context, id string) (*Invite, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (*Invite, error)
	// List returns one page of invites for the event, optionally filtered by a
	// case-insensitive search on guest name or email, plus the total count.
	List(ctx context.Context, eventID, search string, params PaginationParams) ([]*Invite, int, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateToken(ctx context.Context, id, tokenHash string) error
	CountByEventID(ctx context.Context, eventID string) (int, error)
}

// InviteService defines organizer-facing invite operations.
type InviteService interface {
	// CreateInvites creates one invite per guest and enqueues a guest_invite
	// email for each. The returned slice carries the one-time public tokens.
	CreateInvites(ctx context.Context, eventID, callerID string, guests []InviteGuest) ([]*CreatedInvite, error)
	ListInvites(ctx context.Context, eventID, callerID, search string, params PaginationParams) ([]*Invite, int, error)
	RevokeInvite(ctx context.Context, eventID, inviteID, callerID string) error
	// ResendInvite rotates the invite token and enqueues a fresh guest_invite
	// email as a new outbox row. Failed sends are never retried in place.
	ResendInvite(ctx context.Context, eventID, inviteID, callerID string) (*CreatedInvite, error)
}
