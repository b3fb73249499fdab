package domain

import (
	"context"
	"encoding/json"
	"time"
)

// Outbox row states. Transitions are strictly
// QUEUED -> SENDING -> SENT or FAILED; a FAILED row is never retried in
// place, a manual resend enqueues a new row.
const (
	OutboxStatusQueued  = "QUEUED"
	OutboxStatusSending = "SENDING"
	OutboxStatusSent    = "SENT"
	OutboxStatusFailed  = "FAILED"
)

// Outbox email template names.
const (
	EmailTemplateGuestInvite      = "guest_invite"
	EmailTemplateRSVPConfirmation = "rsvp_confirmation"
	EmailTemplateRSVPNotification = "rsvp_notification"
	EmailTemplateEventReminder    = "event_reminder"
)

// EmailOutbox is a queued transactional email awaiting delivery by the sweeper.
// swagger:model EmailOutbox
type EmailOutbox struct {
	ID        string          `json:"id"`
	EventID   *string         `json:"event_id,omitempty"`
	InviteID  *string         `json:"invite_id,omitempty"`
	Recipient string          `json:"recipient"`
	Template  string          `json:"template"`
	Payload   json.RawMessage `json:"payload"`
	Status    string          `json:"status"`
	Error     *string         `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	SentAt    *time.Time      `json:"sent_at,omitempty"`
}

// EmailOutboxRepository defines storage operations for the outbox table.
type EmailOutboxRepository interface {
	Enqueue(ctx context.Context, row *EmailOutbox) error
	// ClaimBatch atomically moves up to limit QUEUED rows (oldest first) to
	// SENDING and returns them.
	ClaimBatch(ctx context.Context, limit int) ([]*EmailOutbox, error)
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
	MarkFailed(ctx context.Context, id string, errMsg string) error
	ListByEventID(ctx context.Context, eventID string) ([]*EmailOutbox, error)
}

// OutboxEnqueuer is the narrow port services use to queue emails.
type OutboxEnqueuer interface {
	Enqueue(ctx context.Context, row *EmailOutbox) error
}

// OutboxProcessor drains the outbox. Run is invoked on a fixed schedule.
type OutboxProcessor interface {
	// Run claims one batch, renders and sends each email, and marks each row
	// SENT or FAILED. It returns counts of sent and failed rows.
	Run(ctx context.Context) (sent, failed int, err error)
}
