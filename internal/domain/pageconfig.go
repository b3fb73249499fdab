package domain

import (
	"context"
	"encoding/json"
	"time"
)

// PageConfigRecord is the stored form of an event's page config: the draft
// document, and the snapshot that was last published, both as raw JSON.
// swagger:model PageConfigRecord
type PageConfigRecord struct {
	ID              string          `json:"id"`
	EventID         string          `json:"event_id"`
	SchemaVersion   int             `json:"schema_version"`
	Config          json.RawMessage `json:"config"`
	PublishedConfig json.RawMessage `json:"published_config,omitempty"`
	PublishedAt     *time.Time      `json:"published_at,omitempty"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// PreviewToken grants time-limited read access to an event's draft page.
type PreviewToken struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// PageConfigRepository defines storage operations for page configs.
type PageConfigRepository interface {
	// Upsert writes the draft config for the event, one row per event.
	Upsert(ctx context.Context, rec *PageConfigRecord) error
	GetByEventID(ctx context.Context, eventID string) (*PageConfigRecord, error)
	// Publish copies the draft into published_config and stamps published_at.
	Publish(ctx context.Context, eventID string, publishedAt time.Time) (*PageConfigRecord, error)
}

// PreviewTokenRepository defines storage operations for preview tokens.
type PreviewTokenRepository interface {
	Create(ctx context.Context, tok *PreviewToken) error
	// GetValid returns the token only when its hash matches and it has not expired.
	GetValid(ctx context.Context, eventID, tokenHash string, now time.Time) (*PreviewToken, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PublicPage is what the public invitation page renders: the event snapshot
// and its page config document.
type PublicPage struct {
	Event   *Event          `json:"event"`
	Config  json.RawMessage `json:"config"`
	Preview bool            `json:"preview"`
}

// PageConfigService defines page config editing, publishing, and public lookup.
type PageConfigService interface {
	Get(ctx context.Context, eventID, callerID string) (*PageConfigRecord, error)
	// Put validates and migrates the raw document before saving the draft.
	// It returns the stored record and a human-readable change summary.
	Put(ctx context.Context, eventID, callerID string, raw json.RawMessage) (*PageConfigRecord, string, error)
	Publish(ctx context.Context, eventID, callerID string) (*PageConfigRecord, error)
	CreatePreviewToken(ctx context.Context, eventID, callerID string) (token string, expiresAt time.Time, err error)
	// GetPublicPage serves the published page for a PUBLISHED event, or the
	// draft when a valid preview token is presented.
	GetPublicPage(ctx context.Context, slug, previewToken string) (*PublicPage, error)
}
