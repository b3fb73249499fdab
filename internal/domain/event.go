package domain

import (
	"context"
	"time"
)

// Event type constants.
const (
	EventTypeWedding    = "WEDDING"
	EventTypeConference = "CONFERENCE"
	EventTypeParty      = "PARTY"
)

// Event lifecycle states.
const (
	EventStatusDraft     = "DRAFT"
	EventStatusPublished = "PUBLISHED"
	EventStatusArchived  = "ARCHIVED"
)

// Event represents an organizer-created occasion with a public invitation page.
// swagger:model Event
type Event struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"owner_id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	EventType    string     `json:"event_type"`
	Status       string     `json:"status"`
	StartsAt     time.Time  `json:"starts_at"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	VenueName    *string    `json:"venue_name,omitempty"`
	VenueAddress *string    `json:"venue_address,omitempty"`
	Description  *string    `json:"description,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewEvent returns a new DRAFT Event. ID and Slug are typically set by the
// service/repository on create.
func NewEvent(ownerID, name, eventType string, startsAt time.Time, createdAt, updatedAt time.Time) *Event {
	return &Event{
		OwnerID:   ownerID,
		Name:      name,
		EventType: eventType,
		Status:    EventStatusDraft,
		StartsAt:  startsAt,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// EventUpdate carries the optional fields of a partial event update.
// Nil fields are left unchanged.
type EventUpdate struct {
	Name         *string
	StartsAt     *time.Time
	EndsAt       *time.Time
	VenueName    *string
	VenueAddress *string
	Description  *string
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Event, error)
	// ListPublishedStartingBetween returns PUBLISHED events whose starts_at
	// falls inside [from, to), for reminder fan-out.
	ListPublishedStartingBetween(ctx context.Context, from, to time.Time) ([]*Event, error)
	Update(ctx context.Context, eventID string, upd EventUpdate) (*Event, error)
	UpdateStatus(ctx context.Context, eventID, status string) error
	Delete(ctx context.Context, id string) error
}

// EventService defines organizer-facing event operations.
type EventService interface {
	// CreateEvent creates a DRAFT event with a generated unique slug.
	CreateEvent(ctx context.Context, ownerID, name, eventType string, startsAt time.Time) (*Event, error)
	GetEvent(ctx context.Context, eventID, callerID string) (*Event, error)
	ListMyEvents(ctx context.Context, ownerID string) ([]*Event, error)
	UpdateEvent(ctx context.Context, eventID, callerID string, upd EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, eventID, ownerID string) error

	// PublishEvent moves a DRAFT event to PUBLISHED. It fails with ErrConflict
	// if the event has no saved page config.
	PublishEvent(ctx context.Context, eventID, callerID string) (*Event, error)
	UnpublishEvent(ctx context.Context, eventID, callerID string) (*Event, error)
	// ArchiveEvent is terminal; archived events never reappear publicly.
	ArchiveEvent(ctx context.Context, eventID, callerID string) (*Event, error)

	// GetPublicEventBySlug returns the event only if it is PUBLISHED.
	GetPublicEventBySlug(ctx context.Context, slug string) (*Event, error)

	// Collaborators.
	AddCollaboratorByEmail(ctx context.Context, eventID, email, role, ownerID string) (*EventCollaborator, error)
	ListCollaborators(ctx context.Context, eventID, callerID string) ([]*EventCollaborator, error)
	RemoveCollaborator(ctx context.Context, eventID, userID, ownerID string) error
}
