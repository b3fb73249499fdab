package domain

import (
	"context"
	"errors"
)

// ErrAlreadyMember is returned when adding a user who is already a collaborator on the event.
var ErrAlreadyMember = errors.New("already a collaborator")

// Collaborator roles. ADMIN may manage invites and page config;
// EDITOR may edit the page config only.
const (
	CollaboratorRoleAdmin  = "ADMIN"
	CollaboratorRoleEditor = "EDITOR"
)

// EventCollaborator represents a user who helps manage an event (excluding the owner).
// swagger:model EventCollaborator
type EventCollaborator struct {
	EventID  string `json:"event_id"`
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Email    string `json:"email"`
}

// EventCollaboratorRepository defines the interface for collaborator storage.
type EventCollaboratorRepository interface {
	Add(ctx context.Context, eventID, userID, role string) error
	GetRole(ctx context.Context, eventID, userID string) (string, error)
	ListByEventID(ctx context.Context, eventID string) ([]*EventCollaborator, error)
	Remove(ctx context.Context, eventID, userID string) error
}
