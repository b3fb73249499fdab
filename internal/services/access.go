package services

import (
	"context"
	"errors"
	"fmt"

	"eventpages/internal/domain"
)

// accessLevel orders what a caller may do on an event: editors can change
// page content, admins additionally manage guests, the owner everything.
type accessLevel int

const (
	accessEditor accessLevel = iota + 1
	accessAdmin
	accessOwner
)

// eventAccess resolves an event and checks the caller's level against it.
// All services that act on one event share this check.
type eventAccess struct {
	eventRepo  domain.EventRepository
	collabRepo domain.EventCollaboratorRepository
}

// require loads the event and returns it only when the caller holds at least
// the needed access level. Missing events are ErrNotFound; insufficient
// access is ErrForbidden.
func (a eventAccess) require(ctx context.Context, eventID, callerID string, need accessLevel) (*domain.Event, error) {
	event, err := a.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID == callerID {
		return event, nil
	}
	if need == accessOwner {
		return nil, domain.ErrForbidden
	}
	role, err := a.collabRepo.GetRole(ctx, eventID, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, fmt.Errorf("get collaborator role: %w", err)
	}
	var have accessLevel
	switch role {
	case domain.CollaboratorRoleAdmin:
		have = accessAdmin
	case domain.CollaboratorRoleEditor:
		have = accessEditor
	}
	if have < need {
		return nil, domain.ErrForbidden
	}
	return event, nil
}
