package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"eventpages/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	collabRepo     domain.EventCollaboratorRepository
	userRepo       domain.UserRepository
	pageConfigRepo domain.PageConfigRepository
	access         eventAccess
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	collabRepo domain.EventCollaboratorRepository,
	userRepo domain.UserRepository,
	pageConfigRepo domain.PageConfigRepository,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		collabRepo:     collabRepo,
		userRepo:       userRepo,
		pageConfigRepo: pageConfigRepo,
		access:         eventAccess{eventRepo: eventRepo, collabRepo: collabRepo},
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, ownerID, name, eventType string, startsAt time.Time) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if ownerID == "" {
		return nil, fmt.Errorf("%w: event owner is required", domain.ErrInvalidInput)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: event name is required", domain.ErrInvalidInput)
	}
	switch eventType {
	case domain.EventTypeWedding, domain.EventTypeConference, domain.EventTypeParty:
	default:
		return nil, fmt.Errorf("%w: unknown event type %q", domain.ErrInvalidInput, eventType)
	}

	now := time.Now()
	event := domain.NewEvent(ownerID, name, eventType, startsAt, now, now)

	// Slug collisions are possible with a random suffix, retry a few times.
	for attempt := 0; attempt < 3; attempt++ {
		slug, err := generateSlug(name)
		if err != nil {
			return nil, fmt.Errorf("generate slug: %w", err)
		}
		event.Slug = slug
		err = s.eventRepo.Create(ctx, event)
		if err == nil {
			return event, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("create event: %w", err)
		}
	}
	return nil, fmt.Errorf("create event: %w", domain.ErrConflict)
}

const slugSuffixLength = 6

var slugSuffixAlphabet = []rune("abcdefghijklmnopqrstuvwxyz0123456789")

// generateSlug lowercases the event name, keeps alphanumerics as hyphen-joined
// words and appends a random suffix so distinct events can share a name.
func generateSlug(name string) (string, error) {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	base := strings.Trim(b.String(), "-")
	if len(base) > 48 {
		base = strings.Trim(base[:48], "-")
	}

	suffix := make([]rune, slugSuffixLength)
	max := big.NewInt(int64(len(slugSuffixAlphabet)))
	for i := 0; i < slugSuffixLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		suffix[i] = slugSuffixAlphabet[n.Int64()]
	}
	if base == "" {
		return string(suffix), nil
	}
	return base + "-" + string(suffix), nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.access.require(ctx, eventID, callerID, accessEditor)
}

func (s *eventService) ListMyEvents(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, callerID string, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.access.require(ctx, eventID, callerID, accessAdmin); err != nil {
		return nil, err
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, fmt.Errorf("%w: event name cannot be empty", domain.ErrInvalidInput)
	}
	updated, err := s.eventRepo.Update(ctx, eventID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.access.require(ctx, eventID, callerID, accessOwner); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) PublishEvent(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.access.require(ctx, eventID, callerID, accessOwner)
	if err != nil {
		return nil, err
	}
	if event.Status == domain.EventStatusArchived {
		return nil, fmt.Errorf("%w: archived events cannot be published", domain.ErrConflict)
	}
	// A published page must have content behind it.
	if _, err := s.pageConfigRepo.GetByEventID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: event has no page config", domain.ErrConflict)
		}
		return nil, fmt.Errorf("get page config: %w", err)
	}
	return s.setStatus(ctx, eventID, domain.EventStatusPublished)
}

func (s *eventService) UnpublishEvent(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.access.require(ctx, eventID, callerID, accessOwner)
	if err != nil {
		return nil, err
	}
	if event.Status != domain.EventStatusPublished {
		return nil, fmt.Errorf("%w: event is not published", domain.ErrConflict)
	}
	return s.setStatus(ctx, eventID, domain.EventStatusDraft)
}

func (s *eventService) ArchiveEvent(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.access.require(ctx, eventID, callerID, accessOwner); err != nil {
		return nil, err
	}
	return s.setStatus(ctx, eventID, domain.EventStatusArchived)
}

func (s *eventService) setStatus(ctx context.Context, eventID, status string) (*domain.Event, error) {
	if err := s.eventRepo.UpdateStatus(ctx, eventID, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event status: %w", err)
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetPublicEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event by slug: %w", err)
	}
	if event.Status != domain.EventStatusPublished {
		return nil, domain.ErrNotFound
	}
	return event, nil
}

func (s *eventService) AddCollaboratorByEmail(ctx context.Context, eventID, email, role, ownerID string) (*domain.EventCollaborator, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.access.require(ctx, eventID, ownerID, accessOwner); err != nil {
		return nil, err
	}
	switch role {
	case domain.CollaboratorRoleAdmin, domain.CollaboratorRoleEditor:
	default:
		return nil, fmt.Errorf("%w: unknown collaborator role %q", domain.ErrInvalidInput, role)
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: no account for %s", domain.ErrNotFound, email)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if user.ID == ownerID {
		return nil, fmt.Errorf("%w: owner is already a member", domain.ErrAlreadyMember)
	}

	if err := s.collabRepo.Add(ctx, eventID, user.ID, role); err != nil {
		if errors.Is(err, domain.ErrAlreadyMember) {
			return nil, domain.ErrAlreadyMember
		}
		return nil, fmt.Errorf("add collaborator: %w", err)
	}
	return &domain.EventCollaborator{
		EventID:  eventID,
		UserID:   user.ID,
		Role:     role,
		Name:     user.Name,
		LastName: user.LastName,
		Email:    user.Email,
	}, nil
}

func (s *eventService) ListCollaborators(ctx context.Context, eventID, callerID string) ([]*domain.EventCollaborator, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.access.require(ctx, eventID, callerID, accessAdmin); err != nil {
		return nil, err
	}
	members, err := s.collabRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list collaborators: %w", err)
	}
	if members == nil {
		members = []*domain.EventCollaborator{}
	}
	return members, nil
}

func (s *eventService) RemoveCollaborator(ctx context.Context, eventID, userID, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.access.require(ctx, eventID, ownerID, accessOwner); err != nil {
		return err
	}
	if err := s.collabRepo.Remove(ctx, eventID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("remove collaborator: %w", err)
	}
	return nil
}
