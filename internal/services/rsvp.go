package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eventpages/internal/domain"
)

type rsvpService struct {
	rsvpRepo       domain.RSVPRepository
	inviteRepo     domain.InviteRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	outbox         domain.OutboxEnqueuer
	tokens         domain.InviteTokenSource
	access         eventAccess
	contextTimeout time.Duration
}

func NewRSVPService(rsvpRepo domain.RSVPRepository,
	inviteRepo domain.InviteRepository,
	eventRepo domain.EventRepository,
	collabRepo domain.EventCollaboratorRepository,
	userRepo domain.UserRepository,
	outbox domain.OutboxEnqueuer,
	tokens domain.InviteTokenSource,
	timeout time.Duration,
) domain.RSVPService {
	return &rsvpService{
		rsvpRepo:       rsvpRepo,
		inviteRepo:     inviteRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		outbox:         outbox,
		tokens:         tokens,
		access:         eventAccess{eventRepo: eventRepo, collabRepo: collabRepo},
		contextTimeout: timeout,
	}
}

// resolve looks the invite up by the hash of the presented token. Unknown,
// tampered, and revoked tokens all come back as ErrNotFound so the public
// endpoint leaks nothing about which invites exist.
func (s *rsvpService) resolve(ctx context.Context, token string) (*domain.Invite, *domain.Event, error) {
	if token == "" {
		return nil, nil, domain.ErrNotFound
	}
	inv, err := s.inviteRepo.GetByTokenHash(ctx, s.tokens.Hash(token))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get invite by token: %w", err)
	}
	if !s.tokens.Equal(inv.TokenHash, s.tokens.Hash(token)) {
		return nil, nil, domain.ErrNotFound
	}
	if inv.Status == domain.InviteStatusRevoked {
		return nil, nil, domain.ErrNotFound
	}
	event, err := s.eventRepo.GetByID(ctx, inv.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}
	if event.Status != domain.EventStatusPublished {
		return nil, nil, domain.ErrNotFound
	}
	return inv, event, nil
}

func (s *rsvpService) ResolveInvite(ctx context.Context, token string) (*domain.InviteResolution, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	inv, event, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	res := &domain.InviteResolution{Invite: inv, Event: event}
	rsvp, err := s.rsvpRepo.GetByInviteID(ctx, inv.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get rsvp: %w", err)
		}
	} else {
		res.RSVP = rsvp
	}
	return res, nil
}

func (s *rsvpService) Submit(ctx context.Context, token, response string, guestCount int, notes *string) (*domain.RSVP, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	switch response {
	case domain.RSVPResponseYes, domain.RSVPResponseNo, domain.RSVPResponseMaybe:
	default:
		return nil, fmt.Errorf("%w: unknown response %q", domain.ErrInvalidInput, response)
	}

	inv, event, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	if guestCount < 1 {
		guestCount = 1
	}
	if guestCount > inv.MaxGuests {
		guestCount = inv.MaxGuests
	}
	if response == domain.RSVPResponseNo {
		guestCount = 0
	}

	now := time.Now()
	rsvp := &domain.RSVP{
		InviteID:   inv.ID,
		EventID:    inv.EventID,
		Response:   response,
		GuestCount: guestCount,
		Notes:      notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.rsvpRepo.Upsert(ctx, rsvp); err != nil {
		return nil, fmt.Errorf("upsert rsvp: %w", err)
	}
	if inv.Status != domain.InviteStatusResponded {
		if err := s.inviteRepo.UpdateStatus(ctx, inv.ID, domain.InviteStatusResponded); err != nil {
			return nil, fmt.Errorf("mark invite responded: %w", err)
		}
	}
	if err := s.enqueueConfirmation(ctx, event, inv, rsvp); err != nil {
		return nil, err
	}
	if err := s.enqueueNotification(ctx, event, inv, rsvp); err != nil {
		return nil, err
	}
	return rsvp, nil
}

func (s *rsvpService) enqueueConfirmation(ctx context.Context, event *domain.Event, inv *domain.Invite, rsvp *domain.RSVP) error {
	payload, err := json.Marshal(domain.RSVPConfirmationEmailData{
		GuestName:  inv.GuestName,
		EventName:  event.Name,
		Response:   rsvp.Response,
		GuestCount: rsvp.GuestCount,
	})
	if err != nil {
		return fmt.Errorf("marshal confirmation payload: %w", err)
	}
	row := &domain.EmailOutbox{
		EventID:   &event.ID,
		InviteID:  &inv.ID,
		Recipient: inv.GuestEmail,
		Template:  domain.EmailTemplateRSVPConfirmation,
		Payload:   payload,
		Status:    domain.OutboxStatusQueued,
		CreatedAt: time.Now(),
	}
	if err := s.outbox.Enqueue(ctx, row); err != nil {
		return fmt.Errorf("enqueue rsvp confirmation: %w", err)
	}
	return nil
}

func (s *rsvpService) enqueueNotification(ctx context.Context, event *domain.Event, inv *domain.Invite, rsvp *domain.RSVP) error {
	owner, err := s.userRepo.GetByID(ctx, event.OwnerID)
	if err != nil {
		return fmt.Errorf("get event owner: %w", err)
	}
	notes := ""
	if rsvp.Notes != nil {
		notes = *rsvp.Notes
	}
	payload, err := json.Marshal(domain.RSVPNotificationEmailData{
		OrganizerName: owner.Name,
		GuestName:     inv.GuestName,
		EventName:     event.Name,
		Response:      rsvp.Response,
		GuestCount:    rsvp.GuestCount,
		Notes:         notes,
	})
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	row := &domain.EmailOutbox{
		EventID:   &event.ID,
		InviteID:  &inv.ID,
		Recipient: owner.Email,
		Template:  domain.EmailTemplateRSVPNotification,
		Payload:   payload,
		Status:    domain.OutboxStatusQueued,
		CreatedAt: time.Now(),
	}
	if err := s.outbox.Enqueue(ctx, row); err != nil {
		return fmt.Errorf("enqueue rsvp notification: %w", err)
	}
	return nil
}

func (s *rsvpService) Summary(ctx context.Context, eventID, callerID string) (*domain.RSVPSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.access.require(ctx, eventID, callerID, accessAdmin); err != nil {
		return nil, err
	}
	summary, err := s.rsvpRepo.Summary(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("rsvp summary: %w", err)
	}
	return summary, nil
}
