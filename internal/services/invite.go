package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"eventpages/internal/domain"
)

const maxGuestsPerInvite = 20

type inviteService struct {
	inviteRepo     domain.InviteRepository
	userRepo       domain.UserRepository
	outbox         domain.OutboxEnqueuer
	tokens         domain.InviteTokenSource
	access         eventAccess
	publicBaseURL  string
	contextTimeout time.Duration
}

func NewInviteService(inviteRepo domain.InviteRepository,
	eventRepo domain.EventRepository,
	collabRepo domain.EventCollaboratorRepository,
	userRepo domain.UserRepository,
	outbox domain.OutboxEnqueuer,
	tokens domain.InviteTokenSource,
	publicBaseURL string,
	timeout time.Duration,
) domain.InviteService {
	return &inviteService{
		inviteRepo:     inviteRepo,
		userRepo:       userRepo,
		outbox:         outbox,
		tokens:         tokens,
		access:         eventAccess{eventRepo: eventRepo, collabRepo: collabRepo},
		publicBaseURL:  strings.TrimRight(publicBaseURL, "/"),
		contextTimeout: timeout,
	}
}

func (s *inviteService) rsvpLink(token string) string {
	return s.publicBaseURL + "/rsvp/" + token
}

func (s *inviteService) CreateInvites(ctx context.Context, eventID, callerID string, guests []domain.InviteGuest) ([]*domain.CreatedInvite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.access.require(ctx, eventID, callerID, accessAdmin)
	if err != nil {
		return nil, err
	}
	if len(guests) == 0 {
		return nil, fmt.Errorf("%w: at least one guest is required", domain.ErrInvalidInput)
	}
	for _, g := range guests {
		if strings.TrimSpace(g.Name) == "" {
			return nil, fmt.Errorf("%w: guest name is required", domain.ErrInvalidInput)
		}
		if _, err := mail.ParseAddress(g.Email); err != nil {
			return nil, fmt.Errorf("%w: invalid guest email %q", domain.ErrInvalidInput, g.Email)
		}
		if g.MaxGuests < 1 || g.MaxGuests > maxGuestsPerInvite {
			return nil, fmt.Errorf("%w: max_guests must be between 1 and %d", domain.ErrInvalidInput, maxGuestsPerInvite)
		}
	}

	host, err := s.userRepo.GetByID(ctx, event.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("get event owner: %w", err)
	}

	created := make([]*domain.CreatedInvite, 0, len(guests))
	for _, g := range guests {
		token, tokenHash, err := s.tokens.GeneratePair()
		if err != nil {
			return nil, fmt.Errorf("generate invite token: %w", err)
		}
		now := time.Now()
		inv := &domain.Invite{
			EventID:    eventID,
			GuestName:  strings.TrimSpace(g.Name),
			GuestEmail: strings.ToLower(strings.TrimSpace(g.Email)),
			TokenHash:  tokenHash,
			Status:     domain.InviteStatusPending,
			MaxGuests:  g.MaxGuests,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.inviteRepo.Create(ctx, inv); err != nil {
			return nil, fmt.Errorf("create invite: %w", err)
		}
		if err := s.enqueueGuestInvite(ctx, event, host, inv, token); err != nil {
			return nil, err
		}
		created = append(created, &domain.CreatedInvite{Invite: inv, Token: token})
	}
	return created, nil
}

func (s *inviteService) enqueueGuestInvite(ctx context.Context, event *domain.Event, host *domain.User, inv *domain.Invite, token string) error {
	payload, err := json.Marshal(domain.GuestInviteEmailData{
		GuestName: inv.GuestName,
		EventName: event.Name,
		HostName:  host.Name,
		RSVPLink:  s.rsvpLink(token),
	})
	if err != nil {
		return fmt.Errorf("marshal invite payload: %w", err)
	}
	row := &domain.EmailOutbox{
		EventID:   &event.ID,
		InviteID:  &inv.ID,
		Recipient: inv.GuestEmail,
		Template:  domain.EmailTemplateGuestInvite,
		Payload:   payload,
		Status:    domain.OutboxStatusQueued,
		CreatedAt: time.Now(),
	}
	if err := s.outbox.Enqueue(ctx, row); err != nil {
		return fmt.Errorf("enqueue invite email: %w", err)
	}
	return nil
}

func (s *inviteService) ListInvites(ctx context.Context, eventID, callerID, search string, params domain.PaginationParams) ([]*domain.Invite, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.access.require(ctx, eventID, callerID, accessAdmin); err != nil {
		return nil, 0, err
	}
	invites, total, err := s.inviteRepo.List(ctx, eventID, strings.TrimSpace(search), params)
	if err != nil {
		return nil, 0, fmt.Errorf("list invites: %w", err)
	}
	if invites == nil {
		invites = []*domain.Invite{}
	}
	return invites, total, nil
}

func (s *inviteService) RevokeInvite(ctx context.Context, eventID, inviteID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.access.require(ctx, eventID, callerID, accessAdmin); err != nil {
		return err
	}
	inv, err := s.getEventInvite(ctx, eventID, inviteID)
	if err != nil {
		return err
	}
	if inv.Status == domain.InviteStatusRevoked {
		return nil
	}
	if err := s.inviteRepo.UpdateStatus(ctx, inviteID, domain.InviteStatusRevoked); err != nil {
		return fmt.Errorf("revoke invite: %w", err)
	}
	return nil
}

func (s *inviteService) ResendInvite(ctx context.Context, eventID, inviteID, callerID string) (*domain.CreatedInvite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.access.require(ctx, eventID, callerID, accessAdmin)
	if err != nil {
		return nil, err
	}
	inv, err := s.getEventInvite(ctx, eventID, inviteID)
	if err != nil {
		return nil, err
	}
	if inv.Status == domain.InviteStatusRevoked {
		return nil, fmt.Errorf("%w: invite is revoked", domain.ErrConflict)
	}

	// Rotating the token invalidates any previously mailed link.
	token, tokenHash, err := s.tokens.GeneratePair()
	if err != nil {
		return nil, fmt.Errorf("generate invite token: %w", err)
	}
	if err := s.inviteRepo.UpdateToken(ctx, inviteID, tokenHash); err != nil {
		return nil, fmt.Errorf("rotate invite token: %w", err)
	}
	inv.TokenHash = tokenHash

	host, err := s.userRepo.GetByID(ctx, event.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("get event owner: %w", err)
	}
	if err := s.enqueueGuestInvite(ctx, event, host, inv, token); err != nil {
		return nil, err
	}
	return &domain.CreatedInvite{Invite: inv, Token: token}, nil
}

func (s *inviteService) getEventInvite(ctx context.Context, eventID, inviteID string) (*domain.Invite, error) {
	inv, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invite: %w", err)
	}
	if inv.EventID != eventID {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}
