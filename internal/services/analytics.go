package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventpages/internal/domain"
)

type analyticsService struct {
	analyticsRepo  domain.AnalyticsRepository
	eventRepo      domain.EventRepository
	inviteRepo     domain.InviteRepository
	rsvpRepo       domain.RSVPRepository
	tokens         domain.InviteTokenSource
	access         eventAccess
	contextTimeout time.Duration
}

func NewAnalyticsService(analyticsRepo domain.AnalyticsRepository,
	eventRepo domain.EventRepository,
	collabRepo domain.EventCollaboratorRepository,
	inviteRepo domain.InviteRepository,
	rsvpRepo domain.RSVPRepository,
	tokens domain.InviteTokenSource,
	timeout time.Duration,
) domain.AnalyticsService {
	return &analyticsService{
		analyticsRepo:  analyticsRepo,
		eventRepo:      eventRepo,
		inviteRepo:     inviteRepo,
		rsvpRepo:       rsvpRepo,
		tokens:         tokens,
		access:         eventAccess{eventRepo: eventRepo, collabRepo: collabRepo},
		contextTimeout: timeout,
	}
}

func (s *analyticsService) Track(ctx context.Context, eventSlug, kind string, inviteToken, userAgent string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	switch kind {
	case domain.PageEventKindPageView, domain.PageEventKindRSVPOpen:
	default:
		return fmt.Errorf("%w: unknown event kind %q", domain.ErrInvalidInput, kind)
	}

	event, err := s.eventRepo.GetBySlug(ctx, eventSlug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event by slug: %w", err)
	}
	if event.Status != domain.EventStatusPublished {
		return domain.ErrNotFound
	}

	ev := &domain.PageViewEvent{
		EventID:    event.ID,
		Kind:       kind,
		OccurredAt: time.Now(),
	}
	if userAgent != "" {
		ev.UserAgent = &userAgent
	}
	// A bad invite token does not block the view from being counted.
	if inviteToken != "" {
		inv, err := s.inviteRepo.GetByTokenHash(ctx, s.tokens.Hash(inviteToken))
		if err == nil && inv.EventID == event.ID {
			ev.InviteID = &inv.ID
		} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("resolve invite token: %w", err)
		}
	}

	if err := s.analyticsRepo.Insert(ctx, ev); err != nil {
		return fmt.Errorf("insert page event: %w", err)
	}
	return nil
}

func (s *analyticsService) Stats(ctx context.Context, eventID, callerID string) (*domain.EventStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.access.require(ctx, eventID, callerID, accessAdmin); err != nil {
		return nil, err
	}

	views, err := s.analyticsRepo.CountByKind(ctx, eventID, domain.PageEventKindPageView)
	if err != nil {
		return nil, fmt.Errorf("count page views: %w", err)
	}
	opens, err := s.analyticsRepo.CountByKind(ctx, eventID, domain.PageEventKindRSVPOpen)
	if err != nil {
		return nil, fmt.Errorf("count rsvp opens: %w", err)
	}
	invites, err := s.inviteRepo.CountByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("count invites: %w", err)
	}
	summary, err := s.rsvpRepo.Summary(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("rsvp summary: %w", err)
	}

	return &domain.EventStats{
		PageViews:    views,
		RSVPOpens:    opens,
		InvitesTotal: invites,
		RSVPSummary:  summary,
	}, nil
}
