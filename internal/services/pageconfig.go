package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventpages/internal/domain"
	"eventpages/internal/pageconfig"
)

const previewTokenTTL = time.Hour

type pageConfigService struct {
	pageConfigRepo domain.PageConfigRepository
	previewRepo    domain.PreviewTokenRepository
	eventRepo      domain.EventRepository
	tokens         domain.InviteTokenSource
	access         eventAccess
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewPageConfigService(pageConfigRepo domain.PageConfigRepository,
	previewRepo domain.PreviewTokenRepository,
	eventRepo domain.EventRepository,
	collabRepo domain.EventCollaboratorRepository,
	tokens domain.InviteTokenSource,
	logger *slog.Logger,
	timeout time.Duration,
) domain.PageConfigService {
	return &pageConfigService{
		pageConfigRepo: pageConfigRepo,
		previewRepo:    previewRepo,
		eventRepo:      eventRepo,
		tokens:         tokens,
		access:         eventAccess{eventRepo: eventRepo, collabRepo: collabRepo},
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *pageConfigService) Get(ctx context.Context, eventID, callerID string) (*domain.PageConfigRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.access.require(ctx, eventID, callerID, accessEditor); err != nil {
		return nil, err
	}
	rec, err := s.pageConfigRepo.GetByEventID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get page config: %w", err)
	}
	return rec, nil
}

func (s *pageConfigService) Put(ctx context.Context, eventID, callerID string, raw json.RawMessage) (*domain.PageConfigRecord, string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.access.require(ctx, eventID, callerID, accessEditor); err != nil {
		return nil, "", err
	}

	doc, err := pageconfig.ValidateAndMigrate(raw)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, "", fmt.Errorf("marshal page config: %w", err)
	}

	var previous *pageconfig.Document
	if existing, err := s.pageConfigRepo.GetByEventID(ctx, eventID); err == nil {
		var old pageconfig.Document
		if err := json.Unmarshal(existing.Config, &old); err == nil {
			previous = &old
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", fmt.Errorf("get page config: %w", err)
	}

	rec := &domain.PageConfigRecord{
		EventID:       eventID,
		SchemaVersion: doc.SchemaVersion,
		Config:        normalized,
		UpdatedAt:     time.Now(),
	}
	if err := s.pageConfigRepo.Upsert(ctx, rec); err != nil {
		return nil, "", fmt.Errorf("save page config: %w", err)
	}

	summary := pageconfig.Compare(previous, doc).Summary()
	s.logger.Info("page config updated",
		"event_id", eventID,
		"user_id", callerID,
		"changes", summary)
	return rec, summary, nil
}

func (s *pageConfigService) Publish(ctx context.Context, eventID, callerID string) (*domain.PageConfigRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.access.require(ctx, eventID, callerID, accessAdmin); err != nil {
		return nil, err
	}
	rec, err := s.pageConfigRepo.Publish(ctx, eventID, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: event has no page config", domain.ErrConflict)
		}
		return nil, fmt.Errorf("publish page config: %w", err)
	}
	return rec, nil
}

func (s *pageConfigService) CreatePreviewToken(ctx context.Context, eventID, callerID string) (string, time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.access.require(ctx, eventID, callerID, accessEditor); err != nil {
		return "", time.Time{}, err
	}
	token, tokenHash, err := s.tokens.GeneratePair()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate preview token: %w", err)
	}
	expiresAt := time.Now().Add(previewTokenTTL)
	tok := &domain.PreviewToken{
		EventID:   eventID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	if err := s.previewRepo.Create(ctx, tok); err != nil {
		return "", time.Time{}, fmt.Errorf("save preview token: %w", err)
	}
	return token, expiresAt, nil
}

func (s *pageConfigService) GetPublicPage(ctx context.Context, slug, previewToken string) (*domain.PublicPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event by slug: %w", err)
	}

	preview := false
	if previewToken != "" {
		if _, err := s.previewRepo.GetValid(ctx, event.ID, s.tokens.Hash(previewToken), time.Now()); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("get preview token: %w", err)
		}
		preview = true
	}
	if !preview && event.Status != domain.EventStatusPublished {
		return nil, domain.ErrNotFound
	}

	rec, err := s.pageConfigRepo.GetByEventID(ctx, event.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get page config: %w", err)
	}

	config := rec.PublishedConfig
	if preview {
		config = rec.Config
	}
	if len(config) == 0 {
		return nil, domain.ErrNotFound
	}
	return &domain.PublicPage{Event: event, Config: config, Preview: preview}, nil
}
