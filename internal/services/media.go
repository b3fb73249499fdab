package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventpages/internal/domain"
)

type mediaService struct {
	mediaRepo      domain.MediaAssetRepository
	blobs          domain.BlobStore
	access         eventAccess
	maxUploadBytes int64
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewMediaService(mediaRepo domain.MediaAssetRepository,
	eventRepo domain.EventRepository,
	collabRepo domain.EventCollaboratorRepository,
	blobs domain.BlobStore,
	maxUploadBytes int64,
	logger *slog.Logger,
	timeout time.Duration,
) domain.MediaService {
	return &mediaService{
		mediaRepo:      mediaRepo,
		blobs:          blobs,
		access:         eventAccess{eventRepo: eventRepo, collabRepo: collabRepo},
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *mediaService) Upload(ctx context.Context, eventID, callerID string, upload domain.MediaUpload) (*domain.MediaAssetWithURL, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.access.require(ctx, eventID, callerID, accessEditor); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return nil, fmt.Errorf("%w: only image uploads are accepted, got %q", domain.ErrInvalidInput, upload.ContentType)
	}
	if upload.SizeBytes <= 0 {
		return nil, fmt.Errorf("%w: empty upload", domain.ErrInvalidInput)
	}
	if upload.SizeBytes > s.maxUploadBytes {
		return nil, fmt.Errorf("%w: upload exceeds %d bytes", domain.ErrInvalidInput, s.maxUploadBytes)
	}

	ext := strings.ToLower(filepath.Ext(upload.FileName))
	objectKey := fmt.Sprintf("events/%s/%s%s", eventID, uuid.NewString(), ext)

	if err := s.blobs.Put(ctx, objectKey, upload.Body, upload.SizeBytes, upload.ContentType); err != nil {
		return nil, fmt.Errorf("store object: %w", err)
	}

	asset := &domain.MediaAsset{
		EventID:     eventID,
		ObjectKey:   objectKey,
		FileName:    upload.FileName,
		ContentType: upload.ContentType,
		SizeBytes:   upload.SizeBytes,
		CreatedAt:   time.Now(),
	}
	if err := s.mediaRepo.Create(ctx, asset); err != nil {
		// Metadata write failed; the stored object is now orphaned.
		if rmErr := s.blobs.Remove(ctx, objectKey); rmErr != nil {
			s.logger.Error("remove orphaned object", "object_key", objectKey, "error", rmErr)
		}
		return nil, fmt.Errorf("save media asset: %w", err)
	}
	return &domain.MediaAssetWithURL{Asset: asset, URL: s.blobs.URL(objectKey)}, nil
}

func (s *mediaService) List(ctx context.Context, eventID, callerID string) ([]*domain.MediaAssetWithURL, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.access.require(ctx, eventID, callerID, accessEditor); err != nil {
		return nil, err
	}
	assets, err := s.mediaRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list media assets: %w", err)
	}
	out := make([]*domain.MediaAssetWithURL, 0, len(assets))
	for _, a := range assets {
		out = append(out, &domain.MediaAssetWithURL{Asset: a, URL: s.blobs.URL(a.ObjectKey)})
	}
	return out, nil
}

func (s *mediaService) Delete(ctx context.Context, eventID, mediaID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.access.require(ctx, eventID, callerID, accessEditor); err != nil {
		return err
	}
	asset, err := s.mediaRepo.GetByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get media asset: %w", err)
	}
	if asset.EventID != eventID {
		return domain.ErrNotFound
	}
	if err := s.mediaRepo.Delete(ctx, mediaID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete media asset: %w", err)
	}
	if err := s.blobs.Remove(ctx, asset.ObjectKey); err != nil {
		// Row is gone; log the stray object instead of failing the request.
		s.logger.Error("remove object", "object_key", asset.ObjectKey, "error", err)
	}
	return nil
}
