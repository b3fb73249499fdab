package domain

import (
	"context"
	"io"
	"time"
)

// MediaAsset is an uploaded file (gallery image, hero background) attached to an event.
// swagger:model MediaAsset
type MediaAsset struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	ObjectKey   string    `json:"object_key"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// BlobStore abstracts the object storage backing media uploads (infrastructure port).
type BlobStore interface {
	Put(ctx context.Context, objectKey string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, objectKey string) error
	// URL returns a browser-reachable URL for the object.
	URL(objectKey string) string
}

// MediaAssetRepository defines storage operations for media asset metadata.
type MediaAssetRepository interface {
	Create(ctx context.Context, asset *MediaAsset) error
	GetByID(ctx context.Context, id string) (*MediaAsset, error)
	ListByEventID(ctx context.Context, eventID string) ([]*MediaAsset, error)
	Delete(ctx context.Context, id string) error
}

// MediaUpload is the input for a media upload.
type MediaUpload struct {
	FileName    string
	ContentType string
	SizeBytes   int64
	Body        io.Reader
}

// MediaAssetWithURL bundles an asset with its public URL for API responses.
type MediaAssetWithURL struct {
	Asset *MediaAsset `json:"asset"`
	URL   string      `json:"url"`
}

// MediaService defines media asset operations for organizers.
type MediaService interface {
	Upload(ctx context.Context, eventID, callerID string, upload MediaUpload) (*MediaAssetWithURL, error)
	List(ctx context.Context, eventID, callerID string) ([]*MediaAssetWithURL, error)
	Delete(ctx context.Context, eventID, mediaID, callerID string) error
}
