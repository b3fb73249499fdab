// Package blob implements the media BlobStore on MinIO/S3-compatible object storage.
package blob

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"

	"eventpages/config"
	"eventpages/internal/domain"
)

type minioStore struct {
	client *minio.Client
	bucket string
	useTLS bool
	host   string
}

// NewMinioStore connects to the configured object storage endpoint and
// ensures the media bucket exists.
func NewMinioStore(ctx context.Context, cfg config.MediaConfig) (domain.BlobStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  miniocreds.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.Bucket, err)
		}
	}
	return &minioStore{
		client: client,
		bucket: cfg.Bucket,
		useTLS: cfg.UseTLS,
		host:   cfg.Endpoint,
	}, nil
}

func (s *minioStore) Put(ctx context.Context, objectKey string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectKey, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to store object %q: %w", objectKey, err)
	}
	return nil
}

func (s *minioStore) Remove(ctx context.Context, objectKey string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %q: %w", objectKey, err)
	}
	return nil
}

// URL returns the direct bucket URL. Buckets are assumed public-read; the
// page renders images straight from object storage.
func (s *minioStore) URL(objectKey string) string {
	scheme := "http"
	if s.useTLS {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.host, s.bucket, objectKey)
}
