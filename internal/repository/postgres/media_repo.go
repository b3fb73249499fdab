package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventpages/internal/domain"
)

type mediaAssetRepository struct {
	DB *sql.DB
}

func NewMediaAssetRepository(db *sql.DB) domain.MediaAssetRepository {
	return &mediaAssetRepository{
		DB: db,
	}
}

func (r *mediaAssetRepository) Create(ctx context.Context, asset *domain.MediaAsset) error {
	query := `
		INSERT INTO media_assets (event_id, object_key, file_name, content_type, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		asset.EventID, asset.ObjectKey, asset.FileName, asset.ContentType, asset.SizeBytes, asset.CreatedAt,
	).Scan(&asset.ID)
}

func (r *mediaAssetRepository) GetByID(ctx context.Context, id string) (*domain.MediaAsset, error) {
	query := `
		SELECT id, event_id, object_key, file_name, content_type, size_bytes, created_at
		FROM media_assets
		WHERE id = $1
	`
	asset := &domain.MediaAsset{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&asset.ID, &asset.EventID, &asset.ObjectKey, &asset.FileName, &asset.ContentType, &asset.SizeBytes, &asset.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return asset, nil
}

func (r *mediaAssetRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.MediaAsset, error) {
	query := `
		SELECT id, event_id, object_key, file_name, content_type, size_bytes, created_at
		FROM media_assets
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	assets := make([]*domain.MediaAsset, 0)
	for rows.Next() {
		asset := &domain.MediaAsset{}
		if err := rows.Scan(&asset.ID, &asset.EventID, &asset.ObjectKey, &asset.FileName, &asset.ContentType, &asset.SizeBytes, &asset.CreatedAt); err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

func (r *mediaAssetRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM media_assets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
