package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventpages/internal/domain"
)

type pageConfigRepository struct {
	DB *sql.DB
}

func NewPageConfigRepository(db *sql.DB) domain.PageConfigRepository {
	return &pageConfigRepository{
		DB: db,
	}
}

// Upsert keeps one config row per event; saving a draft overwrites the
// previous draft but never touches the published snapshot.
func (r *pageConfigRepository) Upsert(ctx context.Context, rec *domain.PageConfigRecord) error {
	query := `
		INSERT INTO event_page_configs (event_id, schema_version, config, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id) DO UPDATE
		SET schema_version = EXCLUDED.schema_version,
		    config = EXCLUDED.config,
		    updated_at = EXCLUDED.updated_at
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		rec.EventID, rec.SchemaVersion, []byte(rec.Config), rec.UpdatedAt,
	).Scan(&rec.ID)
}

func (r *pageConfigRepository) GetByEventID(ctx context.Context, eventID string) (*domain.PageConfigRecord, error) {
	query := `
		SELECT id, event_id, schema_version, config, published_config, published_at, updated_at
		FROM event_page_configs
		WHERE event_id = $1
	`
	return scanPageConfig(r.DB.QueryRowContext(ctx, query, eventID))
}

func (r *pageConfigRepository) Publish(ctx context.Context, eventID string, publishedAt time.Time) (*domain.PageConfigRecord, error) {
	query := `
		UPDATE event_page_configs
		SET published_config = config, published_at = $1
		WHERE event_id = $2
		RETURNING id, event_id, schema_version, config, published_config, published_at, updated_at
	`
	return scanPageConfig(r.DB.QueryRowContext(ctx, query, publishedAt, eventID))
}

func scanPageConfig(row *sql.Row) (*domain.PageConfigRecord, error) {
	rec := &domain.PageConfigRecord{}
	var config, published []byte
	var publishedAt sql.NullTime
	err := row.Scan(&rec.ID, &rec.EventID, &rec.SchemaVersion, &config, &published, &publishedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	rec.Config = config
	if published != nil {
		rec.PublishedConfig = published
	}
	if publishedAt.Valid {
		rec.PublishedAt = &publishedAt.Time
	}
	return rec, nil
}
