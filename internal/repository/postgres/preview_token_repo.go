package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventpages/internal/domain"
)

type previewTokenRepository struct {
	DB *sql.DB
}

func NewPreviewTokenRepository(db *sql.DB) domain.PreviewTokenRepository {
	return &previewTokenRepository{
		DB: db,
	}
}

func (r *previewTokenRepository) Create(ctx context.Context, tok *domain.PreviewToken) error {
	query := `
		INSERT INTO preview_tokens (event_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, tok.EventID, tok.TokenHash, tok.ExpiresAt, tok.CreatedAt).Scan(&tok.ID)
}

func (r *previewTokenRepository) GetValid(ctx context.Context, eventID, tokenHash string, now time.Time) (*domain.PreviewToken, error) {
	query := `
		SELECT id, event_id, token_hash, expires_at, created_at
		FROM preview_tokens
		WHERE event_id = $1 AND token_hash = $2 AND expires_at > $3
		LIMIT 1
	`
	tok := &domain.PreviewToken{}
	err := r.DB.QueryRowContext(ctx, query, eventID, tokenHash, now).Scan(
		&tok.ID, &tok.EventID, &tok.TokenHash, &tok.ExpiresAt, &tok.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return tok, nil
}

func (r *previewTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM preview_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
