package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventpages/internal/domain"
)

const inviteColumns = `id, event_id, guest_name, guest_email, token_hash, status, max_guests, created_at, updated_at`

type inviteRepository struct {
	DB *sql.DB
}

func NewInviteRepository(db *sql.DB) domain.InviteRepository {
	return &inviteRepository{
		DB: db,
	}
}

func (r *inviteRepository) Create(ctx context.Context, inv *domain.Invite) error {
	query := `
		INSERT INTO invites (event_id, guest_name, guest_email, token_hash, status, max_guests, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		inv.EventID, inv.GuestName, inv.GuestEmail, inv.TokenHash, inv.Status, inv.MaxGuests, inv.CreatedAt, inv.UpdatedAt,
	).Scan(&inv.ID)
}

func (r *inviteRepository) GetByID(ctx context.Context, id string) (*domain.Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE id = $1`
	return scanInvite(r.DB.QueryRowContext(ctx, query, id))
}

func (r *inviteRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE token_hash = $1`
	return scanInvite(r.DB.QueryRowContext(ctx, query, tokenHash))
}

func (r *inviteRepository) List(ctx context.Context, eventID, search string, params domain.PaginationParams) ([]*domain.Invite, int, error) {
	countQuery := `
		SELECT COUNT(*) FROM invites
		WHERE event_id = $1
		  AND ($2 = '' OR guest_name ILIKE '%' || $2 || '%' OR guest_email ILIKE '%' || $2 || '%')
	`
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, eventID, search).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + inviteColumns + ` FROM invites
		WHERE event_id = $1
		  AND ($2 = '' OR guest_name ILIKE '%' || $2 || '%' OR guest_email ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, search, params.Limit(20), params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	invites := make([]*domain.Invite, 0)
	for rows.Next() {
		inv := &domain.Invite{}
		if err := rows.Scan(&inv.ID, &inv.EventID, &inv.GuestName, &inv.GuestEmail, &inv.TokenHash, &inv.Status, &inv.MaxGuests, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, 0, err
		}
		invites = append(invites, inv)
	}
	return invites, total, rows.Err()
}

func (r *inviteRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE invites SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *inviteRepository) UpdateToken(ctx context.Context, id, tokenHash string) error {
	query := `UPDATE invites SET token_hash = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.DB.ExecContext(ctx, query, tokenHash, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *inviteRepository) CountByEventID(ctx context.Context, eventID string) (int, error) {
	var total int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM invites WHERE event_id = $1`, eventID).Scan(&total)
	return total, err
}

func scanInvite(row *sql.Row) (*domain.Invite, error) {
	inv := &domain.Invite{}
	err := row.Scan(&inv.ID, &inv.EventID, &inv.GuestName, &inv.GuestEmail, &inv.TokenHash, &inv.Status, &inv.MaxGuests, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}
