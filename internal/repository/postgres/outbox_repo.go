package postgres

import (
	"context"
	"database/sql"
	"time"

	"eventpages/internal/domain"
)

const outboxColumns = `id, event_id, invite_id, recipient, template, payload, status, error, created_at, sent_at`

type emailOutboxRepository struct {
	DB *sql.DB
}

func NewEmailOutboxRepository(db *sql.DB) domain.EmailOutboxRepository {
	return &emailOutboxRepository{
		DB: db,
	}
}

func (r *emailOutboxRepository) Enqueue(ctx context.Context, row *domain.EmailOutbox) error {
	query := `
		INSERT INTO email_outbox (event_id, invite_id, recipient, template, payload, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		row.EventID, row.InviteID, row.Recipient, row.Template, []byte(row.Payload), row.Status, row.CreatedAt,
	).Scan(&row.ID)
}

// ClaimBatch moves the oldest QUEUED rows to SENDING in a single statement so
// concurrent sweeper runs never pick up the same row twice.
func (r *emailOutboxRepository) ClaimBatch(ctx context.Context, limit int) ([]*domain.EmailOutbox, error) {
	query := `
		UPDATE email_outbox
		SET status = 'SENDING'
		WHERE id IN (
			SELECT id FROM email_outbox
			WHERE status = 'QUEUED'
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + outboxColumns

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	claimed := make([]*domain.EmailOutbox, 0)
	for rows.Next() {
		row, err := scanOutboxRow(rows)
		if err != nil {
			return nil, err
		}
		claimed = append(claimed, row)
	}
	return claimed, rows.Err()
}

// MarkSent and MarkFailed only move rows out of SENDING, so a row another
// sweeper already resolved is never overwritten.
func (r *emailOutboxRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	query := `UPDATE email_outbox SET status = 'SENT', sent_at = $1 WHERE id = $2 AND status = 'SENDING'`
	result, err := r.DB.ExecContext(ctx, query, sentAt, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *emailOutboxRepository) MarkFailed(ctx context.Context, id string, errMsg string) error {
	query := `UPDATE email_outbox SET status = 'FAILED', error = $1 WHERE id = $2 AND status = 'SENDING'`
	result, err := r.DB.ExecContext(ctx, query, errMsg, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *emailOutboxRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.EmailOutbox, error) {
	query := `SELECT ` + outboxColumns + ` FROM email_outbox WHERE event_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*domain.EmailOutbox, 0)
	for rows.Next() {
		row, err := scanOutboxRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func scanOutboxRow(rows *sql.Rows) (*domain.EmailOutbox, error) {
	row := &domain.EmailOutbox{}
	var eventID, inviteID, errMsg sql.NullString
	var payload []byte
	var sentAt sql.NullTime
	if err := rows.Scan(&row.ID, &eventID, &inviteID, &row.Recipient, &row.Template, &payload, &row.Status, &errMsg, &row.CreatedAt, &sentAt); err != nil {
		return nil, err
	}
	row.Payload = payload
	if eventID.Valid {
		row.EventID = &eventID.String
	}
	if inviteID.Valid {
		row.InviteID = &inviteID.String
	}
	if errMsg.Valid {
		row.Error = &errMsg.String
	}
	if sentAt.Valid {
		row.SentAt = &sentAt.Time
	}
	return row, nil
}
