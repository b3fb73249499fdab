package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventpages/internal/domain"
)

type rsvpRepository struct {
	DB *sql.DB
}

func NewRSVPRepository(db *sql.DB) domain.RSVPRepository {
	return &rsvpRepository{
		DB: db,
	}
}

// Upsert relies on the unique constraint on invite_id: resubmitting an RSVP
// updates the existing row instead of creating a second one.
func (r *rsvpRepository) Upsert(ctx context.Context, rsvp *domain.RSVP) error {
	query := `
		INSERT INTO rsvps (invite_id, event_id, response, guest_count, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (invite_id) DO UPDATE
		SET response = EXCLUDED.response,
		    guest_count = EXCLUDED.guest_count,
		    notes = EXCLUDED.notes,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	return r.DB.QueryRowContext(ctx, query,
		rsvp.InviteID, rsvp.EventID, rsvp.Response, rsvp.GuestCount, rsvp.Notes, rsvp.CreatedAt, rsvp.UpdatedAt,
	).Scan(&rsvp.ID, &rsvp.CreatedAt)
}

func (r *rsvpRepository) GetByInviteID(ctx context.Context, inviteID string) (*domain.RSVP, error) {
	query := `
		SELECT id, invite_id, event_id, response, guest_count, notes, created_at, updated_at
		FROM rsvps
		WHERE invite_id = $1
	`
	rsvp := &domain.RSVP{}
	var notes sql.NullString
	err := r.DB.QueryRowContext(ctx, query, inviteID).Scan(
		&rsvp.ID, &rsvp.InviteID, &rsvp.EventID, &rsvp.Response, &rsvp.GuestCount, &notes, &rsvp.CreatedAt, &rsvp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if notes.Valid {
		rsvp.Notes = &notes.String
	}
	return rsvp, nil
}

func (r *rsvpRepository) Summary(ctx context.Context, eventID string) (*domain.RSVPSummary, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE response = 'YES'),
			COUNT(*) FILTER (WHERE response = 'NO'),
			COUNT(*) FILTER (WHERE response = 'MAYBE'),
			COALESCE(SUM(guest_count) FILTER (WHERE response = 'YES'), 0)
		FROM rsvps
		WHERE event_id = $1
	`
	s := &domain.RSVPSummary{}
	err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&s.Yes, &s.No, &s.Maybe, &s.ExpectedGuests)
	if err != nil {
		return nil, err
	}
	return s, nil
}
