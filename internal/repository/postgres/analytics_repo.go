package postgres

import (
	"context"
	"database/sql"

	"eventpages/internal/domain"
)

type analyticsRepository struct {
	DB *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) domain.AnalyticsRepository {
	return &analyticsRepository{
		DB: db,
	}
}

func (r *analyticsRepository) Insert(ctx context.Context, ev *domain.PageViewEvent) error {
	query := `
		INSERT INTO page_view_events (event_id, invite_id, kind, user_agent, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, ev.EventID, ev.InviteID, ev.Kind, ev.UserAgent, ev.OccurredAt).Scan(&ev.ID)
}

func (r *analyticsRepository) CountByKind(ctx context.Context, eventID, kind string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM page_view_events WHERE event_id = $1 AND kind = $2`,
		eventID, kind,
	).Scan(&count)
	return count, err
}
