package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventpages/internal/domain"
)

type collaboratorRepository struct {
	DB *sql.DB
}

func NewCollaboratorRepository(db *sql.DB) domain.EventCollaboratorRepository {
	return &collaboratorRepository{
		DB: db,
	}
}

func (r *collaboratorRepository) Add(ctx context.Context, eventID, userID, role string) error {
	query := `
		INSERT INTO event_collaborators (event_id, user_id, role)
		VALUES ($1, $2, $3)
	`
	_, err := r.DB.ExecContext(ctx, query, eventID, userID, role)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrAlreadyMember
		}
		return err
	}
	return nil
}

func (r *collaboratorRepository) GetRole(ctx context.Context, eventID, userID string) (string, error) {
	query := `
		SELECT role FROM event_collaborators
		WHERE event_id = $1 AND user_id = $2
	`
	var role string
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return role, nil
}

func (r *collaboratorRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventCollaborator, error) {
	query := `
		SELECT c.event_id, c.user_id, c.role, u.name, u.last_name, u.email
		FROM event_collaborators c
		JOIN users u ON u.id = c.user_id
		WHERE c.event_id = $1
		ORDER BY c.user_id
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	members := make([]*domain.EventCollaborator, 0)
	for rows.Next() {
		m := &domain.EventCollaborator{}
		var name, lastName sql.NullString
		if err := rows.Scan(&m.EventID, &m.UserID, &m.Role, &name, &lastName, &m.Email); err != nil {
			return nil, err
		}
		m.Name = name.String
		m.LastName = lastName.String
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *collaboratorRepository) Remove(ctx context.Context, eventID, userID string) error {
	query := `DELETE FROM event_collaborators WHERE event_id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
