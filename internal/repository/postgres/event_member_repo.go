package postgres

import (
	"context"
	"database/sql"
	"errors"

	"gatherly/internal/domain"
)

type eventMemberRepository struct {
	DB *sql.DB
}

func NewEventMemberRepository(db *sql.DB) domain.EventMemberRepository {
	return &eventMemberRepository{
		DB: db,
	}
}

// Upsert is keyed on (event_id, user_id). Re-adding an existing member is a
// no-op; in particular it never demotes an owner.
func (r *eventMemberRepository) Upsert(ctx context.Context, m *domain.EventMember) error {
	query := `
		INSERT INTO event_members (event_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, user_id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query, m.EventID, m.UserID, m.Role, m.JoinedAt)
	return err
}

func (r *eventMemberRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.EventMember, error) {
	query := `
		SELECT event_id, user_id, role, joined_at
		FROM event_members
		WHERE event_id = $1 AND user_id = $2
	`
	m := &domain.EventMember{}
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(&m.EventID, &m.UserID, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *eventMemberRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventMember, error) {
	query := `
		SELECT event_id, user_id, role, joined_at
		FROM event_members
		WHERE event_id = $1
		ORDER BY joined_at ASC, user_id
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*domain.EventMember, 0)
	for rows.Next() {
		m := &domain.EventMember{}
		if err := rows.Scan(&m.EventID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
