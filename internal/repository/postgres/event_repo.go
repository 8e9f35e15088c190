package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gatherly/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

// CreateWithOwner inserts the event and the creator's owner membership in one
// transaction so an event can never be observed without its owner.
func (r *eventRepository) CreateWithOwner(ctx context.Context, e *domain.Event, owner *domain.EventMember) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insertEvent := `
		INSERT INTO events (title, start_at, created_by, invite_token_hash, invite_token_created_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, insertEvent,
		e.Title, e.StartAt, e.CreatedBy, e.InviteTokenHash, e.InviteTokenCreatedAt, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	owner.EventID = e.ID
	insertMember := `
		INSERT INTO event_members (event_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.ExecContext(ctx, insertMember, owner.EventID, owner.UserID, owner.Role, owner.JoinedAt); err != nil {
		return fmt.Errorf("insert owner membership: %w", err)
	}

	return tx.Commit()
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, title, start_at, created_by, invite_token_hash, invite_token_created_at, created_at, updated_at
		FROM events
		WHERE id = $1
	`
	e := &domain.Event{}
	var tokenHash sql.NullString
	var tokenCreated sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Title, &e.StartAt, &e.CreatedBy, &tokenHash, &tokenCreated, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if tokenHash.Valid {
		e.InviteTokenHash = &tokenHash.String
	}
	if tokenCreated.Valid {
		e.InviteTokenCreatedAt = &tokenCreated.Time
	}
	return e, nil
}

func (r *eventRepository) ListByMemberID(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM events e
		JOIN event_members m ON m.event_id = e.id
		WHERE m.user_id = $1
	`
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT e.id, e.title, e.start_at, e.created_by, e.invite_token_hash, e.invite_token_created_at, e.created_at, e.updated_at
		FROM events e
		JOIN event_members m ON m.event_id = e.id
		WHERE m.user_id = $1
		ORDER BY e.start_at ASC, e.id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e := &domain.Event{}
		var tokenHash sql.NullString
		var tokenCreated sql.NullTime
		if err := rows.Scan(&e.ID, &e.Title, &e.StartAt, &e.CreatedBy, &tokenHash, &tokenCreated, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, err
		}
		if tokenHash.Valid {
			e.InviteTokenHash = &tokenHash.String
		}
		if tokenCreated.Valid {
			e.InviteTokenCreatedAt = &tokenCreated.Time
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}
