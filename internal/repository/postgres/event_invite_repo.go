package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gatherly/internal/domain"
)

type eventInviteRepository struct {
	DB *sql.DB
}

func NewEventInviteRepository(db *sql.DB) domain.EventInviteRepository {
	return &eventInviteRepository{
		DB: db,
	}
}

const inviteColumns = `id, event_id, invited_email, invited_user_id, token_hash, created_by, status, expires_at, responded_at, revoked_at, created_at, updated_at`

// Upsert inserts the invite or, when the (event_id, invited_email) pair
// already exists, refreshes that row in place: mode fields and creator are
// replaced, status returns to pending, response and revocation are cleared.
// One statement, so concurrent re-invites cannot race into two rows.
func (r *eventInviteRepository) Upsert(ctx context.Context, inv *domain.EventInvite) error {
	query := `
		INSERT INTO event_invites (event_id, invited_email, invited_user_id, token_hash, created_by, status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (event_id, invited_email) DO UPDATE SET
			invited_user_id = EXCLUDED.invited_user_id,
			token_hash      = EXCLUDED.token_hash,
			created_by      = EXCLUDED.created_by,
			status          = EXCLUDED.status,
			expires_at      = EXCLUDED.expires_at,
			responded_at    = NULL,
			revoked_at      = NULL,
			updated_at      = NOW()
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRowContext(ctx, query,
		inv.EventID, inv.InvitedEmail, inv.InvitedUserID, inv.TokenHash, inv.CreatedBy, inv.Status, inv.ExpiresAt,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
}

func (r *eventInviteRepository) GetByID(ctx context.Context, id string) (*domain.EventInvite, error) {
	query := `
		SELECT ` + inviteColumns + `
		FROM event_invites
		WHERE id = $1
	`
	return r.queryInvite(ctx, query, id)
}

func (r *eventInviteRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.EventInvite, error) {
	query := `
		SELECT ` + inviteColumns + `
		FROM event_invites
		WHERE token_hash = $1
	`
	return r.queryInvite(ctx, query, tokenHash)
}

// MarkAccepted flips the invite to accepted and records the membership in one
// transaction. The invited user id is backfilled for token-mode invites so
// the accepted row always names who joined.
func (r *eventInviteRepository) MarkAccepted(ctx context.Context, inviteID, userID string, respondedAt time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	updateInvite := `
		UPDATE event_invites
		SET status = 'accepted',
			invited_user_id = COALESCE(invited_user_id, $2),
			responded_at = $3,
			updated_at = NOW()
		WHERE id = $1
	`
	var eventID string
	err = tx.QueryRowContext(ctx, updateInvite+` RETURNING event_id`, inviteID, userID, respondedAt).Scan(&eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update invite: %w", err)
	}

	insertMember := `
		INSERT INTO event_members (event_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, user_id) DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, insertMember, eventID, userID, domain.RoleMember, respondedAt); err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}

	return tx.Commit()
}

func (r *eventInviteRepository) MarkDeclined(ctx context.Context, inviteID string, respondedAt time.Time) error {
	query := `
		UPDATE event_invites
		SET status = 'declined', responded_at = $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, inviteID, respondedAt)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventInviteRepository) MarkExpired(ctx context.Context, inviteID string) error {
	query := `
		UPDATE event_invites
		SET status = 'expired', updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, inviteID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventInviteRepository) ListByEventID(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.EventInvite, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_invites WHERE event_id = $1`, eventID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + inviteColumns + `
		FROM event_invites
		WHERE event_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`
	return r.queryInvites(ctx, total, query, eventID, params.Limit(), params.Offset())
}

func (r *eventInviteRepository) ListPendingByUserID(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.EventInvite, int, error) {
	where := `WHERE invited_user_id = $1 AND status = 'pending' AND revoked_at IS NULL`

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_invites `+where, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + inviteColumns + `
		FROM event_invites
		` + where + `
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`
	return r.queryInvites(ctx, total, query, userID, params.Limit(), params.Offset())
}

func (r *eventInviteRepository) queryInvite(ctx context.Context, query string, arg any) (*domain.EventInvite, error) {
	row := r.DB.QueryRowContext(ctx, query, arg)
	inv, err := scanInvite(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *eventInviteRepository) queryInvites(ctx context.Context, total int, query string, args ...any) ([]*domain.EventInvite, int, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	invites := make([]*domain.EventInvite, 0)
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, 0, err
		}
		invites = append(invites, inv)
	}
	return invites, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvite(row rowScanner) (*domain.EventInvite, error) {
	inv := &domain.EventInvite{}
	var invitedUserID, tokenHash sql.NullString
	var expiresAt, respondedAt, revokedAt sql.NullTime
	err := row.Scan(
		&inv.ID, &inv.EventID, &inv.InvitedEmail, &invitedUserID, &tokenHash, &inv.CreatedBy,
		&inv.Status, &expiresAt, &respondedAt, &revokedAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if invitedUserID.Valid {
		inv.InvitedUserID = &invitedUserID.String
	}
	if tokenHash.Valid {
		inv.TokenHash = &tokenHash.String
	}
	if expiresAt.Valid {
		inv.ExpiresAt = &expiresAt.Time
	}
	if respondedAt.Valid {
		inv.RespondedAt = &respondedAt.Time
	}
	if revokedAt.Valid {
		inv.RevokedAt = &revokedAt.Time
	}
	return inv, nil
}
