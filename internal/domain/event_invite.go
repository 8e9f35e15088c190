package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for the invite lifecycle. Each maps to a distinct HTTP
// status so clients can render precise messaging.
var (
	ErrInviteNotPending = errors.New("invite not pending")
	ErrInviteRevoked    = errors.New("invite revoked")
	ErrInviteExpired    = errors.New("invite expired")
	ErrEmailMismatch    = errors.New("invite is for a different email address")
)

// InviteStatus is the lifecycle status of an invite. Transitions only flow
// pending -> accepted | declined | expired. Revocation is an orthogonal flag
// (RevokedAt) that short-circuits validity regardless of status.
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusDeclined InviteStatus = "declined"
	InviteStatusExpired  InviteStatus = "expired"
)

// InviteMode distinguishes the two trust modes of a pending invite.
type InviteMode string

const (
	// InviteModeToken: the invited email has no account yet. Possession of
	// the raw token plus a matching account email redeems the invite.
	InviteModeToken InviteMode = "token"
	// InviteModeInApp: the invited email maps to an account. The invitee
	// accepts or declines in-app; no token exists.
	InviteModeInApp InviteMode = "in_app"
)

// EventInvite is one invitation of an email address to an event. Unique per
// (event, invited email); re-inviting refreshes the existing row in place.
// TokenHash is globally unique when set and is the only persisted trace of
// the raw token.
//
// Exactly one mode's fields are populated: token mode has TokenHash and
// ExpiresAt, in-app mode has InvitedUserID. Use NewTokenInvite or
// NewInAppInvite so the invariant holds by construction.
// swagger:model EventInvite
type EventInvite struct {
	ID            string       `json:"id"`
	EventID       string       `json:"event_id"`
	InvitedEmail  string       `json:"invited_email"`
	InvitedUserID *string      `json:"invited_user_id,omitempty"`
	TokenHash     *string      `json:"-"`
	CreatedBy     string       `json:"created_by"`
	Status        InviteStatus `json:"status"`
	ExpiresAt     *time.Time   `json:"expires_at,omitempty"`
	RespondedAt   *time.Time   `json:"responded_at,omitempty"`
	RevokedAt     *time.Time   `json:"revoked_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// NewTokenInvite returns a pending token-mode invite for an email with no
// known account. Only the token's hash is carried; the raw token stays with
// the caller.
func NewTokenInvite(eventID, email, tokenHash, createdBy string, expiresAt time.Time) *EventInvite {
	return &EventInvite{
		EventID:      eventID,
		InvitedEmail: email,
		TokenHash:    &tokenHash,
		CreatedBy:    createdBy,
		Status:       InviteStatusPending,
		ExpiresAt:    &expiresAt,
	}
}

// NewInAppInvite returns a pending in-app invite bound to an existing account.
func NewInAppInvite(eventID, email, invitedUserID, createdBy string) *EventInvite {
	return &EventInvite{
		EventID:       eventID,
		InvitedEmail:  email,
		InvitedUserID: &invitedUserID,
		CreatedBy:     createdBy,
		Status:        InviteStatusPending,
	}
}

// Mode reports the invite's trust mode.
func (i *EventInvite) Mode() InviteMode {
	if i.TokenHash != nil {
		return InviteModeToken
	}
	return InviteModeInApp
}

// IsPending reports whether the invite is still awaiting a response.
func (i *EventInvite) IsPending() bool {
	return i.Status == InviteStatusPending
}

// IsExpired reports whether the invite's deadline has passed. Invites without
// a deadline never expire.
func (i *EventInvite) IsExpired(now time.Time) bool {
	return i.ExpiresAt != nil && i.ExpiresAt.Before(now)
}

// InviteTokenService generates raw join tokens and their storage hashes. The
// hash must be deterministic; the raw token must be infeasible to guess.
type InviteTokenService interface {
	GenerateRawToken(length int) (string, error)
	HashToken(raw string) string
}

// EventInviteRepository defines storage operations for invites. Upsert is
// keyed on (event_id, invited_email) and must be atomic at the storage layer
// (insert-or-update on conflict, not read-then-write). MarkAccepted writes
// the membership row and the invite update in one transaction.
type EventInviteRepository interface {
	Upsert(ctx context.Context, inv *EventInvite) error
	GetByID(ctx context.Context, id string) (*EventInvite, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (*EventInvite, error)
	MarkAccepted(ctx context.Context, inviteID, userID string, respondedAt time.Time) error
	MarkDeclined(ctx context.Context, inviteID string, respondedAt time.Time) error
	MarkExpired(ctx context.Context, inviteID string) error
	ListByEventID(ctx context.Context, eventID string, params PaginationParams) ([]*EventInvite, int, error)
	ListPendingByUserID(ctx context.Context, userID string, params PaginationParams) ([]*EventInvite, int, error)
}

// InviteService defines the invite lifecycle.
type InviteService interface {
	// Invite creates or refreshes the invite for an email. The returned
	// string is the join link, non-empty only in token mode.
	Invite(ctx context.Context, eventID, inviterID, email string) (*EventInvite, string, error)
	ListEventInvites(ctx context.Context, eventID, callerID string, params PaginationParams) ([]*EventInvite, int, error)
	// Join redeems a raw token for the authenticated user.
	Join(ctx context.Context, userID, rawToken string) (*EventInvite, error)
	Accept(ctx context.Context, inviteID, userID string) (*EventInvite, error)
	Decline(ctx context.Context, inviteID, userID string) (*EventInvite, error)
	ListMyInvites(ctx context.Context, userID string, params PaginationParams) ([]*EventInvite, int, error)
}
