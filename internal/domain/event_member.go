package domain

import (
	"context"
	"errors"
	"time"
)

// ErrAlreadyMember is returned when inviting an email that already belongs to
// a member of the event.
var ErrAlreadyMember = errors.New("already a member")

// MemberRole is the role of a user within an event.
type MemberRole string

const (
	RoleOwner  MemberRole = "owner"
	RoleMember MemberRole = "member"
)

// EventMember represents a user's membership in an event. Exactly one owner
// is created together with the event; members join through invites.
// swagger:model EventMember
type EventMember struct {
	EventID  string     `json:"event_id"`
	UserID   string     `json:"user_id"`
	Role     MemberRole `json:"role"`
	JoinedAt time.Time  `json:"joined_at"`
}

// NewEventMember returns a new EventMember with the given fields.
func NewEventMember(eventID, userID string, role MemberRole, joinedAt time.Time) *EventMember {
	return &EventMember{
		EventID:  eventID,
		UserID:   userID,
		Role:     role,
		JoinedAt: joinedAt,
	}
}

// EventMemberRepository defines the interface for event membership storage.
// Membership is unique per (event, user); Upsert must be atomic at the
// storage layer.
type EventMemberRepository interface {
	Upsert(ctx context.Context, m *EventMember) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*EventMember, error)
	ListByEventID(ctx context.Context, eventID string) ([]*EventMember, error)
}
