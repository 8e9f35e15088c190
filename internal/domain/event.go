package domain

import (
	"context"
	"time"
)

// Event represents a gathering that members belong to and invitees can join.
// InviteTokenHash is the hash of the event-level join token generated at
// creation time; the raw token is returned to the creator once and never
// stored.
// swagger:model Event
type Event struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	StartAt              time.Time  `json:"start_at"`
	CreatedBy            string     `json:"created_by"`
	InviteTokenHash      *string    `json:"-"`
	InviteTokenCreatedAt *time.Time `json:"invite_token_created_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(title string, startAt time.Time, createdBy string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:     title,
		StartAt:   startAt,
		CreatedBy: createdBy,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	// CreateWithOwner inserts the event and its owner membership in a single
	// transaction, so an event never exists without exactly one owner.
	CreateWithOwner(ctx context.Context, event *Event, owner *EventMember) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByMemberID(ctx context.Context, userID string, params PaginationParams) ([]*Event, int, error)
}

// EventService defines the business logic for events.
type EventService interface {
	// CreateEvent creates the event and its owner membership. The returned
	// string is the raw event-level invite token, surfaced exactly once.
	CreateEvent(ctx context.Context, title string, startAt time.Time, creatorID string) (*Event, string, error)
	// GetEvent returns the event and its members. Non-members get ErrNotFound
	// so the event's existence does not leak.
	GetEvent(ctx context.Context, eventID, callerID string) (*Event, []*EventMember, error)
	ListMyEvents(ctx context.Context, userID string, params PaginationParams) ([]*Event, int, error)
}
