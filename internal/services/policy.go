package services

import (
	"context"
	"errors"

	"gatherly/internal/domain"
)

// EventPolicy answers role questions about a user and an event. Every
// predicate accepts an optional pre-loaded member slice: when the caller has
// already fetched the event's members it passes them and no query runs; when
// loaded is nil the policy falls back to a single membership lookup. Absence
// of a membership is false, never an error.
type EventPolicy struct {
	members domain.EventMemberRepository
}

// NewEventPolicy returns an EventPolicy backed by the given membership store.
func NewEventPolicy(members domain.EventMemberRepository) *EventPolicy {
	return &EventPolicy{members: members}
}

// IsMember reports whether the user has any membership in the event.
func (p *EventPolicy) IsMember(ctx context.Context, eventID, userID string, loaded []*domain.EventMember) (bool, error) {
	m, err := p.membership(ctx, eventID, userID, loaded)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

// IsOwner reports whether the user is an owner of the event.
func (p *EventPolicy) IsOwner(ctx context.Context, eventID, userID string, loaded []*domain.EventMember) (bool, error) {
	m, err := p.membership(ctx, eventID, userID, loaded)
	if err != nil {
		return false, err
	}
	return m != nil && m.Role == domain.RoleOwner, nil
}

// CanInvite reports whether the user may create invites for the event.
func (p *EventPolicy) CanInvite(ctx context.Context, eventID, userID string, loaded []*domain.EventMember) (bool, error) {
	return p.IsOwner(ctx, eventID, userID, loaded)
}

// CanManage reports whether the user may manage the event.
func (p *EventPolicy) CanManage(ctx context.Context, eventID, userID string, loaded []*domain.EventMember) (bool, error) {
	return p.IsOwner(ctx, eventID, userID, loaded)
}

// CanView reports whether the user may see the event.
func (p *EventPolicy) CanView(ctx context.Context, eventID, userID string, loaded []*domain.EventMember) (bool, error) {
	return p.IsMember(ctx, eventID, userID, loaded)
}

func (p *EventPolicy) membership(ctx context.Context, eventID, userID string, loaded []*domain.EventMember) (*domain.EventMember, error) {
	if loaded != nil {
		for _, m := range loaded {
			if m.UserID == userID {
				return m, nil
			}
		}
		return nil, nil
	}
	m, err := p.members.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}
