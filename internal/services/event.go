package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gatherly/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	memberRepo     domain.EventMemberRepository
	tokens         domain.InviteTokenService
	policy         *EventPolicy
	contextTimeout time.Duration
}

// NewEventService creates the event service.
func NewEventService(
	eventRepo domain.EventRepository,
	memberRepo domain.EventMemberRepository,
	tokens domain.InviteTokenService,
	policy *EventPolicy,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		memberRepo:     memberRepo,
		tokens:         tokens,
		policy:         policy,
		contextTimeout: timeout,
	}
}

// CreateEvent creates the event together with the creator's owner membership
// and an event-level invite token. Only the hash of the token is persisted;
// the raw token is returned to the caller once.
func (s *eventService) CreateEvent(ctx context.Context, title string, startAt time.Time, creatorID string) (*domain.Event, string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, "", domain.ErrInvalidInput
	}

	rawToken, err := s.tokens.GenerateRawToken(inviteTokenLength)
	if err != nil {
		return nil, "", fmt.Errorf("generate event token: %w", err)
	}
	tokenHash := s.tokens.HashToken(rawToken)

	now := time.Now()
	event := domain.NewEvent(title, startAt, creatorID, now, now)
	event.InviteTokenHash = &tokenHash
	event.InviteTokenCreatedAt = &now

	owner := domain.NewEventMember(event.ID, creatorID, domain.RoleOwner, now)

	if err := s.eventRepo.CreateWithOwner(ctx, event, owner); err != nil {
		return nil, "", fmt.Errorf("create event: %w", err)
	}

	return event, rawToken, nil
}

// GetEvent returns the event and its member list. A caller who is not a
// member gets ErrNotFound, the same answer as for an event that does not
// exist.
func (s *eventService) GetEvent(ctx context.Context, eventID, callerID string) (*domain.Event, []*domain.EventMember, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}

	members, err := s.memberRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, nil, fmt.Errorf("list members: %w", err)
	}

	ok, err := s.policy.CanView(ctx, eventID, callerID, members)
	if err != nil {
		return nil, nil, fmt.Errorf("check view permission: %w", err)
	}
	if !ok {
		return nil, nil, domain.ErrNotFound
	}

	return event, members, nil
}

func (s *eventService) ListMyEvents(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.ListByMemberID(ctx, userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}
