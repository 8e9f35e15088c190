package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gatherly/internal/domain"
)

const (
	inviteTokenLength = 48
	inviteExpiry      = 72 * time.Hour
)

type inviteService struct {
	inviteRepo      domain.EventInviteRepository
	eventRepo       domain.EventRepository
	memberRepo      domain.EventMemberRepository
	userRepo        domain.UserRepository
	tokens          domain.InviteTokenService
	emailService    domain.EmailService
	policy          *EventPolicy
	frontendBaseURL string
	contextTimeout  time.Duration
}

// NewInviteService creates the invite lifecycle service.
func NewInviteService(
	inviteRepo domain.EventInviteRepository,
	eventRepo domain.EventRepository,
	memberRepo domain.EventMemberRepository,
	userRepo domain.UserRepository,
	tokens domain.InviteTokenService,
	emailService domain.EmailService,
	policy *EventPolicy,
	frontendBaseURL string,
	timeout time.Duration,
) domain.InviteService {
	return &inviteService{
		inviteRepo:      inviteRepo,
		eventRepo:       eventRepo,
		memberRepo:      memberRepo,
		userRepo:        userRepo,
		tokens:          tokens,
		emailService:    emailService,
		policy:          policy,
		frontendBaseURL: frontendBaseURL,
		contextTimeout:  timeout,
	}
}

// Invite creates or refreshes the invite for an email. Re-inviting the same
// email refreshes the existing row in place rather than creating a second
// one. The returned link is non-empty only for token-mode invites; the raw
// token inside it is handed to the email dispatch and the caller, and exists
// nowhere else.
func (s *inviteService) Invite(ctx context.Context, eventID, inviterID, email string) (*domain.EventInvite, string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("get event: %w", err)
	}

	members, err := s.memberRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, "", fmt.Errorf("list members: %w", err)
	}
	ok, err := s.policy.CanInvite(ctx, eventID, inviterID, members)
	if err != nil {
		return nil, "", fmt.Errorf("check invite permission: %w", err)
	}
	if !ok {
		return nil, "", domain.ErrForbidden
	}

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, "", domain.ErrInvalidInput
	}

	invitedUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", fmt.Errorf("get user by email: %w", err)
	}

	if invitedUser != nil {
		for _, m := range members {
			if m.UserID == invitedUser.ID {
				return nil, "", domain.ErrAlreadyMember
			}
		}
	}

	var (
		invite   *domain.EventInvite
		joinLink string
	)
	if invitedUser != nil {
		// In-app invite: acceptance is identity-checked, no token exists.
		invite = domain.NewInAppInvite(eventID, email, invitedUser.ID, inviterID)
	} else {
		rawToken, err := s.tokens.GenerateRawToken(inviteTokenLength)
		if err != nil {
			return nil, "", fmt.Errorf("generate invite token: %w", err)
		}
		tokenHash := s.tokens.HashToken(rawToken)
		expiresAt := time.Now().Add(inviteExpiry)
		invite = domain.NewTokenInvite(eventID, email, tokenHash, inviterID, expiresAt)
		joinLink = strings.TrimRight(s.frontendBaseURL, "/") + "/join?token=" + rawToken
	}

	if err := s.inviteRepo.Upsert(ctx, invite); err != nil {
		return nil, "", fmt.Errorf("upsert invite: %w", err)
	}

	s.dispatchInviteEmail(ctx, event, invite, joinLink)

	return invite, joinLink, nil
}

// dispatchInviteEmail sends the invite email without blocking the request.
// The invite row is already committed at this point; delivery failures are
// logged and never surfaced.
func (s *inviteService) dispatchInviteEmail(ctx context.Context, event *domain.Event, invite *domain.EventInvite, joinLink string) {
	inviterName := "Event owner"
	if inviter, err := s.userRepo.GetByID(ctx, invite.CreatedBy); err == nil && inviter != nil {
		if name := strings.TrimSpace(inviter.Name); name != "" {
			inviterName = name
		} else if inviter.Email != "" {
			inviterName = inviter.Email
		}
	}

	data := &domain.EventInviteEmailData{
		Email:       invite.InvitedEmail,
		EventTitle:  event.Title,
		InviterName: inviterName,
		JoinLink:    joinLink,
	}
	if invite.ExpiresAt != nil {
		data.ExpiresAt = invite.ExpiresAt.Format(time.RFC1123)
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), s.contextTimeout)
		defer cancel()
		if err := s.emailService.SendEventInvite(sendCtx, data); err != nil {
			log.Printf("[INVITE] failed to send invite email to %s: %v", data.Email, err)
		}
	}()
}

func (s *inviteService) ListEventInvites(ctx context.Context, eventID, callerID string, params domain.PaginationParams) ([]*domain.EventInvite, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}
	ok, err := s.policy.CanInvite(ctx, eventID, callerID, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("check invite permission: %w", err)
	}
	if !ok {
		return nil, 0, domain.ErrForbidden
	}

	invites, total, err := s.inviteRepo.ListByEventID(ctx, eventID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list event invites: %w", err)
	}
	if invites == nil {
		invites = []*domain.EventInvite{}
	}
	return invites, total, nil
}

// Join redeems a raw token for the authenticated user. Validation order:
// unknown token, non-pending status, revocation, expiry (flipped to expired
// lazily, on this access), then the anti-transfer email check. On success the
// membership upsert and the invite update commit in one transaction; a second
// join with the same token observes the accepted status and stops at the
// pending check.
func (s *inviteService) Join(ctx context.Context, userID, rawToken string) (*domain.EventInvite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	tokenHash := s.tokens.HashToken(rawToken)
	invite, err := s.inviteRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invite by token: %w", err)
	}

	if !invite.IsPending() {
		return nil, domain.ErrInviteNotPending
	}
	if invite.RevokedAt != nil {
		return nil, domain.ErrInviteRevoked
	}
	if invite.IsExpired(time.Now()) {
		if err := s.inviteRepo.MarkExpired(ctx, invite.ID); err != nil {
			return nil, fmt.Errorf("mark invite expired: %w", err)
		}
		return nil, domain.ErrInviteExpired
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !strings.EqualFold(user.Email, invite.InvitedEmail) {
		return nil, domain.ErrEmailMismatch
	}

	now := time.Now()
	if err := s.inviteRepo.MarkAccepted(ctx, invite.ID, userID, now); err != nil {
		return nil, fmt.Errorf("accept invite: %w", err)
	}

	invite.Status = domain.InviteStatusAccepted
	invite.RespondedAt = &now
	if invite.InvitedUserID == nil {
		invite.InvitedUserID = &userID
	}
	return invite, nil
}

// Accept responds to an in-app invite. Gated by identity, not token; expiry
// is not checked on this path.
func (s *inviteService) Accept(ctx context.Context, inviteID, userID string) (*domain.EventInvite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	invite, err := s.loadRespondableInvite(ctx, inviteID, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.inviteRepo.MarkAccepted(ctx, invite.ID, userID, now); err != nil {
		return nil, fmt.Errorf("accept invite: %w", err)
	}
	invite.Status = domain.InviteStatusAccepted
	invite.RespondedAt = &now
	return invite, nil
}

// Decline responds to an in-app invite. No membership is created.
func (s *inviteService) Decline(ctx context.Context, inviteID, userID string) (*domain.EventInvite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	invite, err := s.loadRespondableInvite(ctx, inviteID, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.inviteRepo.MarkDeclined(ctx, invite.ID, now); err != nil {
		return nil, fmt.Errorf("decline invite: %w", err)
	}
	invite.Status = domain.InviteStatusDeclined
	invite.RespondedAt = &now
	return invite, nil
}

// loadRespondableInvite loads an invite and validates it for the
// identity-based accept/decline path: the caller must be the invited user,
// the invite must be pending and not revoked.
func (s *inviteService) loadRespondableInvite(ctx context.Context, inviteID, userID string) (*domain.EventInvite, error) {
	invite, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invite: %w", err)
	}
	if invite.InvitedUserID == nil || *invite.InvitedUserID != userID {
		return nil, domain.ErrForbidden
	}
	if !invite.IsPending() {
		return nil, domain.ErrInviteNotPending
	}
	if invite.RevokedAt != nil {
		return nil, domain.ErrInviteRevoked
	}
	return invite, nil
}

func (s *inviteService) ListMyInvites(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.EventInvite, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	invites, total, err := s.inviteRepo.ListPendingByUserID(ctx, userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list my invites: %w", err)
	}
	if invites == nil {
		invites = []*domain.EventInvite{}
	}
	return invites, total, nil
}
