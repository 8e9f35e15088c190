package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"gatherly/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventRepo is an in-memory EventRepository for tests. When members is
// set, CreateWithOwner also records the owner membership, mirroring the
// single-transaction behavior of the real repository.
type fakeEventRepo struct {
	byID    map[string]*domain.Event
	members *fakeMemberRepo
	nextID  int
	err     error // if set, CreateWithOwner returns this error
}

func newFakeEventRepo(members *fakeMemberRepo) *fakeEventRepo {
	return &fakeEventRepo{
		byID:    make(map[string]*domain.Event),
		members: members,
		nextID:  1,
	}
}

func (f *fakeEventRepo) CreateWithOwner(ctx context.Context, e *domain.Event, owner *domain.EventMember) error {
	if f.err != nil {
		return f.err
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	if f.members != nil {
		owner.EventID = e.ID
		_ = f.members.Upsert(ctx, owner)
	}
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) ListByMemberID(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if f.members == nil {
			continue
		}
		if _, err := f.members.GetByEventAndUser(ctx, e.ID, userID); err == nil {
			out = append(out, e)
		}
	}
	if out == nil {
		out = []*domain.Event{}
	}
	return paginate(out, params)
}

// fakeMemberRepo is an in-memory EventMemberRepository for tests.
type fakeMemberRepo struct {
	byEvent map[string]map[string]*domain.EventMember // eventID -> userID -> member
	err     error                                     // if set, Upsert returns this error
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{byEvent: make(map[string]map[string]*domain.EventMember)}
}

func (f *fakeMemberRepo) Upsert(ctx context.Context, m *domain.EventMember) error {
	if f.err != nil {
		return f.err
	}
	if f.byEvent[m.EventID] == nil {
		f.byEvent[m.EventID] = make(map[string]*domain.EventMember)
	}
	if _, ok := f.byEvent[m.EventID][m.UserID]; ok {
		return nil
	}
	f.byEvent[m.EventID][m.UserID] = m
	return nil
}

func (f *fakeMemberRepo) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.EventMember, error) {
	if m, ok := f.byEvent[eventID][userID]; ok {
		return m, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeMemberRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventMember, error) {
	out := []*domain.EventMember{}
	for _, m := range f.byEvent[eventID] {
		out = append(out, m)
	}
	return out, nil
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID   map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) addUser(id, email, name string) *domain.User {
	u := &domain.User{ID: id, Email: strings.ToLower(email), Name: name}
	f.byID[id] = u
	return u
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

// fakeTokenService issues deterministic tokens so tests can predict links and
// hashes.
type fakeTokenService struct {
	next int
	err  error // if set, GenerateRawToken returns this error
}

func (f *fakeTokenService) GenerateRawToken(length int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.next++
	return fmt.Sprintf("raw-token-%d", f.next), nil
}

func (f *fakeTokenService) HashToken(raw string) string {
	return "hash:" + raw
}

// fakeEmailService records invite emails. Guarded by a mutex because dispatch
// happens off the request goroutine.
type fakeEmailService struct {
	mu   sync.Mutex
	sent []*domain.EventInviteEmailData
	err  error
}

func (f *fakeEmailService) SendEventInvite(ctx context.Context, data *domain.EventInviteEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

func (f *fakeEmailService) sentTo() []*domain.EventInviteEmailData {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.EventInviteEmailData, len(f.sent))
	copy(out, f.sent)
	return out
}

// fakeInviteRepo is an in-memory EventInviteRepository. Upsert is keyed on
// (event, email) and MarkAccepted records the membership, both mirroring the
// real repository.
type fakeInviteRepo struct {
	byID    map[string]*domain.EventInvite
	members *fakeMemberRepo
	nextID  int

	upsertErr       error
	markAcceptedErr error
	markExpiredErr  error
}

func newFakeInviteRepo(members *fakeMemberRepo) *fakeInviteRepo {
	return &fakeInviteRepo{byID: make(map[string]*domain.EventInvite), members: members, nextID: 1}
}

func (f *fakeInviteRepo) Upsert(ctx context.Context, inv *domain.EventInvite) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	now := time.Now()
	for id, existing := range f.byID {
		if existing.EventID == inv.EventID && strings.EqualFold(existing.InvitedEmail, inv.InvitedEmail) {
			inv.ID = id
			inv.CreatedAt = existing.CreatedAt
			inv.UpdatedAt = now
			inv.Status = domain.InviteStatusPending
			inv.RespondedAt = nil
			inv.RevokedAt = nil
			f.byID[id] = inv
			return nil
		}
	}
	inv.ID = fmt.Sprintf("inv-%d", f.nextID)
	f.nextID++
	inv.CreatedAt = now
	inv.UpdatedAt = now
	f.byID[inv.ID] = inv
	return nil
}

func (f *fakeInviteRepo) GetByID(ctx context.Context, id string) (*domain.EventInvite, error) {
	if inv, ok := f.byID[id]; ok {
		return inv, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInviteRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.EventInvite, error) {
	for _, inv := range f.byID {
		if inv.TokenHash != nil && *inv.TokenHash == tokenHash {
			return inv, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInviteRepo) MarkAccepted(ctx context.Context, inviteID, userID string, respondedAt time.Time) error {
	if f.markAcceptedErr != nil {
		return f.markAcceptedErr
	}
	inv, ok := f.byID[inviteID]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = domain.InviteStatusAccepted
	inv.RespondedAt = &respondedAt
	if inv.InvitedUserID == nil {
		inv.InvitedUserID = &userID
	}
	if f.members != nil {
		_ = f.members.Upsert(ctx, domain.NewEventMember(inv.EventID, userID, domain.RoleMember, respondedAt))
	}
	return nil
}

func (f *fakeInviteRepo) MarkDeclined(ctx context.Context, inviteID string, respondedAt time.Time) error {
	inv, ok := f.byID[inviteID]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = domain.InviteStatusDeclined
	inv.RespondedAt = &respondedAt
	return nil
}

func (f *fakeInviteRepo) MarkExpired(ctx context.Context, inviteID string) error {
	if f.markExpiredErr != nil {
		return f.markExpiredErr
	}
	inv, ok := f.byID[inviteID]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = domain.InviteStatusExpired
	return nil
}

func (f *fakeInviteRepo) ListByEventID(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.EventInvite, int, error) {
	out := []*domain.EventInvite{}
	for _, inv := range f.byID {
		if inv.EventID == eventID {
			out = append(out, inv)
		}
	}
	return paginate(out, params)
}

func (f *fakeInviteRepo) ListPendingByUserID(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.EventInvite, int, error) {
	out := []*domain.EventInvite{}
	for _, inv := range f.byID {
		if inv.InvitedUserID != nil && *inv.InvitedUserID == userID && inv.IsPending() && inv.RevokedAt == nil {
			out = append(out, inv)
		}
	}
	return paginate(out, params)
}

// paginate slices a full result set the way the repositories do.
func paginate[T any](all []T, params domain.PaginationParams) ([]T, int, error) {
	total := len(all)
	offset := params.Offset()
	if offset > total {
		offset = total
	}
	end := offset + params.Limit()
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

// inviteFixture wires the invite service with all fakes and one seeded event
// (ev-1, owned by user-owner).
type inviteFixture struct {
	inviteRepo *fakeInviteRepo
	eventRepo  *fakeEventRepo
	memberRepo *fakeMemberRepo
	userRepo   *fakeUserRepo
	tokens     *fakeTokenService
	email      *fakeEmailService
	svc        domain.InviteService
}

func newInviteFixture(t *testing.T) *inviteFixture {
	t.Helper()
	members := newFakeMemberRepo()
	f := &inviteFixture{
		inviteRepo: newFakeInviteRepo(members),
		eventRepo:  newFakeEventRepo(members),
		memberRepo: members,
		userRepo:   newFakeUserRepo(),
		tokens:     &fakeTokenService{},
		email:      &fakeEmailService{},
	}
	f.svc = NewInviteService(
		f.inviteRepo, f.eventRepo, f.memberRepo, f.userRepo,
		f.tokens, f.email, NewEventPolicy(members),
		"https://app.example.com/", 5*time.Second,
	)

	f.userRepo.addUser("user-owner", "owner@example.com", "Owner")
	ev := domain.NewEvent("Team Offsite", time.Now().Add(24*time.Hour), "user-owner", time.Now(), time.Now())
	owner := domain.NewEventMember("", "user-owner", domain.RoleOwner, time.Now())
	require.NoError(t, f.eventRepo.CreateWithOwner(context.Background(), ev, owner))
	return f
}

func TestInviteService_Invite(t *testing.T) {
	ctx := context.Background()

	t.Run("token mode for unknown email", func(t *testing.T) {
		f := newInviteFixture(t)
		before := time.Now()

		inv, link, err := f.svc.Invite(ctx, "ev-1", "user-owner", "New.Person@Example.com ")
		require.NoError(t, err)
		require.NotNil(t, inv)

		assert.Equal(t, domain.InviteModeToken, inv.Mode())
		assert.Equal(t, domain.InviteStatusPending, inv.Status)
		assert.Equal(t, "new.person@example.com", inv.InvitedEmail)
		assert.Nil(t, inv.InvitedUserID)
		require.NotNil(t, inv.TokenHash)
		assert.Equal(t, "hash:raw-token-1", *inv.TokenHash)
		assert.Equal(t, "https://app.example.com/join?token=raw-token-1", link)
		assert.NotContains(t, link, *inv.TokenHash)

		require.NotNil(t, inv.ExpiresAt)
		assert.WithinDuration(t, before.Add(72*time.Hour), *inv.ExpiresAt, time.Minute)
	})

	t.Run("in-app mode for registered email", func(t *testing.T) {
		f := newInviteFixture(t)
		f.userRepo.addUser("user-2", "friend@example.com", "Friend")

		inv, link, err := f.svc.Invite(ctx, "ev-1", "user-owner", "friend@example.com")
		require.NoError(t, err)
		assert.Equal(t, domain.InviteModeInApp, inv.Mode())
		require.NotNil(t, inv.InvitedUserID)
		assert.Equal(t, "user-2", *inv.InvitedUserID)
		assert.Nil(t, inv.TokenHash)
		assert.Nil(t, inv.ExpiresAt)
		assert.Empty(t, link)
	})

	t.Run("re-invite refreshes existing row", func(t *testing.T) {
		f := newInviteFixture(t)

		first, _, err := f.svc.Invite(ctx, "ev-1", "user-owner", "new@example.com")
		require.NoError(t, err)
		second, link, err := f.svc.Invite(ctx, "ev-1", "user-owner", "new@example.com")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID, "re-invite must reuse the row")
		require.NotNil(t, second.TokenHash)
		assert.NotEqual(t, *first.TokenHash, *second.TokenHash, "re-invite rotates the token")
		assert.Contains(t, link, "raw-token-2")
		assert.Len(t, f.inviteRepo.byID, 1)
	})

	t.Run("invited email already a member", func(t *testing.T) {
		f := newInviteFixture(t)
		f.userRepo.addUser("user-2", "member@example.com", "Member")
		require.NoError(t, f.memberRepo.Upsert(ctx, domain.NewEventMember("ev-1", "user-2", domain.RoleMember, time.Now())))

		_, _, err := f.svc.Invite(ctx, "ev-1", "user-owner", "member@example.com")
		require.ErrorIs(t, err, domain.ErrAlreadyMember)
	})

	t.Run("non-owner cannot invite", func(t *testing.T) {
		f := newInviteFixture(t)
		f.userRepo.addUser("user-2", "member@example.com", "Member")
		require.NoError(t, f.memberRepo.Upsert(ctx, domain.NewEventMember("ev-1", "user-2", domain.RoleMember, time.Now())))

		_, _, err := f.svc.Invite(ctx, "ev-1", "user-2", "new@example.com")
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("event not found", func(t *testing.T) {
		f := newInviteFixture(t)
		_, _, err := f.svc.Invite(ctx, "ev-missing", "user-owner", "new@example.com")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("blank email rejected", func(t *testing.T) {
		f := newInviteFixture(t)
		_, _, err := f.svc.Invite(ctx, "ev-1", "user-owner", "   ")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("invite email dispatched with join link", func(t *testing.T) {
		f := newInviteFixture(t)
		_, link, err := f.svc.Invite(ctx, "ev-1", "user-owner", "new@example.com")
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			return len(f.email.sentTo()) == 1
		}, time.Second, 10*time.Millisecond)

		sent := f.email.sentTo()[0]
		assert.Equal(t, "new@example.com", sent.Email)
		assert.Equal(t, "Team Offsite", sent.EventTitle)
		assert.Equal(t, "Owner", sent.InviterName)
		assert.Equal(t, link, sent.JoinLink)
		assert.NotEmpty(t, sent.ExpiresAt)
	})
}

func TestInviteService_Join(t *testing.T) {
	ctx := context.Background()

	// seedTokenInvite creates a pending token invite for the email and returns
	// the raw token from the generated link.
	seedTokenInvite := func(t *testing.T, f *inviteFixture, email string) (inv *domain.EventInvite, rawToken string) {
		t.Helper()
		inv, link, err := f.svc.Invite(ctx, "ev-1", "user-owner", email)
		require.NoError(t, err)
		parts := strings.Split(link, "token=")
		require.Len(t, parts, 2)
		return inv, parts[1]
	}

	t.Run("success creates membership and accepts invite", func(t *testing.T) {
		f := newInviteFixture(t)
		inv, raw := seedTokenInvite(t, f, "new@example.com")
		f.userRepo.addUser("user-2", "new@example.com", "Newcomer")

		got, err := f.svc.Join(ctx, "user-2", raw)
		require.NoError(t, err)
		assert.Equal(t, domain.InviteStatusAccepted, got.Status)
		require.NotNil(t, got.InvitedUserID)
		assert.Equal(t, "user-2", *got.InvitedUserID)
		require.NotNil(t, got.RespondedAt)

		m, err := f.memberRepo.GetByEventAndUser(ctx, "ev-1", "user-2")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleMember, m.Role)

		stored := f.inviteRepo.byID[inv.ID]
		assert.Equal(t, domain.InviteStatusAccepted, stored.Status)
	})

	t.Run("email match is case-insensitive", func(t *testing.T) {
		f := newInviteFixture(t)
		_, raw := seedTokenInvite(t, f, "new@example.com")
		f.userRepo.byID["user-2"] = &domain.User{ID: "user-2", Email: "New@Example.COM"}

		_, err := f.svc.Join(ctx, "user-2", raw)
		require.NoError(t, err)
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newInviteFixture(t)
		_, err := f.svc.Join(ctx, "user-2", "no-such-token")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("second join with same token", func(t *testing.T) {
		f := newInviteFixture(t)
		_, raw := seedTokenInvite(t, f, "new@example.com")
		f.userRepo.addUser("user-2", "new@example.com", "Newcomer")

		_, err := f.svc.Join(ctx, "user-2", raw)
		require.NoError(t, err)
		_, err = f.svc.Join(ctx, "user-2", raw)
		require.ErrorIs(t, err, domain.ErrInviteNotPending)
	})

	t.Run("revoked invite", func(t *testing.T) {
		f := newInviteFixture(t)
		inv, raw := seedTokenInvite(t, f, "new@example.com")
		f.userRepo.addUser("user-2", "new@example.com", "Newcomer")
		now := time.Now()
		f.inviteRepo.byID[inv.ID].RevokedAt = &now

		_, err := f.svc.Join(ctx, "user-2", raw)
		require.ErrorIs(t, err, domain.ErrInviteRevoked)
	})

	t.Run("expired invite flips status lazily", func(t *testing.T) {
		f := newInviteFixture(t)
		inv, raw := seedTokenInvite(t, f, "new@example.com")
		f.userRepo.addUser("user-2", "new@example.com", "Newcomer")
		past := time.Now().Add(-time.Hour)
		f.inviteRepo.byID[inv.ID].ExpiresAt = &past

		_, err := f.svc.Join(ctx, "user-2", raw)
		require.ErrorIs(t, err, domain.ErrInviteExpired)
		assert.Equal(t, domain.InviteStatusExpired, f.inviteRepo.byID[inv.ID].Status,
			"expiry must be persisted on access")

		_, memErr := f.memberRepo.GetByEventAndUser(ctx, "ev-1", "user-2")
		require.ErrorIs(t, memErr, domain.ErrNotFound)
	})

	t.Run("email mismatch leaves invite pending", func(t *testing.T) {
		f := newInviteFixture(t)
		inv, raw := seedTokenInvite(t, f, "new@example.com")
		f.userRepo.addUser("user-3", "other@example.com", "Other")

		_, err := f.svc.Join(ctx, "user-3", raw)
		require.ErrorIs(t, err, domain.ErrEmailMismatch)
		assert.Equal(t, domain.InviteStatusPending, f.inviteRepo.byID[inv.ID].Status,
			"a mismatched join must not consume the invite")
	})

	t.Run("mark expired failure surfaces", func(t *testing.T) {
		f := newInviteFixture(t)
		inv, raw := seedTokenInvite(t, f, "new@example.com")
		past := time.Now().Add(-time.Hour)
		f.inviteRepo.byID[inv.ID].ExpiresAt = &past
		f.inviteRepo.markExpiredErr = errors.New("db error")

		_, err := f.svc.Join(ctx, "user-2", raw)
		require.Error(t, err)
		require.NotErrorIs(t, err, domain.ErrInviteExpired)
	})
}

func TestInviteService_AcceptDecline(t *testing.T) {
	ctx := context.Background()

	// seedInAppInvite invites a registered user and returns the pending invite.
	seedInAppInvite := func(t *testing.T, f *inviteFixture) *domain.EventInvite {
		t.Helper()
		f.userRepo.addUser("user-2", "friend@example.com", "Friend")
		inv, _, err := f.svc.Invite(ctx, "ev-1", "user-owner", "friend@example.com")
		require.NoError(t, err)
		return inv
	}

	t.Run("accept creates membership", func(t *testing.T) {
		f := newInviteFixture(t)
		inv := seedInAppInvite(t, f)

		got, err := f.svc.Accept(ctx, inv.ID, "user-2")
		require.NoError(t, err)
		assert.Equal(t, domain.InviteStatusAccepted, got.Status)
		require.NotNil(t, got.RespondedAt)

		m, err := f.memberRepo.GetByEventAndUser(ctx, "ev-1", "user-2")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleMember, m.Role)
	})

	t.Run("decline leaves no membership", func(t *testing.T) {
		f := newInviteFixture(t)
		inv := seedInAppInvite(t, f)

		got, err := f.svc.Decline(ctx, inv.ID, "user-2")
		require.NoError(t, err)
		assert.Equal(t, domain.InviteStatusDeclined, got.Status)

		_, err = f.memberRepo.GetByEventAndUser(ctx, "ev-1", "user-2")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("only the invited user may respond", func(t *testing.T) {
		f := newInviteFixture(t)
		inv := seedInAppInvite(t, f)
		f.userRepo.addUser("user-3", "other@example.com", "Other")

		_, err := f.svc.Accept(ctx, inv.ID, "user-3")
		require.ErrorIs(t, err, domain.ErrForbidden)
		_, err = f.svc.Decline(ctx, inv.ID, "user-3")
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("token invite has no responder identity", func(t *testing.T) {
		f := newInviteFixture(t)
		inv, _, err := f.svc.Invite(ctx, "ev-1", "user-owner", "stranger@example.com")
		require.NoError(t, err)

		_, err = f.svc.Accept(ctx, inv.ID, "user-owner")
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("already responded", func(t *testing.T) {
		f := newInviteFixture(t)
		inv := seedInAppInvite(t, f)
		_, err := f.svc.Accept(ctx, inv.ID, "user-2")
		require.NoError(t, err)

		_, err = f.svc.Decline(ctx, inv.ID, "user-2")
		require.ErrorIs(t, err, domain.ErrInviteNotPending)
	})

	t.Run("revoked invite", func(t *testing.T) {
		f := newInviteFixture(t)
		inv := seedInAppInvite(t, f)
		now := time.Now()
		f.inviteRepo.byID[inv.ID].RevokedAt = &now

		_, err := f.svc.Accept(ctx, inv.ID, "user-2")
		require.ErrorIs(t, err, domain.ErrInviteRevoked)
	})

	t.Run("invite not found", func(t *testing.T) {
		f := newInviteFixture(t)
		_, err := f.svc.Accept(ctx, "inv-missing", "user-2")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestInviteService_ListEventInvites(t *testing.T) {
	ctx := context.Background()
	params := domain.PaginationParams{Page: 1, PageSize: 10}

	t.Run("owner lists invites", func(t *testing.T) {
		f := newInviteFixture(t)
		_, _, err := f.svc.Invite(ctx, "ev-1", "user-owner", "a@example.com")
		require.NoError(t, err)
		_, _, err = f.svc.Invite(ctx, "ev-1", "user-owner", "b@example.com")
		require.NoError(t, err)

		invites, total, err := f.svc.ListEventInvites(ctx, "ev-1", "user-owner", params)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, invites, 2)
	})

	t.Run("member without owner role is forbidden", func(t *testing.T) {
		f := newInviteFixture(t)
		f.userRepo.addUser("user-2", "member@example.com", "Member")
		require.NoError(t, f.memberRepo.Upsert(ctx, domain.NewEventMember("ev-1", "user-2", domain.RoleMember, time.Now())))

		_, _, err := f.svc.ListEventInvites(ctx, "ev-1", "user-2", params)
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("event not found", func(t *testing.T) {
		f := newInviteFixture(t)
		_, _, err := f.svc.ListEventInvites(ctx, "ev-missing", "user-owner", params)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestInviteService_ListMyInvites(t *testing.T) {
	ctx := context.Background()
	params := domain.PaginationParams{Page: 1, PageSize: 10}

	t.Run("pending in-app invites only", func(t *testing.T) {
		f := newInviteFixture(t)
		f.userRepo.addUser("user-2", "friend@example.com", "Friend")
		inv, _, err := f.svc.Invite(ctx, "ev-1", "user-owner", "friend@example.com")
		require.NoError(t, err)

		invites, total, err := f.svc.ListMyInvites(ctx, "user-2", params)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, invites, 1)
		assert.Equal(t, inv.ID, invites[0].ID)

		_, err = f.svc.Decline(ctx, inv.ID, "user-2")
		require.NoError(t, err)

		invites, total, err = f.svc.ListMyInvites(ctx, "user-2", params)
		require.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.Empty(t, invites)
	})

	t.Run("empty for user with no invites", func(t *testing.T) {
		f := newInviteFixture(t)
		invites, total, err := f.svc.ListMyInvites(ctx, "user-none", params)
		require.NoError(t, err)
		assert.Equal(t, 0, total)
		require.NotNil(t, invites)
		assert.Empty(t, invites)
	})
}
