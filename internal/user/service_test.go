// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proofofhustle/api/internal/core"
	"github.com/proofofhustle/api/internal/role"
)

type fakeRepo struct {
	users  map[int64]*User
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[int64]*User{}, nextID: 1}
}

func (f *fakeRepo) byEmail(email string) *User {
	for _, u := range f.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (f *fakeRepo) Create(_ context.Context, user *User) error {
	if f.byEmail(user.Email) != nil {
		return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}
	user.ID = f.nextID
	f.nextID++
	if user.Role == "" {
		user.Role = role.Unverified
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	if u := f.byEmail(email); u != nil {
		copied := *u
		return &copied, nil
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (f *fakeRepo) Update(_ context.Context, user *User) error {
	stored, ok := f.users[user.ID]
	if !ok {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	stored.Name = user.Name
	stored.TelegramHandle = user.TelegramHandle
	return nil
}

func (f *fakeRepo) UpdatePassword(
	_ context.Context,
	id int64,
	passwordHash string,
) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeRepo) UpdateRole(
	_ context.Context,
	id int64,
	newRole role.Role,
) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("update role: %w", core.ErrNotFound)
	}
	u.Role = newRole
	return nil
}

func (f *fakeRepo) ApplyPlan(
	_ context.Context,
	id int64,
	plan string,
	newRole role.Role,
	expiry time.Time,
) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("apply plan: %w", core.ErrNotFound)
	}
	u.Role = newRole
	u.PaymentPlan = &plan
	u.PaymentExpiry = &expiry
	return nil
}

func (f *fakeRepo) MarkEmailVerified(_ context.Context, id int64) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("mark email verified: %w", core.ErrNotFound)
	}
	u.EmailVerified = true
	return nil
}

func (f *fakeRepo) IncrementTokenVersion(_ context.Context, id int64) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("increment token version: %w", core.ErrNotFound)
	}
	u.TokenVersion++
	return nil
}

func (f *fakeRepo) List(
	_ context.Context,
	_ ListUsersParams,
) ([]User, int, error) {
	out := make([]User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (f *fakeRepo) ExistsByEmail(
	_ context.Context,
	email string,
) (bool, error) {
	return f.byEmail(email) != nil, nil
}

func (f *fakeRepo) WithTx(_ core.DBTX) Repository {
	return f
}

func (f *fakeRepo) DowngradeExpired(
	_ context.Context,
	now time.Time,
) (int64, error) {
	var count int64
	for _, u := range f.users {
		if u.PaymentExpiry == nil || !u.PaymentExpiry.Before(now) {
			continue
		}
		if u.Role != role.Premium && u.Role != role.Inner {
			continue
		}
		u.Role = role.Verified
		u.PaymentPlan = nil
		u.PaymentExpiry = nil
		count++
	}
	return count, nil
}

func TestProvisionVerifiedUserStartsVerified(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo)

	handle := "@jordan"
	id, err := svc.ProvisionVerifiedUser(
		context.Background(), nil, "Jordan", "Jordan@Example.com", &handle,
	)
	require.NoError(t, err)

	u, err := svc.GetUser(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, "jordan@example.com", u.Email)
	assert.Equal(t, role.Verified, u.Role)
	assert.True(t, u.EmailVerified)
	assert.NotEmpty(t, u.PasswordHash,
		"placeholder credential is set so the account is never passwordless")
}

func TestApplyPlanMapsPlanToRole(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo)

	id, err := svc.ProvisionVerifiedUser(
		context.Background(), nil, "Jordan", "jordan@example.com", nil,
	)
	require.NoError(t, err)

	expiry := time.Now().AddDate(0, 6, 0)
	require.NoError(t, svc.ApplyPlan(
		context.Background(), nil, id, "inner", expiry,
	))

	u, err := svc.GetUser(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, role.Inner, u.Role)
	require.NotNil(t, u.PaymentExpiry)
	assert.Equal(t, expiry, *u.PaymentExpiry)

	err = svc.ApplyPlan(context.Background(), nil, id, "platinum", expiry)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestDowngradeExpiredResetsToVerified(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo)

	id, err := svc.ProvisionVerifiedUser(
		context.Background(), nil, "Jordan", "jordan@example.com", nil,
	)
	require.NoError(t, err)

	lapsed := time.Now().Add(-time.Hour)
	require.NoError(t, svc.ApplyPlan(
		context.Background(), nil, id, "premium", lapsed,
	))

	count, err := svc.DowngradeExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	u, err := svc.GetUser(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, role.Verified, u.Role)
	assert.Nil(t, u.PaymentPlan)
	assert.Nil(t, u.PaymentExpiry)
	assert.True(t, u.EmailVerified, "downgrade never touches verification")
}

func TestUpdateUserRoleRejectsUnknownRole(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo())

	_, err := svc.UpdateUserRole(context.Background(), 1, "moderator")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestGetMeRequiresIdentity(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo())

	_, err := svc.GetMe(context.Background(), 0)
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestEnsureAdmin(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo)

	// unconfigured: nothing happens
	require.NoError(t, svc.EnsureAdmin(context.Background(), "", "", ""))
	assert.Empty(t, repo.users)

	require.NoError(t, svc.EnsureAdmin(
		context.Background(), "Admin@ProofOfHustle.dev", "hunter2x", "Admin",
	))

	u, err := svc.GetByEmail(context.Background(), "admin@proofofhustle.dev")
	require.NoError(t, err)
	assert.Equal(t, role.Admin, u.Role)

	// idempotent on restart
	require.NoError(t, svc.EnsureAdmin(
		context.Background(), "admin@proofofhustle.dev", "hunter2x", "Admin",
	))
	assert.Len(t, repo.users, 1)
}
