// AngelaMos | 2026
// service_test.go

package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proofofhustle/api/internal/core"
	"github.com/proofofhustle/api/internal/notify"
)

type fakeRepo struct {
	apps   map[int64]*Application
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{apps: map[int64]*Application{}, nextID: 1}
}

func (f *fakeRepo) Create(_ context.Context, app *Application) error {
	app.ID = f.nextID
	f.nextID++
	app.Status = StatusPending
	copied := *app
	f.apps[app.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*Application, error) {
	app, ok := f.apps[id]
	if !ok {
		return nil, fmt.Errorf("get application: %w", core.ErrNotFound)
	}
	copied := *app
	return &copied, nil
}

func (f *fakeRepo) List(
	_ context.Context,
	_ ListApplicationsParams,
) ([]Application, int, error) {
	out := make([]Application, 0, len(f.apps))
	for _, app := range f.apps {
		out = append(out, *app)
	}
	return out, len(out), nil
}

func (f *fakeRepo) UpdateStatus(
	_ context.Context,
	id int64,
	status string,
	reviewedBy int64,
) error {
	app, ok := f.apps[id]
	if !ok || app.Status != StatusPending {
		return fmt.Errorf("update application status: %w", core.ErrNotFound)
	}
	app.Status = status
	app.ReviewedBy = &reviewedBy
	return nil
}

func (f *fakeRepo) LinkUser(_ context.Context, id, userID int64) error {
	app, ok := f.apps[id]
	if !ok {
		return fmt.Errorf("link application user: %w", core.ErrNotFound)
	}
	app.UserID = &userID
	return nil
}

func (f *fakeRepo) WithTx(_ core.DBTX) Repository {
	return f
}

// inTx mimics transaction semantics: writes made by fn are discarded
// when it returns an error.
func (f *fakeRepo) inTx(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	snapshot := make(map[int64]*Application, len(f.apps))
	for id, app := range f.apps {
		copied := *app
		snapshot[id] = &copied
	}

	if err := fn(nil); err != nil {
		f.apps = snapshot
		return err
	}
	return nil
}

type fakeProvisioner struct {
	existing    map[string]bool
	provisioned []string
	nextUserID  int64
	err         error
}

func newFakeProvisioner() *fakeProvisioner {
	return &fakeProvisioner{existing: map[string]bool{}, nextUserID: 100}
}

func (f *fakeProvisioner) ExistsByEmail(
	_ context.Context,
	email string,
) (bool, error) {
	return f.existing[email], nil
}

func (f *fakeProvisioner) ProvisionVerifiedUser(
	_ context.Context,
	_ core.DBTX,
	_, email string,
	_ *string,
) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.provisioned = append(f.provisioned, email)
	f.existing[email] = true
	id := f.nextUserID
	f.nextUserID++
	return id, nil
}

func newTestService(
	repo *fakeRepo,
	users UserProvisioner,
) *Service {
	svc := NewService(nil, repo, users, notify.Noop{}, slog.Default())
	svc.runTx = repo.inTx
	return svc
}

func submitTestApplication(t *testing.T, svc *Service) *Application {
	t.Helper()

	app, err := svc.Submit(context.Background(), SubmitApplicationRequest{
		Name:         "Jordan Builder",
		Email:        "Jordan@Example.com",
		Experience:   "6 years shipping SaaS",
		CurrentFocus: "B2B analytics",
		Goals:        "find a cofounder",
		Skills:       []string{"go", "postgres"},
	})
	require.NoError(t, err)
	return app
}

func TestSubmitLowercasesEmailAndStartsPending(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeRepo(), newFakeProvisioner())
	app := submitTestApplication(t, svc)

	assert.Equal(t, "jordan@example.com", app.Email)
	assert.Equal(t, StatusPending, app.Status)
	assert.NotZero(t, app.ID)
}

func TestReviewApproveProvisionsExactlyOneMember(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	users := newFakeProvisioner()
	svc := newTestService(repo, users)
	app := submitTestApplication(t, svc)

	reviewed, err := svc.Review(
		context.Background(), app.ID, StatusApproved, 1,
	)
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.UserID)
	assert.Equal(t, []string{"jordan@example.com"}, users.provisioned)
}

func TestReviewRejectCreatesNoMember(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	users := newFakeProvisioner()
	svc := newTestService(repo, users)
	app := submitTestApplication(t, svc)

	reviewed, err := svc.Review(
		context.Background(), app.ID, StatusRejected, 1,
	)
	require.NoError(t, err)

	assert.Equal(t, StatusRejected, reviewed.Status)
	assert.Nil(t, reviewed.UserID)
	assert.Empty(t, users.provisioned)
}

func TestReviewRollsBackWhenProvisioningFails(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	users := newFakeProvisioner()
	users.err = errors.New("users table unavailable")
	svc := newTestService(repo, users)
	app := submitTestApplication(t, svc)

	_, err := svc.Review(context.Background(), app.ID, StatusApproved, 1)
	require.Error(t, err)

	// A failed provision must roll the status change back: the
	// application stays pending instead of approved with no account.
	stored, err := svc.Get(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
	assert.Nil(t, stored.UserID)

	users.err = nil
	reviewed, err := svc.Review(context.Background(), app.ID, StatusApproved, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.UserID)
	assert.Equal(t, []string{"jordan@example.com"}, users.provisioned)
}

func TestReviewTwiceFailsWithInvalidState(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeRepo(), newFakeProvisioner())
	app := submitTestApplication(t, svc)

	_, err := svc.Review(context.Background(), app.ID, StatusRejected, 1)
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), app.ID, StatusApproved, 1)
	assert.ErrorIs(t, err, core.ErrInvalidState)
}

func TestReviewApproveExistingMemberConflicts(t *testing.T) {
	t.Parallel()

	users := newFakeProvisioner()
	users.existing["jordan@example.com"] = true
	svc := newTestService(newFakeRepo(), users)
	app := submitTestApplication(t, svc)

	_, err := svc.Review(context.Background(), app.ID, StatusApproved, 1)
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
	assert.Empty(t, users.provisioned)

	// the application stays pending so the duplicate can be resolved
	unchanged, err := svc.Get(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, unchanged.Status)
}

func TestReviewBogusDecisionRejected(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeRepo(), newFakeProvisioner())
	app := submitTestApplication(t, svc)

	_, err := svc.Review(context.Background(), app.ID, "maybe", 1)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestReviewMissingApplication(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeRepo(), newFakeProvisioner())

	_, err := svc.Review(context.Background(), 9999, StatusApproved, 1)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
