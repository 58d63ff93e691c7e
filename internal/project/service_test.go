// AngelaMos | 2026
// service_test.go

package project

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proofofhustle/api/internal/core"
	"github.com/proofofhustle/api/internal/notify"
	"github.com/proofofhustle/api/internal/role"
)

type fakeRepo struct {
	projects map[int64]*Project
	nextID   int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{projects: map[int64]*Project{}, nextID: 1}
}

func (f *fakeRepo) Create(_ context.Context, p *Project) error {
	p.ID = f.nextID
	f.nextID++
	p.Status = StatusPending
	p.CreatedAt = time.Now()
	copied := *p
	f.projects[p.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, fmt.Errorf("get project: %w", core.ErrNotFound)
	}
	copied := *p
	return &copied, nil
}

func (f *fakeRepo) ListForRole(
	_ context.Context,
	viewer role.Role,
	_ ListProjectsParams,
) ([]Project, int, error) {
	var out []Project
	for _, p := range f.projects {
		if !p.IsApproved() && viewer != role.Admin {
			continue
		}
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Approve(
	_ context.Context,
	id int64,
	category string,
	visibleTo core.JSONStrings,
	approvedBy int64,
) error {
	p, ok := f.projects[id]
	if !ok || p.Status != StatusPending {
		return fmt.Errorf("approve project: %w", core.ErrNotFound)
	}
	now := time.Now()
	p.Status = StatusApproved
	p.Category = category
	p.VisibleTo = visibleTo
	p.ApprovedBy = &approvedBy
	p.ApprovedAt = &now
	return nil
}

func (f *fakeRepo) Reject(_ context.Context, id, reviewedBy int64) error {
	p, ok := f.projects[id]
	if !ok || p.Status != StatusPending {
		return fmt.Errorf("reject project: %w", core.ErrNotFound)
	}
	p.Status = StatusRejected
	p.ApprovedBy = &reviewedBy
	return nil
}

type fakeDirectory struct {
	names map[int64]string
}

func (f *fakeDirectory) UserName(_ context.Context, userID int64) (string, error) {
	name, ok := f.names[userID]
	if !ok {
		return "", fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return name, nil
}

// capturingNotifier records sent messages for assertion.
type capturingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (c *capturingNotifier) Send(_ context.Context, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message)
	return nil
}

func (c *capturingNotifier) last() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) == 0 {
		return "", false
	}
	return c.messages[len(c.messages)-1], true
}

func newTestService(repo Repository) *Service {
	members := &fakeDirectory{names: map[int64]string{7: "Jordan Builder"}}
	return NewService(repo, members, notify.Noop{}, slog.Default())
}

func submitTestProject(t *testing.T, svc *Service, submitterID int64) *Project {
	t.Helper()

	p, err := svc.Submit(context.Background(), SubmitProjectRequest{
		Title:       "Invoice automation",
		Description: "Chases unpaid invoices automatically.",
	}, submitterID)
	require.NoError(t, err)
	return p
}

func TestSubmitDefaultsToPendingRookie(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeRepo())
	p := submitTestProject(t, svc, 7)

	assert.Equal(t, StatusPending, p.Status)
	assert.Equal(t, CategoryRookie, p.Category)
	assert.Equal(t, []string(VisibleTo(CategoryRookie)), []string(p.VisibleTo))
}

func TestSubmitAlertNamesTheSubmitter(t *testing.T) {
	t.Parallel()

	notifier := &capturingNotifier{}
	members := &fakeDirectory{names: map[int64]string{7: "Jordan Builder"}}
	svc := NewService(newFakeRepo(), members, notifier, slog.Default())

	_, err := svc.Submit(context.Background(), SubmitProjectRequest{
		Title:       "Invoice automation",
		Description: "Chases unpaid invoices automatically.",
	}, 7)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		message, ok := notifier.last()
		return ok && strings.Contains(message, "Jordan Builder")
	}, time.Second, 10*time.Millisecond,
		"alert carries the member's real name")
}

func TestSubmitAlertFallsBackToMemberID(t *testing.T) {
	t.Parallel()

	notifier := &capturingNotifier{}
	members := &fakeDirectory{names: map[int64]string{}}
	svc := NewService(newFakeRepo(), members, notifier, slog.Default())

	_, err := svc.Submit(context.Background(), SubmitProjectRequest{
		Title:       "Invoice automation",
		Description: "Chases unpaid invoices automatically.",
	}, 42)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		message, ok := notifier.last()
		return ok && strings.Contains(message, "member #42")
	}, time.Second, 10*time.Millisecond)
}

func TestReviewApproveAssignsCategoryAndVisibility(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeRepo())
	p := submitTestProject(t, svc, 7)

	reviewed, err := svc.Review(
		context.Background(), p.ID, StatusApproved, CategoryGodtier, 1,
	)
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, reviewed.Status)
	assert.Equal(t, CategoryGodtier, reviewed.Category)
	assert.Equal(t,
		[]string{string(role.Inner)},
		[]string(reviewed.VisibleTo),
		"godtier grants full disclosure to inner circle only",
	)
	require.NotNil(t, reviewed.ApprovedBy)
	assert.Equal(t, int64(1), *reviewed.ApprovedBy)
}

func TestReviewApproveWithoutCategoryDefaultsRookie(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeRepo())
	p := submitTestProject(t, svc, 7)

	reviewed, err := svc.Review(
		context.Background(), p.ID, StatusApproved, "", 1,
	)
	require.NoError(t, err)
	assert.Equal(t, CategoryRookie, reviewed.Category)
}

func TestReviewTwiceFailsWithInvalidState(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeRepo())
	p := submitTestProject(t, svc, 7)

	_, err := svc.Review(
		context.Background(), p.ID, StatusRejected, "", 1,
	)
	require.NoError(t, err)

	_, err = svc.Review(
		context.Background(), p.ID, StatusApproved, CategoryMVP, 1,
	)
	assert.ErrorIs(t, err, core.ErrInvalidState)
}

func TestReviewInvalidInputs(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeRepo())
	p := submitTestProject(t, svc, 7)

	_, err := svc.Review(
		context.Background(), p.ID, "promote", "", 1,
	)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = svc.Review(
		context.Background(), p.ID, StatusApproved, "legendary", 1,
	)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestGetHidesPendingFromOtherMembers(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeRepo())
	p := submitTestProject(t, svc, 7)

	_, err := svc.Get(context.Background(), p.ID, role.Inner, 99)
	assert.ErrorIs(t, err, core.ErrNotFound)

	// the submitter and admins still see it
	view, err := svc.Get(context.Background(), p.ID, role.Premium, 7)
	require.NoError(t, err)
	assert.Equal(t, AccessFull, view.Access)

	adminView, err := svc.Get(context.Background(), p.ID, role.Admin, 99)
	require.NoError(t, err)
	require.NotNil(t, adminView.Status)
	assert.Equal(t, StatusPending, *adminView.Status)
}

func TestGetSubmitterAlwaysSeesFullDetail(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeRepo())
	p := submitTestProject(t, svc, 7)

	_, err := svc.Review(
		context.Background(), p.ID, StatusApproved, CategoryGodtier, 1,
	)
	require.NoError(t, err)

	// a verified viewer gets the locked card
	view, err := svc.Get(context.Background(), p.ID, role.Verified, 99)
	require.NoError(t, err)
	assert.Equal(t, AccessLocked, view.Access)
	assert.Nil(t, view.Description)

	// the verified submitter still sees everything
	own, err := svc.Get(context.Background(), p.ID, role.Verified, 7)
	require.NoError(t, err)
	assert.Equal(t, AccessFull, own.Access)
	require.NotNil(t, own.Description)
}
