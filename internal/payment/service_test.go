// AngelaMos | 2026
// service_test.go

package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proofofhustle/api/internal/core"
	"github.com/proofofhustle/api/internal/notify"
)

type fakeRepo struct {
	payments map[int64]*Payment
	nextID   int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{payments: map[int64]*Payment{}, nextID: 1}
}

func (f *fakeRepo) Create(_ context.Context, p *Payment) error {
	p.ID = f.nextID
	f.nextID++
	p.Status = StatusPending
	copied := *p
	f.payments[p.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, fmt.Errorf("get payment: %w", core.ErrNotFound)
	}
	copied := *p
	return &copied, nil
}

func (f *fakeRepo) ListForUser(
	_ context.Context,
	userID int64,
	_ ListPaymentsParams,
) ([]Payment, int, error) {
	var out []Payment
	for _, p := range f.payments {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) List(
	_ context.Context,
	_ ListPaymentsParams,
) ([]Payment, int, error) {
	var out []Payment
	for _, p := range f.payments {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (f *fakeRepo) MarkSuccess(
	_ context.Context,
	id int64,
	transactionID string,
) error {
	p, ok := f.payments[id]
	if !ok || p.Status != StatusPending {
		return fmt.Errorf("mark payment success: %w", core.ErrNotFound)
	}
	p.Status = StatusSuccess
	p.TransactionID = &transactionID
	return nil
}

func (f *fakeRepo) MarkFailed(_ context.Context, id int64) error {
	p, ok := f.payments[id]
	if !ok || p.Status != StatusPending {
		return fmt.Errorf("mark payment failed: %w", core.ErrNotFound)
	}
	p.Status = StatusFailed
	return nil
}

func (f *fakeRepo) WithTx(_ core.DBTX) Repository {
	return f
}

// inTx mimics transaction semantics: writes made by fn are discarded
// when it returns an error.
func (f *fakeRepo) inTx(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	snapshot := make(map[int64]*Payment, len(f.payments))
	for id, p := range f.payments {
		copied := *p
		snapshot[id] = &copied
	}

	if err := fn(nil); err != nil {
		f.payments = snapshot
		return err
	}
	return nil
}

type planApplication struct {
	userID   int64
	planType string
	expiry   time.Time
}

type fakeUpgrader struct {
	applied []planApplication
	err     error
}

func (f *fakeUpgrader) ApplyPlan(
	_ context.Context,
	_ core.DBTX,
	userID int64,
	planType string,
	expiry time.Time,
) error {
	if f.err != nil {
		return f.err
	}
	f.applied = append(f.applied, planApplication{userID, planType, expiry})
	return nil
}

func (f *fakeUpgrader) UserEmail(_ context.Context, _ int64) (string, error) {
	return "member@example.com", nil
}

func newTestService(repo *fakeRepo, users RoleUpgrader) *Service {
	svc := NewService(nil, repo, users, notify.Noop{}, slog.Default())
	svc.runTx = repo.inTx
	return svc
}

func TestInitiateFixesExpiryAtCreation(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeRepo(), &fakeUpgrader{})
	initiated := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return initiated }

	p, err := svc.Initiate(context.Background(), 7, InitiatePaymentRequest{
		PlanType:       PlanInner,
		DurationMonths: 6,
		Amount:         3499,
		Currency:       "INR",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, p.Status)
	assert.Equal(t,
		time.Date(2026, time.September, 15, 10, 0, 0, 0, time.UTC),
		p.ExpiresAt,
	)
}

func TestConfirmUpgradesUserWithCreationExpiry(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	users := &fakeUpgrader{}
	svc := newTestService(repo, users)
	initiated := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return initiated }

	p, err := svc.Initiate(context.Background(), 7, InitiatePaymentRequest{
		PlanType:       PlanPremium,
		DurationMonths: 3,
		Amount:         799,
		Currency:       "INR",
	})
	require.NoError(t, err)

	settled, err := svc.Confirm(context.Background(), p.ID, "txn_abc123")
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, settled.Status)
	require.NotNil(t, settled.TransactionID)
	assert.Equal(t, "txn_abc123", *settled.TransactionID)

	require.Len(t, users.applied, 1)
	assert.Equal(t, int64(7), users.applied[0].userID)
	assert.Equal(t, PlanPremium, users.applied[0].planType)
	assert.Equal(t, p.ExpiresAt, users.applied[0].expiry)
}

func TestConfirmTwiceFailsWithInvalidState(t *testing.T) {
	t.Parallel()

	users := &fakeUpgrader{}
	svc := newTestService(newFakeRepo(), users)

	p, err := svc.Initiate(context.Background(), 7, InitiatePaymentRequest{
		PlanType:       PlanPremium,
		DurationMonths: 3,
		Amount:         799,
		Currency:       "INR",
	})
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), p.ID, "txn_1")
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), p.ID, "txn_2")
	assert.ErrorIs(t, err, core.ErrInvalidState)
	assert.Len(t, users.applied, 1, "no second upgrade on re-confirm")
}

func TestConfirmRollsBackWhenUpgradeFails(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	users := &fakeUpgrader{err: errors.New("users table unavailable")}
	svc := newTestService(repo, users)

	p, err := svc.Initiate(context.Background(), 7, InitiatePaymentRequest{
		PlanType:       PlanPremium,
		DurationMonths: 3,
		Amount:         799,
		Currency:       "INR",
	})
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), p.ID, "txn_1")
	require.Error(t, err)

	// A failed upgrade must roll the settlement back: the payment stays
	// pending instead of ending up paid with no role change.
	stored, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
	assert.Nil(t, stored.TransactionID)

	users.err = nil
	settled, err := svc.Confirm(context.Background(), p.ID, "txn_2")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, settled.Status)
	require.Len(t, users.applied, 1)
	assert.Equal(t, int64(7), users.applied[0].userID)
}

func TestFailLeavesUserUntouched(t *testing.T) {
	t.Parallel()

	users := &fakeUpgrader{}
	svc := newTestService(newFakeRepo(), users)

	p, err := svc.Initiate(context.Background(), 9, InitiatePaymentRequest{
		PlanType:       PlanInner,
		DurationMonths: 12,
		Amount:         4999,
		Currency:       "INR",
	})
	require.NoError(t, err)

	failed, err := svc.Fail(context.Background(), p.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, failed.Status)
	assert.Empty(t, users.applied)

	_, err = svc.Confirm(context.Background(), p.ID, "txn_late")
	assert.ErrorIs(t, err, core.ErrInvalidState)
}

func TestGetHidesOtherMembersPayments(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeRepo(), &fakeUpgrader{})

	p, err := svc.Initiate(context.Background(), 7, InitiatePaymentRequest{
		PlanType:       PlanPremium,
		DurationMonths: 3,
		Amount:         799,
		Currency:       "INR",
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), p.ID, 8, false)
	assert.ErrorIs(t, err, core.ErrNotFound)

	got, err := svc.Get(context.Background(), p.ID, 8, true)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	got, err = svc.Get(context.Background(), p.ID, 7, false)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}
