// AngelaMos | 2026
// service.go

package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/proofofhustle/api/internal/core"
	"github.com/proofofhustle/api/internal/notify"
)

const notifyTimeout = 10 * time.Second

// RoleUpgrader mutates the paying user once a payment settles. The db
// argument carries the settling transaction so the upgrade commits or
// rolls back together with the payment row. Implemented by user.Service.
type RoleUpgrader interface {
	ApplyPlan(
		ctx context.Context,
		db core.DBTX,
		userID int64,
		planType string,
		expiry time.Time,
	) error
	UserEmail(ctx context.Context, userID int64) (string, error)
}

type Service struct {
	repo     Repository
	users    RoleUpgrader
	notifier notify.Notifier
	logger   *slog.Logger
	now      func() time.Time
	runTx    func(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

func NewService(
	db *sqlx.DB,
	repo Repository,
	users RoleUpgrader,
	notifier notify.Notifier,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		runTx: func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
			return core.InTx(ctx, db, fn)
		},
	}
}

// Initiate records an intended plan purchase. The expiry is fixed at
// creation: duration whole months from now, so a payment settled later
// still expires relative to when the member committed to the plan.
func (s *Service) Initiate(
	ctx context.Context,
	userID int64,
	req InitiatePaymentRequest,
) (*Payment, error) {
	createdAt := s.now()

	payment := &Payment{
		UserID:         userID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		PlanType:       req.PlanType,
		DurationMonths: req.DurationMonths,
		ExpiresAt:      createdAt.AddDate(0, req.DurationMonths, 0),
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return payment, nil
}

func (s *Service) Get(
	ctx context.Context,
	id, viewerID int64,
	viewerIsAdmin bool,
) (*Payment, error) {
	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !viewerIsAdmin && payment.UserID != viewerID {
		return nil, fmt.Errorf("get payment: %w", core.ErrNotFound)
	}

	return payment, nil
}

func (s *Service) ListForUser(
	ctx context.Context,
	userID int64,
	params ListPaymentsParams,
) ([]Payment, int, error) {
	return s.repo.ListForUser(ctx, userID, params)
}

func (s *Service) List(
	ctx context.Context,
	params ListPaymentsParams,
) ([]Payment, int, error) {
	return s.repo.List(ctx, params)
}

// Confirm settles a pending payment and upgrades the paying user to the
// purchased tier. Both writes happen in one transaction: a payment is
// never terminally successful without the role upgrade it paid for.
// Settled payments cannot be re-confirmed.
func (s *Service) Confirm(
	ctx context.Context,
	id int64,
	transactionID string,
) (*Payment, error) {
	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !payment.IsPending() {
		return nil, fmt.Errorf(
			"confirm payment: already %s: %w",
			payment.Status,
			core.ErrInvalidState,
		)
	}

	err = s.runTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.WithTx(tx).MarkSuccess(ctx, id, transactionID); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				// Settled concurrently between the read and the update.
				return fmt.Errorf(
					"confirm payment: %w",
					core.ErrInvalidState,
				)
			}
			return err
		}

		err := s.users.ApplyPlan(
			ctx,
			tx,
			payment.UserID,
			payment.PlanType,
			payment.ExpiresAt,
		)
		if err != nil {
			return fmt.Errorf("upgrade user: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	settled, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.notifyConfirmed(settled)

	return settled, nil
}

// Fail settles a pending payment as failed. No user mutation happens.
func (s *Service) Fail(ctx context.Context, id int64) (*Payment, error) {
	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !payment.IsPending() {
		return nil, fmt.Errorf(
			"fail payment: already %s: %w",
			payment.Status,
			core.ErrInvalidState,
		)
	}

	if err := s.repo.MarkFailed(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("fail payment: %w", core.ErrInvalidState)
		}
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) notifyConfirmed(payment *Payment) {
	go func() {
		ctx, cancel := context.WithTimeout(
			context.Background(),
			notifyTimeout,
		)
		defer cancel()

		email, err := s.users.UserEmail(ctx, payment.UserID)
		if err != nil {
			s.logger.Error("lookup payer email", "error", err)
			email = fmt.Sprintf("member #%d", payment.UserID)
		}

		message := notify.PaymentConfirmedMessage(
			email,
			payment.PlanType,
			payment.Amount,
			payment.Currency,
			payment.ExpiresAt,
		)

		if err := s.notifier.Send(ctx, message); err != nil {
			s.logger.Error("payment notification failed", "error", err)
		}
	}()
}
