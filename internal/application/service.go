// AngelaMos | 2026
// service.go

package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/proofofhustle/api/internal/core"
	"github.com/proofofhustle/api/internal/notify"
)

const notifyTimeout = 10 * time.Second

// UserProvisioner creates the member account when an application is
// approved. The db argument carries the approving transaction so the
// new account commits or rolls back together with the status change.
// Implemented by user.Service.
type UserProvisioner interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ProvisionVerifiedUser(
		ctx context.Context,
		db core.DBTX,
		name, email string,
		telegramHandle *string,
	) (int64, error)
}

type Service struct {
	repo     Repository
	users    UserProvisioner
	notifier notify.Notifier
	logger   *slog.Logger

	runTx func(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

func NewService(
	db *sqlx.DB,
	repo Repository,
	users UserProvisioner,
	notifier notify.Notifier,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		notifier: notifier,
		logger:   logger,
		runTx: func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
			return core.InTx(ctx, db, fn)
		},
	}
}

func (s *Service) Submit(
	ctx context.Context,
	req SubmitApplicationRequest,
) (*Application, error) {
	app := &Application{
		Name:           req.Name,
		Email:          strings.ToLower(req.Email),
		TelegramHandle: req.TelegramHandle,
		Experience:     req.Experience,
		CurrentFocus:   req.CurrentFocus,
		Goals:          req.Goals,
		Skills:         core.JSONStrings(req.Skills),
	}

	if err := s.repo.Create(ctx, app); err != nil {
		return nil, err
	}

	s.notifyAsync(notify.ApplicationSubmittedMessage(
		app.Name,
		app.Email,
		derefString(app.TelegramHandle),
		app.Skills,
		app.Experience,
	))

	return app, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Application, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(
	ctx context.Context,
	params ListApplicationsParams,
) ([]Application, int, error) {
	return s.repo.List(ctx, params)
}

// Review moves a pending application to a terminal status. Approval
// provisions the member account and links it back to the application.
func (s *Service) Review(
	ctx context.Context,
	id int64,
	decision string,
	actorID int64,
) (*Application, error) {
	if decision != StatusApproved && decision != StatusRejected {
		return nil, fmt.Errorf(
			"review application: invalid decision %q: %w",
			decision,
			core.ErrInvalidInput,
		)
	}

	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !app.IsPending() {
		return nil, fmt.Errorf(
			"review application: already %s: %w",
			app.Status,
			core.ErrInvalidState,
		)
	}

	if decision == StatusApproved {
		exists, err := s.users.ExistsByEmail(ctx, app.Email)
		if err != nil {
			return nil, fmt.Errorf("check applicant email: %w", err)
		}
		if exists {
			return nil, fmt.Errorf(
				"review application: member with email already exists: %w",
				core.ErrDuplicateKey,
			)
		}
	}

	// Status change, account creation, and back-link land in one
	// transaction: an approved application always has its member account.
	err = s.runTx(ctx, func(tx *sqlx.Tx) error {
		repo := s.repo.WithTx(tx)

		if err := repo.UpdateStatus(ctx, id, decision, actorID); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				// The pending row vanished between the read and the update:
				// another reviewer got there first.
				return fmt.Errorf(
					"review application: %w",
					core.ErrInvalidState,
				)
			}
			return err
		}

		if decision == StatusApproved {
			userID, err := s.users.ProvisionVerifiedUser(
				ctx,
				tx,
				app.Name,
				app.Email,
				app.TelegramHandle,
			)
			if err != nil {
				return fmt.Errorf("provision member: %w", err)
			}

			if err := repo.LinkUser(ctx, id, userID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	reviewed, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.notifyAsync(notify.ApplicationReviewedMessage(
		reviewed.Name,
		reviewed.Email,
		decision,
	))

	return reviewed, nil
}

func (s *Service) notifyAsync(message string) {
	go func() {
		ctx, cancel := context.WithTimeout(
			context.Background(),
			notifyTimeout,
		)
		defer cancel()

		if err := s.notifier.Send(ctx, message); err != nil {
			s.logger.Error("application notification failed", "error", err)
		}
	}()
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
