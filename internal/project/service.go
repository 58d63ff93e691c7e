// AngelaMos | 2026
// service.go

package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/proofofhustle/api/internal/core"
	"github.com/proofofhustle/api/internal/notify"
	"github.com/proofofhustle/api/internal/role"
)

const notifyTimeout = 10 * time.Second

// MemberDirectory resolves member display names for moderation alerts.
// Implemented by user.Service.
type MemberDirectory interface {
	UserName(ctx context.Context, userID int64) (string, error)
}

type Service struct {
	repo     Repository
	members  MemberDirectory
	notifier notify.Notifier
	logger   *slog.Logger
}

func NewService(
	repo Repository,
	members MemberDirectory,
	notifier notify.Notifier,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		members:  members,
		notifier: notifier,
		logger:   logger,
	}
}

// Submit stores a new project at the default rookie tier awaiting
// moderation. The premium-role gate lives on the route, not here.
func (s *Service) Submit(
	ctx context.Context,
	req SubmitProjectRequest,
	submitterID int64,
) (*Project, error) {
	project := &Project{
		Title:       req.Title,
		Description: req.Description,
		TechStack:   req.TechStack,
		Metrics:     req.Metrics,
		Category:    CategoryRookie,
		SubmittedBy: submitterID,
		VisibleTo:   VisibleTo(CategoryRookie),
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.notifySubmitted(project.Title, submitterID)

	return project, nil
}

// Get returns a single project redacted for the viewer. Unapproved
// projects are visible only to admins and their own submitter.
func (s *Service) Get(
	ctx context.Context,
	id int64,
	viewer role.Role,
	viewerID int64,
) (*ProjectView, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !project.IsApproved() &&
		viewer != role.Admin &&
		project.SubmittedBy != viewerID {
		return nil, fmt.Errorf("get project: %w", core.ErrNotFound)
	}

	view := ToProjectView(project, viewer)

	// Submitters always see their own work in full.
	if project.SubmittedBy == viewerID {
		view = ToProjectView(project, role.Inner)
		view.Access = AccessFull
	}

	return &view, nil
}

func (s *Service) List(
	ctx context.Context,
	viewer role.Role,
	params ListProjectsParams,
) ([]ProjectView, int, error) {
	projects, total, err := s.repo.ListForRole(ctx, viewer, params)
	if err != nil {
		return nil, 0, err
	}

	return ToProjectViewList(projects, viewer), total, nil
}

// Review resolves a pending project. Approval assigns the final category
// and recomputes the visibility set from it.
func (s *Service) Review(
	ctx context.Context,
	id int64,
	decision, category string,
	actorID int64,
) (*Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !project.IsPending() {
		return nil, fmt.Errorf(
			"review project: already %s: %w",
			project.Status,
			core.ErrInvalidState,
		)
	}

	switch decision {
	case StatusApproved:
		if category == "" {
			category = CategoryRookie
		}
		if !ValidCategory(category) {
			return nil, fmt.Errorf(
				"review project: invalid category %q: %w",
				category,
				core.ErrInvalidInput,
			)
		}

		err = s.repo.Approve(ctx, id, category, VisibleTo(category), actorID)
	case StatusRejected:
		err = s.repo.Reject(ctx, id, actorID)
	default:
		return nil, fmt.Errorf(
			"review project: invalid decision %q: %w",
			decision,
			core.ErrInvalidInput,
		)
	}

	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Raced with another reviewer between the read and the update.
			return nil, fmt.Errorf("review project: %w", core.ErrInvalidState)
		}
		return nil, err
	}

	reviewed, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.notifyAsync(notify.ProjectReviewedMessage(
		reviewed.Title,
		decision,
		reviewed.Category,
	))

	return reviewed, nil
}

func (s *Service) notifySubmitted(title string, submitterID int64) {
	go func() {
		ctx, cancel := context.WithTimeout(
			context.Background(),
			notifyTimeout,
		)
		defer cancel()

		name, err := s.members.UserName(ctx, submitterID)
		if err != nil {
			s.logger.Error("lookup submitter name", "error", err)
			name = fmt.Sprintf("member #%d", submitterID)
		}

		message := notify.ProjectSubmittedMessage(title, name)

		if err := s.notifier.Send(ctx, message); err != nil {
			s.logger.Error("project notification failed", "error", err)
		}
	}()
}

func (s *Service) notifyAsync(message string) {
	go func() {
		ctx, cancel := context.WithTimeout(
			context.Background(),
			notifyTimeout,
		)
		defer cancel()

		if err := s.notifier.Send(ctx, message); err != nil {
			s.logger.Error("project notification failed", "error", err)
		}
	}()
}
