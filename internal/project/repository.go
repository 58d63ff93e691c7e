// AngelaMos | 2026
// repository.go

package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/proofofhustle/api/internal/core"
	"github.com/proofofhustle/api/internal/role"
)

type Repository interface {
	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id int64) (*Project, error)
	ListForRole(
		ctx context.Context,
		viewer role.Role,
		params ListProjectsParams,
	) ([]Project, int, error)
	Approve(
		ctx context.Context,
		id int64,
		category string,
		visibleTo core.JSONStrings,
		approvedBy int64,
	) error
	Reject(ctx context.Context, id, reviewedBy int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const projectColumns = `
	id, title, description, tech_stack, metrics, category, submitted_by,
	approved_by, visible_to, status, created_at, approved_at`

func (r *repository) Create(ctx context.Context, project *Project) error {
	query := `
		INSERT INTO projects (
			title, description, tech_stack, metrics, category,
			submitted_by, visible_to
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, created_at`

	err := r.db.GetContext(ctx, project, query,
		project.Title,
		project.Description,
		project.TechStack,
		project.Metrics,
		project.Category,
		project.SubmittedBy,
		project.VisibleTo,
	)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Project, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM projects
		WHERE id = $1`, projectColumns)

	var project Project
	err := r.db.GetContext(ctx, &project, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get project: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	return &project, nil
}

// ListForRole applies the catalog filter in SQL: admins see every row,
// inner sees all approved, premium sees approved below godtier, verified
// sees approved rookie work, everyone else sees nothing.
func (r *repository) ListForRole(
	ctx context.Context,
	viewer role.Role,
	params ListProjectsParams,
) ([]Project, int, error) {
	params.Normalize()

	var whereClause string
	switch viewer {
	case role.Admin:
		whereClause = "TRUE"
	case role.Inner:
		whereClause = "status = 'approved'"
	case role.Premium:
		whereClause = "status = 'approved' AND category <> 'godtier'"
	case role.Verified:
		whereClause = "status = 'approved' AND category = 'rookie'"
	default:
		return []Project{}, 0, nil
	}

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM projects WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM projects
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`,
		projectColumns, whereClause)

	var projects []Project
	err := r.db.SelectContext(
		ctx,
		&projects,
		query,
		params.PageSize,
		params.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}

	return projects, total, nil
}

func (r *repository) Approve(
	ctx context.Context,
	id int64,
	category string,
	visibleTo core.JSONStrings,
	approvedBy int64,
) error {
	// Pending guard keeps terminal states sticky under concurrent review.
	query := `
		UPDATE projects
		SET status = 'approved', category = $2, visible_to = $3,
		    approved_by = $4, approved_at = NOW()
		WHERE id = $1 AND status = 'pending'`

	result, err := r.db.ExecContext(
		ctx,
		query,
		id,
		category,
		visibleTo,
		approvedBy,
	)
	if err != nil {
		return fmt.Errorf("approve project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("approve project: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("approve project: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Reject(ctx context.Context, id, reviewedBy int64) error {
	query := `
		UPDATE projects
		SET status = 'rejected', approved_by = $2, approved_at = NOW()
		WHERE id = $1 AND status = 'pending'`

	result, err := r.db.ExecContext(ctx, query, id, reviewedBy)
	if err != nil {
		return fmt.Errorf("reject project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reject project: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("reject project: %w", core.ErrNotFound)
	}

	return nil
}
