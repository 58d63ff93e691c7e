// AngelaMos | 2026
// repository.go

package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/proofofhustle/api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id int64) (*Application, error)
	List(
		ctx context.Context,
		params ListApplicationsParams,
	) ([]Application, int, error)
	// UpdateStatus transitions a pending application; it reports
	// core.ErrNotFound when no pending row matched, leaving the caller to
	// distinguish a missing id from an already-reviewed one.
	UpdateStatus(ctx context.Context, id int64, status string, reviewedBy int64) error
	LinkUser(ctx context.Context, id, userID int64) error
	// WithTx rebinds the repository to a transaction.
	WithTx(db core.DBTX) Repository
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(db core.DBTX) Repository {
	return &repository{db: db}
}

const applicationColumns = `
	id, user_id, name, email, telegram_handle, experience, current_focus,
	goals, skills, status, reviewed_by, created_at, reviewed_at`

func (r *repository) Create(ctx context.Context, app *Application) error {
	query := `
		INSERT INTO applications (
			name, email, telegram_handle, experience, current_focus,
			goals, skills
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, created_at`

	err := r.db.GetContext(ctx, app, query,
		app.Name,
		app.Email,
		app.TelegramHandle,
		app.Experience,
		app.CurrentFocus,
		app.Goals,
		app.Skills,
	)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id int64,
) (*Application, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM applications
		WHERE id = $1`, applicationColumns)

	var app Application
	err := r.db.GetContext(ctx, &app, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get application: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}

	return &app, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListApplicationsParams,
) ([]Application, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "TRUE")

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM applications WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM applications
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`,
		applicationColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var apps []Application
	if err := r.db.SelectContext(ctx, &apps, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}

	return apps, total, nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	id int64,
	status string,
	reviewedBy int64,
) error {
	// The status guard makes terminal states sticky at the database level
	// even when two reviewers race.
	query := `
		UPDATE applications
		SET status = $2, reviewed_by = $3, reviewed_at = NOW()
		WHERE id = $1 AND status = 'pending'`

	result, err := r.db.ExecContext(ctx, query, id, status, reviewedBy)
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update application status: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) LinkUser(ctx context.Context, id, userID int64) error {
	query := `
		UPDATE applications
		SET user_id = $2
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("link application user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("link application user: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("link application user: %w", core.ErrNotFound)
	}

	return nil
}
