// AngelaMos | 2026
// repository.go

package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/proofofhustle/api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id int64) (*Payment, error)
	ListForUser(
		ctx context.Context,
		userID int64,
		params ListPaymentsParams,
	) ([]Payment, int, error)
	List(ctx context.Context, params ListPaymentsParams) ([]Payment, int, error)
	// MarkSuccess and MarkFailed only touch pending rows; core.ErrNotFound
	// from either means the payment was missing or already settled.
	MarkSuccess(ctx context.Context, id int64, transactionID string) error
	MarkFailed(ctx context.Context, id int64) error
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

const paymentColumns = `
	id, user_id, transaction_id, amount, currency, plan_type,
	duration_months, expires_at, status, created_at`

func (r *repository) Create(ctx context.Context, payment *Payment) error {
	query := `
		INSERT INTO payments (
			user_id, amount, currency, plan_type, duration_months, expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, status, created_at`

	err := r.db.GetContext(ctx, payment, query,
		payment.UserID,
		payment.Amount,
		payment.Currency,
		payment.PlanType,
		payment.DurationMonths,
		payment.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Payment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payments
		WHERE id = $1`, paymentColumns)

	var payment Payment
	err := r.db.GetContext(ctx, &payment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get payment: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}

	return &payment, nil
}

func (r *repository) ListForUser(
	ctx context.Context,
	userID int64,
	params ListPaymentsParams,
) ([]Payment, int, error) {
	params.Normalize()

	countQuery := `SELECT COUNT(*) FROM payments WHERE user_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, paymentColumns)

	var payments []Payment
	err := r.db.SelectContext(
		ctx,
		&payments,
		query,
		userID,
		params.PageSize,
		params.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}

	return payments, total, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListPaymentsParams,
) ([]Payment, int, error) {
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
		"SELECT COUNT(*) FROM payments WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM payments
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`,
		paymentColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var payments []Payment
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}

	return payments, total, nil
}

func (r *repository) MarkSuccess(
	ctx context.Context,
	id int64,
	transactionID string,
) error {
	query := `
		UPDATE payments
		SET status = 'success', transaction_id = $2
		WHERE id = $1 AND status = 'pending'`

	result, err := r.db.ExecContext(ctx, query, id, transactionID)
	if err != nil {
		return fmt.Errorf("mark payment success: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark payment success: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("mark payment success: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) MarkFailed(ctx context.Context, id int64) error {
	query := `
		UPDATE payments
		SET status = 'failed'
		WHERE id = $1 AND status = 'pending'`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark payment failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark payment failed: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("mark payment failed: %w", core.ErrNotFound)
	}

	return nil
}
