// AngelaMos | 2026
// entity.go

package payment

import (
	"time"
)

const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

const (
	PlanPremium = "premium"
	PlanInner   = "inner"
)

type Payment struct {
	ID             int64     `db:"id"`
	UserID         int64     `db:"user_id"`
	TransactionID  *string   `db:"transaction_id"`
	Amount         int64     `db:"amount"`
	Currency       string    `db:"currency"`
	PlanType       string    `db:"plan_type"`
	DurationMonths int       `db:"duration_months"`
	ExpiresAt      time.Time `db:"expires_at"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
}

func (p *Payment) IsPending() bool {
	return p.Status == StatusPending
}
