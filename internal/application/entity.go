// AngelaMos | 2026
// entity.go

package application

import (
	"time"

	"github.com/proofofhustle/api/internal/core"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Application struct {
	ID             int64            `db:"id"`
	UserID         *int64           `db:"user_id"`
	Name           string           `db:"name"`
	Email          string           `db:"email"`
	TelegramHandle *string          `db:"telegram_handle"`
	Experience     string           `db:"experience"`
	CurrentFocus   string           `db:"current_focus"`
	Goals          string           `db:"goals"`
	Skills         core.JSONStrings `db:"skills"`
	Status         string           `db:"status"`
	ReviewedBy     *int64           `db:"reviewed_by"`
	CreatedAt      time.Time        `db:"created_at"`
	ReviewedAt     *time.Time       `db:"reviewed_at"`
}

func (a *Application) IsPending() bool {
	return a.Status == StatusPending
}
