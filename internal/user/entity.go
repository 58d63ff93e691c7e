// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/proofofhustle/api/internal/role"
)

type User struct {
	ID             int64      `db:"id"`
	Email          string     `db:"email"`
	PasswordHash   string     `db:"password_hash"`
	Name           string     `db:"name"`
	TelegramHandle *string    `db:"telegram_handle"`
	EmailVerified  bool       `db:"email_verified"`
	Role           role.Role  `db:"role"`
	PaymentPlan    *string    `db:"payment_plan"`
	PaymentExpiry  *time.Time `db:"payment_expiry"`
	TokenVersion   int        `db:"token_version"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role.IsAdmin()
}

// PlanExpired reports whether a paid plan has lapsed. Users without a
// payment expiry never expire.
func (u *User) PlanExpired(now time.Time) bool {
	return u.PaymentExpiry != nil && now.After(*u.PaymentExpiry)
}
