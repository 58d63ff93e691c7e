// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/proofofhustle/api/internal/role"
)

type UpdateUserRequest struct {
	Name           *string `json:"name,omitempty"            validate:"omitempty,min=1,max=100"`
	TelegramHandle *string `json:"telegram_handle,omitempty" validate:"omitempty,min=2,max=64"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=unverified verified premium inner admin"`
}

type UserResponse struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	TelegramHandle *string    `json:"telegram_handle,omitempty"`
	EmailVerified  bool       `json:"email_verified"`
	Role           role.Role  `json:"role"`
	PaymentPlan    *string    `json:"payment_plan,omitempty"`
	PaymentExpiry  *time.Time `json:"payment_expiry,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Role     string `json:"role"`
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		TelegramHandle: u.TelegramHandle,
		EmailVerified:  u.EmailVerified,
		Role:           u.Role,
		PaymentPlan:    u.PaymentPlan,
		PaymentExpiry:  u.PaymentExpiry,
		CreatedAt:      u.CreatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}
