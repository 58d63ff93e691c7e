// AngelaMos | 2026
// dto.go

package application

import (
	"time"
)

type SubmitApplicationRequest struct {
	Name           string   `json:"name"                      validate:"required,min=1,max=100"`
	Email          string   `json:"email"                     validate:"required,email,max=255"`
	TelegramHandle *string  `json:"telegram_handle,omitempty" validate:"omitempty,min=2,max=64"`
	Experience     string   `json:"experience"                validate:"required,min=1,max=5000"`
	CurrentFocus   string   `json:"current_focus"             validate:"required,min=1,max=5000"`
	Goals          string   `json:"goals"                     validate:"required,min=1,max=5000"`
	Skills         []string `json:"skills"                    validate:"required,min=1,max=30,dive,required,max=50"`
}

type ReviewApplicationRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
}

type ApplicationResponse struct {
	ID             int64      `json:"id"`
	UserID         *int64     `json:"user_id,omitempty"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	TelegramHandle *string    `json:"telegram_handle,omitempty"`
	Experience     string     `json:"experience"`
	CurrentFocus   string     `json:"current_focus"`
	Goals          string     `json:"goals"`
	Skills         []string   `json:"skills"`
	Status         string     `json:"status"`
	ReviewedBy     *int64     `json:"reviewed_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
}

type ListApplicationsParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Status   string `json:"status"`
}

func (p *ListApplicationsParams) Normalize() {
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

func (p *ListApplicationsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToApplicationResponse(a *Application) ApplicationResponse {
	return ApplicationResponse{
		ID:             a.ID,
		UserID:         a.UserID,
		Name:           a.Name,
		Email:          a.Email,
		TelegramHandle: a.TelegramHandle,
		Experience:     a.Experience,
		CurrentFocus:   a.CurrentFocus,
		Goals:          a.Goals,
		Skills:         a.Skills,
		Status:         a.Status,
		ReviewedBy:     a.ReviewedBy,
		CreatedAt:      a.CreatedAt,
		ReviewedAt:     a.ReviewedAt,
	}
}

func ToApplicationResponseList(apps []Application) []ApplicationResponse {
	responses := make([]ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		responses = append(responses, ToApplicationResponse(&a))
	}
	return responses
}
