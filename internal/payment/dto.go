// AngelaMos | 2026
// dto.go

package payment

import (
	"time"
)

type InitiatePaymentRequest struct {
	PlanType       string `json:"plan_type"       validate:"required,oneof=premium inner"`
	DurationMonths int    `json:"duration_months" validate:"required,gt=0,lte=24"`
	Amount         int64  `json:"amount"          validate:"required,gt=0"`
	Currency       string `json:"currency"        validate:"required,oneof=INR USD EUR"`
}

type ConfirmPaymentRequest struct {
	TransactionID string `json:"transaction_id" validate:"required,min=1,max=255"`
}

type PaymentResponse struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	TransactionID  *string   `json:"transaction_id,omitempty"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency"`
	PlanType       string    `json:"plan_type"`
	DurationMonths int       `json:"duration_months"`
	ExpiresAt      time.Time `json:"expires_at"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

type ListPaymentsParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Status   string `json:"status"`
}

func (p *ListPaymentsParams) Normalize() {
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

func (p *ListPaymentsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToPaymentResponse(p *Payment) PaymentResponse {
	return PaymentResponse{
		ID:             p.ID,
		UserID:         p.UserID,
		TransactionID:  p.TransactionID,
		Amount:         p.Amount,
		Currency:       p.Currency,
		PlanType:       p.PlanType,
		DurationMonths: p.DurationMonths,
		ExpiresAt:      p.ExpiresAt,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
	}
}

func ToPaymentResponseList(payments []Payment) []PaymentResponse {
	responses := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, ToPaymentResponse(&p))
	}
	return responses
}
