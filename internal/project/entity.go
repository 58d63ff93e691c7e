// AngelaMos | 2026
// entity.go

package project

import (
	"time"

	"github.com/proofofhustle/api/internal/core"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	CategoryRookie  = "rookie"
	CategoryMVP     = "mvp"
	CategoryGodtier = "godtier"
)

func ValidCategory(category string) bool {
	switch category {
	case CategoryRookie, CategoryMVP, CategoryGodtier:
		return true
	}
	return false
}

type Project struct {
	ID          int64            `db:"id"`
	Title       string           `db:"title"`
	Description string           `db:"description"`
	TechStack   *string          `db:"tech_stack"`
	Metrics     *string          `db:"metrics"`
	Category    string           `db:"category"`
	SubmittedBy int64            `db:"submitted_by"`
	ApprovedBy  *int64           `db:"approved_by"`
	VisibleTo   core.JSONStrings `db:"visible_to"`
	Status      string           `db:"status"`
	CreatedAt   time.Time        `db:"created_at"`
	ApprovedAt  *time.Time       `db:"approved_at"`
}

func (p *Project) IsPending() bool {
	return p.Status == StatusPending
}

func (p *Project) IsApproved() bool {
	return p.Status == StatusApproved
}
