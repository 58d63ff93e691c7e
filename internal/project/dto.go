// AngelaMos | 2026
// dto.go

package project

import (
	"time"
	"unicode/utf8"

	"github.com/proofofhustle/api/internal/role"
)

type SubmitProjectRequest struct {
	Title       string  `json:"title"                validate:"required,min=1,max=200"`
	Description string  `json:"description"          validate:"required,min=1,max=10000"`
	TechStack   *string `json:"tech_stack,omitempty" validate:"omitempty,max=1000"`
	Metrics     *string `json:"metrics,omitempty"    validate:"omitempty,max=1000"`
}

type ReviewProjectRequest struct {
	Decision string `json:"decision"           validate:"required,oneof=approved rejected"`
	Category string `json:"category,omitempty" validate:"omitempty,oneof=rookie mvp godtier"`
}

// ProjectView is the role-redacted shape returned to members. Detail
// fields are nil below the viewer's disclosure level.
type ProjectView struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Access      Access     `json:"access"`
	Description *string    `json:"description,omitempty"`
	TechStack   *string    `json:"tech_stack,omitempty"`
	Metrics     *string    `json:"metrics,omitempty"`
	SubmittedBy *int64     `json:"submitted_by,omitempty"`
	Status      *string    `json:"status,omitempty"`
	VisibleTo   []string   `json:"visible_to,omitempty"`
	ApprovedBy  *int64     `json:"approved_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
}

type ListProjectsParams struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

func (p *ListProjectsParams) Normalize() {
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

func (p *ListProjectsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ToProjectView redacts a project for the given viewer. Preview strips
// tech stack, metrics and the submitter; locked keeps title and badge
// only. Admins additionally see moderation fields.
func ToProjectView(p *Project, viewer role.Role) ProjectView {
	view := ProjectView{
		ID:        p.ID,
		Title:     p.Title,
		Category:  p.Category,
		Access:    AccessFor(viewer, p.Category),
		CreatedAt: p.CreatedAt,
	}

	switch view.Access {
	case AccessFull:
		view.Description = &p.Description
		view.TechStack = p.TechStack
		view.Metrics = p.Metrics
		view.SubmittedBy = &p.SubmittedBy
		view.ApprovedAt = p.ApprovedAt
	case AccessPreview:
		preview := previewText(p.Description)
		view.Description = &preview
	case AccessLocked:
	}

	if viewer == role.Admin {
		view.Status = &p.Status
		view.VisibleTo = p.VisibleTo
		view.ApprovedBy = p.ApprovedBy
	}

	return view
}

func ToProjectViewList(projects []Project, viewer role.Role) []ProjectView {
	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, ToProjectView(&p, viewer))
	}
	return views
}

const previewLimit = 200

func previewText(description string) string {
	if len(description) <= previewLimit {
		return description
	}
	// Back up to a rune boundary so the cut never splits a character.
	cut := previewLimit
	for cut > 0 && !utf8.RuneStart(description[cut]) {
		cut--
	}
	return description[:cut] + "…"
}
