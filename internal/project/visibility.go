// AngelaMos | 2026
// visibility.go

package project

import (
	"github.com/proofofhustle/api/internal/core"
	"github.com/proofofhustle/api/internal/role"
)

// Access is the disclosure level a viewer gets for a single project:
// full detail, a redacted preview, or title and badge only.
type Access string

const (
	AccessFull    Access = "full"
	AccessPreview Access = "preview"
	AccessLocked  Access = "locked"
)

// VisibleTo maps a category to the set of roles granted full disclosure.
// Admin is implicitly included everywhere and never stored.
func VisibleTo(category string) core.JSONStrings {
	switch category {
	case CategoryGodtier:
		return core.JSONStrings{string(role.Inner)}
	case CategoryMVP:
		return core.JSONStrings{string(role.Premium), string(role.Inner)}
	default:
		return core.JSONStrings{
			string(role.Verified),
			string(role.Premium),
			string(role.Inner),
		}
	}
}

func CanViewFull(viewer role.Role, category string) bool {
	switch viewer {
	case role.Admin, role.Inner:
		return true
	case role.Premium:
		return category != CategoryGodtier
	case role.Verified:
		return category == CategoryRookie
	}
	return false
}

// CanViewPreview extends full access with the premium preview: premium
// members see a redacted view of tiers above their own.
func CanViewPreview(viewer role.Role, category string) bool {
	if CanViewFull(viewer, category) {
		return true
	}
	return viewer == role.Premium
}

func AccessFor(viewer role.Role, category string) Access {
	switch {
	case CanViewFull(viewer, category):
		return AccessFull
	case CanViewPreview(viewer, category):
		return AccessPreview
	default:
		return AccessLocked
	}
}
