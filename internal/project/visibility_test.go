// AngelaMos | 2026
// visibility_test.go

package project

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/proofofhustle/api/internal/role"
)

func TestAccessForMatrix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		viewer   role.Role
		category string
		want     Access
	}{
		{role.Unverified, CategoryRookie, AccessLocked},
		{role.Unverified, CategoryMVP, AccessLocked},
		{role.Unverified, CategoryGodtier, AccessLocked},

		{role.Verified, CategoryRookie, AccessFull},
		{role.Verified, CategoryMVP, AccessLocked},
		{role.Verified, CategoryGodtier, AccessLocked},

		{role.Premium, CategoryRookie, AccessFull},
		{role.Premium, CategoryMVP, AccessFull},
		{role.Premium, CategoryGodtier, AccessPreview},

		{role.Inner, CategoryRookie, AccessFull},
		{role.Inner, CategoryMVP, AccessFull},
		{role.Inner, CategoryGodtier, AccessFull},

		{role.Admin, CategoryRookie, AccessFull},
		{role.Admin, CategoryMVP, AccessFull},
		{role.Admin, CategoryGodtier, AccessFull},
	}

	for _, tt := range tests {
		got := AccessFor(tt.viewer, tt.category)
		assert.Equal(t, tt.want, got,
			"AccessFor(%s, %s)", tt.viewer, tt.category)
	}
}

func TestAccessMonotonicWithRank(t *testing.T) {
	t.Parallel()

	// a higher-ranked member never sees less of a project
	levels := map[Access]int{AccessLocked: 0, AccessPreview: 1, AccessFull: 2}

	for _, category := range []string{CategoryRookie, CategoryMVP, CategoryGodtier} {
		all := role.All()
		for i := 1; i < len(all); i++ {
			lower := levels[AccessFor(all[i-1], category)]
			higher := levels[AccessFor(all[i], category)]
			assert.GreaterOrEqual(t, higher, lower,
				"%s sees less than %s for %s", all[i], all[i-1], category)
		}
	}
}

func TestVisibleToNeverStoresAdmin(t *testing.T) {
	t.Parallel()

	for _, category := range []string{CategoryRookie, CategoryMVP, CategoryGodtier} {
		for _, r := range VisibleTo(category) {
			assert.NotEqual(t, string(role.Admin), r)
		}
	}
}

func TestVisibleToAgreesWithCanViewFull(t *testing.T) {
	t.Parallel()

	for _, category := range []string{CategoryRookie, CategoryMVP, CategoryGodtier} {
		granted := VisibleTo(category)
		for _, r := range []role.Role{role.Verified, role.Premium, role.Inner} {
			assert.Equal(t, granted.Contains(string(r)), CanViewFull(r, category),
				"visible_to and CanViewFull disagree for %s/%s", r, category)
		}
	}
}

func TestToProjectViewRedaction(t *testing.T) {
	t.Parallel()

	tech := "Go, Postgres"
	metrics := "10k MRR"
	p := &Project{
		ID:          7,
		Title:       "Payments dashboard",
		Description: strings.Repeat("x", 300),
		TechStack:   &tech,
		Metrics:     &metrics,
		Category:    CategoryGodtier,
		SubmittedBy: 42,
		Status:      StatusApproved,
	}

	full := ToProjectView(p, role.Inner)
	assert.Equal(t, AccessFull, full.Access)
	assert.Equal(t, p.Description, *full.Description)
	assert.Equal(t, &tech, full.TechStack)
	assert.Equal(t, int64(42), *full.SubmittedBy)
	assert.Nil(t, full.Status, "moderation fields are admin-only")

	preview := ToProjectView(p, role.Premium)
	assert.Equal(t, AccessPreview, preview.Access)
	assert.NotNil(t, preview.Description)
	assert.Less(t, len(*preview.Description), len(p.Description))
	assert.Nil(t, preview.TechStack)
	assert.Nil(t, preview.Metrics)
	assert.Nil(t, preview.SubmittedBy)

	locked := ToProjectView(p, role.Verified)
	assert.Equal(t, AccessLocked, locked.Access)
	assert.Equal(t, "Payments dashboard", locked.Title)
	assert.Equal(t, CategoryGodtier, locked.Category)
	assert.Nil(t, locked.Description)
	assert.Nil(t, locked.TechStack)

	adminView := ToProjectView(p, role.Admin)
	assert.Equal(t, AccessFull, adminView.Access)
	assert.Equal(t, StatusApproved, *adminView.Status)
}

func TestPreviewTextShortDescriptionUntouched(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", previewText("short"))
	long := strings.Repeat("a", previewLimit+50)
	got := previewText(long)
	assert.Equal(t, previewLimit+len("…"), len(got))
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestPreviewTextCutsOnRuneBoundary(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", previewLimit)
	got := previewText(long)

	assert.True(t, utf8.ValidString(got),
		"truncation never splits a multibyte character")
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.LessOrEqual(t, len(got), previewLimit+len("…"))
}
