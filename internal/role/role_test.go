// AngelaMos | 2026
// role_test.go

package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankOrdering(t *testing.T) {
	t.Parallel()

	all := All()
	for i := 1; i < len(all); i++ {
		assert.Greater(t, Rank(all[i]), Rank(all[i-1]),
			"%s must outrank %s", all[i], all[i-1])
	}
}

func TestRankUnknownRoleFailsClosed(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Rank(Role("superuser")))
	assert.Equal(t, 0, Rank(Role("")))
	assert.False(t, CanAccess(Role("superuser"), Verified))
}

func TestCanAccessMatchesRankComparison(t *testing.T) {
	t.Parallel()

	for _, user := range All() {
		for _, required := range All() {
			want := Rank(user) >= Rank(required)
			assert.Equal(t, want, CanAccess(user, required),
				"CanAccess(%s, %s)", user, required)
		}
	}
}

func TestCanAccessMonotonic(t *testing.T) {
	t.Parallel()

	// if a role can access X, it can access anything ranked at or below X
	for _, user := range All() {
		for _, higher := range All() {
			if !CanAccess(user, higher) {
				continue
			}
			for _, lower := range All() {
				if Rank(lower) <= Rank(higher) {
					assert.True(t, CanAccess(user, lower),
						"%s can access %s but not lower-ranked %s",
						user, higher, lower)
				}
			}
		}
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	for _, r := range All() {
		assert.True(t, r.Valid())
	}
	assert.False(t, Role("moderator").Valid())
}
