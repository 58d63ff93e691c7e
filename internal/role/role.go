// AngelaMos | 2026
// role.go

package role

// Role is a rank in the fixed membership hierarchy. Every access-control
// decision in the service goes through Rank/CanAccess so the ordering lives
// in exactly one place.
type Role string

const (
	Unverified Role = "unverified"
	Verified   Role = "verified"
	Premium    Role = "premium"
	Inner      Role = "inner"
	Admin      Role = "admin"
)

var ranks = map[Role]int{
	Unverified: 0,
	Verified:   1,
	Premium:    2,
	Inner:      3,
	Admin:      4,
}

// Rank returns the ordinal position of r. Unknown roles rank as 0 so a
// malformed or missing role never grants access it should not have.
func Rank(r Role) int {
	return ranks[r]
}

// CanAccess reports whether a user holding userRole may use functionality
// gated at required.
func CanAccess(userRole, required Role) bool {
	return Rank(userRole) >= Rank(required)
}

func (r Role) Valid() bool {
	_, ok := ranks[r]
	return ok
}

func (r Role) IsAdmin() bool {
	return r == Admin
}

// All lists the roles in ascending rank order.
func All() []Role {
	return []Role{Unverified, Verified, Premium, Inner, Admin}
}
