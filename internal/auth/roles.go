package auth

// Role grades what a caller may do to a plan. Viewers read the
// snapshot and its reports, operators additionally mutate points,
// cards and placements, admins additionally pull document exports.
type Role string

const (
	RoleViewer   Role = "viewer"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

var roleRank = map[Role]int{
	RoleViewer:   1,
	RoleOperator: 2,
	RoleAdmin:    3,
}

// NormalizeRole validates and normalizes a role string.
func NormalizeRole(value string) (Role, bool) {
	role := Role(value)
	if _, ok := roleRank[role]; !ok {
		return "", false
	}
	return role, true
}

// RoleAtLeast reports whether role satisfies the required role. An
// unknown role never satisfies anything.
func RoleAtLeast(role, required Role) bool {
	rank := roleRank[role]
	return rank > 0 && rank >= roleRank[required]
}
