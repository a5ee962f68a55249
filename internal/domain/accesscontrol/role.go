// Package accesscontrol models the permission grant table: which roles may
// view which pages, manage which order statuses, and use which feature
// toggles. Grants are keyed by (type, target, role) and the package owns the
// canonical vocabularies for all three dimensions.
package accesscontrol

import (
	"fmt"

	"github.com/factoryerp/backend/internal/domain/shared"
)

// Role identifies one of the fixed staff roles.
type Role string

const (
	RoleOwner             Role = "owner"
	RoleFinance           Role = "finance"
	RoleGroundTeam        Role = "ground-team"
	RoleGroundTeamManager Role = "ground-team-manager"
)

// RolePrecedence lists every role in its fixed display order. All sorted
// outputs (matrix rows, role pickers) follow this order.
var RolePrecedence = []Role{
	RoleOwner,
	RoleFinance,
	RoleGroundTeam,
	RoleGroundTeamManager,
}

var rolePrecedenceIndex = buildRoleIndex()

func buildRoleIndex() map[Role]int {
	idx := make(map[Role]int, len(RolePrecedence))
	for i, r := range RolePrecedence {
		idx[r] = i
	}
	return idx
}

// ParseRole narrows an arbitrary string to a known Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := rolePrecedenceIndex[r]; !ok {
		return "", shared.NewDomainError("INVALID_ROLE", fmt.Sprintf("unknown role: %s", s))
	}
	return r, nil
}

// IsValidRole reports whether s names a known role.
func IsValidRole(s string) bool {
	_, ok := rolePrecedenceIndex[Role(s)]
	return ok
}

// IsProtectedRole reports whether grants held by the role may never be
// revoked. Revoke and bulk-replace share this one predicate rather than
// checking for the owner role at every call site.
func IsProtectedRole(r Role) bool {
	return r == RoleOwner
}

// SortRolesByPrecedence returns a copy of roles ordered by RolePrecedence,
// with duplicates and unknown roles dropped.
func SortRolesByPrecedence(roles []Role) []Role {
	seen := make(map[Role]bool, len(roles))
	for _, r := range roles {
		if _, known := rolePrecedenceIndex[r]; known {
			seen[r] = true
		}
	}
	sorted := make([]Role, 0, len(seen))
	for _, r := range RolePrecedence {
		if seen[r] {
			sorted = append(sorted, r)
		}
	}
	return sorted
}
