package accesscontrol

import "context"

// AccessGrantRepository is the storage port for the grant table.
type AccessGrantRepository interface {
	// Upsert inserts the grant, ignoring the write if a row with the same
	// (type, target, role) already exists. A duplicate is not an error.
	Upsert(ctx context.Context, grant *AccessGrant) error

	// Delete removes the matching row. Deleting a row that does not exist
	// is not an error.
	Delete(ctx context.Context, grantType GrantType, target string, role Role) error

	// FindByType returns every grant of one type.
	FindByType(ctx context.Context, grantType GrantType) ([]AccessGrant, error)

	// FindByTypeAndTargets returns the grants of one type restricted to the
	// given target strings.
	FindByTypeAndTargets(ctx context.Context, grantType GrantType, targets []string) ([]AccessGrant, error)

	// FindRolesByTarget returns the roles currently granted for one target.
	FindRolesByTarget(ctx context.Context, grantType GrantType, target string) ([]Role, error)

	// FindTargetsByRole returns the raw target strings of one type granted
	// to the role.
	FindTargetsByRole(ctx context.Context, grantType GrantType, role Role) ([]string, error)
}
