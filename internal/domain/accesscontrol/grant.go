package accesscontrol

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/factoryerp/backend/internal/domain/shared"
)

// GrantType selects the authorization dimension a grant applies to.
type GrantType string

const (
	GrantTypePage        GrantType = "page"
	GrantTypeManageOrder GrantType = "manage_order"
	GrantTypeFeature     GrantType = "feature"
)

// ParseGrantType narrows an arbitrary string to a known GrantType.
func ParseGrantType(s string) (GrantType, error) {
	switch t := GrantType(s); t {
	case GrantTypePage, GrantTypeManageOrder, GrantTypeFeature:
		return t, nil
	default:
		return "", shared.NewDomainError("INVALID_GRANT_TYPE", fmt.Sprintf("unknown grant type: %s", s))
	}
}

// Target is a tagged union over the three grant dimensions. Storage keeps a
// flat string column, so all narrowing and validation of raw target strings
// lives here instead of at each call site.
type Target struct {
	Type     GrantType
	Page     PageKey    // set when Type is GrantTypePage
	StatusID int        // set when Type is GrantTypeManageOrder
	Feature  FeatureKey // set when Type is GrantTypeFeature
}

// NewPageTarget builds a page target, rejecting keys outside the catalog.
func NewPageTarget(key PageKey) (Target, error) {
	if !IsPageKey(string(key)) {
		return Target{}, shared.NewDomainError("INVALID_TARGET", fmt.Sprintf("unknown page key: %s", key))
	}
	return Target{Type: GrantTypePage, Page: key}, nil
}

// NewManageOrderTarget builds a target for one order status.
func NewManageOrderTarget(statusID int) (Target, error) {
	if statusID <= 0 {
		return Target{}, shared.NewDomainError("INVALID_TARGET", fmt.Sprintf("invalid status id: %d", statusID))
	}
	return Target{Type: GrantTypeManageOrder, StatusID: statusID}, nil
}

// NewFeatureTarget builds a feature target, rejecting keys outside the catalog.
func NewFeatureTarget(key FeatureKey) (Target, error) {
	if !IsFeatureKey(string(key)) {
		return Target{}, shared.NewDomainError("INVALID_TARGET", fmt.Sprintf("unknown feature key: %s", key))
	}
	return Target{Type: GrantTypeFeature, Feature: key}, nil
}

// ParseTarget narrows a raw stored target string for the given grant type.
func ParseTarget(t GrantType, raw string) (Target, error) {
	switch t {
	case GrantTypePage:
		return NewPageTarget(PageKey(raw))
	case GrantTypeManageOrder:
		id, err := strconv.Atoi(raw)
		if err != nil {
			return Target{}, shared.NewDomainError("INVALID_TARGET", fmt.Sprintf("status id is not numeric: %s", raw))
		}
		return NewManageOrderTarget(id)
	case GrantTypeFeature:
		return NewFeatureTarget(FeatureKey(raw))
	default:
		return Target{}, shared.NewDomainError("INVALID_GRANT_TYPE", fmt.Sprintf("unknown grant type: %s", t))
	}
}

// String returns the flat storage form of the target.
func (t Target) String() string {
	switch t.Type {
	case GrantTypePage:
		return string(t.Page)
	case GrantTypeManageOrder:
		return strconv.Itoa(t.StatusID)
	case GrantTypeFeature:
		return string(t.Feature)
	default:
		return ""
	}
}

// AccessGrant is one stored permission row. At most one row exists per
// (type, target, role) triple; the repository enforces this with
// conflict-ignore inserts.
type AccessGrant struct {
	ID        uuid.UUID
	Type      GrantType
	Target    string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccessGrant creates a grant for a validated target and role.
func NewAccessGrant(target Target, role Role) *AccessGrant {
	now := time.Now()
	return &AccessGrant{
		ID:        uuid.New(),
		Type:      target.Type,
		Target:    target.String(),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MatrixRow is one line of the target-to-roles read model.
type MatrixRow struct {
	Target Target
	Roles  []Role
}

// BuildMatrix folds stored grants into one row per requested target, in the
// given order. The result is total: targets without any grant still get a
// row with an empty role list. Roles are sorted by precedence. Grants for
// targets outside the requested set are ignored.
func BuildMatrix(targets []Target, grants []AccessGrant) []MatrixRow {
	byTarget := make(map[string][]Role, len(targets))
	for _, g := range grants {
		byTarget[g.Target] = append(byTarget[g.Target], g.Role)
	}

	rows := make([]MatrixRow, 0, len(targets))
	for _, t := range targets {
		roles := SortRolesByPrecedence(byTarget[t.String()])
		if roles == nil {
			roles = []Role{}
		}
		rows = append(rows, MatrixRow{Target: t, Roles: roles})
	}
	return rows
}
