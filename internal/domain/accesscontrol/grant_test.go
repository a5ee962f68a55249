package accesscontrol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factoryerp/backend/internal/domain/shared"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole("ground-team-manager")
	require.NoError(t, err)
	assert.Equal(t, RoleGroundTeamManager, role)

	_, err = ParseRole("superadmin")
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_ROLE", domainErr.Code)
}

func TestIsProtectedRole(t *testing.T) {
	assert.True(t, IsProtectedRole(RoleOwner))
	assert.False(t, IsProtectedRole(RoleFinance))
	assert.False(t, IsProtectedRole(RoleGroundTeam))
	assert.False(t, IsProtectedRole(RoleGroundTeamManager))
}

func TestSortRolesByPrecedence(t *testing.T) {
	sorted := SortRolesByPrecedence([]Role{RoleGroundTeamManager, RoleOwner, RoleFinance})
	assert.Equal(t, []Role{RoleOwner, RoleFinance, RoleGroundTeamManager}, sorted)

	t.Run("drops duplicates and unknown roles", func(t *testing.T) {
		sorted := SortRolesByPrecedence([]Role{RoleFinance, RoleFinance, Role("ghost"), RoleOwner})
		assert.Equal(t, []Role{RoleOwner, RoleFinance}, sorted)
	})
}

func TestParseTarget(t *testing.T) {
	t.Run("page", func(t *testing.T) {
		target, err := ParseTarget(GrantTypePage, "manage order")
		require.NoError(t, err)
		assert.Equal(t, PageManageOrder, target.Page)
		assert.Equal(t, "manage order", target.String())

		_, err = ParseTarget(GrantTypePage, "dashboard")
		assert.Error(t, err)
	})

	t.Run("manage_order", func(t *testing.T) {
		target, err := ParseTarget(GrantTypeManageOrder, "5")
		require.NoError(t, err)
		assert.Equal(t, 5, target.StatusID)
		assert.Equal(t, "5", target.String())

		_, err = ParseTarget(GrantTypeManageOrder, "abc")
		assert.Error(t, err)

		_, err = ParseTarget(GrantTypeManageOrder, "0")
		assert.Error(t, err)
	})

	t.Run("feature", func(t *testing.T) {
		target, err := ParseTarget(GrantTypeFeature, "order_create")
		require.NoError(t, err)
		assert.Equal(t, FeatureOrderCreate, target.Feature)

		_, err = ParseTarget(GrantTypeFeature, "legacy_feature")
		assert.Error(t, err)
	})
}

func TestBuildMatrix(t *testing.T) {
	orders, err := NewPageTarget(PageOrders)
	require.NoError(t, err)
	storage, err := NewPageTarget(PageStorage)
	require.NoError(t, err)
	invoice, err := NewPageTarget(PageInvoice)
	require.NoError(t, err)
	targets := []Target{orders, storage, invoice}

	grants := []AccessGrant{
		{Type: GrantTypePage, Target: "orders", Role: RoleGroundTeamManager},
		{Type: GrantTypePage, Target: "orders", Role: RoleOwner},
		{Type: GrantTypePage, Target: "orders", Role: RoleFinance},
		{Type: GrantTypePage, Target: "invoice", Role: RoleFinance},
		{Type: GrantTypePage, Target: "machine", Role: RoleGroundTeam},
	}

	rows := BuildMatrix(targets, grants)
	require.Len(t, rows, 3)

	assert.Equal(t, orders, rows[0].Target)
	assert.Equal(t, []Role{RoleOwner, RoleFinance, RoleGroundTeamManager}, rows[0].Roles)

	// Target without grants still appears with an empty role list.
	assert.Equal(t, storage, rows[1].Target)
	assert.Empty(t, rows[1].Roles)
	assert.NotNil(t, rows[1].Roles)

	assert.Equal(t, []Role{RoleFinance}, rows[2].Roles)
}

func TestFeatureCatalog(t *testing.T) {
	assert.Len(t, FeatureKeys, 8)
	assert.True(t, IsFeatureKey("finance_visibility"))
	assert.False(t, IsFeatureKey("legacy_feature"))

	def, ok := FeatureByKey(FeatureDamagedPartManualUpdates)
	require.True(t, ok)
	assert.Equal(t, FeatureGroupDamagedParts, def.Group)
	assert.NotEmpty(t, def.Label)
}

func TestPageKeys(t *testing.T) {
	assert.Len(t, PageKeys, 14)
	assert.True(t, IsPageKey("businesslens reports"))
	assert.False(t, IsPageKey("settings"))
}
