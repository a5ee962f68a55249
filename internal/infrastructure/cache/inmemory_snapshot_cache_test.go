package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factoryerp/backend/internal/domain/accesscontrol"
)

func TestInMemorySnapshotCache(t *testing.T) {
	c := NewInMemorySnapshotCache(WithTTL(time.Minute))
	defer c.Close()
	ctx := context.Background()

	snap := accesscontrol.NewRoleAccessSnapshot(
		accesscontrol.RoleFinance,
		[]string{"invoice"}, nil, []string{"finance_visibility"},
	)

	_, found, err := c.Get(ctx, accesscontrol.RoleFinance)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, accesscontrol.RoleFinance, snap))

	got, found, err := c.Get(ctx, accesscontrol.RoleFinance)
	require.NoError(t, err)
	require.True(t, found)
	assert.Same(t, snap, got)

	require.NoError(t, c.Delete(ctx, accesscontrol.RoleFinance))
	_, found, err = c.Get(ctx, accesscontrol.RoleFinance)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInMemorySnapshotCacheExpiry(t *testing.T) {
	c := NewInMemorySnapshotCache(WithTTL(10 * time.Millisecond))
	defer c.Close()
	ctx := context.Background()

	snap := accesscontrol.NewRoleAccessSnapshot(accesscontrol.RoleOwner, nil, nil, nil)
	require.NoError(t, c.Set(ctx, accesscontrol.RoleOwner, snap))

	_, found, err := c.Get(ctx, accesscontrol.RoleOwner)
	require.NoError(t, err)
	assert.True(t, found)

	time.Sleep(20 * time.Millisecond)

	_, found, err = c.Get(ctx, accesscontrol.RoleOwner)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInMemorySnapshotCacheStats(t *testing.T) {
	c := NewInMemorySnapshotCache()
	defer c.Close()
	ctx := context.Background()

	snap := accesscontrol.NewRoleAccessSnapshot(accesscontrol.RoleOwner, nil, nil, nil)
	require.NoError(t, c.Set(ctx, accesscontrol.RoleOwner, snap))

	c.Get(ctx, accesscontrol.RoleOwner)
	c.Get(ctx, accesscontrol.RoleFinance)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}
