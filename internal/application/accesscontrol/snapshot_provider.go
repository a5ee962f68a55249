package accesscontrol

import (
	"context"

	"go.uber.org/zap"

	"github.com/factoryerp/backend/internal/domain/accesscontrol"
)

// SnapshotCache stores one RoleAccessSnapshot per role. Implementations
// live in infrastructure/cache (in-memory and Redis).
type SnapshotCache interface {
	Get(ctx context.Context, role accesscontrol.Role) (*accesscontrol.RoleAccessSnapshot, bool, error)
	Set(ctx context.Context, role accesscontrol.Role, snap *accesscontrol.RoleAccessSnapshot) error
	Delete(ctx context.Context, role accesscontrol.Role) error
}

// SnapshotProvider serves role snapshots cache-aside: reads hit the cache
// first and fall back to three grant-table queries, writes to the grant
// table invalidate the affected role. Within the cache TTL, other sessions
// may observe a stale snapshot; the refresh endpoint forces a rebuild.
type SnapshotProvider struct {
	grants accesscontrol.AccessGrantRepository
	cache  SnapshotCache
	logger *zap.Logger
}

// NewSnapshotProvider creates a new snapshot provider.
func NewSnapshotProvider(grants accesscontrol.AccessGrantRepository, cache SnapshotCache, logger *zap.Logger) *SnapshotProvider {
	return &SnapshotProvider{
		grants: grants,
		cache:  cache,
		logger: logger,
	}
}

// Get returns the role's snapshot, building and caching it on a miss.
// Cache read failures degrade to a rebuild instead of failing the request.
func (p *SnapshotProvider) Get(ctx context.Context, role accesscontrol.Role) (*accesscontrol.RoleAccessSnapshot, error) {
	snap, found, err := p.cache.Get(ctx, role)
	if err != nil {
		p.logger.Warn("Snapshot cache read failed, rebuilding from storage",
			zap.String("role", string(role)),
			zap.Error(err))
	} else if found {
		return snap, nil
	}
	return p.Refresh(ctx, role)
}

// Refresh rebuilds the role's snapshot from the grant table and replaces
// the cached copy.
func (p *SnapshotProvider) Refresh(ctx context.Context, role accesscontrol.Role) (*accesscontrol.RoleAccessSnapshot, error) {
	snap, err := p.build(ctx, role)
	if err != nil {
		return nil, err
	}
	if err := p.cache.Set(ctx, role, snap); err != nil {
		p.logger.Warn("Failed to cache role snapshot",
			zap.String("role", string(role)),
			zap.Error(err))
	}
	return snap, nil
}

// Invalidate drops the role's cached snapshot. Called after every grant
// table write affecting the role.
func (p *SnapshotProvider) Invalidate(ctx context.Context, role accesscontrol.Role) {
	if err := p.cache.Delete(ctx, role); err != nil {
		p.logger.Warn("Failed to invalidate role snapshot",
			zap.String("role", string(role)),
			zap.Error(err))
	}
}

// build issues the three per-type queries and assembles the snapshot.
// Stale targets (unknown feature keys, non-numeric status ids) are dropped
// during assembly.
func (p *SnapshotProvider) build(ctx context.Context, role accesscontrol.Role) (*accesscontrol.RoleAccessSnapshot, error) {
	pages, err := p.grants.FindTargetsByRole(ctx, accesscontrol.GrantTypePage, role)
	if err != nil {
		return nil, err
	}
	statuses, err := p.grants.FindTargetsByRole(ctx, accesscontrol.GrantTypeManageOrder, role)
	if err != nil {
		return nil, err
	}
	features, err := p.grants.FindTargetsByRole(ctx, accesscontrol.GrantTypeFeature, role)
	if err != nil {
		return nil, err
	}
	return accesscontrol.NewRoleAccessSnapshot(role, pages, statuses, features), nil
}
