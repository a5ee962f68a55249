// Package cache provides the role snapshot cache implementations: an
// in-memory TTL cache for single-instance deployments and a Redis-backed
// cache for deployments that share invalidations across instances.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	appaccess "github.com/factoryerp/backend/internal/application/accesscontrol"
	"github.com/factoryerp/backend/internal/domain/accesscontrol"
)

type snapshotEntry struct {
	snapshot  *accesscontrol.RoleAccessSnapshot
	expiresAt time.Time
}

func (e *snapshotEntry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// InMemorySnapshotCache is a thread-safe TTL cache holding one snapshot per
// role. Expired entries are dropped lazily on read and swept by a
// background cleanup goroutine.
type InMemorySnapshotCache struct {
	entries         sync.Map // accesscontrol.Role -> *snapshotEntry
	ttl             time.Duration
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once

	hits   atomic.Int64
	misses atomic.Int64
}

// InMemorySnapshotCacheOption configures an InMemorySnapshotCache
type InMemorySnapshotCacheOption func(*InMemorySnapshotCache)

// WithTTL sets the entry time-to-live
func WithTTL(ttl time.Duration) InMemorySnapshotCacheOption {
	return func(c *InMemorySnapshotCache) {
		c.ttl = ttl
	}
}

// WithCleanupInterval sets how often expired entries are swept
func WithCleanupInterval(interval time.Duration) InMemorySnapshotCacheOption {
	return func(c *InMemorySnapshotCache) {
		c.cleanupInterval = interval
	}
}

// NewInMemorySnapshotCache creates a new in-memory snapshot cache and
// starts its cleanup goroutine. Call Close to stop it.
func NewInMemorySnapshotCache(opts ...InMemorySnapshotCacheOption) *InMemorySnapshotCache {
	c := &InMemorySnapshotCache{
		ttl:             5 * time.Minute,
		cleanupInterval: time.Minute,
		stopCleanup:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.cleanupLoop()
	return c
}

// Get returns the cached snapshot for the role, if present and fresh.
func (c *InMemorySnapshotCache) Get(_ context.Context, role accesscontrol.Role) (*accesscontrol.RoleAccessSnapshot, bool, error) {
	value, ok := c.entries.Load(role)
	if !ok {
		c.misses.Add(1)
		return nil, false, nil
	}

	entry := value.(*snapshotEntry)
	if entry.expired(time.Now()) {
		c.entries.Delete(role)
		c.misses.Add(1)
		return nil, false, nil
	}

	c.hits.Add(1)
	return entry.snapshot, true, nil
}

// Set stores the snapshot for the role with the configured TTL.
func (c *InMemorySnapshotCache) Set(_ context.Context, role accesscontrol.Role, snap *accesscontrol.RoleAccessSnapshot) error {
	c.entries.Store(role, &snapshotEntry{
		snapshot:  snap,
		expiresAt: time.Now().Add(c.ttl),
	})
	return nil
}

// Delete drops the role's cached snapshot.
func (c *InMemorySnapshotCache) Delete(_ context.Context, role accesscontrol.Role) error {
	c.entries.Delete(role)
	return nil
}

// Stats returns cumulative hit and miss counters.
func (c *InMemorySnapshotCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Close stops the cleanup goroutine.
func (c *InMemorySnapshotCache) Close() {
	c.stopOnce.Do(func() {
		close(c.stopCleanup)
	})
}

func (c *InMemorySnapshotCache) cleanupLoop() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.entries.Range(func(key, value any) bool {
				if value.(*snapshotEntry).expired(now) {
					c.entries.Delete(key)
				}
				return true
			})
		case <-c.stopCleanup:
			return
		}
	}
}

// Ensure InMemorySnapshotCache implements SnapshotCache
var _ appaccess.SnapshotCache = (*InMemorySnapshotCache)(nil)
