package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appaccess "github.com/factoryerp/backend/internal/application/accesscontrol"
	"github.com/factoryerp/backend/internal/domain/accesscontrol"
	"github.com/factoryerp/backend/internal/infrastructure/config"
)

const defaultSnapshotKeyPrefix = "access:snapshot:"

// RedisSnapshotCache stores role snapshots as JSON values in Redis. It is
// suitable for distributed deployments where a grant edit on one instance
// must invalidate the snapshot seen by the others.
type RedisSnapshotCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisSnapshotCache creates a cache with its own Redis client
func NewRedisSnapshotCache(cfg config.RedisConfig, ttl time.Duration) (*RedisSnapshotCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSnapshotCache{
		client:    client,
		keyPrefix: defaultSnapshotKeyPrefix,
		ttl:       ttl,
	}, nil
}

// NewRedisSnapshotCacheWithClient creates a cache with an existing Redis
// client. Useful for testing or when sharing a client across components.
func NewRedisSnapshotCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisSnapshotCache {
	if keyPrefix == "" {
		keyPrefix = defaultSnapshotKeyPrefix
	}
	return &RedisSnapshotCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (c *RedisSnapshotCache) key(role accesscontrol.Role) string {
	return c.keyPrefix + string(role)
}

// Get returns the cached snapshot for the role, if present.
func (c *RedisSnapshotCache) Get(ctx context.Context, role accesscontrol.Role) (*accesscontrol.RoleAccessSnapshot, bool, error) {
	data, err := c.client.Get(ctx, c.key(role)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read snapshot from Redis: %w", err)
	}

	var snap accesscontrol.RoleAccessSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached snapshot: %w", err)
	}
	// Membership indexes are not part of the JSON form.
	snap.Reindex()
	return &snap, true, nil
}

// Set stores the snapshot for the role with the configured TTL.
func (c *RedisSnapshotCache) Set(ctx context.Context, role accesscontrol.Role, snap *accesscontrol.RoleAccessSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.key(role), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write snapshot to Redis: %w", err)
	}
	return nil
}

// Delete drops the role's cached snapshot.
func (c *RedisSnapshotCache) Delete(ctx context.Context, role accesscontrol.Role) error {
	if err := c.client.Del(ctx, c.key(role)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot from Redis: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisSnapshotCache) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisSnapshotCache) GetClient() *redis.Client {
	return c.client
}

// Ensure RedisSnapshotCache implements SnapshotCache
var _ appaccess.SnapshotCache = (*RedisSnapshotCache)(nil)
