package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "user-search-service/internal/domain/user"
)

// keyPrefix namespaces every page entry in Redis.
const keyPrefix = "usersearch:page"

// PageKey identifies one cached query result. Version pins the entry to a
// dataset snapshot so a changed dataset never serves stale pages.
type PageKey struct {
	Version string // dataset snapshot version
	Search  string // case-folded search term
	Page    int64  // 1-based page number
}

// String renders the Redis key for k.
func (k PageKey) String() string {
	return fmt.Sprintf("%s:%s:%d:%016x", keyPrefix, k.Version, k.Page, xxhash.Sum64String(k.Search))
}

// PageCache defines the interface for query result caching operations.
type PageCache interface {
	// Get retrieves a page result from cache.
	// Returns nil if the page is not found in cache.
	Get(ctx context.Context, key PageKey) (*domain.PageResult, error)

	// Set stores a page result in cache with the configured TTL.
	Set(ctx context.Context, key PageKey, result *domain.PageResult) error
}

// RedisPageCache implements PageCache using Redis as the backing store.
type RedisPageCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisPageCache creates a new Redis-backed page cache.
func NewRedisPageCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisPageCache {
	return &RedisPageCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Get retrieves a page result from Redis cache.
func (c *RedisPageCache) Get(ctx context.Context, key PageKey) (*domain.PageResult, error) {
	data, err := c.client.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		// Cache miss - not an error
		c.log.Debug("page cache miss", zap.String("key", key.String()))
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get page from cache", zap.String("key", key.String()), zap.Error(err))
		return nil, err
	}

	var result domain.PageResult
	if err := json.Unmarshal(data, &result); err != nil {
		c.log.Error("failed to unmarshal cached page", zap.String("key", key.String()), zap.Error(err))
		return nil, err
	}
	if result.Pagination == nil {
		return nil, fmt.Errorf("cached page %s has no pagination", key.String())
	}
	if result.Users == nil {
		result.Users = []domain.User{}
	}

	c.log.Debug("page cache hit", zap.String("key", key.String()))
	return &result, nil
}

// Set stores a page result in Redis cache with TTL.
func (c *RedisPageCache) Set(ctx context.Context, key PageKey, result *domain.PageResult) error {
	if result == nil {
		return fmt.Errorf("cannot cache nil page")
	}

	data, err := json.Marshal(result)
	if err != nil {
		c.log.Error("failed to marshal page for cache", zap.String("key", key.String()), zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, key.String(), data, c.ttl).Err(); err != nil {
		c.log.Error("failed to set page cache", zap.String("key", key.String()), zap.Error(err))
		return err
	}

	c.log.Debug("cached page", zap.String("key", key.String()), zap.Duration("ttl", c.ttl))
	return nil
}
