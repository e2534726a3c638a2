package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ardika/judol-filter/internal/core"
)

// RedisCache is a Redis-backed implementation of the CacheRepository
// interface for deployments that share the result cache across
// instances. Backend failures wrap core.ErrCacheUnavailable so the
// pipeline can degrade to a miss instead of failing the request.
//
// Redis enforces the TTL bound itself; the entry-count bound is left to
// a maxmemory/allkeys-lru server policy.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisCache creates a Redis-backed cache.
func NewRedisCache(client *redis.Client, prefix string, logger *zap.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (c *RedisCache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

// Get retrieves a cached result.
func (c *RedisCache) Get(ctx context.Context, key string) (core.ClassificationResult, bool, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return core.ClassificationResult{}, false, nil
	}
	if err != nil {
		return core.ClassificationResult{}, false,
			fmt.Errorf("%w: redis get failed: %v", core.ErrCacheUnavailable, err)
	}

	var result core.ClassificationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		// A corrupt entry is as good as absent.
		c.logger.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		return core.ClassificationResult{}, false, nil
	}

	return result, true, nil
}

// Set stores a result under key with the given TTL.
func (c *RedisCache) Set(ctx context.Context, key string, result core.ClassificationResult, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	if err := c.client.Set(ctx, c.key(key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set failed: %v", core.ErrCacheUnavailable, err)
	}

	return nil
}

// Ping checks the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying Redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
