package factory

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ardika/judol-filter/internal/adapters/cache"
	"github.com/ardika/judol-filter/internal/config"
	"github.com/ardika/judol-filter/internal/core"
)

// CacheFactory creates cache repositories based on configuration
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCacheRepository creates a cache repository based on the configuration
func (f *CacheFactory) CreateCacheRepository() (core.CacheRepository, error) {
	cacheType := f.cfg.GetString("cache.type")
	cleanupFreq, err := f.cfg.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return nil, fmt.Errorf("invalid cache cleanup frequency: %w", err)
	}
	maxEntries := f.cfg.GetInt("cache.max_entries")

	switch cacheType {
	case "memory":
		return cache.NewMemoryCache(f.logger, maxEntries, cleanupFreq), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     f.cfg.GetString("cache.redis_addr"),
			Password: f.cfg.GetString("cache.redis_password"),
			DB:       f.cfg.GetInt("cache.redis_db"),
		})
		return cache.NewRedisCache(client, f.cfg.GetString("cache.key_prefix"), f.logger), nil
	case "sqlite":
		sqlitePath := f.cfg.GetString("cache.sqlite_path")
		if err := os.MkdirAll(filepath.Dir(sqlitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return cache.NewSQLiteCache(sqlitePath, f.logger, maxEntries, cleanupFreq)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cacheType)
	}
}

// GetCacheTTL returns the configured cache TTL
func (f *CacheFactory) GetCacheTTL() (time.Duration, error) {
	return f.cfg.GetDuration("cache.ttl")
}
