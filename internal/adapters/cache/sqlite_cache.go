package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/ardika/judol-filter/internal/core"
)

// SQLiteCache is a SQLite implementation of the CacheRepository
// interface for single-instance deployments that want the cache to
// survive restarts. Bounded like the memory backend: TTL on read, and
// when the table exceeds maxEntries the rows touched longest ago are
// deleted.
type SQLiteCache struct {
	db          *sql.DB
	logger      *zap.Logger
	maxEntries  int
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewSQLiteCache creates a new SQLite cache at dbPath.
func NewSQLiteCache(dbPath string, logger *zap.Logger, maxEntries int, cleanupFreq time.Duration) (*SQLiteCache, error) {
	if cleanupFreq <= 0 {
		cleanupFreq = 5 * time.Minute
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS comment_cache (
			cache_key TEXT PRIMARY KEY,
			is_spam BOOLEAN,
			keyword TEXT,
			confidence REAL,
			last_used TIMESTAMP,
			expires_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	for _, stmt := range []string{
		`CREATE INDEX IF NOT EXISTS idx_expires_at ON comment_cache(expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_last_used ON comment_cache(last_used)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create index: %w", err)
		}
	}

	c := &SQLiteCache{
		db:          db,
		logger:      logger,
		maxEntries:  maxEntries,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	go c.startCleanupTask()

	return c, nil
}

// Get retrieves a cached result and refreshes its recency.
func (c *SQLiteCache) Get(ctx context.Context, key string) (core.ClassificationResult, bool, error) {
	var result core.ClassificationResult

	err := c.db.QueryRowContext(ctx, `
		SELECT is_spam, keyword, confidence
		FROM comment_cache
		WHERE cache_key = ? AND expires_at > ?
	`, key, time.Now().UTC().Format(time.RFC3339)).Scan(&result.IsSpam, &result.Keyword, &result.Confidence)

	if err == sql.ErrNoRows {
		return core.ClassificationResult{}, false, nil
	}
	if err != nil {
		return core.ClassificationResult{}, false,
			fmt.Errorf("%w: sqlite query failed: %v", core.ErrCacheUnavailable, err)
	}

	if _, err := c.db.ExecContext(ctx, `
		UPDATE comment_cache SET last_used = ? WHERE cache_key = ?
	`, time.Now().UTC().Format(time.RFC3339), key); err != nil {
		c.logger.Warn("failed to refresh cache entry recency", zap.Error(err))
	}

	return result, true, nil
}

// Set stores a result under key, evicting the least-recently-used rows
// when over capacity.
func (c *SQLiteCache) Set(ctx context.Context, key string, result core.ClassificationResult, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	now := time.Now().UTC()

	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO comment_cache (cache_key, is_spam, keyword, confidence, last_used, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, key, result.IsSpam, result.Keyword, result.Confidence,
		now.Format(time.RFC3339), now.Add(ttl).Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%w: sqlite insert failed: %v", core.ErrCacheUnavailable, err)
	}

	if c.maxEntries > 0 {
		if _, err := c.db.ExecContext(ctx, `
			DELETE FROM comment_cache
			WHERE cache_key IN (
				SELECT cache_key FROM comment_cache
				ORDER BY last_used DESC
				LIMIT -1 OFFSET ?
			)
		`, c.maxEntries); err != nil {
			c.logger.Warn("failed to evict over-capacity cache entries", zap.Error(err))
		}
	}

	return nil
}

// Cleanup removes expired entries.
func (c *SQLiteCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM comment_cache WHERE expires_at <= ?
	`, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows > 0 {
		c.logger.Debug("cleaned up expired cache entries", zap.Int64("expired_count", rows))
	}

	return nil
}

// startCleanupTask starts a background task to clean up expired entries.
func (c *SQLiteCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				c.logger.Error("failed to clean up cache", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task and closes the database.
func (c *SQLiteCache) Stop() {
	close(c.stopCh)
	if err := c.db.Close(); err != nil {
		c.logger.Error("failed to close SQLite database", zap.Error(err))
	}
}
