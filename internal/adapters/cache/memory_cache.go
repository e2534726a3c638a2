package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ardika/judol-filter/internal/core"
)

// MemoryCache is an in-process implementation of the CacheRepository
// interface, bounded by both TTL and a maximum entry count with
// least-recently-used eviction. A Get refreshes an entry's recency.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // front = most recently used
	maxEntries int

	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewMemoryCache creates a new in-memory cache. maxEntries <= 0 means
// unbounded. A background sweep reclaims expired entries every
// cleanupFreq.
func NewMemoryCache(logger *zap.Logger, maxEntries int, cleanupFreq time.Duration) *MemoryCache {
	if cleanupFreq <= 0 {
		cleanupFreq = 5 * time.Minute
	}

	c := &MemoryCache{
		entries:     make(map[string]*list.Element),
		order:       list.New(),
		maxEntries:  maxEntries,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	go c.startCleanupTask()

	return c
}

// Get retrieves a cached result. Expired entries are treated as absent
// and reclaimed on the spot.
func (c *MemoryCache) Get(_ context.Context, key string) (core.ClassificationResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return core.ClassificationResult{}, false, nil
	}

	entry := elem.Value.(*core.CacheEntry)
	if time.Now().After(entry.ExpiresAt) {
		c.removeLocked(elem)
		return core.ClassificationResult{}, false, nil
	}

	c.order.MoveToFront(elem)
	return entry.Result, true, nil
}

// Set stores a result under key. When at capacity and the key is new,
// the least-recently-used entry is evicted.
func (c *MemoryCache) Set(_ context.Context, key string, result core.ClassificationResult, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	expiresAt := time.Now().Add(ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*core.CacheEntry)
		entry.Result = result
		entry.ExpiresAt = expiresAt
		c.order.MoveToFront(elem)
		return nil
	}

	c.entries[key] = c.order.PushFront(&core.CacheEntry{
		Key:        key,
		Result:     result,
		InsertedAt: now,
		ExpiresAt:  expiresAt,
	})

	if c.maxEntries > 0 && c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		if oldest != nil {
			c.logger.Debug("evicting least-recently-used cache entry",
				zap.String("key", oldest.Value.(*core.CacheEntry).Key))
			c.removeLocked(oldest)
		}
	}

	return nil
}

// Len returns the number of entries currently held, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *MemoryCache) removeLocked(elem *list.Element) {
	entry := elem.Value.(*core.CacheEntry)
	delete(c.entries, entry.Key)
	c.order.Remove(elem)
}

// cleanup removes expired entries.
func (c *MemoryCache) cleanup() {
	now := time.Now()
	expiredCount := 0

	c.mu.Lock()
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		if now.After(elem.Value.(*core.CacheEntry).ExpiresAt) {
			c.removeLocked(elem)
			expiredCount++
		}
		elem = prev
	}
	c.mu.Unlock()

	if expiredCount > 0 {
		c.logger.Debug("cleaned up expired cache entries", zap.Int("expired_count", expiredCount))
	}
}

// startCleanupTask runs the background sweep until Stop is called.
func (c *MemoryCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task.
func (c *MemoryCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}
