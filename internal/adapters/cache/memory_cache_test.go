package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ardika/judol-filter/internal/core"
)

func result(keyword string) core.ClassificationResult {
	return core.ClassificationResult{IsSpam: true, Keyword: keyword, Confidence: 0.9}
}

func TestMemoryCache_TTL(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), 100, 10*time.Millisecond)
	defer c.Stop()

	ctx := context.Background()

	if err := c.Set(ctx, "key", result("KYT4D"), 20*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !hit {
		t.Fatal("expected hit immediately after Set")
	}
	if got.Keyword != "KYT4D" {
		t.Fatalf("expected keyword KYT4D, got %q", got.Keyword)
	}

	// Wait for TTL to expire
	time.Sleep(30 * time.Millisecond)

	_, hit, err = c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get after TTL failed: %v", err)
	}
	if hit {
		t.Fatal("expected miss after TTL expiry")
	}
}

func TestMemoryCache_LRUEviction(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), 3, time.Minute)
	defer c.Stop()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		key := fmt.Sprintf("key-%d", i)
		if err := c.Set(ctx, key, result(key), time.Hour); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	// Touch key-0 so key-1 becomes the oldest.
	if _, hit, _ := c.Get(ctx, "key-0"); !hit {
		t.Fatal("expected hit for key-0")
	}

	if err := c.Set(ctx, "key-3", result("key-3"), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, hit, _ := c.Get(ctx, "key-1"); hit {
		t.Fatal("expected key-1 to be evicted as least recently used")
	}
	for _, key := range []string{"key-0", "key-2", "key-3"} {
		if _, hit, _ := c.Get(ctx, key); !hit {
			t.Fatalf("expected %s to survive eviction", key)
		}
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", c.Len())
	}
}

func TestMemoryCache_UpdateExistingKey(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), 2, time.Minute)
	defer c.Stop()

	ctx := context.Background()
	if err := c.Set(ctx, "key", result("OLD"), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Set(ctx, "key", result("NEW"), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, hit, _ := c.Get(ctx, "key")
	if !hit || got.Keyword != "NEW" {
		t.Fatalf("expected updated entry, got hit=%t keyword=%q", hit, got.Keyword)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry after update, got %d", c.Len())
	}
}

func TestMemoryCache_BackgroundSweep(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), 100, 10*time.Millisecond)
	defer c.Stop()

	ctx := context.Background()
	if err := c.Set(ctx, "key", result("KYT4D"), 5*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	if c.Len() != 0 {
		t.Fatalf("expected sweep to reclaim expired entry, %d left", c.Len())
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), 50, time.Minute)
	defer c.Stop()

	ctx := context.Background()
	done := make(chan struct{})
	for w := 0; w < 8; w++ {
		go func(w int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("key-%d", i%20)
				_ = c.Set(ctx, key, result(key), time.Hour)
				_, _, _ = c.Get(ctx, key)
			}
		}(w)
	}
	for w := 0; w < 8; w++ {
		<-done
	}

	if c.Len() > 20 {
		t.Fatalf("expected at most 20 distinct keys, got %d", c.Len())
	}
}
