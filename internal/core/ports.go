package core

import (
	"context"
	"time"
)

// LLMClient defines the interface for interacting with AI backends.
// Implementations translate their backend's response envelope into the
// raw text that the response parser consumes.
type LLMClient interface {
	// Classify submits a comment and returns the model's raw completion text.
	Classify(ctx context.Context, comment string) (string, error)
}

// CacheRepository defines the interface for caching classification results.
type CacheRepository interface {
	// Get retrieves a cached result. The second return value reports
	// whether the key was present and unexpired. Backend failures are
	// reported via error and wrap ErrCacheUnavailable.
	Get(ctx context.Context, key string) (ClassificationResult, bool, error)

	// Set stores a result under key for ttl.
	Set(ctx context.Context, key string, result ClassificationResult, ttl time.Duration) error
}
