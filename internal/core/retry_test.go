package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedClient returns canned outcomes in order, then repeats the last.
type scriptedClient struct {
	outcomes []error
	calls    int
}

func (c *scriptedClient) Classify(context.Context, string) (string, error) {
	i := c.calls
	if i >= len(c.outcomes) {
		i = len(c.outcomes) - 1
	}
	c.calls++
	if err := c.outcomes[i]; err != nil {
		return "", err
	}
	return "1,KYT4D,0.95", nil
}

// newTestRetrier builds a retrying client with instant, deterministic
// backoff so the policy is testable without real delay.
func newTestRetrier(inner LLMClient, policy RetryPolicy, sleeps *[]time.Duration) *retryingClient {
	return &retryingClient{
		inner:  inner,
		policy: policy,
		logger: zap.NewNop(),
		sleep: func(_ context.Context, d time.Duration) error {
			*sleeps = append(*sleeps, d)
			return nil
		},
		jitter: func(max time.Duration) time.Duration { return max },
	}
}

func TestRetryingClient_SucceedsAfterTransientErrors(t *testing.T) {
	var sleeps []time.Duration
	inner := &scriptedClient{outcomes: []error{
		&ProviderError{Kind: ProviderUnavailable, Err: errors.New("503")},
		&ProviderError{Kind: ProviderRateLimited, Err: errors.New("429")},
		nil,
	}}
	c := newTestRetrier(inner, RetryPolicy{MaxRetries: 3, BackoffBase: 100 * time.Millisecond, MaxBackoff: time.Minute}, &sleeps)

	raw, err := c.Classify(context.Background(), "comment")
	require.NoError(t, err)
	assert.Equal(t, "1,KYT4D,0.95", raw)
	assert.Equal(t, 3, inner.calls)

	// Exponential ceilings: base, then doubled.
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, sleeps)
}

func TestRetryingClient_BackoffCapped(t *testing.T) {
	var sleeps []time.Duration
	inner := &scriptedClient{outcomes: []error{
		&ProviderError{Kind: ProviderTimeout, Err: errors.New("timeout")},
	}}
	c := newTestRetrier(inner, RetryPolicy{MaxRetries: 4, BackoffBase: 100 * time.Millisecond, MaxBackoff: 150 * time.Millisecond}, &sleeps)

	_, err := c.Classify(context.Background(), "comment")
	var exhausted *ProviderExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.Equal(t, 5, exhausted.Attempts)
	assert.Equal(t, 5, inner.calls)

	for _, d := range sleeps {
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}

func TestRetryingClient_FatalErrorNotRetried(t *testing.T) {
	var sleeps []time.Duration
	authErr := &ProviderError{Kind: ProviderAuthFailure, Err: errors.New("401")}
	inner := &scriptedClient{outcomes: []error{authErr}}
	c := newTestRetrier(inner, RetryPolicy{MaxRetries: 3, BackoffBase: time.Millisecond, MaxBackoff: time.Second}, &sleeps)

	_, err := c.Classify(context.Background(), "comment")
	require.ErrorIs(t, err, authErr)
	assert.Equal(t, 1, inner.calls)
	assert.Empty(t, sleeps)
}

func TestRetryingClient_ExhaustedWrapsLastError(t *testing.T) {
	var sleeps []time.Duration
	lastErr := &ProviderError{Kind: ProviderUnavailable, Err: errors.New("503")}
	inner := &scriptedClient{outcomes: []error{lastErr}}
	c := newTestRetrier(inner, RetryPolicy{MaxRetries: 2, BackoffBase: time.Millisecond, MaxBackoff: time.Second}, &sleeps)

	_, err := c.Classify(context.Background(), "comment")
	var exhausted *ProviderExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.Equal(t, 3, exhausted.Attempts)
	assert.ErrorIs(t, err, lastErr)
	assert.Len(t, sleeps, 2)
}

// hangingClient blocks until the per-attempt deadline fires.
type hangingClient struct {
	calls int
}

func (c *hangingClient) Classify(ctx context.Context, _ string) (string, error) {
	c.calls++
	<-ctx.Done()
	return "", ctx.Err()
}

func TestRetryingClient_HangingProviderExhaustsRetries(t *testing.T) {
	var sleeps []time.Duration
	inner := &hangingClient{}
	c := newTestRetrier(inner, RetryPolicy{
		MaxRetries:     3,
		BackoffBase:    time.Millisecond,
		MaxBackoff:     time.Second,
		AttemptTimeout: 10 * time.Millisecond,
	}, &sleeps)

	_, err := c.Classify(context.Background(), "comment")

	// Each hung attempt counts as a transient timeout and is retried
	// until the policy is spent.
	var exhausted *ProviderExhaustedError
	require.True(t, errors.As(err, &exhausted), "want ProviderExhaustedError, got %v", err)
	assert.Equal(t, 4, exhausted.Attempts)
	assert.Equal(t, 4, inner.calls)
	assert.Len(t, sleeps, 3)

	var provErr *ProviderError
	require.True(t, errors.As(exhausted.Last, &provErr))
	assert.Equal(t, ProviderTimeout, provErr.Kind)
}

func TestRetryingClient_CallerDeadlineNotRetried(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	var sleeps []time.Duration
	inner := &hangingClient{}
	// No per-attempt deadline: the expiry the client sees is the
	// caller's own, which must pass through untouched.
	c := newTestRetrier(inner, RetryPolicy{MaxRetries: 3, BackoffBase: time.Millisecond, MaxBackoff: time.Second}, &sleeps)

	_, err := c.Classify(ctx, "comment")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, inner.calls)
	assert.Empty(t, sleeps)
}

func TestRetryingClient_ContextCancellationStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inner := &scriptedClient{outcomes: []error{
		&ProviderError{Kind: ProviderUnavailable, Err: errors.New("503")},
	}}
	var sleeps []time.Duration
	c := newTestRetrier(inner, RetryPolicy{MaxRetries: 3, BackoffBase: time.Millisecond, MaxBackoff: time.Second}, &sleeps)

	_, err := c.Classify(ctx, "comment")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, inner.calls)
}
