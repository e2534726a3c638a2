package core

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// RetryPolicy bounds the retry loop around a provider client.
type RetryPolicy struct {
	// MaxRetries is the number of attempts after the first. Zero means a
	// single attempt.
	MaxRetries int
	// BackoffBase seeds the exponential backoff (base * 2^attempt).
	BackoffBase time.Duration
	// MaxBackoff caps a single wait.
	MaxBackoff time.Duration
	// AttemptTimeout caps one provider call. A hung call counts as a
	// transient timeout and is retried like any other. Zero means no
	// per-attempt deadline.
	AttemptTimeout time.Duration
}

// retryingClient wraps an LLMClient with bounded, jittered exponential
// backoff on transient failures. Fatal provider errors fail immediately;
// exhausting all attempts yields a ProviderExhaustedError.
type retryingClient struct {
	inner  LLMClient
	policy RetryPolicy
	logger *zap.Logger

	// sleep and jitter are swapped out in tests so the policy can be
	// verified without real delay.
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func(max time.Duration) time.Duration
}

// NewRetryingClient decorates client with the given retry policy.
func NewRetryingClient(client LLMClient, policy RetryPolicy, logger *zap.Logger) LLMClient {
	if policy.BackoffBase <= 0 {
		policy.BackoffBase = 500 * time.Millisecond
	}
	if policy.MaxBackoff <= 0 {
		policy.MaxBackoff = 30 * time.Second
	}
	return &retryingClient{
		inner:  client,
		policy: policy,
		logger: logger,
		sleep:  sleepContext,
		jitter: fullJitter,
	}
}

// Classify runs the inner client with retries on transient failures.
func (c *retryingClient) Classify(ctx context.Context, comment string) (string, error) {
	maxAttempts := c.policy.MaxRetries + 1
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		raw, err := c.classifyAttempt(ctx, comment)
		if err == nil {
			return raw, nil
		}

		// Anything outside the provider error taxonomy passes through
		// un-retried. Caller context errors arrive unwrapped, so they
		// land here; an attempt deadline arrives as a transient
		// ProviderError (see classifyAttempt) and does not.
		var provErr *ProviderError
		if !errors.As(err, &provErr) {
			return "", err
		}
		if !provErr.Transient() {
			return "", err
		}
		lastErr = err

		if attempt == maxAttempts-1 {
			break
		}

		backoff := c.jitter(c.backoffCeiling(attempt))
		c.logger.Warn("transient provider error, backing off",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", maxAttempts),
			zap.String("kind", provErr.Kind.String()),
			zap.Duration("backoff", backoff),
			zap.Error(provErr.Err))

		if err := c.sleep(ctx, backoff); err != nil {
			return "", err
		}
	}

	c.logger.Error("provider retries exhausted",
		zap.Int("attempts", maxAttempts),
		zap.Error(lastErr))
	return "", &ProviderExhaustedError{Attempts: maxAttempts, Last: lastErr}
}

// classifyAttempt runs one provider call under the per-attempt deadline.
// An expiry of that deadline, as opposed to the caller's context, comes
// back as a transient ProviderError so the retry loop treats it like any
// other timeout.
func (c *retryingClient) classifyAttempt(ctx context.Context, comment string) (string, error) {
	attemptCtx := ctx
	cancel := func() {}
	if c.policy.AttemptTimeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, c.policy.AttemptTimeout)
	}
	defer cancel()

	raw, err := c.inner.Classify(attemptCtx, comment)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return "", &ProviderError{Kind: ProviderTimeout, Err: err}
	}
	return raw, err
}

// Close releases the inner client's resources when it has any.
func (c *retryingClient) Close() error {
	if closer, ok := c.inner.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// backoffCeiling computes base * 2^attempt, capped at MaxBackoff.
func (c *retryingClient) backoffCeiling(attempt int) time.Duration {
	const maxExponent = 10
	if attempt > maxExponent {
		attempt = maxExponent
	}
	ceiling := time.Duration(float64(c.policy.BackoffBase) * math.Pow(2, float64(attempt)))
	if ceiling > c.policy.MaxBackoff {
		ceiling = c.policy.MaxBackoff
	}
	return ceiling
}

// fullJitter draws a random wait in [0, max), spreading concurrent
// retries so they do not hammer the provider in lockstep.
func fullJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Float64() * float64(max))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
