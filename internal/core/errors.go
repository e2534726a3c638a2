package core

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when a comment is empty after trimming.
	ErrEmptyInput = errors.New("comment is empty")
	// ErrInputTooLong is returned when a comment exceeds the configured maximum length.
	ErrInputTooLong = errors.New("comment exceeds maximum length")
	// ErrCacheUnavailable marks cache backend failures. It is absorbed by
	// the service and never surfaces to callers.
	ErrCacheUnavailable = errors.New("cache unavailable")
)

// ValidationError reports a client-input problem. Never retried.
type ValidationError struct {
	Err    error
	Length int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid comment (length %d): %v", e.Length, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ProviderErrorKind classifies provider failures for the retry policy.
type ProviderErrorKind int

const (
	// ProviderTimeout covers request deadline and network timeouts.
	ProviderTimeout ProviderErrorKind = iota
	// ProviderRateLimited covers HTTP 429 responses.
	ProviderRateLimited
	// ProviderUnavailable covers 5xx responses and transient network errors.
	ProviderUnavailable
	// ProviderAuthFailure covers 401/403 responses. Never retried.
	ProviderAuthFailure
	// ProviderMalformed covers responses whose envelope could not be
	// decoded, or requests the provider rejected outright. Never retried.
	ProviderMalformed
)

func (k ProviderErrorKind) String() string {
	switch k {
	case ProviderTimeout:
		return "timeout"
	case ProviderRateLimited:
		return "rate_limited"
	case ProviderUnavailable:
		return "unavailable"
	case ProviderAuthFailure:
		return "auth_failure"
	case ProviderMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// ProviderError wraps a failure from the configured AI backend.
type ProviderError struct {
	Kind ProviderErrorKind
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error (%s): %v", e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Transient reports whether the retry policy may try again.
func (e *ProviderError) Transient() bool {
	switch e.Kind {
	case ProviderTimeout, ProviderRateLimited, ProviderUnavailable:
		return true
	default:
		return false
	}
}

// ProviderExhaustedError is returned once all retry attempts are spent.
// Per policy there is no fallback to a different provider.
type ProviderExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ProviderExhaustedError) Error() string {
	return fmt.Sprintf("provider exhausted after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ProviderExhaustedError) Unwrap() error { return e.Last }

// ParseErrorKind classifies violations of the S,K,C response contract.
type ParseErrorKind int

const (
	// ParseWrongFieldCount means the response line did not split into three fields.
	ParseWrongFieldCount ParseErrorKind = iota
	// ParseInvalidSpamFlag means the first field was not exactly "0" or "1".
	ParseInvalidSpamFlag
	// ParseInvalidConfidence means the third field was not a decimal in [0, 1].
	ParseInvalidConfidence
)

func (k ParseErrorKind) String() string {
	switch k {
	case ParseWrongFieldCount:
		return "wrong_field_count"
	case ParseInvalidSpamFlag:
		return "invalid_spam_flag"
	case ParseInvalidConfidence:
		return "invalid_confidence"
	default:
		return "unknown"
	}
}

// ParseError reports a provider response that violates the expected
// triplet contract. Treated as a hard failure, never defaulted.
type ParseError struct {
	Kind ParseErrorKind
	Raw  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed provider response (%s): %q", e.Kind, e.Raw)
}
