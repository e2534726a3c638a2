package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"github.com/ardika/judol-filter/internal/textnorm"
)

// Validator checks and normalizes inbound comments. Pure; safe for
// concurrent use.
type Validator struct {
	maxLength int
}

// NewValidator creates a validator enforcing the given maximum comment
// length in runes.
func NewValidator(maxLength int) *Validator {
	return &Validator{maxLength: maxLength}
}

// Validate trims the raw text and enforces the length bounds. On success
// it returns a Comment carrying the trimmed original text and its
// derived cache key.
func (v *Validator) Validate(rawText string) (Comment, error) {
	trimmed := strings.TrimSpace(rawText)
	length := utf8.RuneCountInString(trimmed)

	if length == 0 {
		return Comment{}, &ValidationError{Err: ErrEmptyInput, Length: 0}
	}
	if v.maxLength > 0 && length > v.maxLength {
		return Comment{}, &ValidationError{Err: ErrInputTooLong, Length: length}
	}

	return Comment{
		Text: trimmed,
		Key:  CacheKey(trimmed),
	}, nil
}

// CacheKey derives the cache and single-flight key for a comment.
// Texts that fold to the same normalized form map to the same key, so
// cache hits and in-flight deduplication line up.
func CacheKey(text string) string {
	normalized := textnorm.CollapseSpace(textnorm.Fold(text))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
