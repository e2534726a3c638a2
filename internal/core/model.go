package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// KeywordNA is the sentinel keyword for comments that carry no
// recognizable gambling brand.
const KeywordNA = "N/A"

// KeywordGeneric is the bucket for spam comments whose keyword is not
// in the configured dictionary.
const KeywordGeneric = "GenericGambling"

// Comment represents a single user-submitted comment to classify.
type Comment struct {
	// Text is the trimmed original text, exactly what is sent to the
	// provider. Case-folding happens only for key derivation.
	Text string

	// Key is the cache/single-flight key derived from the normalized text.
	Key string
}

// ClassificationResult represents the outcome of classifying one comment.
// Immutable once constructed; the cache hands out copies.
type ClassificationResult struct {
	IsSpam     bool    `json:"spam"`
	Keyword    string  `json:"keyword"`
	Confidence float64 `json:"confidence"`
}

// Triplet formats the result in the provider wire shape "S,K,C".
func (r ClassificationResult) Triplet() string {
	spam := "0"
	if r.IsSpam {
		spam = "1"
	}
	keyword := r.Keyword
	if keyword == "" {
		keyword = KeywordNA
	}
	return strings.Join([]string{
		spam,
		keyword,
		strconv.FormatFloat(r.Confidence, 'f', -1, 64),
	}, ",")
}

// String implements fmt.Stringer for log output.
func (r ClassificationResult) String() string {
	return fmt.Sprintf("spam=%t keyword=%s confidence=%.2f", r.IsSpam, r.Keyword, r.Confidence)
}

// CacheEntry is what cache backends persist per key.
type CacheEntry struct {
	Key        string
	Result     ClassificationResult
	InsertedAt time.Time
	ExpiresAt  time.Time
}
