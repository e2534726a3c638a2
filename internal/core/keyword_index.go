package core

import (
	"strings"
	"sync"

	"github.com/ardika/judol-filter/internal/textnorm"
)

// KeywordIndex remembers brand keywords the provider has already
// confirmed as spam. A later comment containing a learned keyword can be
// classified without spending another provider call, even when the rest
// of the comment text differs. Safe for concurrent use.
type KeywordIndex struct {
	mu      sync.RWMutex
	entries map[string]indexEntry // folded keyword -> entry
}

type indexEntry struct {
	keyword    string
	confidence float64
}

// NewKeywordIndex creates an empty index.
func NewKeywordIndex() *KeywordIndex {
	return &KeywordIndex{entries: make(map[string]indexEntry)}
}

// Learn records a confirmed spam keyword with the confidence the
// provider reported. The N/A sentinel and the generic bucket are not
// substrings of anything and are never recorded.
func (idx *KeywordIndex) Learn(keyword string, confidence float64) {
	if keyword == "" || keyword == KeywordNA || keyword == KeywordGeneric {
		return
	}
	folded := textnorm.StripSpace(textnorm.Fold(keyword))
	if folded == "" {
		return
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries[folded] = indexEntry{keyword: keyword, confidence: confidence}
}

// Match scans a comment for any learned keyword. Matching happens on the
// folded, whitespace-stripped form of both sides, so spaced-out or
// decorated spellings still hit.
func (idx *KeywordIndex) Match(commentText string) (ClassificationResult, bool) {
	haystack := textnorm.StripSpace(textnorm.Fold(commentText))
	if haystack == "" {
		return ClassificationResult{}, false
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for folded, entry := range idx.entries {
		if strings.Contains(haystack, folded) {
			return ClassificationResult{
				IsSpam:     true,
				Keyword:    entry.keyword,
				Confidence: entry.confidence,
			}, true
		}
	}
	return ClassificationResult{}, false
}

// Lookup reports whether a keyword has been learned, matching on the
// folded form. Backs the read-only cache diagnostic endpoint.
func (idx *KeywordIndex) Lookup(keyword string) (ClassificationResult, bool) {
	folded := textnorm.StripSpace(textnorm.Fold(keyword))

	idx.mu.RLock()
	defer idx.mu.RUnlock()
	entry, ok := idx.entries[folded]
	if !ok {
		return ClassificationResult{}, false
	}
	return ClassificationResult{
		IsSpam:     true,
		Keyword:    entry.keyword,
		Confidence: entry.confidence,
	}, true
}

// Len returns the number of learned keywords.
func (idx *KeywordIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}
