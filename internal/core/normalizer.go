package core

import (
	"strings"

	"github.com/ardika/judol-filter/internal/textnorm"
)

// leet maps the digit and symbol substitutions spammers use inside brand
// names onto the letters they stand for.
var leet = strings.NewReplacer(
	"0", "o",
	"1", "i",
	"3", "e",
	"4", "a",
	"5", "s",
	"7", "t",
	"8", "b",
	"9", "g",
	"@", "a",
	"$", "s",
)

// KeywordNormalizer maps raw provider-emitted keywords onto a canonical
// dictionary of known gambling brands. Total: unknown input degrades to
// the generic or N/A buckets instead of erroring, so an incomplete
// dictionary never blocks a classification.
type KeywordNormalizer struct {
	// folded lookalike-insensitive form -> canonical dictionary spelling
	canonical map[string]string
}

// NewKeywordNormalizer builds a normalizer over the configured brand
// dictionary. Dictionary entries keep their configured spelling as the
// canonical output.
func NewKeywordNormalizer(dictionary []string) *KeywordNormalizer {
	canonical := make(map[string]string, len(dictionary))
	for _, entry := range dictionary {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		canonical[foldKeyword(entry)] = entry
	}
	return &KeywordNormalizer{canonical: canonical}
}

// Normalize maps a candidate keyword to its canonical form. Matching is
// case-insensitive and folds both decorated alphabets and digit/letter
// substitutions, so "kyt4d", "KYT4D" and "🅺YT4D" all land on the same
// dictionary entry. Unmatched candidates bucket into GenericGambling
// when the comment was classified spam, N/A otherwise.
func (n *KeywordNormalizer) Normalize(candidate string, isSpam bool) string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" || candidate == KeywordNA {
		return KeywordNA
	}
	if hit, ok := n.canonical[foldKeyword(candidate)]; ok {
		return hit
	}
	if isSpam {
		return KeywordGeneric
	}
	return KeywordNA
}

// Known reports whether a candidate matches a dictionary entry and, if
// so, its canonical spelling.
func (n *KeywordNormalizer) Known(candidate string) (string, bool) {
	hit, ok := n.canonical[foldKeyword(candidate)]
	return hit, ok
}

func foldKeyword(keyword string) string {
	return leet.Replace(textnorm.StripSpace(textnorm.Fold(keyword)))
}
