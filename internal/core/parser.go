package core

import (
	"strconv"
	"strings"
)

// ParseTriplet parses the provider's raw completion text into a
// ClassificationResult, enforcing the "S,K,C" contract:
//
//   - exactly three comma-separated fields on the first non-empty line,
//   - S is "0" or "1" exactly,
//   - K is taken verbatim (empty becomes "N/A"),
//   - C is a decimal in [0.00, 1.00], kept at parsed precision.
//
// Trailing lines the model may emit after the stop sequence are ignored.
func ParseTriplet(raw string) (ClassificationResult, error) {
	line := firstNonEmptyLine(raw)

	parts := strings.Split(line, ",")
	if len(parts) != 3 {
		return ClassificationResult{}, &ParseError{Kind: ParseWrongFieldCount, Raw: line}
	}

	spamField := strings.TrimSpace(parts[0])
	var isSpam bool
	switch spamField {
	case "0":
		isSpam = false
	case "1":
		isSpam = true
	default:
		return ClassificationResult{}, &ParseError{Kind: ParseInvalidSpamFlag, Raw: line}
	}

	keyword := strings.TrimSpace(parts[1])
	if keyword == "" {
		keyword = KeywordNA
	}

	confidence, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil || confidence < 0 || confidence > 1 {
		return ClassificationResult{}, &ParseError{Kind: ParseInvalidConfidence, Raw: line}
	}

	return ClassificationResult{
		IsSpam:     isSpam,
		Keyword:    keyword,
		Confidence: confidence,
	}, nil
}

func firstNonEmptyLine(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
