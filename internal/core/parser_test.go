package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTriplet(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ClassificationResult
	}{
		{
			name: "spam with keyword",
			raw:  "1,KYT4D,0.95",
			want: ClassificationResult{IsSpam: true, Keyword: "KYT4D", Confidence: 0.95},
		},
		{
			name: "not spam",
			raw:  "0,N/A,0.98",
			want: ClassificationResult{IsSpam: false, Keyword: "N/A", Confidence: 0.98},
		},
		{
			name: "trailing newlines ignored",
			raw:  "1,MANDALIKA77,0.9\n\n",
			want: ClassificationResult{IsSpam: true, Keyword: "MANDALIKA77", Confidence: 0.9},
		},
		{
			name: "leading blank line skipped",
			raw:  "\n1,KYT4D,0.8",
			want: ClassificationResult{IsSpam: true, Keyword: "KYT4D", Confidence: 0.8},
		},
		{
			name: "empty keyword becomes sentinel",
			raw:  "0,,0.5",
			want: ClassificationResult{IsSpam: false, Keyword: "N/A", Confidence: 0.5},
		},
		{
			name: "boundary confidence zero",
			raw:  "0,N/A,0.00",
			want: ClassificationResult{IsSpam: false, Keyword: "N/A", Confidence: 0},
		},
		{
			name: "boundary confidence one",
			raw:  "1,KYT4D,1.00",
			want: ClassificationResult{IsSpam: true, Keyword: "KYT4D", Confidence: 1},
		},
		{
			name: "fields trimmed",
			raw:  " 1, KYT4D , 0.75 ",
			want: ClassificationResult{IsSpam: true, Keyword: "KYT4D", Confidence: 0.75},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTriplet(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTriplet_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind ParseErrorKind
	}{
		{"empty response", "", ParseWrongFieldCount},
		{"two fields", "1,KYT4D", ParseWrongFieldCount},
		{"four fields", "1,KYT4D,0.95,extra", ParseWrongFieldCount},
		{"verbose refusal", "I cannot classify this comment", ParseWrongFieldCount},
		{"textual spam flag", "yes,KYT4D,0.95", ParseInvalidSpamFlag},
		{"numeric but not binary flag", "2,KYT4D,0.95", ParseInvalidSpamFlag},
		{"confidence below range", "1,KYT4D,-0.01", ParseInvalidConfidence},
		{"confidence above range", "1,KYT4D,1.01", ParseInvalidConfidence},
		{"non-numeric confidence", "1,KYT4D,high", ParseInvalidConfidence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTriplet(tt.raw)
			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "want ParseError, got %v", err)
			assert.Equal(t, tt.kind, parseErr.Kind)
		})
	}
}

func TestParseTriplet_RoundTrip(t *testing.T) {
	results := []ClassificationResult{
		{IsSpam: true, Keyword: "KYT4D", Confidence: 0.95},
		{IsSpam: false, Keyword: "N/A", Confidence: 1},
		{IsSpam: true, Keyword: "GenericGambling", Confidence: 0.5},
		{IsSpam: false, Keyword: "N/A", Confidence: 0},
		{IsSpam: true, Keyword: "MANDALIKA77", Confidence: 0.123456},
	}

	for _, want := range results {
		got, err := ParseTriplet(want.Triplet())
		require.NoError(t, err, "triplet %q", want.Triplet())
		assert.Equal(t, want, got)
	}
}
