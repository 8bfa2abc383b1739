package matching_test

import (
	"strings"
	"testing"

	"maplehr-backend/internal/domain"
	"maplehr-backend/internal/domain/matching"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"lowercases and splits", "Senior  Go\tEngineer\n", []string{"senior", "go", "engineer"}},
		{"keeps allowed punctuation", "C++, C#, .NET and Next.js!", []string{"c++", "c#", ".net", "and", "next.js"}},
		{"strips other symbols", "node/express (REST) - 5yrs", []string{"node", "express", "rest", "5yrs"}},
		{"non ascii letters become separators", "café résumé", []string{"caf", "r", "sum"}},
		{"only symbols", "!!! ??? ---", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matching.Tokenize(tt.input)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"Frontend Engineer React Next.js TypeScript",
		"Rust/Go; Kubernetes & AWS — 10+ years (C++)",
		"  multiple   spaces\tand\nnewlines  ",
		"ÜBER cool #hashtag .dotfile",
	}
	for _, in := range inputs {
		once := matching.Tokenize(in)
		assert.Equal(t, once, matching.Tokenize(strings.Join(once, " ")), in)
		assert.Equal(t, matching.TokenSet(in), matching.TokenSet(strings.Join(once, " ")), in)
	}
}

func TestCalculateScenario(t *testing.T) {
	res := matching.Calculate(
		"I have 3 years React and TypeScript experience",
		"Frontend Engineer React Next.js TypeScript",
	)

	assert.Equal(t, 5, res.JobVocabulary)
	assert.Equal(t, 2, res.Overlap)
	assert.Equal(t, 40, res.MatchRatePercent)
	assert.Equal(t, 8, res.ResumeTokens)
	assert.Equal(t, 5, res.JobTokens)
}

func TestCalculateEmptyJobTextScoresZero(t *testing.T) {
	for _, jobText := range []string{"", "   ", "!!! ---"} {
		res := matching.Calculate("go kubernetes postgres", jobText)
		assert.Equal(t, 0, res.MatchRatePercent, "job text %q", jobText)
	}
}

func TestCalculateEmptyResume(t *testing.T) {
	res := matching.Calculate("", "Backend Engineer Go Postgres")

	assert.Equal(t, 0, res.MatchRatePercent)
	assert.Equal(t, 0, res.ResumeTokens)
	assert.Equal(t, 4, res.JobTokens)
}

func TestCalculateFullCoverage(t *testing.T) {
	res := matching.Calculate(
		"Go engineer with postgres, go, kubernetes and more go",
		"Go Postgres Kubernetes go go",
	)
	assert.Equal(t, 100, res.MatchRatePercent)
}

func TestCalculateRounding(t *testing.T) {
	// 1 of 3 -> 33.33, 2 of 3 -> 66.67, 1 of 8 -> 12.5 rounds half up
	assert.Equal(t, 33, matching.Calculate("a", "a b c").MatchRatePercent)
	assert.Equal(t, 67, matching.Calculate("a b", "a b c").MatchRatePercent)
	assert.Equal(t, 13, matching.Calculate("a", "a b c d e f g h").MatchRatePercent)
}

func TestCalculateRangeInvariant(t *testing.T) {
	samples := []string{
		"", "go", "Go Go Go", "c++ c# .net", "React, Vue & Angular", "kubernetes docker helm terraform",
		"The quick brown fox jumps over the lazy dog", "12345 67890", "#### ++++ ....",
	}
	for _, r := range samples {
		for _, j := range samples {
			rate := matching.Calculate(r, j).MatchRatePercent
			assert.GreaterOrEqual(t, rate, 0)
			assert.LessOrEqual(t, rate, 100)
		}
	}
}

func TestResultMetricsKeepRawCounts(t *testing.T) {
	res := matching.Calculate("go go go rust", "go go python")

	m := res.Metrics()
	assert.Equal(t, float64(50), m[domain.MetricKeywordOverlap])
	assert.Equal(t, float64(4), m[domain.MetricResumeTokens])
	assert.Equal(t, float64(3), m[domain.MetricJDTokens])
	// set size differs from the raw count
	assert.Equal(t, 2, res.JobVocabulary)
}
