// Package matching computes the keyword-overlap score between a resume and a job posting.
package matching

import (
	"math"
	"strings"

	"maplehr-backend/internal/domain"
)

// Tokenize lowercases s, replaces every rune outside [a-z0-9+.# ] with a space and
// splits on whitespace. Tokens such as "c++", "c#" and ".net" survive intact.
func Tokenize(s string) []string {
	if s == "" {
		return nil
	}
	normalized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == '+', r == '.', r == '#', r == ' ':
			return r
		default:
			return ' '
		}
	}, strings.ToLower(s))
	return strings.Fields(normalized)
}

// TokenSet returns the unique tokens of s.
func TokenSet(s string) map[string]struct{} {
	return toSet(Tokenize(s))
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

type Result struct {
	MatchRatePercent int
	Overlap          int
	JobVocabulary    int // unique job tokens
	ResumeTokens     int // raw count, duplicates included
	JobTokens        int // raw count, duplicates included
}

// Metrics returns the values persisted with a match result.
func (r Result) Metrics() domain.Metrics {
	return domain.Metrics{
		domain.MetricKeywordOverlap: float64(r.MatchRatePercent),
		domain.MetricResumeTokens:   float64(r.ResumeTokens),
		domain.MetricJDTokens:       float64(r.JobTokens),
	}
}

// Calculate scores resumeText against jobText. The rate is the share of unique job
// tokens found anywhere in the resume, rounded to a whole percent; 0 when the job
// text has no tokens.
func Calculate(resumeText, jobText string) Result {
	resumeTokens := Tokenize(resumeText)
	jobTokens := Tokenize(jobText)
	resumeSet := toSet(resumeTokens)
	jobSet := toSet(jobTokens)

	overlap := 0
	for t := range jobSet {
		if _, ok := resumeSet[t]; ok {
			overlap++
		}
	}

	rate := 0
	if len(jobSet) > 0 {
		rate = int(math.Round(100 * float64(overlap) / float64(len(jobSet))))
	}

	return Result{
		MatchRatePercent: rate,
		Overlap:          overlap,
		JobVocabulary:    len(jobSet),
		ResumeTokens:     len(resumeTokens),
		JobTokens:        len(jobTokens),
	}
}
