package domain

import (
	"context"
	"time"
)

// Metric names stored with every match result
const (
	MetricKeywordOverlap = "Keyword overlap"
	MetricResumeTokens   = "Resume length (tokens)"
	MetricJDTokens       = "JD length (tokens)"
)

type Metrics map[string]float64

// MatchResult is one immutable scoring of an applicant. The newest row is authoritative.
type MatchResult struct {
	ID               int64     `json:"id"`
	ApplicantID      string    `json:"applicant_id"`
	MatchRatePercent int       `json:"match_rate"`
	Metrics          Metrics   `json:"metrics"`
	ComputedAt       time.Time `json:"scored_at"`
}

// MatchRepository is append-only: rows are never updated or deleted.
type MatchRepository interface {
	Insert(ctx context.Context, m *MatchResult) error
	LatestByApplicantID(ctx context.Context, applicantID string) (*MatchResult, error)
	ListByApplicantID(ctx context.Context, applicantID string) ([]MatchResult, error)
	// LatestByApplicantIDs returns the newest row per applicant; applicants without rows are absent.
	LatestByApplicantIDs(ctx context.Context, applicantIDs []string) (map[string]MatchResult, error)
}

// IngestRequest carries one uploaded resume.
type IngestRequest struct {
	File        []byte
	FileName    string
	MimeType    string
	JobID       int64
	ApplicantID string
}

type IngestResult struct {
	Stored           bool `json:"ok"`
	HasExtractedText bool `json:"hasText"`
}

type ScoreResult struct {
	MatchRatePercent int     `json:"matchRatePercent"`
	Metrics          Metrics `json:"metrics"`
}

// ApplicantMatchRow is one line of a job's match export.
type ApplicantMatchRow struct {
	Applicant Applicant
	Latest    *MatchResult
}

type IngestionUsecase interface {
	Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error)
}

type ScoringUsecase interface {
	Score(ctx context.Context, applicantID string) (*ScoreResult, error)
}

// ReviewUsecase backs the recruiter review pages.
type ReviewUsecase interface {
	LatestMatch(ctx context.Context, applicantID string) (*MatchResult, error)
	MatchHistory(ctx context.Context, applicantID string) ([]MatchResult, error)
	ClearResumeCache(ctx context.Context, applicantID string) error
	SetDecision(ctx context.Context, applicantID, decision string) error
	ResumeURL(ctx context.Context, applicantID string) (string, error)
	// ExportJobMatches renders the job's applicants with their latest score. Returns bytes and file name.
	ExportJobMatches(ctx context.Context, jobID int64, format string) ([]byte, string, error)
}
