package domain

import (
	"context"
	"time"
)

// Recruiter decision values
const (
	DecisionApproved = "Approved"
	DecisionDeclined = "Declined"
	DecisionOnHold   = "On-Hold"
)

// Review status values. Recording a decision marks the applicant reviewed.
const (
	ReviewStatusPending  = "Pending"
	ReviewStatusReviewed = "Reviewed"
)

// Applicant is a candidate for one job posting, created by the external intake flow.
type Applicant struct {
	ID            string     `json:"id"`
	JobID         int64      `json:"job_id"`
	FullName      string     `json:"full_name"`
	JobTitle      *string    `json:"job_title,omitempty"` // denormalized from the posting at intake
	ResumeText    *string    `json:"resume_text,omitempty"`
	StorageBucket *string    `json:"storage_bucket,omitempty"`
	StoragePath   *string    `json:"storage_path,omitempty"`
	MimeType      *string    `json:"mime_type,omitempty"`
	FileSizeBytes *int64     `json:"file_size,omitempty"`
	UploadedAt    *time.Time `json:"uploaded_at,omitempty"`
	Decision      *string    `json:"decision,omitempty"`
	ReviewStatus  string     `json:"review_status"`
}

// CachedResumeText returns the extracted resume text, or "" when none is cached.
func (a *Applicant) CachedResumeText() string {
	if a.ResumeText == nil {
		return ""
	}
	return *a.ResumeText
}

// HasStoredResume reports whether both storage pointers are set.
func (a *Applicant) HasStoredResume() bool {
	return a.StorageBucket != nil && *a.StorageBucket != "" &&
		a.StoragePath != nil && *a.StoragePath != ""
}

// ResumeUpdate is the metadata written after a resume is stored.
// A nil ResumeText clears any previously cached text.
type ResumeUpdate struct {
	StorageBucket string
	StoragePath   string
	MimeType      string
	FileSizeBytes int64
	UploadedAt    time.Time
	ResumeText    *string
}

// ApplicantRepository defines data access methods for applicants.
// Mutations return ErrNotFound when no row matches the id.
type ApplicantRepository interface {
	Create(ctx context.Context, app *Applicant) error
	GetByID(ctx context.Context, id string) (*Applicant, error)
	ListByJobID(ctx context.Context, jobID int64) ([]Applicant, error)
	UpdateResume(ctx context.Context, id string, upd ResumeUpdate) error
	CacheResumeText(ctx context.Context, id string, text string) error
	ClearResumeText(ctx context.Context, id string) error
	// UpdateDecision stores the decision and sets the review status to Reviewed.
	UpdateDecision(ctx context.Context, id string, decision string) error
}

// IntakeUsecase registers postings and applicants on behalf of the external intake flow.
type IntakeUsecase interface {
	CreateJob(ctx context.Context, job *JobPosting) error
	RegisterApplicant(ctx context.Context, app *Applicant) error
}
