package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Common domain errors
var ErrNotFound = errors.New("resource not found")

// JobPosting is a job opening maintained by recruiters. Read-only input to scoring.
type JobPosting struct {
	ID          int64     `json:"job_id"`
	Title       string    `json:"title"`
	Department  string    `json:"department"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MatchText joins the non-empty title, description and department with single spaces.
func (j *JobPosting) MatchText() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{j.Title, j.Description, j.Department} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

type JobRepository interface {
	Create(ctx context.Context, job *JobPosting) error
	GetByID(ctx context.Context, id int64) (*JobPosting, error)
}
