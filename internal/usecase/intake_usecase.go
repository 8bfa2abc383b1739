package usecase

import (
	"context"
	"errors"
	"strings"

	"maplehr-backend/internal/domain"
	"maplehr-backend/pkg/apperror"
	"maplehr-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type intakeUsecase struct {
	jobs       domain.JobRepository
	applicants domain.ApplicantRepository
	validate   *validator.Validate
}

// NewIntakeUsecase expects a validator from validation.New so the custom tags resolve.
func NewIntakeUsecase(jobs domain.JobRepository, applicants domain.ApplicantRepository, validate *validator.Validate) domain.IntakeUsecase {
	return &intakeUsecase{jobs: jobs, applicants: applicants, validate: validate}
}

type jobInput struct {
	Title       string `validate:"required,no_emoji,max=200"`
	Department  string `validate:"max=200"`
	Description string `validate:"max=20000"`
}

type applicantInput struct {
	ID       string `validate:"omitempty,applicant_id,max=64"`
	JobID    int64  `validate:"required,gt=0"`
	FullName string `validate:"required,valid_name,max=200"`
}

func (u *intakeUsecase) CreateJob(ctx context.Context, job *domain.JobPosting) error {
	job.Title = strings.TrimSpace(job.Title)
	in := jobInput{Title: job.Title, Department: job.Department, Description: job.Description}
	if err := u.validate.Struct(in); err != nil {
		return apperror.Validation("invalid job opening: " + validation.Message(err))
	}
	if err := u.jobs.Create(ctx, job); err != nil {
		return apperror.Persistence("failed to create job opening", err)
	}
	return nil
}

// RegisterApplicant creates the applicant row. The job title is denormalized from the posting when unset.
func (u *intakeUsecase) RegisterApplicant(ctx context.Context, app *domain.Applicant) error {
	app.FullName = strings.TrimSpace(app.FullName)
	in := applicantInput{ID: app.ID, JobID: app.JobID, FullName: app.FullName}
	if err := u.validate.Struct(in); err != nil {
		return apperror.Validation("invalid applicant: " + validation.Message(err))
	}

	job, err := u.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("job opening not found")
		}
		return apperror.Persistence("failed to load job opening", err)
	}
	if app.JobTitle == nil && job.Title != "" {
		title := job.Title
		app.JobTitle = &title
	}

	if err := u.applicants.Create(ctx, app); err != nil {
		return apperror.Persistence("failed to create applicant", err)
	}
	return nil
}
