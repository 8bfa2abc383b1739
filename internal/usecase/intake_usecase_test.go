package usecase_test

import (
	"context"
	"strings"
	"testing"

	"maplehr-backend/internal/domain"
	"maplehr-backend/internal/usecase"
	"maplehr-backend/pkg/apperror"
	"maplehr-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateJob(t *testing.T) {
	ctx := context.Background()

	t.Run("Should create a trimmed posting", func(t *testing.T) {
		jobs := new(MockJobRepo)
		uc := usecase.NewIntakeUsecase(jobs, new(MockApplicantRepo), validation.New())
		jobs.On("Create", ctx, mock.MatchedBy(func(j *domain.JobPosting) bool { return j.Title == "Data Engineer" })).Return(nil)

		require.NoError(t, uc.CreateJob(ctx, &domain.JobPosting{Title: "  Data Engineer "}))
		jobs.AssertExpectations(t)
	})

	t.Run("Should require a title", func(t *testing.T) {
		jobs := new(MockJobRepo)
		uc := usecase.NewIntakeUsecase(jobs, new(MockApplicantRepo), validation.New())

		err := uc.CreateJob(ctx, &domain.JobPosting{Title: "   "})
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
		jobs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should cap title length", func(t *testing.T) {
		uc := usecase.NewIntakeUsecase(new(MockJobRepo), new(MockApplicantRepo), validation.New())
		err := uc.CreateJob(ctx, &domain.JobPosting{Title: strings.Repeat("x", 201)})
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})
}

func TestRegisterApplicant(t *testing.T) {
	ctx := context.Background()

	t.Run("Should copy the job title", func(t *testing.T) {
		jobs := new(MockJobRepo)
		applicants := new(MockApplicantRepo)
		uc := usecase.NewIntakeUsecase(jobs, applicants, validation.New())
		jobs.On("GetByID", ctx, int64(3)).Return(&domain.JobPosting{ID: 3, Title: "Designer"}, nil)
		applicants.On("Create", ctx, mock.MatchedBy(func(a *domain.Applicant) bool {
			return a.JobTitle != nil && *a.JobTitle == "Designer" && a.FullName == "Grace Hopper"
		})).Return(nil)

		require.NoError(t, uc.RegisterApplicant(ctx, &domain.Applicant{JobID: 3, FullName: " Grace Hopper "}))
		applicants.AssertExpectations(t)
	})

	t.Run("Should return NotFound for unknown job", func(t *testing.T) {
		jobs := new(MockJobRepo)
		applicants := new(MockApplicantRepo)
		uc := usecase.NewIntakeUsecase(jobs, applicants, validation.New())
		jobs.On("GetByID", ctx, int64(8)).Return(nil, domain.ErrNotFound)

		err := uc.RegisterApplicant(ctx, &domain.Applicant{JobID: 8, FullName: "Grace"})
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
		applicants.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should require job and name", func(t *testing.T) {
		uc := usecase.NewIntakeUsecase(new(MockJobRepo), new(MockApplicantRepo), validation.New())
		assert.True(t, apperror.IsKind(uc.RegisterApplicant(ctx, &domain.Applicant{FullName: "Grace"}), apperror.KindValidation))
		assert.True(t, apperror.IsKind(uc.RegisterApplicant(ctx, &domain.Applicant{JobID: 1}), apperror.KindValidation))
	})
}
