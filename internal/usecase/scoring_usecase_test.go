package usecase_test

import (
	"context"
	"errors"
	"testing"

	"maplehr-backend/internal/domain"
	"maplehr-backend/internal/usecase"
	"maplehr-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type scoringFixture struct {
	jobs       *MockJobRepo
	applicants *MockApplicantRepo
	matches    *MockMatchRepo
	blobs      *MockBlobStore
	extractor  *MockExtractor
	logs       *observer.ObservedLogs
	uc         domain.ScoringUsecase
}

func newScoringFixture() *scoringFixture {
	core, logs := observer.New(zapcore.DebugLevel)
	f := &scoringFixture{
		jobs:       new(MockJobRepo),
		applicants: new(MockApplicantRepo),
		matches:    new(MockMatchRepo),
		blobs:      new(MockBlobStore),
		extractor:  new(MockExtractor),
		logs:       logs,
	}
	f.uc = usecase.NewScoringUsecase(f.jobs, f.applicants, f.matches, f.blobs, f.extractor, zap.New(core))
	return f
}

var frontendJob = &domain.JobPosting{ID: 10, Title: "Frontend Engineer", Description: "React Next.js TypeScript"}

func TestScoreWithCachedText(t *testing.T) {
	ctx := context.Background()
	f := newScoringFixture()
	app := &domain.Applicant{ID: "a-1", JobID: 10, ResumeText: strPtr("I have 3 years React and TypeScript experience")}
	f.applicants.On("GetByID", ctx, "a-1").Return(app, nil)
	f.jobs.On("GetByID", ctx, int64(10)).Return(frontendJob, nil)

	var saved *domain.MatchResult
	f.matches.On("Insert", ctx, mock.AnythingOfType("*domain.MatchResult")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.MatchResult) }).
		Return(nil)

	res, err := f.uc.Score(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, 40, res.MatchRatePercent)
	assert.Equal(t, domain.Metrics{
		domain.MetricKeywordOverlap: 40,
		domain.MetricResumeTokens:   8,
		domain.MetricJDTokens:       5,
	}, res.Metrics)

	require.NotNil(t, saved)
	assert.Equal(t, "a-1", saved.ApplicantID)
	assert.Equal(t, 40, saved.MatchRatePercent)
	assert.False(t, saved.ComputedAt.IsZero())
	f.blobs.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything)
	f.extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestScoreTwiceAppendsTwoEqualRows(t *testing.T) {
	ctx := context.Background()
	f := newScoringFixture()
	app := &domain.Applicant{ID: "a-1", JobID: 10, ResumeText: strPtr("react typescript")}
	f.applicants.On("GetByID", ctx, "a-1").Return(app, nil)
	f.jobs.On("GetByID", ctx, int64(10)).Return(frontendJob, nil)

	var rates []int
	f.matches.On("Insert", ctx, mock.Anything).
		Run(func(args mock.Arguments) { rates = append(rates, args.Get(1).(*domain.MatchResult).MatchRatePercent) }).
		Return(nil).Twice()

	first, err := f.uc.Score(ctx, "a-1")
	require.NoError(t, err)
	second, err := f.uc.Score(ctx, "a-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []int{first.MatchRatePercent, first.MatchRatePercent}, rates)
	f.matches.AssertNumberOfCalls(t, "Insert", 2)
}

func TestScoreExtractsFromStorage(t *testing.T) {
	ctx := context.Background()
	data := []byte("%PDF-1.4")

	stored := func() *domain.Applicant {
		return &domain.Applicant{
			ID: "a-2", JobID: 10,
			StorageBucket: strPtr("resumes"),
			StoragePath:   strPtr("jobs/10/applicants/a-2.pdf"),
			MimeType:      strPtr("application/pdf"),
		}
	}

	t.Run("Should extract, cache and score", func(t *testing.T) {
		f := newScoringFixture()
		f.applicants.On("GetByID", ctx, "a-2").Return(stored(), nil)
		f.jobs.On("GetByID", ctx, int64(10)).Return(frontendJob, nil)
		f.blobs.On("Download", ctx, "resumes", "jobs/10/applicants/a-2.pdf").Return(data, nil)
		f.extractor.On("Extract", ctx, data, "jobs/10/applicants/a-2.pdf", "application/pdf").Return("frontend engineer react next.js typescript", nil)
		f.applicants.On("CacheResumeText", ctx, "a-2", "frontend engineer react next.js typescript").Return(nil)
		f.matches.On("Insert", ctx, mock.Anything).Return(nil)

		res, err := f.uc.Score(ctx, "a-2")
		require.NoError(t, err)
		assert.Equal(t, 100, res.MatchRatePercent)
		f.applicants.AssertExpectations(t)
	})

	t.Run("Should continue when caching fails", func(t *testing.T) {
		f := newScoringFixture()
		f.applicants.On("GetByID", ctx, "a-2").Return(stored(), nil)
		f.jobs.On("GetByID", ctx, int64(10)).Return(frontendJob, nil)
		f.blobs.On("Download", ctx, "resumes", mock.Anything).Return(data, nil)
		f.extractor.On("Extract", ctx, data, mock.Anything, mock.Anything).Return("react", nil)
		f.applicants.On("CacheResumeText", ctx, "a-2", "react").Return(errors.New("read-only replica"))
		f.matches.On("Insert", ctx, mock.Anything).Return(nil)

		res, err := f.uc.Score(ctx, "a-2")
		require.NoError(t, err)
		assert.Equal(t, 20, res.MatchRatePercent)
		assert.Equal(t, 1, f.logs.FilterMessage("Failed to cache resume text").Len())
	})

	t.Run("Should return Storage error when download fails", func(t *testing.T) {
		f := newScoringFixture()
		f.applicants.On("GetByID", ctx, "a-2").Return(stored(), nil)
		f.jobs.On("GetByID", ctx, int64(10)).Return(frontendJob, nil)
		f.blobs.On("Download", ctx, "resumes", mock.Anything).Return(nil, errors.New("object missing"))

		_, err := f.uc.Score(ctx, "a-2")
		assert.True(t, apperror.IsKind(err, apperror.KindStorage))
		f.matches.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("Should score zero when the document has no text", func(t *testing.T) {
		f := newScoringFixture()
		f.applicants.On("GetByID", ctx, "a-2").Return(stored(), nil)
		f.jobs.On("GetByID", ctx, int64(10)).Return(frontendJob, nil)
		f.blobs.On("Download", ctx, "resumes", mock.Anything).Return(data, nil)
		f.extractor.On("Extract", ctx, data, mock.Anything, mock.Anything).Return("", domain.ErrNoText)
		f.matches.On("Insert", ctx, mock.Anything).Return(nil)

		res, err := f.uc.Score(ctx, "a-2")
		require.NoError(t, err)
		assert.Equal(t, 0, res.MatchRatePercent)
		assert.Equal(t, 1, f.logs.FilterMessage("Resume has no extractable text; scoring as empty").Len())
		f.applicants.AssertNotCalled(t, "CacheResumeText", mock.Anything, mock.Anything, mock.Anything)
		f.matches.AssertNumberOfCalls(t, "Insert", 1)
	})

	t.Run("Should return Storage error when extraction fails", func(t *testing.T) {
		f := newScoringFixture()
		f.applicants.On("GetByID", ctx, "a-2").Return(stored(), nil)
		f.jobs.On("GetByID", ctx, int64(10)).Return(frontendJob, nil)
		f.blobs.On("Download", ctx, "resumes", mock.Anything).Return(data, nil)
		f.extractor.On("Extract", ctx, data, mock.Anything, mock.Anything).Return("", errors.New("no text layer"))

		_, err := f.uc.Score(ctx, "a-2")
		assert.True(t, apperror.IsKind(err, apperror.KindStorage))
		f.matches.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})
}

func TestScoreEdgeCases(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject empty applicant id", func(t *testing.T) {
		f := newScoringFixture()
		_, err := f.uc.Score(ctx, " ")
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})

	t.Run("Should return NotFound and write nothing for unknown applicant", func(t *testing.T) {
		f := newScoringFixture()
		f.applicants.On("GetByID", ctx, "ghost").Return(nil, domain.ErrNotFound)

		_, err := f.uc.Score(ctx, "ghost")
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
		f.matches.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("Should return NotFound for missing job", func(t *testing.T) {
		f := newScoringFixture()
		f.applicants.On("GetByID", ctx, "a-1").Return(&domain.Applicant{ID: "a-1", JobID: 99}, nil)
		f.jobs.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrNotFound)

		_, err := f.uc.Score(ctx, "a-1")
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
		assert.Equal(t, "job opening not found", err.Error())
	})

	t.Run("Should score zero without resume text or file", func(t *testing.T) {
		f := newScoringFixture()
		f.applicants.On("GetByID", ctx, "a-1").Return(&domain.Applicant{ID: "a-1", JobID: 10}, nil)
		f.jobs.On("GetByID", ctx, int64(10)).Return(frontendJob, nil)
		f.matches.On("Insert", ctx, mock.Anything).Return(nil)

		res, err := f.uc.Score(ctx, "a-1")
		require.NoError(t, err)
		assert.Equal(t, 0, res.MatchRatePercent)
		assert.Equal(t, float64(0), res.Metrics[domain.MetricResumeTokens])
	})

	t.Run("Should fall back to the applicant job title", func(t *testing.T) {
		f := newScoringFixture()
		f.applicants.On("GetByID", ctx, "a-1").Return(&domain.Applicant{
			ID: "a-1", JobID: 10, JobTitle: strPtr("Go Developer"), ResumeText: strPtr("go developer"),
		}, nil)
		f.jobs.On("GetByID", ctx, int64(10)).Return(&domain.JobPosting{ID: 10}, nil)
		f.matches.On("Insert", ctx, mock.Anything).Return(nil)

		res, err := f.uc.Score(ctx, "a-1")
		require.NoError(t, err)
		assert.Equal(t, 100, res.MatchRatePercent)
	})

	t.Run("Should return Persistence error when insert fails", func(t *testing.T) {
		f := newScoringFixture()
		f.applicants.On("GetByID", ctx, "a-1").Return(&domain.Applicant{ID: "a-1", JobID: 10, ResumeText: strPtr("react")}, nil)
		f.jobs.On("GetByID", ctx, int64(10)).Return(frontendJob, nil)
		f.matches.On("Insert", ctx, mock.Anything).Return(errors.New("check constraint"))

		_, err := f.uc.Score(ctx, "a-1")
		assert.True(t, apperror.IsKind(err, apperror.KindPersistence))
	})
}
