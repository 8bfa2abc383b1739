package usecase_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"maplehr-backend/internal/domain"
	"maplehr-backend/internal/usecase"
	"maplehr-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type reviewFixture struct {
	jobs       *MockJobRepo
	applicants *MockApplicantRepo
	matches    *MockMatchRepo
	blobs      *MockBlobStore
	uc         domain.ReviewUsecase
}

func newReviewFixture() *reviewFixture {
	f := &reviewFixture{
		jobs:       new(MockJobRepo),
		applicants: new(MockApplicantRepo),
		matches:    new(MockMatchRepo),
		blobs:      new(MockBlobStore),
	}
	f.uc = usecase.NewReviewUsecase(f.jobs, f.applicants, f.matches, f.blobs, nil)
	return f
}

func TestLatestMatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return the newest result", func(t *testing.T) {
		f := newReviewFixture()
		latest := &domain.MatchResult{ID: 3, ApplicantID: "a-1", MatchRatePercent: 55}
		f.applicants.On("GetByID", ctx, "a-1").Return(&domain.Applicant{ID: "a-1"}, nil)
		f.matches.On("LatestByApplicantID", ctx, "a-1").Return(latest, nil)

		got, err := f.uc.LatestMatch(ctx, "a-1")
		require.NoError(t, err)
		assert.Equal(t, latest, got)
	})

	t.Run("Should return NotFound before first score", func(t *testing.T) {
		f := newReviewFixture()
		f.applicants.On("GetByID", ctx, "a-1").Return(&domain.Applicant{ID: "a-1"}, nil)
		f.matches.On("LatestByApplicantID", ctx, "a-1").Return(nil, domain.ErrNotFound)

		_, err := f.uc.LatestMatch(ctx, "a-1")
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})

	t.Run("Should return NotFound for unknown applicant", func(t *testing.T) {
		f := newReviewFixture()
		f.applicants.On("GetByID", ctx, "ghost").Return(nil, domain.ErrNotFound)

		_, err := f.uc.LatestMatch(ctx, "ghost")
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
		f.matches.AssertNotCalled(t, "LatestByApplicantID", mock.Anything, mock.Anything)
	})
}

func TestMatchHistory(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	f.applicants.On("GetByID", ctx, "a-1").Return(&domain.Applicant{ID: "a-1"}, nil)
	f.matches.On("ListByApplicantID", ctx, "a-1").Return(nil, nil)

	history, err := f.uc.MatchHistory(ctx, "a-1")
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestSetDecision(t *testing.T) {
	ctx := context.Background()

	t.Run("Should normalize case", func(t *testing.T) {
		f := newReviewFixture()
		f.applicants.On("UpdateDecision", ctx, "a-1", domain.DecisionApproved).Return(nil)

		require.NoError(t, f.uc.SetDecision(ctx, "a-1", " approved "))
		f.applicants.AssertExpectations(t)
	})

	t.Run("Should accept on-hold and the rejected alias", func(t *testing.T) {
		f := newReviewFixture()
		f.applicants.On("UpdateDecision", ctx, "a-1", domain.DecisionOnHold).Return(nil).Once()
		f.applicants.On("UpdateDecision", ctx, "a-1", domain.DecisionDeclined).Return(nil).Once()

		require.NoError(t, f.uc.SetDecision(ctx, "a-1", "On Hold"))
		require.NoError(t, f.uc.SetDecision(ctx, "a-1", "Rejected"))
		f.applicants.AssertExpectations(t)
	})

	t.Run("Should reject unknown decisions", func(t *testing.T) {
		f := newReviewFixture()
		err := f.uc.SetDecision(ctx, "a-1", "Maybe")
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
		f.applicants.AssertNotCalled(t, "UpdateDecision", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should map missing applicant", func(t *testing.T) {
		f := newReviewFixture()
		f.applicants.On("UpdateDecision", ctx, "ghost", domain.DecisionDeclined).Return(domain.ErrNotFound)

		err := f.uc.SetDecision(ctx, "ghost", "Declined")
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})
}

func TestNormalizeDecision(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Approved", domain.DecisionApproved, true},
		{"DECLINED", domain.DecisionDeclined, true},
		{"rejected", domain.DecisionDeclined, true},
		{"on-hold", domain.DecisionOnHold, true},
		{"", "", false},
		{"pending", "", false},
	}
	for _, tt := range tests {
		got, ok := usecase.NormalizeDecision(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestClearResumeCache(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	f.applicants.On("ClearResumeText", ctx, "a-1").Return(nil)
	f.applicants.On("ClearResumeText", ctx, "ghost").Return(domain.ErrNotFound)

	require.NoError(t, f.uc.ClearResumeCache(ctx, "a-1"))
	assert.True(t, apperror.IsKind(f.uc.ClearResumeCache(ctx, "ghost"), apperror.KindNotFound))
}

func TestResumeURL(t *testing.T) {
	ctx := context.Background()

	t.Run("Should presign with a short lifetime", func(t *testing.T) {
		f := newReviewFixture()
		f.applicants.On("GetByID", ctx, "a-1").Return(&domain.Applicant{
			ID: "a-1", StorageBucket: strPtr("resumes"), StoragePath: strPtr("jobs/1/applicants/a-1.pdf"),
		}, nil)
		f.blobs.On("PresignGet", ctx, "resumes", "jobs/1/applicants/a-1.pdf", usecase.ResumeURLTTL).
			Return("https://example.test/signed", nil)

		url, err := f.uc.ResumeURL(ctx, "a-1")
		require.NoError(t, err)
		assert.Equal(t, "https://example.test/signed", url)
	})

	t.Run("Should return NotFound without stored resume", func(t *testing.T) {
		f := newReviewFixture()
		f.applicants.On("GetByID", ctx, "a-1").Return(&domain.Applicant{ID: "a-1"}, nil)

		_, err := f.uc.ResumeURL(ctx, "a-1")
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})

	t.Run("Should map presign failure to Storage", func(t *testing.T) {
		f := newReviewFixture()
		f.applicants.On("GetByID", ctx, "a-1").Return(&domain.Applicant{
			ID: "a-1", StorageBucket: strPtr("resumes"), StoragePath: strPtr("p"),
		}, nil)
		f.blobs.On("PresignGet", ctx, "resumes", "p", mock.Anything).Return("", errors.New("no credentials"))

		_, err := f.uc.ResumeURL(ctx, "a-1")
		assert.True(t, apperror.IsKind(err, apperror.KindStorage))
	})
}

func exportFixture() *reviewFixture {
	ctx := context.Background()
	f := newReviewFixture()
	uploaded := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	applicants := []domain.Applicant{
		{ID: "a-1", JobID: 4, FullName: "Ada Lovelace", JobTitle: strPtr("Analyst"), UploadedAt: &uploaded, Decision: strPtr("Approved"), ReviewStatus: domain.ReviewStatusReviewed},
		{ID: "a-2", JobID: 4, FullName: "Alan Turing", ReviewStatus: domain.ReviewStatusPending},
	}
	f.jobs.On("GetByID", ctx, int64(4)).Return(&domain.JobPosting{ID: 4, Title: "Analyst"}, nil)
	f.applicants.On("ListByJobID", ctx, int64(4)).Return(applicants, nil)
	f.matches.On("LatestByApplicantIDs", ctx, []string{"a-1", "a-2"}).Return(map[string]domain.MatchResult{
		"a-1": {
			ID: 9, ApplicantID: "a-1", MatchRatePercent: 67,
			Metrics: domain.Metrics{
				domain.MetricKeywordOverlap: 67,
				domain.MetricResumeTokens:   40,
				domain.MetricJDTokens:       3,
			},
			ComputedAt: time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC),
		},
	}, nil)
	return f
}

func TestExportJobMatchesCSV(t *testing.T) {
	f := exportFixture()

	data, name, err := f.uc.ExportJobMatches(context.Background(), 4, "CSV")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "job_4_matches_"))
	assert.True(t, strings.HasSuffix(name, ".csv"))

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "APPLICANT ID", records[0][0])
	assert.Equal(t, []string{
		"a-1", "Ada Lovelace", "Analyst", "Approved", "Reviewed", "2024-05-01T08:00:00Z",
		"67", "67", "40", "3", "2024-05-02T09:30:00Z",
	}, records[1])
	assert.Equal(t, []string{"a-2", "Alan Turing", "", "", "Pending", "", "", "", "", "", ""}, records[2])
}

func TestExportJobMatchesExcel(t *testing.T) {
	f := exportFixture()

	data, name, err := f.uc.ExportJobMatches(context.Background(), 4, "")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".xlsx"))

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Matches")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "MATCH RATE (%)", rows[0][6])
	assert.Equal(t, "Ada Lovelace", rows[1][1])
	assert.Equal(t, "Reviewed", rows[1][4])
	assert.Equal(t, "67", rows[1][6])
	assert.Equal(t, "Alan Turing", rows[2][1])
}

func TestExportJobMatchesErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject unknown format", func(t *testing.T) {
		f := newReviewFixture()
		_, _, err := f.uc.ExportJobMatches(ctx, 4, "pdf")
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})

	t.Run("Should return NotFound for unknown job", func(t *testing.T) {
		f := newReviewFixture()
		f.jobs.On("GetByID", ctx, int64(5)).Return(nil, domain.ErrNotFound)
		_, _, err := f.uc.ExportJobMatches(ctx, 5, "csv")
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})
}
