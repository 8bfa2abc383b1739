package usecase_test

import (
	"context"
	"time"

	"maplehr-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.JobPosting) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepo) GetByID(ctx context.Context, id int64) (*domain.JobPosting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobPosting), args.Error(1)
}

type MockApplicantRepo struct {
	mock.Mock
}

func (m *MockApplicantRepo) Create(ctx context.Context, app *domain.Applicant) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockApplicantRepo) GetByID(ctx context.Context, id string) (*domain.Applicant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Applicant), args.Error(1)
}

func (m *MockApplicantRepo) ListByJobID(ctx context.Context, jobID int64) ([]domain.Applicant, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Applicant), args.Error(1)
}

func (m *MockApplicantRepo) UpdateResume(ctx context.Context, id string, upd domain.ResumeUpdate) error {
	return m.Called(ctx, id, upd).Error(0)
}

func (m *MockApplicantRepo) CacheResumeText(ctx context.Context, id string, text string) error {
	return m.Called(ctx, id, text).Error(0)
}

func (m *MockApplicantRepo) ClearResumeText(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockApplicantRepo) UpdateDecision(ctx context.Context, id string, decision string) error {
	return m.Called(ctx, id, decision).Error(0)
}

type MockMatchRepo struct {
	mock.Mock
}

func (m *MockMatchRepo) Insert(ctx context.Context, match *domain.MatchResult) error {
	return m.Called(ctx, match).Error(0)
}

func (m *MockMatchRepo) LatestByApplicantID(ctx context.Context, applicantID string) (*domain.MatchResult, error) {
	args := m.Called(ctx, applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MatchResult), args.Error(1)
}

func (m *MockMatchRepo) ListByApplicantID(ctx context.Context, applicantID string) ([]domain.MatchResult, error) {
	args := m.Called(ctx, applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MatchResult), args.Error(1)
}

func (m *MockMatchRepo) LatestByApplicantIDs(ctx context.Context, applicantIDs []string) (map[string]domain.MatchResult, error) {
	args := m.Called(ctx, applicantIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.MatchResult), args.Error(1)
}

// Mock collaborators
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, bucket, path string, data []byte, opts domain.UploadOptions) error {
	return m.Called(ctx, bucket, path, data, opts).Error(0)
}

func (m *MockBlobStore) Download(ctx context.Context, bucket, path string) ([]byte, error) {
	args := m.Called(ctx, bucket, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockBlobStore) PresignGet(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, bucket, path, ttl)
	return args.String(0), args.Error(1)
}

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, data []byte, fileName, mimeType string) (string, error) {
	args := m.Called(ctx, data, fileName, mimeType)
	return args.String(0), args.Error(1)
}

func strPtr(s string) *string { return &s }
