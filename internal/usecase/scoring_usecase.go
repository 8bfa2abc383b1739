package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"maplehr-backend/internal/domain"
	"maplehr-backend/internal/domain/matching"
	"maplehr-backend/pkg/apperror"
	"maplehr-backend/pkg/logger"

	"go.uber.org/zap"
)

type scoringUsecase struct {
	jobs       domain.JobRepository
	applicants domain.ApplicantRepository
	matches    domain.MatchRepository
	blobs      domain.BlobStore
	extractor  domain.TextExtractor
	log        *zap.Logger
	now        func() time.Time
}

func NewScoringUsecase(
	jobs domain.JobRepository,
	applicants domain.ApplicantRepository,
	matches domain.MatchRepository,
	blobs domain.BlobStore,
	extractor domain.TextExtractor,
	log *zap.Logger,
) domain.ScoringUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &scoringUsecase{
		jobs:       jobs,
		applicants: applicants,
		matches:    matches,
		blobs:      blobs,
		extractor:  extractor,
		log:        log,
		now:        time.Now,
	}
}

func (u *scoringUsecase) Score(ctx context.Context, applicantID string) (*domain.ScoreResult, error) {
	if strings.TrimSpace(applicantID) == "" {
		return nil, apperror.Validation("missing applicantId")
	}

	app, err := u.applicants.GetByID(ctx, applicantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("applicant not found")
		}
		return nil, apperror.Persistence("failed to load applicant", err)
	}

	job, err := u.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("job opening not found")
		}
		return nil, apperror.Persistence("failed to load job opening", err)
	}

	jobText := job.MatchText()
	if jobText == "" && app.JobTitle != nil {
		jobText = *app.JobTitle
	}

	resumeText, err := u.resumeText(ctx, app)
	if err != nil {
		return nil, err
	}

	res := matching.Calculate(resumeText, jobText)
	match := &domain.MatchResult{
		ApplicantID:      app.ID,
		MatchRatePercent: res.MatchRatePercent,
		Metrics:          res.Metrics(),
		ComputedAt:       u.now().UTC(),
	}
	if err := u.matches.Insert(ctx, match); err != nil {
		return nil, apperror.Persistence("failed to save match result", err)
	}

	u.log.Info("Applicant scored",
		zap.String("applicant_id", app.ID),
		zap.Int64("job_id", app.JobID),
		zap.Int("match_rate", res.MatchRatePercent),
		zap.Int("overlap", res.Overlap),
		zap.Int("job_vocabulary", res.JobVocabulary),
	)
	return &domain.ScoreResult{MatchRatePercent: match.MatchRatePercent, Metrics: match.Metrics}, nil
}

// resumeText prefers the cached text, then extracts from storage and caches the result.
// An applicant with neither yields "".
func (u *scoringUsecase) resumeText(ctx context.Context, app *domain.Applicant) (string, error) {
	if text := app.CachedResumeText(); text != "" {
		return text, nil
	}
	if !app.HasStoredResume() {
		return "", nil
	}

	bucket, path := *app.StorageBucket, *app.StoragePath
	data, err := u.blobs.Download(ctx, bucket, path)
	if err != nil {
		return "", apperror.Storage("failed to download resume", err)
	}

	mimeType := ""
	if app.MimeType != nil {
		mimeType = *app.MimeType
	}
	text, err := u.extractor.Extract(ctx, data, path, mimeType)
	if errors.Is(err, domain.ErrNoText) {
		u.log.Warn("Resume has no extractable text; scoring as empty",
			zap.String("applicant_id", app.ID),
			zap.String("path", path),
		)
		return "", nil
	}
	if err != nil {
		return "", apperror.Storage("failed to extract resume text", err)
	}

	if err := u.applicants.CacheResumeText(ctx, app.ID, text); err != nil {
		u.log.Warn("Failed to cache resume text",
			zap.String("applicant_id", app.ID),
			zap.Error(err),
		)
	}
	u.log.Debug("Resume text extracted",
		zap.String("applicant_id", app.ID),
		zap.String("preview", logger.Truncate(text, 80)),
	)
	return text, nil
}
