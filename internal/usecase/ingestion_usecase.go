package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"maplehr-backend/internal/domain"
	"maplehr-backend/pkg/apperror"
	"maplehr-backend/pkg/security"
	"maplehr-backend/pkg/security/antivirus"
	"maplehr-backend/pkg/validation"

	"go.uber.org/zap"
)

const (
	DefaultResumeBucket   = "resumes"
	DefaultMaxUploadBytes = 10 << 20
)

type IngestionConfig struct {
	Bucket   string
	MaxBytes int64
}

type ingestionUsecase struct {
	applicants domain.ApplicantRepository
	blobs      domain.BlobStore
	extractor  domain.TextExtractor
	scanner    antivirus.Scanner
	cfg        IngestionConfig
	log        *zap.Logger
	now        func() time.Time
}

// NewIngestionUsecase wires the upload pipeline. A nil scanner skips malware scanning.
func NewIngestionUsecase(
	applicants domain.ApplicantRepository,
	blobs domain.BlobStore,
	extractor domain.TextExtractor,
	scanner antivirus.Scanner,
	cfg IngestionConfig,
	log *zap.Logger,
) domain.IngestionUsecase {
	if cfg.Bucket == "" {
		cfg.Bucket = DefaultResumeBucket
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxUploadBytes
	}
	if scanner == nil {
		scanner = antivirus.NewNoOpScanner()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ingestionUsecase{
		applicants: applicants,
		blobs:      blobs,
		extractor:  extractor,
		scanner:    scanner,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
}

// ResumeExtension returns the lowercased suffix of name without the dot, "pdf" when absent.
func ResumeExtension(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return "pdf"
	}
	return ext
}

// ResumePath is the blob key of an applicant's resume. Re-uploads overwrite it.
func ResumePath(jobID int64, applicantID, ext string) string {
	return fmt.Sprintf("jobs/%d/applicants/%s.%s", jobID, applicantID, ext)
}

func (u *ingestionUsecase) Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	if len(req.File) == 0 || req.JobID <= 0 || strings.TrimSpace(req.ApplicantID) == "" {
		return nil, apperror.Validation("missing file/jobId/applicantId")
	}
	if !validation.IsPathSafeID(req.ApplicantID) {
		return nil, apperror.Validation("applicantId may only contain letters, digits, '-' and '_'")
	}
	if int64(len(req.File)) > u.cfg.MaxBytes {
		return nil, apperror.PayloadTooLarge(fmt.Sprintf("file exceeds the %d byte upload limit", u.cfg.MaxBytes))
	}

	ext := ResumeExtension(req.FileName)
	check := security.ValidateResumeFile("resume."+ext, req.File)
	if !check.Valid {
		u.log.Warn("Resume rejected by file validation",
			zap.String("applicant_id", req.ApplicantID),
			zap.String("extension", ext),
			zap.String("detected_mime", check.DetectedMIME),
			zap.Error(check.Err),
		)
		if errors.Is(check.Err, security.ErrContentMismatch) {
			return nil, apperror.Validation("file content does not match its extension")
		}
		return nil, apperror.UnsupportedMediaType(
			"unsupported file type; allowed: " + strings.Join(security.AllowedExtensions(), ", "))
	}

	if scan := u.scanner.Scan(ctx, req.FileName, req.File); scan.Infected || scan.Error != nil {
		if scan.Error != nil {
			return nil, apperror.Internal(fmt.Errorf("malware scan (%s): %w", scan.ScannerName, scan.Error))
		}
		u.log.Warn("Malware detected in resume upload",
			zap.String("applicant_id", req.ApplicantID),
			zap.String("scanner", scan.ScannerName),
			zap.String("threat", scan.ThreatName),
		)
		return nil, apperror.Validation("file rejected by malware scan")
	}

	app, err := u.applicants.GetByID(ctx, req.ApplicantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("applicant not found")
		}
		return nil, apperror.Persistence("failed to load applicant", err)
	}
	if app.JobID != req.JobID {
		return nil, apperror.NotFound("applicant not found for this job")
	}

	mimeType := req.MimeType
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = check.DetectedMIME
	}
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	path := ResumePath(req.JobID, req.ApplicantID, ext)
	err = u.blobs.Upload(ctx, u.cfg.Bucket, path, req.File, domain.UploadOptions{Upsert: true, ContentType: mimeType})
	if err != nil {
		return nil, apperror.Storage("failed to upload resume", err)
	}

	var resumeText *string
	text, err := u.extractor.Extract(ctx, req.File, path, mimeType)
	if err != nil {
		u.log.Warn("Resume text extraction failed; continuing without text",
			zap.String("applicant_id", req.ApplicantID),
			zap.String("path", path),
			zap.Error(err),
		)
	} else {
		resumeText = &text
	}

	err = u.applicants.UpdateResume(ctx, req.ApplicantID, domain.ResumeUpdate{
		StorageBucket: u.cfg.Bucket,
		StoragePath:   path,
		MimeType:      mimeType,
		FileSizeBytes: int64(len(req.File)),
		UploadedAt:    u.now().UTC(),
		ResumeText:    resumeText,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("applicant not found")
		}
		return nil, apperror.Persistence("failed to save resume metadata", err)
	}

	u.log.Info("Resume ingested",
		zap.String("applicant_id", req.ApplicantID),
		zap.Int64("job_id", req.JobID),
		zap.String("path", path),
		zap.Int("size_bytes", len(req.File)),
		zap.Bool("has_text", resumeText != nil),
	)
	return &domain.IngestResult{Stored: true, HasExtractedText: resumeText != nil}, nil
}
