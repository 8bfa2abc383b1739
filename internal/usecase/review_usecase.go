package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"maplehr-backend/internal/domain"
	"maplehr-backend/pkg/apperror"
	"maplehr-backend/pkg/validation"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ResumeURLTTL is the lifetime of presigned resume download links.
const ResumeURLTTL = 60 * time.Second

var exportColumns = []string{
	"APPLICANT ID",
	"FULL NAME",
	"JOB TITLE",
	"DECISION",
	"REVIEW STATUS",
	"RESUME UPLOADED AT",
	"MATCH RATE (%)",
	strings.ToUpper(domain.MetricKeywordOverlap),
	strings.ToUpper(domain.MetricResumeTokens),
	strings.ToUpper(domain.MetricJDTokens),
	"SCORED AT",
}

type reviewUsecase struct {
	jobs       domain.JobRepository
	applicants domain.ApplicantRepository
	matches    domain.MatchRepository
	blobs      domain.BlobStore
	log        *zap.Logger
	now        func() time.Time
}

func NewReviewUsecase(
	jobs domain.JobRepository,
	applicants domain.ApplicantRepository,
	matches domain.MatchRepository,
	blobs domain.BlobStore,
	log *zap.Logger,
) domain.ReviewUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &reviewUsecase{
		jobs:       jobs,
		applicants: applicants,
		matches:    matches,
		blobs:      blobs,
		log:        log,
		now:        time.Now,
	}
}

func (u *reviewUsecase) applicant(ctx context.Context, applicantID string) (*domain.Applicant, error) {
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
	return app, nil
}

func (u *reviewUsecase) LatestMatch(ctx context.Context, applicantID string) (*domain.MatchResult, error) {
	if _, err := u.applicant(ctx, applicantID); err != nil {
		return nil, err
	}
	m, err := u.matches.LatestByApplicantID(ctx, applicantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("applicant has not been scored yet")
		}
		return nil, apperror.Persistence("failed to load match result", err)
	}
	return m, nil
}

func (u *reviewUsecase) MatchHistory(ctx context.Context, applicantID string) ([]domain.MatchResult, error) {
	if _, err := u.applicant(ctx, applicantID); err != nil {
		return nil, err
	}
	history, err := u.matches.ListByApplicantID(ctx, applicantID)
	if err != nil {
		return nil, apperror.Persistence("failed to load match history", err)
	}
	if history == nil {
		history = []domain.MatchResult{}
	}
	return history, nil
}

func (u *reviewUsecase) ClearResumeCache(ctx context.Context, applicantID string) error {
	if strings.TrimSpace(applicantID) == "" {
		return apperror.Validation("missing applicantId")
	}
	if err := u.applicants.ClearResumeText(ctx, applicantID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("applicant not found")
		}
		return apperror.Persistence("failed to clear resume text", err)
	}
	u.log.Info("Resume text cache cleared", zap.String("applicant_id", applicantID))
	return nil
}

// NormalizeDecision maps case-insensitive input to one of the domain.Decision* values.
// Rejected is accepted as Declined.
func NormalizeDecision(decision string) (string, bool) {
	return validation.NormalizeDecision(decision)
}

func (u *reviewUsecase) SetDecision(ctx context.Context, applicantID, decision string) error {
	if strings.TrimSpace(applicantID) == "" {
		return apperror.Validation("missing applicantId")
	}
	normalized, ok := NormalizeDecision(decision)
	if !ok {
		return apperror.Validation("decision must be Approved, Declined or On-Hold")
	}
	if err := u.applicants.UpdateDecision(ctx, applicantID, normalized); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("applicant not found")
		}
		return apperror.Persistence("failed to save decision", err)
	}
	u.log.Info("Applicant decision recorded",
		zap.String("applicant_id", applicantID),
		zap.String("decision", normalized),
	)
	return nil
}

func (u *reviewUsecase) ResumeURL(ctx context.Context, applicantID string) (string, error) {
	app, err := u.applicant(ctx, applicantID)
	if err != nil {
		return "", err
	}
	if !app.HasStoredResume() {
		return "", apperror.NotFound("no resume stored for applicant")
	}
	url, err := u.blobs.PresignGet(ctx, *app.StorageBucket, *app.StoragePath, ResumeURLTTL)
	if err != nil {
		return "", apperror.Storage("failed to create resume link", err)
	}
	return url, nil
}

// ExportJobMatches exports the job's applicants with their latest score to Excel or CSV
func (u *reviewUsecase) ExportJobMatches(ctx context.Context, jobID int64, format string) ([]byte, string, error) {
	if jobID <= 0 {
		return nil, "", apperror.Validation("missing jobId")
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "" && format != "xlsx" && format != "csv" {
		return nil, "", apperror.Validation("unsupported export format: " + format)
	}

	if _, err := u.jobs.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", apperror.NotFound("job opening not found")
		}
		return nil, "", apperror.Persistence("failed to load job opening", err)
	}

	applicants, err := u.applicants.ListByJobID(ctx, jobID)
	if err != nil {
		return nil, "", apperror.Persistence("failed to load applicants", err)
	}
	ids := make([]string, len(applicants))
	for i, a := range applicants {
		ids[i] = a.ID
	}
	latest, err := u.matches.LatestByApplicantIDs(ctx, ids)
	if err != nil {
		return nil, "", apperror.Persistence("failed to load match results", err)
	}

	rows := make([]domain.ApplicantMatchRow, len(applicants))
	for i, a := range applicants {
		rows[i] = domain.ApplicantMatchRow{Applicant: a}
		if m, ok := latest[a.ID]; ok {
			rows[i].Latest = &m
		}
	}

	stamp := u.now().Format("20060102_150405")
	if format == "csv" {
		data, err := exportMatchesCSV(rows)
		if err != nil {
			return nil, "", apperror.Internal(err)
		}
		return data, fmt.Sprintf("job_%d_matches_%s.csv", jobID, stamp), nil
	}
	data, err := exportMatchesExcel(rows)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}
	return data, fmt.Sprintf("job_%d_matches_%s.xlsx", jobID, stamp), nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// matchRowValues renders one export row; unscored applicants get empty score cells.
func matchRowValues(row domain.ApplicantMatchRow) []interface{} {
	a := row.Applicant
	values := []interface{}{
		a.ID,
		a.FullName,
		derefString(a.JobTitle),
		derefString(a.Decision),
		a.ReviewStatus,
		formatOptionalTime(a.UploadedAt),
	}
	if row.Latest == nil {
		return append(values, "", "", "", "", "")
	}
	m := row.Latest
	return append(values,
		m.MatchRatePercent,
		m.Metrics[domain.MetricKeywordOverlap],
		m.Metrics[domain.MetricResumeTokens],
		m.Metrics[domain.MetricJDTokens],
		m.ComputedAt.UTC().Format(time.RFC3339),
	)
}

func exportMatchesExcel(rows []domain.ApplicantMatchRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheetName := "Matches"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, header := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	// Style headers - Dark Blue background with White text
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, row := range rows {
		for colIdx, value := range matchRowValues(row) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range exportColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 22)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func exportMatchesCSV(rows []domain.ApplicantMatchRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportColumns); err != nil {
		return nil, err
	}
	for _, row := range rows {
		values := matchRowValues(row)
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = fmt.Sprintf("%v", v)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
