package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"maplehr-backend/internal/domain"

	"github.com/google/uuid"
)

const applicantColumns = `id, job_id, full_name, job_title, resume_text, storage_bucket, storage_path,
       mime_type, file_size, uploaded_at, decision, review_status`

type applicantRepo struct {
	db *sql.DB
}

func NewApplicantRepository(db *sql.DB) domain.ApplicantRepository {
	return &applicantRepo{db: db}
}

func scanApplicant(row scanner) (*domain.Applicant, error) {
	var (
		a    domain.Applicant
		size sql.NullInt64

		jobTitle, text, bucket, path, mime, uploadedAt, dec sql.NullString
	)
	if err := row.Scan(&a.ID, &a.JobID, &a.FullName, &jobTitle, &text, &bucket, &path, &mime, &size, &uploadedAt, &dec, &a.ReviewStatus); err != nil {
		return nil, err
	}
	a.JobTitle = stringPtr(jobTitle)
	a.ResumeText = stringPtr(text)
	a.StorageBucket = stringPtr(bucket)
	a.StoragePath = stringPtr(path)
	a.MimeType = stringPtr(mime)
	a.Decision = stringPtr(dec)
	if size.Valid {
		n := size.Int64
		a.FileSizeBytes = &n
	}
	if uploadedAt.Valid {
		t, err := parseTime(uploadedAt.String)
		if err != nil {
			return nil, err
		}
		a.UploadedAt = &t
	}
	return &a, nil
}

func (r *applicantRepo) Create(ctx context.Context, app *domain.Applicant) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.ReviewStatus == "" {
		app.ReviewStatus = domain.ReviewStatusPending
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO resumeai_applicants (id, job_id, full_name, job_title, decision, review_status) VALUES (?, ?, ?, ?, ?, ?)`,
		app.ID, app.JobID, app.FullName, nullableString(app.JobTitle), nullableString(app.Decision), app.ReviewStatus,
	)
	return err
}

func (r *applicantRepo) GetByID(ctx context.Context, id string) (*domain.Applicant, error) {
	app, err := scanApplicant(r.db.QueryRowContext(ctx,
		`SELECT `+applicantColumns+` FROM resumeai_applicants WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *applicantRepo) ListByJobID(ctx context.Context, jobID int64) ([]domain.Applicant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+applicantColumns+` FROM resumeai_applicants WHERE job_id = ? ORDER BY full_name, id`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.Applicant
	for rows.Next() {
		app, err := scanApplicant(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

func (r *applicantRepo) UpdateResume(ctx context.Context, id string, upd domain.ResumeUpdate) error {
	return affectedOne(r.db.ExecContext(ctx,
		`UPDATE resumeai_applicants
         SET storage_bucket = ?, storage_path = ?, mime_type = ?, file_size = ?, uploaded_at = ?, resume_text = ?
         WHERE id = ?`,
		upd.StorageBucket, upd.StoragePath, upd.MimeType, upd.FileSizeBytes, formatTime(upd.UploadedAt),
		nullableString(upd.ResumeText), id,
	))
}

func (r *applicantRepo) CacheResumeText(ctx context.Context, id string, text string) error {
	return affectedOne(r.db.ExecContext(ctx, `UPDATE resumeai_applicants SET resume_text = ? WHERE id = ?`, text, id))
}

func (r *applicantRepo) ClearResumeText(ctx context.Context, id string) error {
	return affectedOne(r.db.ExecContext(ctx, `UPDATE resumeai_applicants SET resume_text = NULL WHERE id = ?`, id))
}

func (r *applicantRepo) UpdateDecision(ctx context.Context, id string, decision string) error {
	return affectedOne(r.db.ExecContext(ctx, `UPDATE resumeai_applicants SET decision = ?, review_status = ? WHERE id = ?`,
		decision, domain.ReviewStatusReviewed, id))
}
