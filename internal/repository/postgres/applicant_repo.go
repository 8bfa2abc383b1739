package postgres

import (
	"context"
	"errors"

	"maplehr-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const applicantColumns = `id, job_id, full_name, job_title, resume_text, storage_bucket, storage_path,
       mime_type, file_size, uploaded_at, decision, review_status`

type applicantRepo struct {
	db *pgxpool.Pool
}

func NewApplicantRepository(db *pgxpool.Pool) domain.ApplicantRepository {
	return &applicantRepo{db: db}
}

func scanApplicant(row pgx.Row) (*domain.Applicant, error) {
	var a domain.Applicant
	err := row.Scan(
		&a.ID, &a.JobID, &a.FullName, &a.JobTitle, &a.ResumeText, &a.StorageBucket, &a.StoragePath,
		&a.MimeType, &a.FileSizeBytes, &a.UploadedAt, &a.Decision, &a.ReviewStatus,
	)
	if err != nil {
		return nil, err
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
	query := `INSERT INTO resumeai_applicants (id, job_id, full_name, job_title, decision, review_status)
              VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query, app.ID, app.JobID, app.FullName, app.JobTitle, app.Decision, app.ReviewStatus)
	return err
}

func (r *applicantRepo) GetByID(ctx context.Context, id string) (*domain.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM resumeai_applicants WHERE id = $1`
	app, err := scanApplicant(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *applicantRepo) ListByJobID(ctx context.Context, jobID int64) ([]domain.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM resumeai_applicants WHERE job_id = $1 ORDER BY full_name, id`
	rows, err := r.db.Query(ctx, query, jobID)
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
	query := `UPDATE resumeai_applicants
              SET storage_bucket = $2, storage_path = $3, mime_type = $4, file_size = $5, uploaded_at = $6, resume_text = $7
              WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, upd.StorageBucket, upd.StoragePath, upd.MimeType, upd.FileSizeBytes, upd.UploadedAt, upd.ResumeText)
	return affectedOne(tag, err)
}

func (r *applicantRepo) CacheResumeText(ctx context.Context, id string, text string) error {
	tag, err := r.db.Exec(ctx, `UPDATE resumeai_applicants SET resume_text = $2 WHERE id = $1`, id, text)
	return affectedOne(tag, err)
}

func (r *applicantRepo) ClearResumeText(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `UPDATE resumeai_applicants SET resume_text = NULL WHERE id = $1`, id)
	return affectedOne(tag, err)
}

func (r *applicantRepo) UpdateDecision(ctx context.Context, id string, decision string) error {
	tag, err := r.db.Exec(ctx, `UPDATE resumeai_applicants SET decision = $2, review_status = $3 WHERE id = $1`,
		id, decision, domain.ReviewStatusReviewed)
	return affectedOne(tag, err)
}

func affectedOne(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
