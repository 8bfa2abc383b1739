package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"maplehr-backend/internal/domain"
)

type jobRepo struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) domain.JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, job *domain.JobPosting) error {
	if job.UpdatedAt.IsZero() {
		job.UpdatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO job_openings (title, department, description, updated_at) VALUES (?, ?, ?, ?)`,
		job.Title, job.Department, job.Description, formatTime(job.UpdatedAt),
	)
	if err != nil {
		return err
	}
	job.ID, err = res.LastInsertId()
	return err
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*domain.JobPosting, error) {
	var (
		job       domain.JobPosting
		updatedAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT job_id, title, department, description, updated_at FROM job_openings WHERE job_id = ?`, id,
	).Scan(&job.ID, &job.Title, &job.Department, &job.Description, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if job.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &job, nil
}
