package postgres

import (
	"context"
	"errors"
	"time"

	"maplehr-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, job *domain.JobPosting) error {
	if job.UpdatedAt.IsZero() {
		job.UpdatedAt = time.Now().UTC()
	}
	query := `INSERT INTO job_openings (title, department, description, updated_at)
              VALUES ($1, $2, $3, $4) RETURNING job_id`
	return r.db.QueryRow(ctx, query, job.Title, job.Department, job.Description, job.UpdatedAt).Scan(&job.ID)
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*domain.JobPosting, error) {
	query := `SELECT job_id, title, department, description, updated_at FROM job_openings WHERE job_id = $1`
	var job domain.JobPosting
	err := r.db.QueryRow(ctx, query, id).Scan(&job.ID, &job.Title, &job.Department, &job.Description, &job.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}
