package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"maplehr-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type matchRepo struct {
	db *pgxpool.Pool
}

func NewMatchRepository(db *pgxpool.Pool) domain.MatchRepository {
	return &matchRepo{db: db}
}

func scanMatch(row pgx.Row) (*domain.MatchResult, error) {
	var (
		m       domain.MatchResult
		metrics []byte
	)
	if err := row.Scan(&m.ID, &m.ApplicantID, &m.MatchRatePercent, &metrics, &m.ComputedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(metrics, &m.Metrics); err != nil {
		return nil, fmt.Errorf("decode metrics of match %d: %w", m.ID, err)
	}
	return &m, nil
}

func (r *matchRepo) Insert(ctx context.Context, m *domain.MatchResult) error {
	if m.ComputedAt.IsZero() {
		m.ComputedAt = time.Now().UTC()
	}
	metrics, err := json.Marshal(m.Metrics)
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	// simple protocol: jsonb is sent as text
	query := `INSERT INTO resumeai_matches (applicant_id, match_rate, metrics, scored_at)
              VALUES ($1, $2, $3::jsonb, $4) RETURNING id`
	return r.db.QueryRow(ctx, query, m.ApplicantID, m.MatchRatePercent, string(metrics), m.ComputedAt).Scan(&m.ID)
}

func (r *matchRepo) LatestByApplicantID(ctx context.Context, applicantID string) (*domain.MatchResult, error) {
	query := `SELECT id, applicant_id, match_rate, metrics, scored_at FROM resumeai_matches
              WHERE applicant_id = $1 ORDER BY scored_at DESC, id DESC LIMIT 1`
	m, err := scanMatch(r.db.QueryRow(ctx, query, applicantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *matchRepo) ListByApplicantID(ctx context.Context, applicantID string) ([]domain.MatchResult, error) {
	query := `SELECT id, applicant_id, match_rate, metrics, scored_at FROM resumeai_matches
              WHERE applicant_id = $1 ORDER BY scored_at DESC, id DESC`
	return r.collect(ctx, query, applicantID)
}

func (r *matchRepo) LatestByApplicantIDs(ctx context.Context, applicantIDs []string) (map[string]domain.MatchResult, error) {
	latest := make(map[string]domain.MatchResult, len(applicantIDs))
	if len(applicantIDs) == 0 {
		return latest, nil
	}

	query := `SELECT DISTINCT ON (applicant_id) id, applicant_id, match_rate, metrics, scored_at
              FROM resumeai_matches
              WHERE applicant_id = ANY($1::text[])
              ORDER BY applicant_id, scored_at DESC, id DESC`
	matches, err := r.collect(ctx, query, pq.Array(applicantIDs))
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		latest[m.ApplicantID] = m
	}
	return latest, nil
}

func (r *matchRepo) collect(ctx context.Context, query string, args ...interface{}) ([]domain.MatchResult, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MatchResult
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}
