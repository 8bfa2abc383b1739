package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"maplehr-backend/internal/domain"
)

type matchRepo struct {
	db *sql.DB
}

func NewMatchRepository(db *sql.DB) domain.MatchRepository {
	return &matchRepo{db: db}
}

func scanMatch(row scanner) (*domain.MatchResult, error) {
	var (
		m                 domain.MatchResult
		metrics, scoredAt string
	)
	if err := row.Scan(&m.ID, &m.ApplicantID, &m.MatchRatePercent, &metrics, &scoredAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(metrics), &m.Metrics); err != nil {
		return nil, fmt.Errorf("decode metrics of match %d: %w", m.ID, err)
	}
	t, err := parseTime(scoredAt)
	if err != nil {
		return nil, err
	}
	m.ComputedAt = t
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
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO resumeai_matches (applicant_id, match_rate, metrics, scored_at) VALUES (?, ?, ?, ?)`,
		m.ApplicantID, m.MatchRatePercent, string(metrics), formatTime(m.ComputedAt),
	)
	if err != nil {
		return err
	}
	m.ID, err = res.LastInsertId()
	return err
}

func (r *matchRepo) LatestByApplicantID(ctx context.Context, applicantID string) (*domain.MatchResult, error) {
	m, err := scanMatch(r.db.QueryRowContext(ctx,
		`SELECT id, applicant_id, match_rate, metrics, scored_at FROM resumeai_matches
         WHERE applicant_id = ? ORDER BY scored_at DESC, id DESC LIMIT 1`, applicantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *matchRepo) ListByApplicantID(ctx context.Context, applicantID string) ([]domain.MatchResult, error) {
	return r.collect(ctx,
		`SELECT id, applicant_id, match_rate, metrics, scored_at FROM resumeai_matches
         WHERE applicant_id = ? ORDER BY scored_at DESC, id DESC`, applicantID)
}

func (r *matchRepo) LatestByApplicantIDs(ctx context.Context, applicantIDs []string) (map[string]domain.MatchResult, error) {
	latest := make(map[string]domain.MatchResult, len(applicantIDs))
	if len(applicantIDs) == 0 {
		return latest, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(applicantIDs)), ",")
	args := make([]any, len(applicantIDs))
	for i, id := range applicantIDs {
		args[i] = id
	}

	// rows come newest first per applicant; the first one seen wins
	matches, err := r.collect(ctx,
		`SELECT id, applicant_id, match_rate, metrics, scored_at FROM resumeai_matches
         WHERE applicant_id IN (`+placeholders+`)
         ORDER BY applicant_id, scored_at DESC, id DESC`, args...)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		if _, seen := latest[m.ApplicantID]; !seen {
			latest[m.ApplicantID] = m
		}
	}
	return latest, nil
}

func (r *matchRepo) collect(ctx context.Context, query string, args ...any) ([]domain.MatchResult, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
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
