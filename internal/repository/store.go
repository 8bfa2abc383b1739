// Package repository selects the relational backend behind the domain repositories.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"maplehr-backend/internal/domain"
	"maplehr-backend/internal/repository/postgres"
	"maplehr-backend/internal/repository/sqlite"
	"maplehr-backend/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var ErrNoDatabaseURL = errors.New("repository: DATABASE_URL is empty")

// Store bundles the repositories and the connection they share.
type Store struct {
	Jobs       domain.JobRepository
	Applicants domain.ApplicantRepository
	Matches    domain.MatchRepository
	Driver     string

	ping  func(ctx context.Context) error
	close func()
}

// IsSQLiteURL reports whether url selects the embedded SQLite backend.
func IsSQLiteURL(url string) bool {
	return strings.HasPrefix(url, "sqlite:") || strings.HasPrefix(url, "file:")
}

// Open connects to PostgreSQL, or to SQLite for "sqlite:"/"file:" URLs, and applies the schema.
func Open(ctx context.Context, url string, log *zap.Logger) (*Store, error) {
	if url == "" {
		return nil, ErrNoDatabaseURL
	}
	if IsSQLiteURL(url) {
		db, err := database.NewSQLiteConnection(ctx, url, log)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(db), nil
	}

	pool, err := database.NewPostgresConnection(ctx, url, log)
	if err != nil {
		return nil, err
	}
	if err := database.MigratePostgres(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return NewPostgresStore(pool), nil
}

func NewPostgresStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Jobs:       postgres.NewJobRepository(pool),
		Applicants: postgres.NewApplicantRepository(pool),
		Matches:    postgres.NewMatchRepository(pool),
		Driver:     "postgres",
		ping:       pool.Ping,
		close:      pool.Close,
	}
}

func NewSQLiteStore(db *sql.DB) *Store {
	return &Store{
		Jobs:       sqlite.NewJobRepository(db),
		Applicants: sqlite.NewApplicantRepository(db),
		Matches:    sqlite.NewMatchRepository(db),
		Driver:     "sqlite",
		ping:       db.PingContext,
		close:      func() { _ = db.Close() },
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}
