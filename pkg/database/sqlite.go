package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed schema/sqlite.sql
var sqliteSchema string

// SQLiteDSN converts a DATABASE_URL such as "sqlite:./data/maplehr.db" or
// "sqlite::memory:" into a modernc.org/sqlite DSN with foreign keys enabled.
func SQLiteDSN(url string) string {
	dsn := strings.TrimPrefix(url, "sqlite:")
	if dsn == "" {
		dsn = ":memory:"
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// NewSQLiteConnection opens the database and applies the embedded schema.
func NewSQLiteConnection(ctx context.Context, url string, log *zap.Logger) (*sql.DB, error) {
	dsn := SQLiteDSN(url)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// every connection to :memory: is a separate database
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	log.Info("Database connection established successfully", zap.String("driver", "sqlite"))
	return db, nil
}
