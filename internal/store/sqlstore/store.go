// Package sqlstore keeps catalog documents in a SQL database through sqlx.
// The same code serves SQLite (modernc.org/sqlite, pure Go) and PostgreSQL (lib/pq).
// Each row holds the JSON document plus the columns used for ordering.
package sqlstore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/filmarkiv/filmarkiv-server/internal/store"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// timeLayout is fixed width so text columns sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store provides SQL-backed persistence for the Filmarkiv server.
type Store struct {
	db     *sqlx.DB
	driver string
	logger *slog.Logger
}

var _ store.Store = (*Store)(nil)

// OpenSQLite opens the SQLite database file at path.
// It configures WAL mode, sets pragmas, and runs schema migrations.
func OpenSQLite(path string, logger *slog.Logger) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	return migrate(db, store.DriverSQLite, path, logger)
}

// OpenPostgres connects to the PostgreSQL database described by dsn.
func OpenPostgres(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return migrate(db, store.DriverPostgres, redact(dsn), logger)
}

func migrate(db *sqlx.DB, driver, location string, logger *slog.Logger) (*Store, error) {
	// Run schema migration.
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	if logger != nil {
		logger.Info("SQL database opened successfully", "driver", driver, "location", location)
	}
	return &Store{db: db, driver: driver, logger: logger}, nil
}

// Driver implements store.Store.
func (s *Store) Driver() string { return s.driver }

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection", "driver", s.driver)
	}
	return s.db.Close()
}

// isUniqueViolation reports a duplicate primary key on either driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// redact hides the password of a URL-style DSN for logging.
func redact(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	return u.Redacted()
}
