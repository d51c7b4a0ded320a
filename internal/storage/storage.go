// Package storage owns the persisted records of the platform. Every
// store interface has a Postgres implementation backed by database/sql
// and an in-memory implementation used when no DSN is configured and
// throughout the tests.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/lib/pq"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("already exists")
	ErrInvalidStatus = errors.New("invalid ride status")
)

// Open connects to Postgres and verifies the connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// ApplyMigrations executes the given SQL files in order. Statements are
// written to be idempotent (CREATE TABLE IF NOT EXISTS) so re-running
// at startup is safe.
func ApplyMigrations(db *sql.DB, paths ...string) error {
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", p, err)
		}
		if _, err := db.Exec(string(b)); err != nil {
			return fmt.Errorf("apply migration %s: %w", p, err)
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation so it can be surfaced as ErrConflict.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
