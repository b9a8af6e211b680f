// Package store persists claims and verification results in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a claim or verification does not exist
var ErrNotFound = errors.New("not found")

// Store is the SQLite-backed claim and verification store
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema exists
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One writer keeps batch write ordering deterministic
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS claims (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			raw_id TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL,
			extracted_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_claims_status ON claims(status, extracted_at)`,
		`CREATE TABLE IF NOT EXISTS verifications (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			claim_id TEXT NOT NULL DEFAULT '',
			claim TEXT NOT NULL,
			verdict TEXT NOT NULL,
			score REAL NOT NULL,
			method TEXT NOT NULL,
			summary TEXT NOT NULL,
			reasons TEXT NOT NULL,
			queries TEXT NOT NULL,
			evidence TEXT NOT NULL,
			checked_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_verifications_claim ON verifications(claim_id)`,
		`CREATE INDEX IF NOT EXISTS idx_verifications_checked ON verifications(checked_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}
