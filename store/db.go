// Package store persists sessions, clip placements, and caption segments
// in a local SQLite database. Engine code treats writes as best-effort;
// failures surface through the notifier, never as editor rollbacks.
package store

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store wraps the database handle and the embedded queries.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the database location under the user's data directory,
// ~/.local/share/caption-studio-cli/data.db.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".local", "share", "caption-studio-cli", "data.db"), nil
}

// Open opens or creates the SQLite database at path. Parent directories are
// created if they don't exist, and migrations are applied before returning.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
