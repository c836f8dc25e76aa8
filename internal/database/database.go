// Package database caches the user's AniList anime list in a local sqlite
// file so matching and episode resolution keep working offline.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mondohq/mondo/internal/paths"
)

// ListDB is the handle for the cached anime list.
type ListDB struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// Open opens or creates the cache at the default location.
func Open() (*ListDB, error) {
	dbPath, err := paths.ListCachePath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config dir: %w", err)
	}
	return OpenPath(dbPath)
}

// OpenPath opens or creates the cache at a specific path.
func OpenPath(path string) (*ListDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	ldb := &ListDB{
		db:   db,
		path: path,
	}

	if err := ldb.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return ldb, nil
}

// OpenInMemory opens an in-memory cache for testing.
func OpenInMemory() (*ListDB, error) {
	db, err := sql.Open("sqlite", ":memory:?_cache=shared")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping in-memory database: %w", err)
	}

	ldb := &ListDB{
		db:   db,
		path: ":memory:",
	}

	if err := ldb.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate in-memory database: %w", err)
	}

	return ldb, nil
}

// Close closes the database connection.
func (l *ListDB) Close() error {
	return l.db.Close()
}

// Path returns the filesystem path to the database file.
func (l *ListDB) Path() string {
	return l.path
}

func (l *ListDB) migrate() error {
	return applyMigrations(l.db)
}
