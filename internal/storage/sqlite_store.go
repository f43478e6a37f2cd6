package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the local backend: a single-file SQLite database holding
// one JSON record per logical key.
type SQLiteStore struct {
	recordStore
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	s := &SQLiteStore{path: path}
	s.recordStore = recordStore{kv: &sqliteKV{store: s}}
	return s
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.createSchema(); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'gritday init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	ok, err := s.tableExists("records")
	if err != nil {
		return fmt.Errorf("failed to inspect database: %w", err)
	}
	if !ok {
		return fmt.Errorf("database at %s has no records table, run 'gritday init' first", s.path)
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Describe() string {
	return s.path
}

func (s *SQLiteStore) createSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)
	return err
}

// tableExists checks if a table exists in the SQLite database. The check is
// case-insensitive to match SQLite's behavior.
func (s *SQLiteStore) tableExists(tableName string) (bool, error) {
	var count int
	row := s.db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name COLLATE NOCASE = ?", tableName)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// sqliteKV adapts the store to the raw keyValue surface.
type sqliteKV struct {
	store *SQLiteStore
}

func (s *sqliteKV) get(key string) ([]byte, bool, error) {
	if s.store.db == nil {
		return nil, false, ErrNotLoaded
	}
	var value string
	err := s.store.db.QueryRow("SELECT value FROM records WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read record %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *sqliteKV) put(key string, value []byte) error {
	if s.store.db == nil {
		return ErrNotLoaded
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.store.db.Exec(`
		INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), now,
	)
	if err != nil {
		return fmt.Errorf("failed to write record %s: %w", key, err)
	}
	return nil
}

func (s *sqliteKV) wipe() error {
	if s.store.db == nil {
		return ErrNotLoaded
	}
	_, err := s.store.db.Exec("DELETE FROM records")
	if err != nil {
		return fmt.Errorf("failed to wipe records: %w", err)
	}
	return nil
}
