// Package store persists per-session values in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Keys of the values a session keeps
const (
	KeyLastFortune    = "lastFortune"
	KeyBackground     = "currentBg"
	KeyTheme          = "selectedTheme"
	KeyFortuneHistory = "fortuneHistory"
	KeyDharmaReadings = "dharmaReadings"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// ErrNotFound is returned when a session has no value under a key
var ErrNotFound = errors.New("value not found")

// SQLiteStore is a key-value table scoped by session id
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path
func Open(path string) (*SQLiteStore, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps an in-memory database alive and serializes writers
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS session_values (
		session_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (session_id, key)
	);`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Get returns the raw value stored for key, or ErrNotFound
func (s *SQLiteStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM session_values WHERE session_id = ? AND key = ?`,
		sessionID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(value), nil
}

// Put stores value under key, replacing any previous value
func (s *SQLiteStore) Put(ctx context.Context, sessionID, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_values (session_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		sessionID, key, string(value), s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, sessionID, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM session_values WHERE session_id = ? AND key = ?`,
		sessionID, key,
	); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// GetJSON decodes the value under key into target
func (s *SQLiteStore) GetJSON(ctx context.Context, sessionID, key string, target any) error {
	raw, err := s.Get(ctx, sessionID, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// PutJSON encodes value and stores it under key
func (s *SQLiteStore) PutJSON(ctx context.Context, sessionID, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Put(ctx, sessionID, key, raw)
}

// Ping checks the database connection
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
