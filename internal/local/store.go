// Package local implements the on-device fallback store: a single SQLite
// file holding one JSON document per key, the server-side counterpart of
// browser key-value storage.
package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Keys of the documents kept in the store.
const (
	KeyRegistrations = "registrations"
	KeyUsers         = "users"
	KeyProducts      = "products"
	KeyLocations     = "locations"
	KeyPurposes      = "purposes"
)

// Store is a key-value store over one SQLite table. Every value is a JSON
// document; Update performs read-modify-write under a process-wide lock.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the SQLite file at path and ensures the kv table exists.
// Use ":memory:" for a throwaway store.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "local.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("local.Open: create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("local.Open: open sqlite: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("local.Open: create kv table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get decodes the document stored under key into dest.
// It reports false, leaving dest untouched, when the key is absent.
func (s *Store) Get(ctx context.Context, key string, dest any) (bool, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("local.Store.Get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("local.Store.Get %s: decode: %w", key, err)
	}
	return true, nil
}

// Put replaces the document stored under key.
func (s *Store) Put(ctx context.Context, key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(ctx, s.db, key, v)
}

// Update loads the document under key into a fresh value of T, applies fn and
// writes the result back. Absent keys start from T's zero value. When fn
// returns an error nothing is written.
func Update[T any](ctx context.Context, s *Store, key string, fn func(T) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return zero, fmt.Errorf("local.Update %s: begin: %w", key, err)
	}
	defer func() { _ = tx.Rollback() }()

	var cur T
	var raw []byte
	err = tx.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return zero, fmt.Errorf("local.Update %s: read: %w", key, err)
	default:
		if err := json.Unmarshal(raw, &cur); err != nil {
			return zero, fmt.Errorf("local.Update %s: decode: %w", key, err)
		}
	}

	next, err := fn(cur)
	if err != nil {
		return zero, err
	}
	if err := s.put(ctx, tx, key, next); err != nil {
		return zero, err
	}
	if err := tx.Commit(); err != nil {
		return zero, fmt.Errorf("local.Update %s: commit: %w", key, err)
	}
	return next, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) put(ctx context.Context, e execer, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("local.Store.Put %s: encode: %w", key, err)
	}
	_, err = e.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, payload)
	if err != nil {
		return fmt.Errorf("local.Store.Put %s: %w", key, err)
	}
	return nil
}
