// Package sqlite implements db.Store on an embedded SQLite database
// (modernc.org/sqlite, no cgo). Hashes are stored one row per field and KNN
// search is an exact cosine scan, which is enough for development and CLI use.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/kailas-cloud/vecrag/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS hash_fields (
	key   TEXT NOT NULL,
	field TEXT NOT NULL,
	value BLOB,
	PRIMARY KEY (key, field)
);
CREATE TABLE IF NOT EXISTS vector_indexes (
	name       TEXT PRIMARY KEY,
	definition TEXT NOT NULL
);`

// Config holds the database location.
type Config struct {
	URL string // sqlite://path, file:path?mode=... or a plain path
}

// Store implements db.Store on SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens the database and ensures the schema exists.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	dsn := strings.TrimPrefix(cfg.URL, "sqlite://")
	if dsn == "" {
		return nil, errors.New("url is required")
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; also keeps :memory: databases on a single connection.
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &Store{db: conn}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady pings once; an embedded database is ready as soon as it opens.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Ping(ctx)
}
