package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/vecrag/internal/db"
)

// CreateIndex records the definition; search reads it back to find the
// key prefixes and the vector field.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if def.VectorField() == nil {
		return errors.New("sqlite index requires a vector field")
	}

	raw, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("marshal index definition: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO vector_indexes(name, definition) VALUES(?, ?) ON CONFLICT(name) DO NOTHING`,
		def.Name, string(raw))
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return db.ErrIndexExists
	}
	return nil
}

// DropIndex removes the definition. Documents are kept.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM vector_indexes WHERE name = ?`, name)
	if err != nil {
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return db.ErrIndexNotFound
	}
	return nil
}

// IndexExists reports whether a definition with this name is stored.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	_, err := s.loadIndex(ctx, name)
	switch {
	case errors.Is(err, db.ErrIndexNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

func (s *Store) loadIndex(ctx context.Context, name string) (*db.IndexDefinition, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT definition FROM vector_indexes WHERE name = ?`, name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, db.ErrIndexNotFound
	}
	if err != nil {
		return nil, &db.Error{Op: db.OpIndexInfo, Err: err}
	}

	var def db.IndexDefinition
	if err := json.Unmarshal([]byte(raw), &def); err != nil {
		return nil, fmt.Errorf("decode index %s: %w", name, err)
	}
	return &def, nil
}
