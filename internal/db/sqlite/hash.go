package sqlite

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/vecrag/internal/db"
)

const upsertField = `INSERT INTO hash_fields(key, field, value) VALUES(?, ?, ?)
ON CONFLICT(key, field) DO UPDATE SET value = excluded.value`

// HSetMulti writes all items in one transaction.
func (s *Store) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &db.Error{Op: db.OpHSet, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertField)
	if err != nil {
		return &db.Error{Op: db.OpHSet, Err: err}
	}
	defer stmt.Close()

	for _, item := range items {
		for field, value := range item.Fields {
			if _, err := stmt.ExecContext(ctx, item.Key, field, []byte(value)); err != nil {
				return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("key %s: %w", item.Key, err)}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return &db.Error{Op: db.OpHSet, Err: err}
	}
	return nil
}

// HGetAll returns all fields of a hash, or db.ErrKeyNotFound for a missing key.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT field, value FROM hash_fields WHERE key = ?`, key)
	if err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	defer rows.Close()

	m := make(map[string]string)
	for rows.Next() {
		var field string
		var value []byte
		if err := rows.Scan(&field, &value); err != nil {
			return nil, &db.Error{Op: db.OpHGetAll, Err: err}
		}
		m[field] = string(value)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	if len(m) == 0 {
		return nil, db.ErrKeyNotFound
	}
	return m, nil
}
