package redis

import (
	"context"

	"github.com/kailas-cloud/vecrag/internal/db"
	"github.com/kailas-cloud/vecrag/internal/db/ft"
)

// CreateIndex creates an FT index from the given definition.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := ft.CreateArgs(def)
	if err != nil {
		return err
	}

	if err := s.do(ctx, "FT.CREATE", args).Err(); err != nil {
		if msg, ok := serverErr(err); ok && ft.IsIndexExists(msg) {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// DropIndex removes an FT index by name. Documents are kept.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	if err := s.do(ctx, "FT.DROPINDEX", []string{name}).Err(); err != nil {
		if msg, ok := serverErr(err); ok && ft.IsUnknownIndex(msg) {
			return db.ErrIndexNotFound
		}
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
	return nil
}

// IndexExists probes index existence via FT.INFO.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	if err := s.do(ctx, "FT.INFO", []string{name}).Err(); err != nil {
		if msg, ok := serverErr(err); ok && ft.IsUnknownIndex(msg) {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return true, nil
}
