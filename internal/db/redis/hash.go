package redis

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/vecrag/internal/db"
)

// HSetMulti stores multiple hashes in one pipelined round-trip.
func (s *Store) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if len(items) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, item := range items {
		pipe.HSet(ctx, item.Key, flattenFields(item.Fields)...)
	}

	cmds, err := pipe.Exec(ctx)
	for i, cmd := range cmds {
		if cmdErr := cmd.Err(); cmdErr != nil {
			return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("key %s: %w", items[i].Key, cmdErr)}
		}
	}
	if err != nil {
		return &db.Error{Op: db.OpHSet, Err: err}
	}
	return nil
}

// HGetAll returns all fields of a hash, or db.ErrKeyNotFound for a missing key.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	if len(m) == 0 {
		return nil, db.ErrKeyNotFound
	}
	return m, nil
}

func flattenFields(fields map[string]string) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}
