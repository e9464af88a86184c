package redis

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/vecrag/internal/db"
	"github.com/kailas-cloud/vecrag/internal/db/ft"
)

// SearchKNN runs a KNN vector similarity search via FT.SEARCH.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	args, err := ft.KNNArgs(q)
	if err != nil {
		return nil, err
	}

	raw, err := s.do(ctx, "FT.SEARCH", args).Slice()
	if err != nil {
		if msg, ok := serverErr(err); ok && ft.IsUnknownIndex(msg) {
			return nil, &db.Error{Op: db.OpSearch, Err: db.ErrIndexNotFound}
		}
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseKNNReply(raw)
}

// parseKNNReply reads the RESP2 reply [total, key1, [f, v, ...], key2, ...].
func parseKNNReply(raw []any) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, ok := raw[0].(int64)
	if !ok {
		return nil, fmt.Errorf("parse total: unexpected type %T", raw[0])
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/2)
	for i := 1; i+1 < len(raw); i += 2 {
		key, ok := raw[i].(string)
		if !ok {
			continue
		}
		fields, ok := raw[i+1].([]any)
		if !ok {
			continue
		}
		entries = append(entries, ft.NewEntry(key, parseFieldPairs(fields)))
	}
	ft.SortByScore(entries)

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []any) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, ok := fields[j].(string)
		if !ok {
			continue
		}
		switch v := fields[j+1].(type) {
		case string:
			m[name] = v
		case []byte:
			m[name] = string(v)
		}
	}
	return m
}
