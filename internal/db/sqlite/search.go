package sqlite

import (
	"context"
	"errors"
	"math"

	"github.com/kailas-cloud/vecrag/internal/db"
	"github.com/kailas-cloud/vecrag/internal/db/ft"
)

type candidate struct {
	key   string
	score float64
}

// SearchKNN scans every vector under the index prefixes and ranks by exact
// cosine similarity. EFRuntime is ignored.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, errors.New("index name is required")
	}
	if len(q.Vector) == 0 {
		return nil, errors.New("vector is required")
	}
	if q.K <= 0 {
		return nil, errors.New("k must be positive")
	}

	def, err := s.loadIndex(ctx, q.IndexName)
	if err != nil {
		return nil, err
	}
	vf := def.VectorField()

	var candidates []candidate
	for _, prefix := range def.Prefixes {
		found, err := s.scanPrefix(ctx, prefix, vf.Name, q.Vector)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, found...)
	}

	entries := make([]db.SearchEntry, 0, len(candidates))
	for _, c := range candidates {
		entries = append(entries, db.SearchEntry{Key: c.key, Score: c.score})
	}
	ft.SortByScore(entries)
	if len(entries) > q.K {
		entries = entries[:q.K]
	}

	for i := range entries {
		fields, err := s.HGetAll(ctx, entries[i].Key)
		if err != nil {
			return nil, err
		}
		entries[i].Fields = pick(fields, q.ReturnFields)
	}

	return &db.SearchResult{Total: len(entries), Entries: entries}, nil
}

func (s *Store) scanPrefix(ctx context.Context, prefix, field string, query []float32) ([]candidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM hash_fields WHERE field = ? AND substr(key, 1, ?) = ?`,
		field, len(prefix), prefix)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	defer rows.Close()

	var out []candidate
	for rows.Next() {
		var key string
		var blob []byte
		if err := rows.Scan(&key, &blob); err != nil {
			return nil, &db.Error{Op: db.OpSearch, Err: err}
		}
		vec, err := db.DecodeVector(blob)
		if err != nil || len(vec) != len(query) {
			continue
		}
		cos, ok := cosineSimilarity(query, vec)
		if !ok {
			continue
		}
		out = append(out, candidate{key: key, score: db.DistanceToSimilarity(1 - cos)})
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	return out, nil
}

func pick(fields map[string]string, names []string) map[string]string {
	if len(names) == 0 {
		return fields
	}
	out := make(map[string]string, len(names))
	for _, n := range names {
		if v, ok := fields[n]; ok {
			out[n] = v
		}
	}
	return out
}

// cosineSimilarity returns false for zero-magnitude vectors.
func cosineSimilarity(a, b []float32) (float64, bool) {
	var dot, na2, nb2 float64
	for i := range a {
		va, vb := float64(a[i]), float64(b[i])
		dot += va * vb
		na2 += va * va
		nb2 += vb * vb
	}
	if na2 == 0 || nb2 == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(na2) * math.Sqrt(nb2)), true
}
