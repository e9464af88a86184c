package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/vecrag/internal/db"
	"github.com/kailas-cloud/vecrag/internal/domain"
	"github.com/kailas-cloud/vecrag/internal/domain/search/result"
	"github.com/kailas-cloud/vecrag/internal/repository/document"
	"github.com/kailas-cloud/vecrag/internal/repository/keyspace"
)

// DefaultCandidatePool is the HNSW EF_RUNTIME used when none is configured.
const DefaultCandidatePool = 100

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements usecase/query.Searcher over the collection's vector index.
type Repo struct {
	store store
	keys  keyspace.Keyspace
	pool  int
}

// New creates a search repository.
func New(s store, keys keyspace.Keyspace) *Repo {
	return &Repo{store: s, keys: keys, pool: DefaultCandidatePool}
}

// WithCandidatePool sets the number of candidates examined per query.
func (r *Repo) WithCandidatePool(n int) *Repo {
	if n > 0 {
		r.pool = n
	}
	return r
}

// WithExactSearch drops EF_RUNTIME from queries. FLAT indexes reject it.
func (r *Repo) WithExactSearch() *Repo {
	r.pool = 0
	return r
}

// SearchKNN returns up to topK documents nearest to vector, best first.
func (r *Repo) SearchKNN(ctx context.Context, vector []float32, topK int) ([]result.Result, error) {
	q := &db.KNNQuery{
		IndexName:    r.keys.IndexName(),
		Vector:       vector,
		K:            topK,
		EFRuntime:    r.pool,
		ReturnFields: []string{document.FieldText, document.FieldMetadata},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, fmt.Errorf("search %s: %w: index is missing", q.IndexName, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("search %s: %w", q.IndexName, err)
	}

	return r.parseResults(sr), nil
}

func (r *Repo) parseResults(sr *db.SearchResult) []result.Result {
	if sr == nil || len(sr.Entries) == 0 {
		return []result.Result{}
	}

	results := make([]result.Result, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		md, err := document.ParseMetadata(e.Fields[document.FieldMetadata])
		if err != nil {
			md = map[string]any{}
		}
		results = append(results, result.New(r.keys.DocID(e.Key), e.Fields[document.FieldText], md, e.Score))
	}
	return results
}
