package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/vecrag/internal/db"
	"github.com/kailas-cloud/vecrag/internal/domain"
	domdoc "github.com/kailas-cloud/vecrag/internal/domain/document"
	"github.com/kailas-cloud/vecrag/internal/repository/keyspace"
)

// store is the consumer interface for documents (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo persists documents as hashes under the collection keyspace.
type Repo struct {
	store store
	keys  keyspace.Keyspace
}

// New creates a document repository.
func New(s store, keys keyspace.Keyspace) *Repo {
	return &Repo{store: s, keys: keys}
}

// InsertMany writes all documents in one store call and returns how many were written.
func (r *Repo) InsertMany(ctx context.Context, docs []domdoc.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	items := make([]db.HashSetItem, len(docs))
	for i := range docs {
		fields, err := buildHashFields(&docs[i])
		if err != nil {
			return 0, fmt.Errorf("document %s: %w", docs[i].ID(), err)
		}
		items[i] = db.HashSetItem{Key: r.keys.DocKey(docs[i].ID()), Fields: fields}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return 0, fmt.Errorf("insert %d documents: %w", len(docs), err)
	}
	return len(docs), nil
}

// Get returns a stored document by id.
func (r *Repo) Get(ctx context.Context, id string) (domdoc.Document, error) {
	key := r.keys.DocKey(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domdoc.Document{}, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return domdoc.Document{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	return parseHashFields(id, m)
}
