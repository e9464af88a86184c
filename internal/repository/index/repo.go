package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/vecrag/internal/db"
	"github.com/kailas-cloud/vecrag/internal/repository/document"
	"github.com/kailas-cloud/vecrag/internal/repository/keyspace"
)

// store is the consumer interface for index lifecycle (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// HNSWConfig holds HNSW build parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// FlatConfig holds FLAT build parameters.
type FlatConfig struct {
	BlockSize int
}

// Repo manages the vector index over the collection's documents.
type Repo struct {
	store store
	keys  keyspace.Keyspace
	dim   int
	algo  db.VectorAlgorithm
	hnsw  HNSWConfig
	flat  FlatConfig
}

// New creates an index repository for vectors of dim dimensions. The index
// is HNSW unless WithFlat is called.
func New(s store, keys keyspace.Keyspace, dim int) *Repo {
	return &Repo{store: s, keys: keys, dim: dim, algo: db.VectorHNSW}
}

// WithHNSW builds an HNSW index. Zero values keep the store defaults.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	r.algo = db.VectorHNSW
	r.hnsw = cfg
	return r
}

// WithFlat builds an exact FLAT index, suited to small collections.
func (r *Repo) WithFlat(cfg FlatConfig) *Repo {
	r.algo = db.VectorFlat
	r.flat = cfg
	return r
}

// Algorithm returns the vector algorithm new indexes are built with.
func (r *Repo) Algorithm() db.VectorAlgorithm { return r.algo }

// Name returns the index name.
func (r *Repo) Name() string { return r.keys.IndexName() }

// Ensure creates the index unless it already exists. It reports whether it was created.
func (r *Repo) Ensure(ctx context.Context) (bool, error) {
	exists, err := r.store.IndexExists(ctx, r.keys.IndexName())
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", r.keys.IndexName(), err)
	}
	if exists {
		return false, nil
	}

	def, err := r.buildIndex()
	if err != nil {
		return false, err
	}

	// Another replica may have won the race between the check and the create.
	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return false, nil
		}
		return false, fmt.Errorf("create index %s: %w", def.Name, err)
	}
	return true, nil
}

// Drop removes the index. Documents are kept.
func (r *Repo) Drop(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, r.keys.IndexName()); err != nil {
		return fmt.Errorf("drop index %s: %w", r.keys.IndexName(), err)
	}
	return nil
}

// Exists reports whether the index exists.
func (r *Repo) Exists(ctx context.Context) (bool, error) {
	return r.store.IndexExists(ctx, r.keys.IndexName())
}

// buildIndex describes the cosine vector index over __vector plus created_at.
func (r *Repo) buildIndex() (*db.IndexDefinition, error) {
	b := db.NewIndex(r.keys.IndexName()).
		Prefix(r.keys.DocPrefix()).
		Numeric(document.FieldCreatedAt)
	if r.algo == db.VectorFlat {
		b.VectorFlat(document.FieldVector, "vector", r.dim, db.DistanceCosine, r.flat.BlockSize)
	} else {
		b.VectorHNSW(document.FieldVector, "vector", r.dim, db.DistanceCosine, r.hnsw.M, r.hnsw.EFConstruct)
	}

	def, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build index %s: %w", r.keys.IndexName(), err)
	}
	return def, nil
}
