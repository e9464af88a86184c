package index

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/vecrag/internal/db"
)

func TestEnsure_Creates(t *testing.T) {
	repo, ms := newTestRepo(t)

	var got *db.IndexDefinition
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		got = def
		return nil
	}

	created, err := repo.Ensure(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected index to be created")
	}
	if got == nil {
		t.Fatal("CreateIndex not called")
	}
	if got.Name != "rag:docs:idx" {
		t.Errorf("name = %q", got.Name)
	}
	if len(got.Prefixes) != 1 || got.Prefixes[0] != "rag:docs:doc:" {
		t.Errorf("prefixes = %v", got.Prefixes)
	}

	vf := got.VectorField()
	if vf == nil {
		t.Fatal("expected a vector field")
	}
	if vf.Name != "__vector" || vf.AttrName() != "vector" {
		t.Errorf("vector field = %s AS %s", vf.Name, vf.AttrName())
	}
	if vf.VectorAlgo != db.VectorHNSW || vf.VectorDistance != db.DistanceCosine {
		t.Errorf("algo/distance = %s/%s", vf.VectorAlgo, vf.VectorDistance)
	}
	if vf.VectorDim != 4 || vf.VectorM != 16 || vf.VectorEFConstruct != 200 {
		t.Errorf("dim/m/ef = %d/%d/%d", vf.VectorDim, vf.VectorM, vf.VectorEFConstruct)
	}
}

func TestEnsure_Flat(t *testing.T) {
	repo, ms := newTestRepo(t)
	repo.WithFlat(FlatConfig{BlockSize: 1024})

	var got *db.IndexDefinition
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		got = def
		return nil
	}

	if _, err := repo.Ensure(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.Algorithm() != db.VectorFlat {
		t.Errorf("Algorithm() = %s, want FLAT", repo.Algorithm())
	}
	vf := got.VectorField()
	if vf.VectorAlgo != db.VectorFlat || vf.VectorBlockSize != 1024 {
		t.Errorf("algo/block = %s/%d, want FLAT/1024", vf.VectorAlgo, vf.VectorBlockSize)
	}
	if vf.VectorM != 0 || vf.VectorEFConstruct != 0 {
		t.Errorf("HNSW params leaked into FLAT field: %+v", vf)
	}
	if len(got.Fields) != 2 || got.Fields[0].Name != "created_at" {
		t.Errorf("fields = %+v", got.Fields)
	}
}

func TestEnsure_AlreadyExists(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.indexExistsFn = func(context.Context, string) (bool, error) { return true, nil }
	ms.createIndexFn = func(context.Context, *db.IndexDefinition) error {
		t.Fatal("CreateIndex should not be called")
		return nil
	}

	created, err := repo.Ensure(context.Background())
	if err != nil || created {
		t.Errorf("Ensure() = %v, %v; want false, nil", created, err)
	}
}

func TestEnsure_LostRace(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.createIndexFn = func(context.Context, *db.IndexDefinition) error {
		return &db.Error{Op: db.OpCreateIndex, Err: db.ErrIndexExists}
	}

	created, err := repo.Ensure(context.Background())
	if err != nil || created {
		t.Errorf("Ensure() = %v, %v; want false, nil", created, err)
	}
}

func TestEnsure_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	boom := errors.New("boom")
	ms.indexExistsFn = func(context.Context, string) (bool, error) { return false, boom }

	if _, err := repo.Ensure(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestDrop(t *testing.T) {
	repo, ms := newTestRepo(t)
	var dropped string
	ms.dropIndexFn = func(_ context.Context, name string) error {
		dropped = name
		return nil
	}

	if err := repo.Drop(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dropped != "rag:docs:idx" {
		t.Errorf("dropped %q", dropped)
	}
}

func TestDrop_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.dropIndexFn = func(context.Context, string) error { return db.ErrIndexNotFound }

	if err := repo.Drop(context.Background()); !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}
