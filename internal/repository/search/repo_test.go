package search

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/vecrag/internal/db"
	"github.com/kailas-cloud/vecrag/internal/domain"
)

func TestSearchKNN_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		if q.IndexName != "rag:docs:idx" {
			t.Errorf("unexpected index: %s", q.IndexName)
		}
		if q.K != 3 {
			t.Errorf("unexpected K: %d", q.K)
		}
		if q.EFRuntime != DefaultCandidatePool {
			t.Errorf("unexpected EFRuntime: %d", q.EFRuntime)
		}
		return &db.SearchResult{
			Total: 2,
			Entries: []db.SearchEntry{
				{
					Key:    "rag:docs:doc:a",
					Score:  0.91,
					Fields: map[string]string{"text": "hello world", "metadata": `{"url":"https://a"}`},
				},
				{
					Key:    "rag:docs:doc:b",
					Score:  0.42,
					Fields: map[string]string{"text": "goodbye"},
				},
			},
		}, nil
	}

	results, err := repo.SearchKNN(context.Background(), testVector(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID() != "a" || results[0].Text() != "hello world" {
		t.Errorf("first = %s %q", results[0].ID(), results[0].Text())
	}
	if results[0].Metadata()["url"] != "https://a" {
		t.Errorf("metadata = %v", results[0].Metadata())
	}
	if results[0].Score() != 0.91 {
		t.Errorf("score = %v", results[0].Score())
	}
	if md := results[1].Metadata(); md == nil || len(md) != 0 {
		t.Errorf("missing metadata should be empty map, got %v", md)
	}
}

func TestSearchKNN_CandidatePool(t *testing.T) {
	repo, ms := newTestRepo(t)
	repo.WithCandidatePool(250)

	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		if q.EFRuntime != 250 {
			t.Errorf("EFRuntime = %d, want 250", q.EFRuntime)
		}
		return nil, nil
	}
	if _, err := repo.SearchKNN(context.Background(), testVector(), 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearchKNN_ExactSearchOmitsPool(t *testing.T) {
	repo, ms := newTestRepo(t)
	repo.WithCandidatePool(250).WithExactSearch()

	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		if q.EFRuntime != 0 {
			t.Errorf("EFRuntime = %d, want 0", q.EFRuntime)
		}
		return nil, nil
	}
	if _, err := repo.SearchKNN(context.Background(), testVector(), 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearchKNN_EmptyIsNonNil(t *testing.T) {
	repo, _ := newTestRepo(t)

	results, err := repo.SearchKNN(context.Background(), testVector(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", results)
	}
}

func TestSearchKNN_BadMetadata(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchKNNFn = func(context.Context, *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{Total: 1, Entries: []db.SearchEntry{
			{Key: "rag:docs:doc:x", Score: 0.5, Fields: map[string]string{"text": "t", "metadata": "{broken"}},
		}}, nil
	}

	results, err := repo.SearchKNN(context.Background(), testVector(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results[0].Metadata()) != 0 {
		t.Errorf("expected empty metadata, got %v", results[0].Metadata())
	}
}

func TestSearchKNN_IndexMissing(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchKNNFn = func(context.Context, *db.KNNQuery) (*db.SearchResult, error) {
		return nil, &db.Error{Op: db.OpSearch, Err: db.ErrIndexNotFound}
	}

	_, err := repo.SearchKNN(context.Background(), testVector(), 3)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchKNN_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	boom := errors.New("connection reset")
	ms.searchKNNFn = func(context.Context, *db.KNNQuery) (*db.SearchResult, error) { return nil, boom }

	if _, err := repo.SearchKNN(context.Background(), testVector(), 3); !errors.Is(err, boom) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}
