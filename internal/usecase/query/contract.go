package query

import (
	"context"

	"github.com/kailas-cloud/vecrag/internal/domain"
	"github.com/kailas-cloud/vecrag/internal/domain/search/result"
)

// Searcher runs nearest-neighbor search over stored documents.
type Searcher interface {
	SearchKNN(ctx context.Context, vector []float32, topK int) ([]result.Result, error)
}

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
