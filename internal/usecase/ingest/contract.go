package ingest

import (
	"context"

	"github.com/kailas-cloud/vecrag/internal/domain"
	domdoc "github.com/kailas-cloud/vecrag/internal/domain/document"
)

// Repository persists documents in one batch.
type Repository interface {
	InsertMany(ctx context.Context, docs []domdoc.Document) (int, error)
}

// Embedder vectorizes text into embeddings. Implementations that also
// satisfy domain.BatchEmbedder get all missing vectors in one call.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
