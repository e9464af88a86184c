package embedding

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecrag/internal/domain"
	"github.com/kailas-cloud/vecrag/internal/domain/document"
)

// warmupProbe is embedded once to confirm the model is loaded and its width.
const warmupProbe = "warmup"

// ResidentEmbedder guards the embedding model: the first call (or Warm) runs
// a probe and checks the vector width, every later call goes straight through.
// A failed probe is retried by the next call.
type ResidentEmbedder struct {
	inner  domain.Embedder
	dim    int
	logger *zap.Logger

	mu    sync.Mutex
	ready bool
}

// NewResidentEmbedder wraps inner and expects vectors of dim dimensions.
func NewResidentEmbedder(inner domain.Embedder, dim int, logger *zap.Logger) *ResidentEmbedder {
	return &ResidentEmbedder{inner: inner, dim: dim, logger: logger}
}

// Warm loads the model ahead of the first request.
func (e *ResidentEmbedder) Warm(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ready {
		return nil
	}

	res, err := e.inner.Embed(ctx, warmupProbe)
	if err != nil {
		return fmt.Errorf("warm model: %w", err)
	}
	if err := document.CheckDimensions(res.Embedding, e.dim); err != nil {
		return fmt.Errorf("warm model: %w: %w", domain.ErrEmbeddingProviderError, err)
	}

	e.ready = true
	e.logger.Info("Embedding model ready", zap.Int("dimensions", e.dim))
	return nil
}

// Ready reports whether the model passed its warm-up probe.
func (e *ResidentEmbedder) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

// Embed warms the model if needed, then embeds text and checks the width.
func (e *ResidentEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if err := e.Warm(ctx); err != nil {
		return domain.EmbeddingResult{}, err
	}

	res, err := e.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, err //nolint:wrapcheck // transparent decorator
	}
	if err := document.CheckDimensions(res.Embedding, e.dim); err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("%w: %w", domain.ErrEmbeddingProviderError, err)
	}
	return res, nil
}

// BatchEmbed warms the model if needed, then embeds texts in one pass.
func (e *ResidentEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if err := e.Warm(ctx); err != nil {
		return domain.BatchEmbeddingResult{}, err
	}

	res, err := domain.EmbedAll(ctx, e.inner, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, err //nolint:wrapcheck // transparent decorator
	}
	for i, v := range res.Embeddings {
		if err := document.CheckDimensions(v, e.dim); err != nil {
			return domain.BatchEmbeddingResult{}, fmt.Errorf("%w: text %d: %w", domain.ErrEmbeddingProviderError, i, err)
		}
	}
	return res, nil
}

// HealthCheck delegates to the inner embedder when it supports health checks.
func (e *ResidentEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := e.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent decorator
	}
	return nil
}
