package query

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecrag/internal/domain/search/request"
	"github.com/kailas-cloud/vecrag/internal/domain/search/result"
	"github.com/kailas-cloud/vecrag/internal/logger"
	"github.com/kailas-cloud/vecrag/internal/metrics"
)

// Service answers similarity queries.
type Service struct {
	searcher    Searcher
	embedder    Embedder
	defaultTopK int
	maxTopK     int
}

// New creates a query service.
func New(searcher Searcher, embedder Embedder) *Service {
	return &Service{
		searcher:    searcher,
		embedder:    embedder,
		defaultTopK: 3,
		maxTopK:     100,
	}
}

// WithLimits configures the default and maximum topK.
func (s *Service) WithLimits(defaultTopK, maxTopK int) *Service {
	if defaultTopK > 0 {
		s.defaultTopK = defaultTopK
	}
	if maxTopK > 0 {
		s.maxTopK = maxTopK
	}
	return s
}

// NewRequest validates raw query input against the configured limits.
func (s *Service) NewRequest(text string, topK *int) (request.Request, error) {
	return request.New(text, topK, s.defaultTopK, s.maxTopK)
}

// Search embeds the query and returns the nearest documents, best first.
// The result is never nil.
func (s *Service) Search(ctx context.Context, req *request.Request) ([]result.Result, error) {
	start := time.Now()

	emb, err := s.embedder.Embed(ctx, req.Text())
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	results, err := s.searcher.SearchKNN(ctx, emb.Embedding, req.TopK())
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if results == nil {
		results = []result.Result{}
	}
	// Stores already order by score; keep ties in store order.
	slices.SortStableFunc(results, func(a, b result.Result) int {
		return cmp.Compare(b.Score(), a.Score())
	})
	if len(results) > req.TopK() {
		results = results[:req.TopK()]
	}

	metrics.QueryDuration.Observe(time.Since(start).Seconds())
	metrics.QueryResults.Observe(float64(len(results)))

	logger.FromContext(ctx).Debug("Query completed",
		zap.Int("top_k", req.TopK()),
		zap.Int("results", len(results)),
		zap.Duration("duration", time.Since(start)),
	)
	return results, nil
}
