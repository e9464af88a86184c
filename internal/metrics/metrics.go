// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every vecrag metric name.
const Namespace = "vecrag"

var registerOnce sync.Once

// Register registers every vecrag collector with the default registry.
// Safe to call more than once (main and tests both call it).
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			EmbeddingRequestsTotal,
			EmbeddingRequestDuration,
			EmbeddingTokensTotal,
			EmbeddingErrorsTotal,
			EmbeddingBatchSize,
			DocumentsIngestedTotal,
			DocumentsSkippedTotal,
			IngestDuration,
			QueryDuration,
			QueryResults,
		)
	})
}
