package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingestion and query pipeline metrics. The source label is one of
// single, many, file, upload.
var (
	DocumentsIngestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "documents_ingested_total",
			Help:      "Documents written to the store",
		},
		[]string{"source"},
	)

	DocumentsSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "documents_skipped_total",
			Help:      "Candidate documents dropped for lacking text",
		},
		[]string{"source"},
	)

	IngestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "ingest_duration_seconds",
			Help:      "End-to-end ingestion duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source", "status"},
	)

	QueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "query_duration_seconds",
			Help:      "End-to-end query duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	QueryResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "query_results",
			Help:      "Number of results returned per query",
			Buckets:   []float64{0, 1, 3, 5, 10, 25, 50, 100},
		},
	)
)
