package vecrag

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver string // "valkey", "redis" or "sqlite"
	url    string

	name       string
	collection string

	embedder Embedder

	vectorDimensions int
	hnswM            int
	hnswEFConstruct  int
	flat             bool
	flatBlockSize    int
	candidatePool    int
	maxBatchSize     int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey connects to a Valkey instance with the search module.
func WithValkey(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.url = url
	})
}

// WithRedis connects to Redis Stack or Redis 8.
func WithRedis(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.url = url
	})
}

// WithSQLite stores documents in an embedded SQLite database at path.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "sqlite"
		c.url = path
	})
}

// WithKeyspace sets the key namespace: documents live under
// <name>:<collection>:doc:. Defaults to "rag" and "docs".
func WithKeyspace(name, collection string) Option {
	return optionFunc(func(c *clientConfig) {
		c.name = name
		c.collection = collection
	})
}

// WithEmbedder sets the text embedding provider. Required.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithVectorDimensions sets the embedding width. Required.
func WithVectorDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorDimensions = dim
	})
}

// WithHNSW configures HNSW index parameters (M and EF construction).
// Defaults: M=16, EFConstruct=200.
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.flat = false
		c.hnswM = m
		c.hnswEFConstruct = efConstruct
	})
}

// WithFlatIndex builds an exact FLAT index instead of HNSW. Searches then
// scan every vector, so it suits small collections. Zero blockSize keeps
// the server default.
func WithFlatIndex(blockSize int) Option {
	return optionFunc(func(c *clientConfig) {
		c.flat = true
		c.flatBlockSize = blockSize
	})
}

// WithCandidatePool sets the HNSW search breadth (EF_RUNTIME). Default: 100.
func WithCandidatePool(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.candidatePool = n
	})
}

// WithMaxBatchSize caps the number of documents per Insert call.
// Default: 1000.
func WithMaxBatchSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBatchSize = size
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
