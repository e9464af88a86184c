package health

import "context"

// StorePinger checks document store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// IndexChecker reports whether the vector index exists.
type IndexChecker interface {
	Exists(ctx context.Context) (bool, error)
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// ModelChecker is the resident embedding model.
type ModelChecker interface {
	Ready() bool
	Warm(ctx context.Context) error
}
