package vecrag

import "time"

// Document is a document to insert. Embedding is optional; documents
// without one are embedded with the configured Embedder.
type Document struct {
	Text      string
	Metadata  map[string]any
	Embedding []float32
}

// InsertResult reports how many documents were stored and how many were
// skipped for having no text.
type InsertResult struct {
	Inserted int
	Skipped  int
}

// StoredDocument is a document read back from the store.
type StoredDocument struct {
	ID        string
	Text      string
	Metadata  map[string]any
	CreatedAt time.Time
}

// SearchResult is a single query hit. Score is a similarity in [0, 1].
type SearchResult struct {
	ID       string
	Text     string
	Metadata map[string]any
	Score    float64
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok" or "degraded"
	Checks map[string]string // component → "ok"/"error"
}
