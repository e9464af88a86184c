package document

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/vecrag/internal/domain"
)

// MaxTextSize is the maximum document text size in bytes.
const MaxTextSize = 1 << 20

// Document is the stored unit: text, free-form metadata and its embedding.
// It is immutable once created.
type Document struct {
	id        string
	text      string
	metadata  map[string]any
	embedding []float32
	createdAt time.Time
}

// New validates and creates a Document with a fresh id.
// Metadata defaults to an empty map.
func New(text string, metadata map[string]any, embedding []float32) (Document, error) {
	if strings.TrimSpace(text) == "" {
		return Document{}, domain.ErrMissingText
	}
	if len(text) > MaxTextSize {
		return Document{}, fmt.Errorf("%w: text too large (max %d bytes)", domain.ErrInvalidInput, MaxTextSize)
	}
	if len(embedding) == 0 {
		return Document{}, fmt.Errorf("%w: embedding is required", domain.ErrInvalidInput)
	}

	md := make(map[string]any, len(metadata))
	maps.Copy(md, metadata)

	return Document{
		id:        uuid.NewString(),
		text:      text,
		metadata:  md,
		embedding: embedding,
		createdAt: time.Now().UTC(),
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(id, text string, metadata map[string]any, embedding []float32, createdAt time.Time) Document {
	return Document{id: id, text: text, metadata: metadata, embedding: embedding, createdAt: createdAt}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Text returns the document text.
func (d *Document) Text() string { return d.text }

// Metadata returns the document metadata.
func (d *Document) Metadata() map[string]any { return d.metadata }

// Embedding returns the embedding vector.
func (d *Document) Embedding() []float32 { return d.embedding }

// CreatedAt returns the ingestion time.
func (d *Document) CreatedAt() time.Time { return d.createdAt }

// CheckDimensions fails with domain.ErrVectorDimMismatch when v is not dim long.
func CheckDimensions(v []float32, dim int) error {
	if len(v) != dim {
		return fmt.Errorf("%w: expected %d, got %d", domain.ErrVectorDimMismatch, dim, len(v))
	}
	return nil
}
