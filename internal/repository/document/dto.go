package document

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/vecrag/internal/db"
	domdoc "github.com/kailas-cloud/vecrag/internal/domain/document"
)

// Hash field names of a stored document.
const (
	FieldText      = "text"
	FieldMetadata  = "metadata"
	FieldVector    = "__vector"
	FieldCreatedAt = "created_at"
)

// buildHashFields converts a domain Document into a flat map for HSET.
func buildHashFields(doc *domdoc.Document) (map[string]string, error) {
	md, err := json.Marshal(doc.Metadata())
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return map[string]string{
		FieldText:      doc.Text(),
		FieldMetadata:  string(md),
		FieldVector:    string(db.EncodeVector(doc.Embedding())),
		FieldCreatedAt: strconv.FormatInt(doc.CreatedAt().UnixMilli(), 10),
	}, nil
}

// parseHashFields converts a flat hash map back into a domain Document.
func parseHashFields(id string, m map[string]string) (domdoc.Document, error) {
	md, err := ParseMetadata(m[FieldMetadata])
	if err != nil {
		return domdoc.Document{}, err
	}

	vec, err := db.DecodeVector([]byte(m[FieldVector]))
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("decode vector: %w", err)
	}

	var createdAt time.Time
	if ms, err := strconv.ParseInt(m[FieldCreatedAt], 10, 64); err == nil {
		createdAt = time.UnixMilli(ms).UTC()
	}

	return domdoc.Reconstruct(id, m[FieldText], md, vec, createdAt), nil
}

// ParseMetadata decodes the stored metadata JSON. Empty input yields an empty map.
func ParseMetadata(raw string) (map[string]any, error) {
	md := map[string]any{}
	if raw == "" {
		return md, nil
	}
	if err := json.Unmarshal([]byte(raw), &md); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return md, nil
}
