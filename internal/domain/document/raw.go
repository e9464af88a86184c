package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/vecrag/internal/domain"
)

// Raw is an incoming document before normalization. Text may arrive as
// "text" or as the legacy "page_content" field.
type Raw struct {
	Text        string         `json:"text"`
	PageContent string         `json:"page_content"`
	Metadata    map[string]any `json:"metadata"`
	Embedding   []float32      `json:"embedding"`
}

// Content returns the document text, preferring "text" over "page_content".
func (r *Raw) Content() string {
	if strings.TrimSpace(r.Text) != "" {
		return r.Text
	}
	return r.PageContent
}

// HasText reports whether the raw document carries non-blank text.
func (r *Raw) HasText() bool {
	return strings.TrimSpace(r.Content()) != ""
}

// HasEmbedding reports whether the raw document carries a precomputed vector.
func (r *Raw) HasEmbedding() bool {
	return len(r.Embedding) > 0
}

// ParseOne decodes a single raw document object.
func ParseOne(data []byte) (Raw, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Raw{}, fmt.Errorf("%w: expected a JSON object", domain.ErrInvalidInput)
	}
	var r Raw
	if err := json.Unmarshal(trimmed, &r); err != nil {
		return Raw{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, describeJSONError(err))
	}
	return r, nil
}

// ParseMany decodes a JSON array of raw documents.
func ParseMany(data []byte) ([]Raw, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array", domain.ErrInvalidInput)
	}
	var rs []Raw
	if err := json.Unmarshal(trimmed, &rs); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, describeJSONError(err))
	}
	return rs, nil
}

// ParseFile decodes file contents holding either an array of raw documents
// or a single object.
func ParseFile(data []byte) ([]Raw, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: invalid JSON format: expected an array or an object", domain.ErrInvalidInput)
	}
	switch trimmed[0] {
	case '[':
		return ParseMany(trimmed)
	case '{':
		r, err := ParseOne(trimmed)
		if err != nil {
			return nil, err
		}
		return []Raw{r}, nil
	default:
		return nil, fmt.Errorf("%w: invalid JSON format: expected an array or an object", domain.ErrInvalidInput)
	}
}

func describeJSONError(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("field %q has the wrong type", typeErr.Field)
	}
	return "malformed JSON"
}
