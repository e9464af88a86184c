package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/vecrag/internal/domain"
)

// MaxQueryLength is the maximum allowed query text length in bytes.
const MaxQueryLength = 8192

// Request is a validated similarity query.
type Request struct {
	text string
	topK int
}

// New validates a query. A nil topK selects defaultTopK; an explicit value
// must lie in [1, maxTopK].
func New(text string, topK *int, defaultTopK, maxTopK int) (Request, error) {
	if strings.TrimSpace(text) == "" {
		return Request{}, domain.ErrMissingText
	}
	if len(text) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: text too long (max %d bytes)", domain.ErrInvalidInput, MaxQueryLength)
	}

	k := defaultTopK
	if topK != nil {
		k = *topK
		if k < 1 || k > maxTopK {
			return Request{}, fmt.Errorf("%w: topK must be between 1 and %d", domain.ErrInvalidInput, maxTopK)
		}
	}

	return Request{text: text, topK: k}, nil
}

// Text returns the query text.
func (r *Request) Text() string { return r.text }

// TopK returns the number of results to return.
func (r *Request) TopK() int { return r.topK }
