package result

// Result is a single similarity hit: a read-only projection of a stored
// document plus its score in [0, 1].
type Result struct {
	id       string
	text     string
	metadata map[string]any
	score    float64
}

// New creates a search result. Nil metadata becomes an empty map.
func New(id, text string, metadata map[string]any, score float64) Result {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return Result{id: id, text: text, metadata: metadata, score: score}
}

// ID returns the document identifier.
func (r *Result) ID() string { return r.id }

// Text returns the document text.
func (r *Result) Text() string { return r.text }

// Metadata returns the document metadata.
func (r *Result) Metadata() map[string]any { return r.metadata }

// Score returns the similarity score.
func (r *Result) Score() float64 { return r.score }
