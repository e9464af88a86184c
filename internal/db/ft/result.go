package ft

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/kailas-cloud/vecrag/internal/db"
)

// NewEntry builds a search entry, converting the cosine distance in
// __vector_score into a similarity and dropping the pseudo-field.
func NewEntry(key string, fields map[string]string) db.SearchEntry {
	entry := db.SearchEntry{Key: key, Fields: fields}
	if raw, ok := fields[db.ScoreField]; ok {
		if d, err := strconv.ParseFloat(raw, 64); err == nil {
			entry.Score = db.DistanceToSimilarity(d)
		}
		delete(fields, db.ScoreField)
	}
	return entry
}

// SortByScore orders entries by descending score, keeping server order on ties.
func SortByScore(entries []db.SearchEntry) {
	slices.SortStableFunc(entries, func(a, b db.SearchEntry) int {
		return cmp.Compare(b.Score, a.Score)
	})
}
