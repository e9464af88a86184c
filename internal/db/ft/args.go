// Package ft builds FT.CREATE / FT.SEARCH argument lists shared by the
// Valkey and Redis drivers.
package ft

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/vecrag/internal/db"
)

// CreateArgs renders def as FT.CREATE arguments (without the command name).
func CreateArgs(idx *db.IndexDefinition) ([]string, error) {
	if idx.Name == "" {
		return nil, errors.New("index name is required")
	}
	if len(idx.Fields) == 0 {
		return nil, errors.New("at least one field is required")
	}

	args := []string{idx.Name}

	storage := idx.StorageType
	if storage == "" {
		storage = db.StorageHash
	}
	args = append(args, "ON", string(storage))

	if len(idx.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(idx.Prefixes)))
		args = append(args, idx.Prefixes...)
	}

	args = append(args, "SCHEMA")

	for i := range idx.Fields {
		fieldArgs, err := fieldArgs(&idx.Fields[i])
		if err != nil {
			return nil, err
		}
		args = append(args, fieldArgs...)
	}

	return args, nil
}

func fieldArgs(f *db.IndexField) ([]string, error) {
	if f.Name == "" {
		return nil, errors.New("field name is required")
	}

	args := []string{f.Name}
	if f.Alias != "" {
		args = append(args, "AS", f.Alias)
	}

	switch f.Type {
	case db.IndexFieldNumeric:
		args = append(args, "NUMERIC")
	case db.IndexFieldVector:
		vectorArgs, err := vectorFieldArgs(f)
		if err != nil {
			return nil, err
		}
		args = append(args, vectorArgs...)
	default:
		return nil, errors.New("unknown field type")
	}

	return args, nil
}

func vectorFieldArgs(f *db.IndexField) ([]string, error) {
	if f.VectorDim <= 0 {
		return nil, errors.New("vector DIM must be positive")
	}

	algo := f.VectorAlgo
	if algo == "" {
		algo = db.VectorFlat
	}
	distance := f.VectorDistance
	if distance == "" {
		distance = db.DistanceCosine
	}

	attrs := []string{
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(f.VectorDim),
		"DISTANCE_METRIC", string(distance),
	}

	switch algo {
	case db.VectorHNSW:
		if f.VectorM > 0 {
			attrs = append(attrs, "M", strconv.Itoa(f.VectorM))
		}
		if f.VectorEFConstruct > 0 {
			attrs = append(attrs, "EF_CONSTRUCTION", strconv.Itoa(f.VectorEFConstruct))
		}
	case db.VectorFlat:
		if f.VectorBlockSize > 0 {
			attrs = append(attrs, "BLOCK_SIZE", strconv.Itoa(f.VectorBlockSize))
		}
	}

	result := make([]string, 0, 3+len(attrs))
	result = append(result, "VECTOR", string(algo), strconv.Itoa(len(attrs)))
	return append(result, attrs...), nil
}

// KNNArgs renders q as FT.SEARCH arguments (without the command name).
// The vector attribute is always queried as @vector.
func KNNArgs(q *db.KNNQuery) ([]string, error) {
	if q.IndexName == "" {
		return nil, errors.New("index name is required")
	}
	if len(q.Vector) == 0 {
		return nil, errors.New("vector is required")
	}
	if q.K <= 0 {
		return nil, errors.New("k must be positive")
	}

	knn := fmt.Sprintf("[KNN %d @vector $BLOB]", q.K)
	if q.EFRuntime > 0 {
		knn = fmt.Sprintf("[KNN %d @vector $BLOB EF_RUNTIME %d]", q.K, max(q.EFRuntime, q.K))
	}

	args := []string{q.IndexName, "*=>" + knn}

	if len(q.ReturnFields) > 0 {
		fields := ReturnFields(q.ReturnFields)
		args = append(args, "RETURN", strconv.Itoa(len(fields)))
		args = append(args, fields...)
	}

	args = append(args,
		"LIMIT", "0", strconv.Itoa(q.K),
		"PARAMS", "2", "BLOB", string(db.EncodeVector(q.Vector)),
		"DIALECT", "2",
	)
	return args, nil
}

// ReturnFields appends the score pseudo-field when the caller did not ask for it.
func ReturnFields(fields []string) []string {
	for _, f := range fields {
		if f == db.ScoreField {
			return fields
		}
	}
	out := make([]string, 0, len(fields)+1)
	out = append(out, fields...)
	return append(out, db.ScoreField)
}

// IsIndexExists reports whether a server error message means the index already exists.
func IsIndexExists(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "already exists")
}

// IsUnknownIndex reports whether a server error message means the index is missing.
// Redis says "Unknown index name" or "no such index", valkey-search says "not found".
func IsUnknownIndex(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "unknown index name") ||
		strings.Contains(m, "no such index") ||
		strings.Contains(m, "not found")
}
