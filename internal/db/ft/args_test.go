package ft

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/vecrag/internal/db"
)

func TestCreateArgs_HNSW(t *testing.T) {
	def, err := db.NewIndex("rag:docs:idx").
		Prefix("rag:docs:doc:").
		Numeric("created_at").
		VectorHNSW("__vector", "vector", 384, db.DistanceCosine, 16, 200).
		Build()
	if err != nil {
		t.Fatalf("build index: %v", err)
	}

	args, err := CreateArgs(def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "rag:docs:idx ON HASH PREFIX 1 rag:docs:doc: SCHEMA created_at NUMERIC " +
		"__vector AS vector VECTOR HNSW 10 TYPE FLOAT32 DIM 384 DISTANCE_METRIC COSINE M 16 EF_CONSTRUCTION 200"
	if got := strings.Join(args, " "); got != want {
		t.Errorf("args =\n%s\nwant\n%s", got, want)
	}
}

func TestCreateArgs_FlatBlockSize(t *testing.T) {
	def, err := db.NewIndex("rag:docs:idx").
		Prefix("rag:docs:doc:").
		VectorFlat("__vector", "vector", 384, db.DistanceCosine, 1024).
		Build()
	if err != nil {
		t.Fatalf("build index: %v", err)
	}

	args, err := CreateArgs(def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "rag:docs:idx ON HASH PREFIX 1 rag:docs:doc: SCHEMA " +
		"__vector AS vector VECTOR FLAT 8 TYPE FLOAT32 DIM 384 DISTANCE_METRIC COSINE BLOCK_SIZE 1024"
	if got := strings.Join(args, " "); got != want {
		t.Errorf("args =\n%s\nwant\n%s", got, want)
	}
}

func TestCreateArgs_FlatDefaults(t *testing.T) {
	def := &db.IndexDefinition{
		Name: "idx",
		Fields: []db.IndexField{
			{Name: "v", Type: db.IndexFieldVector, VectorDim: 4},
		},
	}

	args, err := CreateArgs(def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "idx ON HASH SCHEMA v VECTOR FLAT 6 TYPE FLOAT32 DIM 4 DISTANCE_METRIC COSINE"
	if got := strings.Join(args, " "); got != want {
		t.Errorf("args = %q, want %q", got, want)
	}
}

func TestCreateArgs_Errors(t *testing.T) {
	tests := []struct {
		name string
		def  *db.IndexDefinition
	}{
		{"no name", &db.IndexDefinition{Fields: []db.IndexField{{Name: "a"}}}},
		{"no fields", &db.IndexDefinition{Name: "idx"}},
		{"zero dim", &db.IndexDefinition{Name: "idx", Fields: []db.IndexField{
			{Name: "v", Type: db.IndexFieldVector},
		}}},
		{"unknown type", &db.IndexDefinition{Name: "idx", Fields: []db.IndexField{
			{Name: "v", Type: db.IndexFieldType(99)},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CreateArgs(tt.def); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestKNNArgs(t *testing.T) {
	args, err := KNNArgs(&db.KNNQuery{
		IndexName:    "idx",
		Vector:       []float32{1, 0},
		K:            3,
		EFRuntime:    100,
		ReturnFields: []string{"text", "metadata"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if args[0] != "idx" {
		t.Errorf("args[0] = %q, want idx", args[0])
	}
	if args[1] != "*=>[KNN 3 @vector $BLOB EF_RUNTIME 100]" {
		t.Errorf("query = %q", args[1])
	}
	joined := strings.Join(args[2:6], " ")
	if joined != "RETURN 3 text metadata" {
		t.Errorf("return clause = %q", joined)
	}
	if args[6] != db.ScoreField {
		t.Errorf("expected score field in RETURN, got %q", args[6])
	}
	if strings.Join(args[7:10], " ") != "LIMIT 0 3" {
		t.Errorf("limit clause = %v", args[7:10])
	}
	if args[len(args)-1] != "2" || args[len(args)-2] != "DIALECT" {
		t.Errorf("expected DIALECT 2 at the end, got %v", args[len(args)-2:])
	}
	blob := args[len(args)-3]
	if len(blob) != 8 {
		t.Errorf("blob length = %d, want 8", len(blob))
	}
}

func TestKNNArgs_PoolNeverBelowK(t *testing.T) {
	args, err := KNNArgs(&db.KNNQuery{IndexName: "idx", Vector: []float32{1}, K: 50, EFRuntime: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if args[1] != "*=>[KNN 50 @vector $BLOB EF_RUNTIME 50]" {
		t.Errorf("query = %q", args[1])
	}
}

func TestKNNArgs_NoPool(t *testing.T) {
	args, err := KNNArgs(&db.KNNQuery{IndexName: "idx", Vector: []float32{1}, K: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if args[1] != "*=>[KNN 5 @vector $BLOB]" {
		t.Errorf("query = %q", args[1])
	}
}

func TestKNNArgs_Validation(t *testing.T) {
	tests := []struct {
		name string
		q    db.KNNQuery
		want string
	}{
		{"no index", db.KNNQuery{Vector: []float32{1}, K: 1}, "index name is required"},
		{"no vector", db.KNNQuery{IndexName: "idx", K: 1}, "vector is required"},
		{"zero k", db.KNNQuery{IndexName: "idx", Vector: []float32{1}}, "k must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := KNNArgs(&tt.q)
			if err == nil || err.Error() != tt.want {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestErrorClassifiers(t *testing.T) {
	if !IsIndexExists("Index already exists") {
		t.Error("redis message not classified as exists")
	}
	if !IsIndexExists("Index with name 'idx' already exists") {
		t.Error("valkey message not classified as exists")
	}
	for _, msg := range []string{"Unknown Index name", "idx: no such index", "Index with name 'idx' not found"} {
		if !IsUnknownIndex(msg) {
			t.Errorf("IsUnknownIndex(%q) = false", msg)
		}
	}
	if IsUnknownIndex("ERR syntax error") {
		t.Error("syntax error classified as unknown index")
	}
}
