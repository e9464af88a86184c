package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecrag/internal/config"
	"github.com/kailas-cloud/vecrag/internal/db"
	"github.com/kailas-cloud/vecrag/internal/domain"
	domdoc "github.com/kailas-cloud/vecrag/internal/domain/document"
	"github.com/kailas-cloud/vecrag/internal/metrics"
	healthuc "github.com/kailas-cloud/vecrag/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/vecrag/internal/usecase/ingest"
)

const testDim = 4

func TestMain(m *testing.M) {
	metrics.Register()
	os.Exit(m.Run())
}

// tableEmbedder returns fixed vectors for known texts and a uniform one otherwise.
type tableEmbedder struct {
	vectors map[string][]float32
	seen    []string
}

func newTableEmbedder() *tableEmbedder {
	return &tableEmbedder{vectors: map[string][]float32{
		"valkey stores hashes": {1, 0, 0, 0},
		"cats sleep all day":   {0, 1, 0, 0},
	}}
}

func (e *tableEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	e.seen = append(e.seen, text)
	if v, ok := e.vectors[text]; ok {
		return domain.EmbeddingResult{Embedding: v}, nil
	}
	return domain.EmbeddingResult{Embedding: []float32{1, 1, 1, 1}}, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Config{
		HTTP: config.HTTPConfig{Port: 3000},
		Database: config.DatabaseConfig{
			Driver:     "sqlite",
			URL:        filepath.Join(t.TempDir(), "rag.db"),
			Name:       "rag",
			Collection: "docs",
		},
		Embedding: config.EmbeddingConfig{
			Model:      "test-model",
			Dimensions: testDim,
		},
	}
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())
	return &cfg
}

func newTestApp(t *testing.T, cfg *config.Config, emb domain.Embedder) *App {
	t.Helper()
	ctx := context.Background()

	store, err := OpenStore(ctx, cfg.Database)
	require.NoError(t, err)

	a := New(cfg, store, emb, zap.NewNop())
	t.Cleanup(a.Close)
	require.NoError(t, a.EnsureIndex(ctx))
	return a
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), config.DatabaseConfig{Driver: "mongo", URL: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown database driver")
}

func TestApp_IngestThenQuery(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, testConfig(t), newTableEmbedder())

	res, err := a.Ingest.Ingest(ctx, ingestuc.ManySource{Raws: []domdoc.Raw{
		{Text: "valkey stores hashes", Metadata: map[string]any{"topic": "db"}},
		{Text: "cats sleep all day"},
		{Metadata: map[string]any{"orphan": true}},
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, 1, res.Skipped)

	req, err := a.Query.NewRequest("valkey stores hashes", nil)
	require.NoError(t, err)
	results, err := a.Query.Search(ctx, &req)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "valkey stores hashes", results[0].Text())
	assert.Equal(t, map[string]any{"topic": "db"}, results[0].Metadata())
	assert.InDelta(t, 1.0, results[0].Score(), 1e-6)
	assert.Less(t, results[1].Score(), results[0].Score())

	doc, err := a.Documents.Get(ctx, results[0].ID())
	require.NoError(t, err)
	assert.Equal(t, "valkey stores hashes", doc.Text())
}

func TestApp_EnsureIndexIsIdempotent(t *testing.T) {
	a := newTestApp(t, testConfig(t), newTableEmbedder())

	require.NoError(t, a.EnsureIndex(context.Background()))
	exists, err := a.Index.Exists(context.Background())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestApp_QueryWithoutIndex(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, testConfig(t), newTableEmbedder())
	require.NoError(t, a.Index.Drop(ctx))

	req, err := a.Query.NewRequest("anything", nil)
	require.NoError(t, err)
	_, err = a.Query.Search(ctx, &req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApp_InstructionsPrefixEmbeddings(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Embedding.DocumentInstruction = "passage: "
	cfg.Embedding.QueryInstruction = "query: "
	emb := newTableEmbedder()
	a := newTestApp(t, cfg, emb)

	_, err := a.Ingest.Ingest(ctx, ingestuc.SingleSource{Raw: domdoc.Raw{Text: "hello"}})
	require.NoError(t, err)
	req, err := a.Query.NewRequest("hi", nil)
	require.NoError(t, err)
	_, err = a.Query.Search(ctx, &req)
	require.NoError(t, err)

	assert.Contains(t, emb.seen, "passage: hello")
	assert.Contains(t, emb.seen, "query: hi")
}

func TestApp_Health(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, testConfig(t), newTableEmbedder())

	require.False(t, a.Model.Ready())
	report := a.Health.Check(ctx)
	assert.True(t, report.Healthy())
	assert.Equal(t, healthuc.CheckOK, report.Checks[healthuc.ComponentIndex])
	assert.Equal(t, healthuc.CheckOK, report.Checks[healthuc.ComponentModel])
	assert.True(t, a.Model.Ready())

	require.NoError(t, a.Index.Drop(ctx))
	report = a.Health.Check(ctx)
	assert.False(t, report.Healthy())
	assert.Equal(t, healthuc.CheckError, report.Checks[healthuc.ComponentIndex])
}

func TestApp_FlatIndex(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Index.Algorithm = "flat"
	cfg.Index.FlatBlockSize = 64
	a := newTestApp(t, cfg, newTableEmbedder())

	assert.Equal(t, db.VectorFlat, a.Index.Algorithm())

	_, err := a.Ingest.Ingest(ctx, ingestuc.ManySource{Raws: []domdoc.Raw{
		{Text: "valkey stores hashes"},
		{Text: "cats sleep all day"},
	}})
	require.NoError(t, err)

	req, err := a.Query.NewRequest("cats sleep all day", nil)
	require.NoError(t, err)
	results, err := a.Query.Search(ctx, &req)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "cats sleep all day", results[0].Text())
}

// countingBatchEmbedder records the size of every batch call.
type countingBatchEmbedder struct {
	batches []int
}

func (e *countingBatchEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{Embedding: []float32{1, 0, 0, 0}}, nil
}

func (e *countingBatchEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	e.batches = append(e.batches, len(texts))
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0, 0}
	}
	return domain.BatchEmbeddingResult{Embeddings: out}, nil
}

func TestApp_EmbeddingMaxBatch(t *testing.T) {
	cfg := testConfig(t)
	cfg.Embedding.MaxBatch = 2
	emb := &countingBatchEmbedder{}
	a := newTestApp(t, cfg, emb)

	raws := []domdoc.Raw{{Text: "a"}, {Text: "b"}, {Text: "c"}, {Text: "d"}, {Text: "e"}}
	res, err := a.Ingest.Ingest(context.Background(), ingestuc.ManySource{Raws: raws})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Inserted)
	assert.Equal(t, []int{2, 2, 1}, emb.batches)
}

type brokenEmbedder struct{}

func (brokenEmbedder) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{Embedding: []float32{1}}, nil
}

func TestApp_ModelDimensionCheckedOnWarm(t *testing.T) {
	a := newTestApp(t, testConfig(t), brokenEmbedder{})

	err := a.Model.Warm(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEmbeddingProviderError))
	assert.False(t, a.Model.Ready())
}
