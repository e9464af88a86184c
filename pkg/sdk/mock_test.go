package vecrag

import (
	"context"

	domdoc "github.com/kailas-cloud/vecrag/internal/domain/document"
	"github.com/kailas-cloud/vecrag/internal/domain/search/request"
	"github.com/kailas-cloud/vecrag/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/vecrag/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/vecrag/internal/usecase/ingest"
)

// --- ingestUseCase mock ---

type mockIngestUC struct {
	ingestFn func(ctx context.Context, src ingestuc.Source) (ingestuc.Result, error)
}

func (m *mockIngestUC) Ingest(ctx context.Context, src ingestuc.Source) (ingestuc.Result, error) {
	return m.ingestFn(ctx, src)
}

// --- queryUseCase mock ---

type mockQueryUC struct {
	searchFn func(ctx context.Context, req *request.Request) ([]result.Result, error)
}

func (m *mockQueryUC) NewRequest(text string, topK *int) (request.Request, error) {
	return request.New(text, topK, 3, 100)
}

func (m *mockQueryUC) Search(ctx context.Context, req *request.Request) ([]result.Result, error) {
	return m.searchFn(ctx, req)
}

// --- documentReader mock ---

type mockDocs struct {
	getFn func(ctx context.Context, id string) (domdoc.Document, error)
}

func (m *mockDocs) Get(ctx context.Context, id string) (domdoc.Document, error) {
	return m.getFn(ctx, id)
}

// --- indexManager mock ---

type mockIndex struct {
	ensureFn func(ctx context.Context) (bool, error)
	dropFn   func(ctx context.Context) error
}

func (m *mockIndex) Ensure(ctx context.Context) (bool, error) { return m.ensureFn(ctx) }

func (m *mockIndex) Drop(ctx context.Context) error { return m.dropFn(ctx) }

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- embedder mocks ---

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

type mockBatchEmbedder struct {
	mockEmbedder
	batchFn func(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

func (m *mockBatchEmbedder) BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error) {
	return m.batchFn(ctx, texts)
}

// --- helpers ---

func testClient(ing ingestUseCase, q queryUseCase, docs documentReader, idx indexManager) *Client {
	return &Client{
		ingestSvc: ing,
		querySvc:  q,
		docs:      docs,
		index:     idx,
	}
}
