package vecrag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecrag/internal/app"
	"github.com/kailas-cloud/vecrag/internal/config"
	domdoc "github.com/kailas-cloud/vecrag/internal/domain/document"
	"github.com/kailas-cloud/vecrag/internal/domain/search/request"
	"github.com/kailas-cloud/vecrag/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/vecrag/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/vecrag/internal/usecase/ingest"
)

const defaultReadinessTimeoutSec = 10

// Внутренние интерфейсы для подмены в тестах.
type ingestUseCase interface {
	Ingest(ctx context.Context, src ingestuc.Source) (ingestuc.Result, error)
}

type queryUseCase interface {
	NewRequest(text string, topK *int) (request.Request, error)
	Search(ctx context.Context, req *request.Request) ([]result.Result, error)
}

type documentReader interface {
	Get(ctx context.Context, id string) (domdoc.Document, error)
}

type indexManager interface {
	Ensure(ctx context.Context) (bool, error)
	Drop(ctx context.Context) error
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the vecrag SDK entry point.
type Client struct {
	app       *app.App
	ingestSvc ingestUseCase
	querySvc  queryUseCase
	docs      documentReader
	index     indexManager
	healthSvc healthUseCase
	obs       *observer
}

// New opens the store and wires the ingestion and query pipeline.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{name: "rag", collection: "docs"}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.url == "" {
		return nil, errors.New("vecrag: database required (use WithValkey, WithRedis or WithSQLite)")
	}
	if cfg.embedder == nil {
		return nil, errors.New("vecrag: embedder required (use WithEmbedder)")
	}
	if cfg.vectorDimensions <= 0 {
		return nil, errors.New("vecrag: vector dimensions required (use WithVectorDimensions)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	appCfg := toAppConfig(cfg)
	store, err := app.OpenStore(ctx, appCfg.Database)
	if err != nil {
		return nil, fmt.Errorf("vecrag: %w", err)
	}

	a := app.New(&appCfg, store, adaptEmbedder(cfg.embedder), zap.NewNop())
	return &Client{
		app:       a,
		ingestSvc: a.Ingest,
		querySvc:  a.Query,
		docs:      a.Documents,
		index:     a.Index,
		healthSvc: a.Health,
		obs:       obs,
	}, nil
}

// toAppConfig maps SDK options onto the service configuration.
func toAppConfig(cfg *clientConfig) config.Config {
	c := config.Config{
		Database: config.DatabaseConfig{
			Driver:           cfg.driver,
			URL:              cfg.url,
			Name:             cfg.name,
			Collection:       cfg.collection,
			ReadinessTimeout: defaultReadinessTimeoutSec,
		},
		Embedding: config.EmbeddingConfig{
			Provider:   "sdk",
			Model:      "custom",
			Dimensions: cfg.vectorDimensions,
		},
		Index: config.IndexConfig{
			HNSWM:           cfg.hnswM,
			HNSWEFConstruct: cfg.hnswEFConstruct,
			FlatBlockSize:   cfg.flatBlockSize,
		},
		Search: config.SearchConfig{NumCandidates: cfg.candidatePool},
		Ingest: config.IngestConfig{MaxBatchSize: cfg.maxBatchSize},
	}
	if cfg.flat {
		c.Index.Algorithm = "flat"
	}
	c.ApplyDefaults()
	return c
}

// Close releases all resources.
func (c *Client) Close() {
	if c.app != nil {
		c.app.Close()
	}
}

// EnsureIndex creates the vector index when missing. Returns true if created.
func (c *Client) EnsureIndex(ctx context.Context) (created bool, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ensure_index", start, err) }()

	created, err = c.index.Ensure(ctx)
	if err != nil {
		return false, fmt.Errorf("ensure index: %w", err)
	}
	return created, nil
}

// DropIndex removes the vector index. Documents are kept.
func (c *Client) DropIndex(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("drop_index", start, err) }()

	if err = c.index.Drop(ctx); err != nil {
		return fmt.Errorf("drop index: %w", err)
	}
	return nil
}

// Insert stores documents, embedding the ones without a vector.
// Documents with blank text are skipped.
func (c *Client) Insert(ctx context.Context, docs ...Document) (res InsertResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("insert", start, err) }()

	raws := make([]domdoc.Raw, len(docs))
	for i, d := range docs {
		raws[i] = domdoc.Raw{Text: d.Text, Metadata: d.Metadata, Embedding: d.Embedding}
	}

	r, err := c.ingestSvc.Ingest(ctx, ingestuc.ManySource{Raws: raws})
	if err != nil {
		return InsertResult{}, fmt.Errorf("insert: %w", err)
	}
	return InsertResult{Inserted: r.Inserted, Skipped: r.Skipped}, nil
}

// InsertFile stores the documents of a local JSON file holding either an
// array of documents or a single document object.
func (c *Client) InsertFile(ctx context.Context, path string) (res InsertResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("insert_file", start, err) }()

	r, err := c.ingestSvc.Ingest(ctx, ingestuc.LocalFileSource{Path: path})
	if err != nil {
		return InsertResult{}, fmt.Errorf("insert file %s: %w", path, err)
	}
	return InsertResult{Inserted: r.Inserted, Skipped: r.Skipped}, nil
}

// Query returns the documents most similar to text, best first.
// topK <= 0 selects the default of 3.
func (c *Client) Query(ctx context.Context, text string, topK int) (hits []SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("query", start, err) }()

	var k *int
	if topK > 0 {
		k = &topK
	}
	req, err := c.querySvc.NewRequest(text, k)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	results, err := c.querySvc.Search(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	hits = make([]SearchResult, len(results))
	for i := range results {
		r := &results[i]
		hits[i] = SearchResult{ID: r.ID(), Text: r.Text(), Metadata: r.Metadata(), Score: r.Score()}
	}
	return hits, nil
}

// Get reads a stored document by id.
func (c *Client) Get(ctx context.Context, id string) (doc StoredDocument, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get", start, err) }()

	d, err := c.docs.Get(ctx, id)
	if err != nil {
		return StoredDocument{}, fmt.Errorf("get document: %w", err)
	}
	return StoredDocument{
		ID:        d.ID(),
		Text:      d.Text(),
		Metadata:  d.Metadata(),
		CreatedAt: d.CreatedAt(),
	}, nil
}

// Health checks the store, the index and the embedder.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
