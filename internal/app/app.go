// Package app is the composition root shared by the server and the CLI:
// it opens the store, assembles the embedder chain and builds the use cases.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecrag/internal/config"
	"github.com/kailas-cloud/vecrag/internal/db"
	dbRedis "github.com/kailas-cloud/vecrag/internal/db/redis"
	dbSqlite "github.com/kailas-cloud/vecrag/internal/db/sqlite"
	dbValkey "github.com/kailas-cloud/vecrag/internal/db/valkey"
	"github.com/kailas-cloud/vecrag/internal/domain"
	documentrepo "github.com/kailas-cloud/vecrag/internal/repository/document"
	indexrepo "github.com/kailas-cloud/vecrag/internal/repository/index"
	"github.com/kailas-cloud/vecrag/internal/repository/keyspace"
	searchrepo "github.com/kailas-cloud/vecrag/internal/repository/search"
	openaiEmb "github.com/kailas-cloud/vecrag/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/vecrag/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/vecrag/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/vecrag/internal/usecase/ingest"
	queryuc "github.com/kailas-cloud/vecrag/internal/usecase/query"
)

// App holds the wired repositories and use cases.
type App struct {
	Store     db.Store
	Index     *indexrepo.Repo
	Documents *documentrepo.Repo
	Model     *embeddinguc.ResidentEmbedder
	Ingest    *ingestuc.Service
	Query     *queryuc.Service
	Health    *healthuc.Service

	logger *zap.Logger
}

// OpenStore connects to the configured document store and waits until it answers.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig) (db.Store, error) {
	var (
		store db.Store
		err   error
	)
	switch cfg.Driver {
	case "valkey":
		store, err = dbValkey.NewStore(dbValkey.Config{URL: cfg.URL})
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{URL: cfg.URL})
	case "sqlite":
		store, err = dbSqlite.NewStore(ctx, dbSqlite.Config{URL: cfg.URL})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	return store, nil
}

// NewProvider creates the OpenAI-compatible embedding client from config.
func NewProvider(cfg config.EmbeddingConfig, logger *zap.Logger) domain.Embedder {
	return openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   cfg.Provider,
		Timeout:    time.Duration(cfg.TimeoutSec) * time.Second,
		Logger:     logger,
	})
}

// New wires repositories and use cases over store. provider is the raw
// embedding client; New wraps it into the instrumented, resident chain.
func New(cfg *config.Config, store db.Store, provider domain.Embedder, logger *zap.Logger) *App {
	keys := keyspace.New(cfg.Database.Name, cfg.Database.Collection)
	dim := cfg.Embedding.Dimensions

	instrumented := embeddinguc.NewInstrumentedEmbedder(provider, cfg.Embedding.Provider, cfg.Embedding.Model, logger).
		WithChunkSize(cfg.Embedding.MaxBatch)
	model := embeddinguc.NewResidentEmbedder(instrumented, dim, logger)
	docEmbedder := withInstruction(model, cfg.Embedding.DocumentInstruction)
	queryEmbedder := withInstruction(model, cfg.Embedding.QueryInstruction)

	index := indexrepo.New(store, keys, dim)
	search := searchrepo.New(store, keys).WithCandidatePool(cfg.Search.NumCandidates)
	if cfg.Index.Algorithm == "flat" {
		index.WithFlat(indexrepo.FlatConfig{BlockSize: cfg.Index.FlatBlockSize})
		search.WithExactSearch()
	} else {
		index.WithHNSW(indexrepo.HNSWConfig{
			M:           cfg.Index.HNSWM,
			EFConstruct: cfg.Index.HNSWEFConstruct,
		})
	}
	documents := documentrepo.New(store, keys)

	return &App{
		Store:     store,
		Index:     index,
		Documents: documents,
		Model:     model,
		Ingest: ingestuc.New(documents, docEmbedder, dim).
			WithUploads(cfg.Ingest.UploadDir, int64(cfg.Ingest.MaxUploadMB)<<20).
			WithImportDir(cfg.Ingest.ImportDir).
			WithMaxBatchSize(cfg.Ingest.MaxBatchSize),
		Query: queryuc.New(search, queryEmbedder).
			WithLimits(cfg.Search.DefaultTopK, cfg.Search.MaxTopK),
		Health: healthuc.New(store, index, model).WithModel(model),
		logger: logger,
	}
}

// EnsureIndex creates the vector index when it does not exist yet.
func (a *App) EnsureIndex(ctx context.Context) error {
	created, err := a.Index.Ensure(ctx)
	if err != nil {
		return fmt.Errorf("ensure index %s: %w", a.Index.Name(), err)
	}
	if created {
		a.logger.Info("Created vector index", zap.String("index", a.Index.Name()))
	} else {
		a.logger.Debug("Vector index already exists", zap.String("index", a.Index.Name()))
	}
	return nil
}

// Close releases the store connection.
func (a *App) Close() {
	a.Store.Close()
}

func withInstruction(e domain.Embedder, instruction string) domain.Embedder {
	if instruction == "" {
		return e
	}
	return domain.NewInstructionEmbedder(e, instruction)
}
