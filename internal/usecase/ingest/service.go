package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecrag/internal/domain"
	domdoc "github.com/kailas-cloud/vecrag/internal/domain/document"
	"github.com/kailas-cloud/vecrag/internal/logger"
	"github.com/kailas-cloud/vecrag/internal/metrics"
)

// Defaults for the ingestion limits.
const (
	DefaultMaxBatchSize   = 1000
	DefaultMaxUploadBytes = 32 << 20
)

// Result reports the outcome of one ingestion call.
type Result struct {
	Inserted int
	Skipped  int
}

// Service normalizes every Source into raw documents, embeds the ones
// without a vector and stores the batch in one call.
type Service struct {
	repo     Repository
	embedder Embedder
	dim      int

	uploadDir      string
	importDir      string
	maxUploadBytes int64
	maxBatchSize   int
}

// New creates an ingestion service for vectors of dim dimensions.
func New(repo Repository, embedder Embedder, dim int) *Service {
	return &Service{
		repo:           repo,
		embedder:       embedder,
		dim:            dim,
		uploadDir:      os.TempDir(),
		maxUploadBytes: DefaultMaxUploadBytes,
		maxBatchSize:   DefaultMaxBatchSize,
	}
}

// WithUploads configures where uploads are spooled and their size limit.
func (s *Service) WithUploads(dir string, maxBytes int64) *Service {
	if dir != "" {
		s.uploadDir = dir
	}
	if maxBytes > 0 {
		s.maxUploadBytes = maxBytes
	}
	return s
}

// WithImportDir enables FileSource ingestion from dir. Empty disables it.
func (s *Service) WithImportDir(dir string) *Service {
	s.importDir = dir
	return s
}

// WithMaxBatchSize limits the number of candidates per call.
func (s *Service) WithMaxBatchSize(n int) *Service {
	if n > 0 {
		s.maxBatchSize = n
	}
	return s
}

// MaxUploadBytes returns the upload size limit.
func (s *Service) MaxUploadBytes() int64 { return s.maxUploadBytes }

// Ingest stores the documents of src and reports how many were inserted
// and how many were skipped for lacking text.
func (s *Service) Ingest(ctx context.Context, src Source) (res Result, err error) {
	if src == nil {
		return Result{}, fmt.Errorf("%w: source is required", domain.ErrInvalidInput)
	}

	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.IngestDuration.WithLabelValues(string(src.Kind()), status).Observe(time.Since(start).Seconds())
	}()

	raws, err := s.load(ctx, src)
	if err != nil {
		return Result{}, err
	}

	res, err = s.store(ctx, raws)
	if err != nil {
		return Result{}, err
	}

	metrics.DocumentsIngestedTotal.WithLabelValues(string(src.Kind())).Add(float64(res.Inserted))
	metrics.DocumentsSkippedTotal.WithLabelValues(string(src.Kind())).Add(float64(res.Skipped))

	logger.FromContext(ctx).Debug("Ingestion completed",
		zap.String("source", string(src.Kind())),
		zap.Int("inserted", res.Inserted),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}

// load normalizes src into raw documents.
func (s *Service) load(ctx context.Context, src Source) ([]domdoc.Raw, error) {
	switch v := src.(type) {
	case SingleSource:
		if !v.Raw.HasText() {
			return nil, domain.ErrMissingText
		}
		return []domdoc.Raw{v.Raw}, nil
	case ManySource:
		return v.Raws, nil
	case FileSource:
		data, err := s.readImport(v.Path)
		if err != nil {
			return nil, err
		}
		return domdoc.ParseFile(data)
	case LocalFileSource:
		data, err := readLocal(v.Path)
		if err != nil {
			return nil, err
		}
		return domdoc.ParseFile(data)
	case UploadSource:
		return s.loadUpload(ctx, v)
	default:
		return nil, fmt.Errorf("%w: unsupported source %T", domain.ErrInvalidInput, src)
	}
}

// loadUpload spools the upload, parses it and removes the file on every path.
func (s *Service) loadUpload(ctx context.Context, src UploadSource) ([]domdoc.Raw, error) {
	if src.Body == nil {
		return nil, fmt.Errorf("%w: file is required", domain.ErrInvalidInput)
	}

	path, err := s.spool(src.Filename, src.Body)
	if path != "" {
		defer removeTemp(ctx, path)
	}
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is built by spool
	if err != nil {
		return nil, fmt.Errorf("read upload file: %w", err)
	}
	return domdoc.ParseFile(data)
}

func removeTemp(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.FromContext(ctx).Warn("Failed to remove upload file",
			zap.String("path", path),
			zap.Error(err),
		)
	}
}

// candidate is a raw document that has text, with its position in the input.
type candidate struct {
	pos int
	raw *domdoc.Raw
}

// store embeds whatever lacks a vector and writes the batch.
func (s *Service) store(ctx context.Context, raws []domdoc.Raw) (Result, error) {
	candidates := make([]candidate, 0, len(raws))
	for i := range raws {
		if raws[i].HasText() {
			candidates = append(candidates, candidate{pos: i, raw: &raws[i]})
		}
	}
	skipped := len(raws) - len(candidates)

	if len(candidates) > s.maxBatchSize {
		return Result{}, fmt.Errorf("%w: %d documents exceed the batch limit of %d",
			domain.ErrInvalidInput, len(candidates), s.maxBatchSize)
	}
	if len(candidates) == 0 {
		return Result{Skipped: skipped}, nil
	}

	vectors, err := s.vectors(ctx, candidates)
	if err != nil {
		return Result{}, err
	}

	docs := make([]domdoc.Document, 0, len(candidates))
	for i, c := range candidates {
		doc, err := domdoc.New(c.raw.Content(), c.raw.Metadata, vectors[i])
		if err != nil {
			return Result{}, fmt.Errorf("document %d: %w", c.pos, err)
		}
		docs = append(docs, doc)
	}

	inserted, err := s.repo.InsertMany(ctx, docs)
	if err != nil {
		return Result{}, fmt.Errorf("insert documents: %w", err)
	}
	return Result{Inserted: inserted, Skipped: skipped}, nil
}

// vectors returns one embedding per candidate: provided ones are checked,
// missing ones come from a single batch call.
func (s *Service) vectors(ctx context.Context, candidates []candidate) ([][]float32, error) {
	out := make([][]float32, len(candidates))
	var missing []int
	var texts []string

	for i, c := range candidates {
		if c.raw.HasEmbedding() {
			if err := domdoc.CheckDimensions(c.raw.Embedding, s.dim); err != nil {
				return nil, fmt.Errorf("document %d: %w", c.pos, err)
			}
			out[i] = c.raw.Embedding
			continue
		}
		missing = append(missing, i)
		texts = append(texts, c.raw.Content())
	}

	if len(texts) == 0 {
		return out, nil
	}

	res, err := domain.EmbedAll(ctx, s.embedder, texts)
	if err != nil {
		return nil, fmt.Errorf("vectorize documents: %w", err)
	}
	for j, idx := range missing {
		out[idx] = res.Embeddings[j]
	}
	return out, nil
}
