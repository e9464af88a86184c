package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecrag/internal/domain"
	domdoc "github.com/kailas-cloud/vecrag/internal/domain/document"
	"github.com/kailas-cloud/vecrag/internal/domain/search/request"
	"github.com/kailas-cloud/vecrag/internal/domain/search/result"
	"github.com/kailas-cloud/vecrag/internal/logger"
	healthuc "github.com/kailas-cloud/vecrag/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/vecrag/internal/usecase/ingest"
)

// DefaultMaxBodyBytes bounds JSON request bodies.
const DefaultMaxBodyBytes = 32 << 20

const (
	// multipartOverhead is the slack allowed on top of the file for multipart framing.
	multipartOverhead = 1 << 20
	// multipartMemory is how much of a form is kept in memory before spilling to disk.
	multipartMemory = 32 << 20
)

// Ingester stores documents from any ingestion source.
type Ingester interface {
	Ingest(ctx context.Context, src ingestuc.Source) (ingestuc.Result, error)
}

// Querier answers similarity queries.
type Querier interface {
	NewRequest(text string, topK *int) (request.Request, error)
	Search(ctx context.Context, req *request.Request) ([]result.Result, error)
}

// ReadinessChecker reports dependency health.
type ReadinessChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers of the ingestion and query API.
type Server struct {
	ingest        Ingester
	query         Querier
	health        ReadinessChecker
	logger        *zap.Logger
	maxBodyBytes  int64
	maxUpload     int64
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(ingest Ingester, query Querier, health ReadinessChecker, logger *zap.Logger) *Server {
	s := &Server{
		ingest:       ingest,
		query:        query,
		health:       health,
		logger:       logger,
		maxBodyBytes: DefaultMaxBodyBytes,
		maxUpload:    ingestuc.DefaultMaxUploadBytes,
	}
	// Order matters: provider failures may also carry a dimension mismatch.
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorCodeRateLimited, false),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, ErrorCodeEmbeddingError, false),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, ErrorCodeVectorDimMismatch, true),
		sentinelHandler(domain.ErrMissingText, http.StatusBadRequest, ErrorCodeBadRequest, true),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, ErrorCodeBadRequest, true),
		sentinelHandler(domain.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge, true),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound, true),
		maxBytesHandler,
	}
	return s
}

// WithLimits sets the JSON body and upload size limits.
func (s *Server) WithLimits(maxBodyBytes, maxUploadBytes int64) *Server {
	if maxBodyBytes > 0 {
		s.maxBodyBytes = maxBodyBytes
	}
	if maxUploadBytes > 0 {
		s.maxUpload = maxUploadBytes
	}
	return s
}

// InsertOne handles POST /insert-one.
func (s *Server) InsertOne(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	raw, err := domdoc.ParseOne(body)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.runIngest(w, r, ingestuc.SingleSource{Raw: raw})
}

// InsertMany handles POST /insert-many.
func (s *Server) InsertMany(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	raws, err := domdoc.ParseMany(body)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.runIngest(w, r, ingestuc.ManySource{Raws: raws})
}

// InsertJSON handles POST /insert-json.
func (s *Server) InsertJSON(w http.ResponseWriter, r *http.Request) {
	var req InsertJSONRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "path is required")
		return
	}
	s.runIngest(w, r, ingestuc.FileSource{Path: req.Path})
}

// UploadJSON handles POST /upload-json (multipart, field "file").
func (s *Server) UploadJSON(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+multipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid multipart body")
		return
	}
	form, err := mr.ReadForm(multipartMemory)
	if err != nil {
		if maxBytesHandler(w, err) {
			return
		}
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid multipart body")
		return
	}
	defer func() { _ = form.RemoveAll() }()

	var req UploadJSONMultipartBody
	if err := runtime.BindForm(&req, form.Value, form.File, nil); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid multipart body")
		return
	}
	if req.File.Filename() == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "file is required")
		return
	}
	if req.File.FileSize() > s.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge,
			fmt.Sprintf("upload exceeds %d bytes", s.maxUpload))
		return
	}

	body, err := req.File.Reader()
	if err != nil {
		s.handleDomainError(w, r, fmt.Errorf("open upload: %w", err))
		return
	}
	defer body.Close()

	s.runIngest(w, r, ingestuc.UploadSource{Filename: req.File.Filename(), Body: body})
}

// Query handles POST /query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	q, err := s.query.NewRequest(req.Text, req.TopK)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	results, err := s.query.Search(r.Context(), &q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := QueryResponse{Results: make([]QueryResult, 0, len(results))}
	for i := range results {
		resp.Results = append(resp.Results, queryResultToAPI(&results[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Health handles GET /health. It only reports that the process is serving.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready handles GET /ready.
func (s *Server) Ready(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{Status: string(report.Status), Checks: checks})
}

func (s *Server) runIngest(w http.ResponseWriter, r *http.Request, src ingestuc.Source) {
	res, err := s.ingest.Ingest(r.Context(), src)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, insertResponse(res))
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		if !maxBytesHandler(w, err) {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "cannot read request body")
		}
		return nil, false
	}
	return body, true
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body, ok := s.readBody(w, r)
	if !ok {
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	lg := s.requestLogger(r)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			lg.Warn("domain error", zap.Error(err))
			return
		}
	}
	lg.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	return logger.FromContextOr(r.Context(), s.logger)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// Client errors carry the full message, upstream failures only the sentinel text.
func sentinelHandler(sentinel error, status int, code ErrorCode, detailed bool) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := sentinel.Error()
		if detailed {
			msg = err.Error()
		}
		writeError(w, status, code, msg)
		return true
	}
}

func maxBytesHandler(w http.ResponseWriter, err error) bool {
	var mbe *http.MaxBytesError
	if !errors.As(err, &mbe) {
		return false
	}
	writeError(w, http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge,
		fmt.Sprintf("request body exceeds %d bytes", mbe.Limit))
	return true
}

func insertResponse(res ingestuc.Result) InsertResponse {
	msg := fmt.Sprintf("Inserted %d documents", res.Inserted)
	if res.Inserted == 1 {
		msg = "Inserted one document"
	}
	return InsertResponse{Message: msg, Inserted: res.Inserted, Skipped: res.Skipped}
}

func queryResultToAPI(r *result.Result) QueryResult {
	return QueryResult{
		ID:       r.ID(),
		Text:     r.Text(),
		Metadata: r.Metadata(),
		Score:    r.Score(),
	}
}
