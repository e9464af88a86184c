package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecrag/internal/metrics"
)

// RouterOptions configures the middleware stack.
type RouterOptions struct {
	APIKeys []string
	Logger  *zap.Logger
}

// NewRouter builds the HTTP handler: middleware stack plus API routes.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	lg := opts.Logger
	if lg == nil {
		lg = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(JSONRecoverer(lg))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEvent(lg))
	r.Use(BearerAuthMiddleware(opts.APIKeys))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})

	s.Routes(r)
	return r
}

// Routes registers the API endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/insert-one", s.InsertOne)
	r.Post("/insert-many", s.InsertMany)
	r.Post("/upload-json", s.UploadJSON)
	r.Post("/insert-json", s.InsertJSON)
	r.Post("/query", s.Query)

	r.Get("/health", s.Health)
	r.Get("/ready", s.Ready)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}
