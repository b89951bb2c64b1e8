package api

import (
	"net/http"

	"github.com/dgallion1/docbrief/internal/batch"
	"github.com/dgallion1/docbrief/internal/config"
	"github.com/dgallion1/docbrief/internal/loader"
	"github.com/dgallion1/docbrief/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server is the HTTP API server for docbrief.
type Server struct {
	router  chi.Router
	docs    *loader.Cache
	runner  *batch.Runner
	history *batch.History
	metrics *metrics.Metrics
	log     *zap.Logger
	cfg     config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(docs *loader.Cache, runner *batch.Runner, history *batch.History, m *metrics.Metrics, log *zap.Logger, cfg config.Config) *Server {
	s := &Server{
		docs:    docs,
		runner:  runner,
		history: history,
		metrics: m,
		log:     log,
		cfg:     cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log, s.metrics))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	// Authenticated endpoints when an API key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Get("/api/documents", s.handleListDocuments)
		r.Post("/api/documents", s.handleUploadDocument)
		r.Delete("/api/documents/{name}", s.handleDeleteDocument)
		r.Post("/api/documents/reload", s.handleReloadDocuments)

		r.Post("/api/prompts/{kind}", s.handlePrompt)
		r.Post("/api/prompts/{kind}/download", s.handlePromptDownload)

		r.Post("/api/batch", s.handleBatchRun)
		r.Get("/api/batch/{runID}", s.handleBatchStatus)

		r.Get("/api/stats/prompts", s.handlePromptStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
