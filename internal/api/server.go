package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/docsift/internal/config"
	"github.com/dgallion1/docsift/internal/llm"
	"github.com/dgallion1/docsift/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for docsift.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	client       llm.Client
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. client may be nil, in
// which case the stats endpoint reports unavailable.
func NewServer(orch *pipeline.Orchestrator, client llm.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		client:       client,
		log:          log,
		cfg:          cfg,
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
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.DocsiftAPIKey, s.log))

		r.Post("/api/outline", s.handleOutline)
		r.Post("/api/rank", s.handleRank)

		r.Get("/api/jobs", s.handleListJobs)
		r.Get("/api/jobs/{jobID}/status", s.handleJobStatus)
		r.Get("/api/jobs/{jobID}/result", s.handleJobResult)
		r.Delete("/api/jobs/{jobID}", s.handleDeleteJob)

		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
