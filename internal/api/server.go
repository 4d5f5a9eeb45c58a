// Package api provides the HTTP grading service. The orchestration
// layer (prompt building, rollout loops) talks to this surface; grading
// always regenerates the instance from (archetype, seed), so responses
// never depend on a transported (and possibly tampered) task body.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soupgym/soupgym/internal/gen"
	"github.com/soupgym/soupgym/internal/sandbox"
	"github.com/soupgym/soupgym/internal/store"
	"github.com/soupgym/soupgym/internal/verify"
)

// Server is the soupgym HTTP API server.
type Server struct {
	registry *gen.Registry
	executor sandbox.Executor
	engine   *verify.Engine
	db       *store.DB // nil disables manifest/result endpoints

	reasons        []string
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(registry *gen.Registry, executor sandbox.Executor, engine *verify.Engine) *Server {
	return &Server{
		registry: registry,
		executor: executor,
		engine:   engine,
		reasons:  registry.LimitReasons(),
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetStore attaches the manifest/result store.
func (s *Server) SetStore(db *store.DB) { s.db = db }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/archetypes", s.handleArchetypes)
		r.Post("/tasks", s.handleTask)
		r.Post("/exec", s.handleExec)
		r.Post("/grade", s.handleGrade)
		if s.db != nil {
			r.Get("/manifests", s.handleManifests)
			r.Get("/manifests/{version}", s.handleManifestEntries)
			r.Get("/results", s.handleResults)
		}
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
