package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/soupgym/soupgym/internal/domain"
	"github.com/soupgym/soupgym/internal/metrics"
)

// taskRequest identifies one instance. Determinism makes the pair a
// complete reference: both sides can rebuild the exact task from it.
type taskRequest struct {
	ArchetypeID string `json:"archetype_id"`
	Seed        uint64 `json:"seed"`
}

type execRequest struct {
	taskRequest
	Code string `json:"code"`
}

type gradeRequest struct {
	taskRequest
	// FinalAnswer is the raw answer envelope; the validator judges its
	// format, so it is deliberately not parsed here.
	FinalAnswer json.RawMessage   `json:"final_answer"`
	Trace       []domain.ToolCall `json:"trace"`
	Record      bool              `json:"record"`
}

type gradeResponse struct {
	EpisodeID string                  `json:"episode_id"`
	Breakdown *domain.RewardBreakdown `json:"breakdown"`
}

func (s *Server) handleArchetypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"archetypes":    s.registry.IDs(),
		"limit_reasons": s.reasons,
	})
}

// handleTask renders a task for an agent. The response is the redacted
// view: no ground truth, no evidence signatures.
func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	task, err := s.registry.Generate(req.ArchetypeID, req.Seed)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, task.View(s.reasons))
}

func (s *Server) handleExec(w http.ResponseWriter, r *http.Request) {
	var req execRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	task, err := s.registry.Generate(req.ArchetypeID, req.Seed)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	res, err := s.executor.Run(r.Context(), req.Code, task.View(s.reasons))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	observeSandbox(res)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	task, err := s.registry.Generate(req.ArchetypeID, req.Seed)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	bd, err := s.engine.Score(task, req.FinalAnswer, req.Trace)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	metrics.EpisodesGraded.WithLabelValues(task.ArchetypeID, outcomeLabel(&bd)).Inc()
	metrics.RewardDistribution.WithLabelValues(task.ArchetypeID).Observe(bd.Reward)
	if bd.ProcessCredit > 0 {
		metrics.ProcessCreditGranted.WithLabelValues(strconv.Itoa(bd.ProcessTier)).Inc()
	}

	episodeID := uuid.NewString()
	if req.Record && s.db != nil {
		if err := s.db.RecordResult(episodeID, task, &bd); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, gradeResponse{EpisodeID: episodeID, Breakdown: &bd})
}

func (s *Server) handleManifests(w http.ResponseWriter, r *http.Request) {
	versions, err := s.db.Versions()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func (s *Server) handleManifestEntries(w http.ResponseWriter, r *http.Request) {
	version := chi.URLParam(r, "version")
	entries, err := s.db.Entries(version)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := s.db.ListResults(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// observeSandbox records sandbox behavior metrics.
func observeSandbox(res domain.ExecResult) {
	switch {
	case res.TimedOut:
		metrics.SandboxRuns.WithLabelValues("timeout").Inc()
	case res.ExitCode != 0:
		metrics.SandboxRuns.WithLabelValues("nonzero_exit").Inc()
	default:
		metrics.SandboxRuns.WithLabelValues("ok").Inc()
	}
	metrics.SandboxRuntime.Observe(res.Runtime.Seconds())
	if res.Truncated {
		metrics.SandboxTruncations.Inc()
	}
}

// outcomeLabel classifies a breakdown for the episode counter.
func outcomeLabel(bd *domain.RewardBreakdown) string {
	switch {
	case !bd.FormatOK:
		return "format_error"
	case !bd.SchemaOK:
		return "schema_error"
	case bd.SafetyViolation:
		return "safety_violation"
	case bd.Correct:
		return "correct"
	case bd.LimitValid:
		return "limit_valid"
	default:
		return "wrong"
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownArchetype),
		errors.Is(err, domain.ErrManifestNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrManifestFrozen):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
