// Package metrics provides Prometheus metrics for soupgym grading:
// counters and histograms for episodes, rewards, and sandbox behavior.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Grading ────────────────────────────────────────────────────────────────

// EpisodesGraded counts graded episodes by archetype and outcome
// (correct, wrong, limit_valid, format_error, schema_error,
// safety_violation).
var EpisodesGraded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "soupgym",
	Name:      "episodes_graded_total",
	Help:      "Total graded episodes.",
}, []string{"archetype", "outcome"})

// RewardDistribution tracks the final scalar reward per archetype.
var RewardDistribution = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "soupgym",
	Name:      "reward",
	Help:      "Final reward per graded episode.",
	Buckets:   []float64{-0.5, -0.25, 0, 0.1, 0.25, 0.3, 0.5, 0.75, 1},
}, []string{"archetype"})

// ProcessCreditGranted counts wrong-answer episodes that earned
// process credit, by tier.
var ProcessCreditGranted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "soupgym",
	Name:      "process_credit_total",
	Help:      "Episodes granted process partial credit.",
}, []string{"tier"})

// ─── Sandbox ────────────────────────────────────────────────────────────────

// SandboxRuns counts sandbox executions by result class
// (ok, nonzero_exit, timeout).
var SandboxRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "soupgym",
	Name:      "sandbox_runs_total",
	Help:      "Total sandbox executions.",
}, []string{"result"})

// SandboxRuntime tracks sandbox wall-clock runtime in seconds.
var SandboxRuntime = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "soupgym",
	Name:      "sandbox_runtime_seconds",
	Help:      "Sandbox execution wall-clock duration.",
	Buckets:   prometheus.DefBuckets,
})

// SandboxTruncations counts executions whose output hit the cap.
var SandboxTruncations = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "soupgym",
	Name:      "sandbox_truncations_total",
	Help:      "Sandbox executions with truncated output.",
})

// ─── Generator ──────────────────────────────────────────────────────────────

// GenerationFailures counts archetype contract violations caught at
// generation time. Any nonzero value is a generator bug.
var GenerationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "soupgym",
	Name:      "generation_failures_total",
	Help:      "Task generations rejected by the consistency check.",
}, []string{"archetype"})
