package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure, with no infrastructure dependency.

var (
	// Generator errors. Consistency failures are generator bugs and must
	// surface loudly, never downgrade to a valid-looking instance.
	ErrUnknownArchetype      = errors.New("unknown archetype id")
	ErrTaskInconsistent      = errors.New("generated task violates archetype contract")
	ErrMissingGroundTruth    = errors.New("solvable task has no ground truth")
	ErrMissingLimitation     = errors.New("unsolvable task has no limitation spec")
	ErrEvidenceNotInArtifact = errors.New("declared evidence signature not present in artifact")

	// Sandbox errors (infrastructure only; submission failures are
	// reported as ExecResults, not errors).
	ErrPythonNotFound       = errors.New("python interpreter not found")
	ErrIsolationUnavailable = errors.New("isolation wrapper not available")

	// Manifest errors
	ErrManifestFrozen   = errors.New("manifest version is frozen")
	ErrManifestNotFound = errors.New("manifest version not found")
	ErrManifestMismatch = errors.New("manifest content hash mismatch")

	// Grading errors
	ErrTraceOutOfBand = errors.New("tool trace contains an unknown tool kind")
)
