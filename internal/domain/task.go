// Package domain defines the core types of the soupgym grading pipeline.
// A TaskInstance is a unit of graded work: an archetype renders it from a
// seed, the agent works against its artifact inside a sandbox, and the
// verifier turns the final answer plus the tool trace into a reward.
package domain

import "time"

// SchemaKind is the shape the answer field must take for a solvable task.
type SchemaKind string

const (
	SchemaString SchemaKind = "string"
	SchemaList   SchemaKind = "list"
	SchemaRecord SchemaKind = "record"
)

// FieldSpec describes one field of a record-shaped answer.
type FieldSpec struct {
	Name string     `json:"name"`
	Kind SchemaKind `json:"kind"`
}

// AnswerSchema is the structural contract a final answer must satisfy
// when the task is solvable.
type AnswerSchema struct {
	Kind   SchemaKind  `json:"kind"`
	Fields []FieldSpec `json:"fields,omitempty"` // record kind only
}

// UnicodeForm selects the unicode canonicalization applied before comparison.
type UnicodeForm string

const (
	UnicodeNone UnicodeForm = ""
	UnicodeNFC  UnicodeForm = "nfc"
	UnicodeNFKC UnicodeForm = "nfkc"
)

// NormalizationRules are applied to both the submitted answer and the
// ground truth before any equality check.
type NormalizationRules struct {
	CollapseWhitespace bool        `json:"collapse_whitespace"`
	Unicode            UnicodeForm `json:"unicode,omitempty"`
	CaseFold           bool        `json:"case_fold"`
	// OrderSensitive controls list comparison; when false, lists are
	// sorted before comparison.
	OrderSensitive bool `json:"order_sensitive"`
}

// EvidenceSignature is a fragment that must occur in the artifact to
// justify a claimed abstention. Exactly one of Literal/Pattern is set;
// Pattern is a regular expression matched against the artifact.
type EvidenceSignature struct {
	Literal string `json:"literal,omitempty"`
	Pattern string `json:"pattern,omitempty"`
}

// LimitReason pairs an allowed abstention reason with the signatures
// that prove it from the artifact text.
type LimitReason struct {
	Reason     string              `json:"reason"`
	Signatures []EvidenceSignature `json:"signatures"`
}

// LimitationSpec is present only on unsolvable tasks: the closed set of
// abstention reasons the grader will accept, each with verifiable evidence.
type LimitationSpec struct {
	Reasons []LimitReason `json:"reasons"`
}

// Allowed reports whether reason is in the closed set.
func (l *LimitationSpec) Allowed(reason string) bool {
	for _, r := range l.Reasons {
		if r.Reason == reason {
			return true
		}
	}
	return false
}

// SafetyRule is a forbidden value pattern. An answer matching one is
// penalized regardless of correctness.
type SafetyRule struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"` // regular expression
}

// TaskInstance is the unit of graded work. Created once by a generator,
// immutable thereafter. GroundTruth is always read from the archetype's
// structured content model, never parsed back out of Artifact.
type TaskInstance struct {
	ArchetypeID string `json:"archetype_id"`
	Seed        uint64 `json:"seed"`

	Artifact string `json:"artifact"`
	Query    string `json:"query"`

	Solvable      bool               `json:"solvable"`
	AnswerSchema  AnswerSchema       `json:"answer_schema"`
	Normalization NormalizationRules `json:"normalization"`

	// GroundTruth holds a string, []string, or map[string]string
	// matching AnswerSchema. Nil iff !Solvable.
	GroundTruth any `json:"ground_truth,omitempty"`

	// Limitation is set iff !Solvable.
	Limitation *LimitationSpec `json:"limitation,omitempty"`

	SafetyRules []SafetyRule `json:"safety_rules,omitempty"`

	// OptimalCalls is the archetype's weighted tool budget; the
	// efficiency multiplier decays above it.
	OptimalCalls float64 `json:"optimal_calls"`
}

// TaskView is the agent-facing projection of a TaskInstance. It carries
// everything the prompt builder may see and nothing the grader must
// protect: no ground truth, no evidence signatures.
type TaskView struct {
	ArchetypeID   string             `json:"archetype_id"`
	Seed          uint64             `json:"seed"`
	Artifact      string             `json:"artifact"`
	Query         string             `json:"query"`
	AnswerSchema  AnswerSchema       `json:"answer_schema"`
	Normalization NormalizationRules `json:"normalization"`
	LimitReasons  []string           `json:"limit_reasons"`
}

// View redacts the instance for agent consumption. LimitReasons lists
// the vocabulary of claimable reasons across the gym, not whether this
// instance is solvable.
func (t *TaskInstance) View(allReasons []string) TaskView {
	return TaskView{
		ArchetypeID:   t.ArchetypeID,
		Seed:          t.Seed,
		Artifact:      t.Artifact,
		Query:         t.Query,
		AnswerSchema:  t.AnswerSchema,
		Normalization: t.Normalization,
		LimitReasons:  allReasons,
	}
}

// ExecResult is the outcome of one sandbox call. Crashes, nonzero exits
// and timeouts are ordinary results, not errors: the agent observes them
// and reacts within the episode.
type ExecResult struct {
	Stdout    string        `json:"stdout"`
	Stderr    string        `json:"stderr"`
	ExitCode  int           `json:"exit_code"`
	Runtime   time.Duration `json:"runtime"`
	Truncated bool          `json:"truncated"`
	TimedOut  bool          `json:"timed_out"`
}

// ToolKind categorizes a tool call for efficiency weighting.
type ToolKind string

const (
	// ToolExec is a full sandboxed code execution.
	ToolExec ToolKind = "exec"
	// ToolInspect is a cheap artifact/metadata read with no execution.
	ToolInspect ToolKind = "inspect"
)

// ToolCall is one entry of an episode's tool trace.
type ToolCall struct {
	Kind ToolKind `json:"kind"`
	// Code is the submitted source for exec calls, empty otherwise.
	Code string `json:"code,omitempty"`
}
