package domain

// AnswerStatus is the terminal disposition of an episode.
type AnswerStatus string

const (
	StatusOK    AnswerStatus = "ok"
	StatusLimit AnswerStatus = "limit"
)

// Limit is an abstention claim: a reason from the allowed vocabulary and
// a fragment of the artifact offered as proof.
type Limit struct {
	Reason   string `json:"reason"`
	Evidence string `json:"evidence"`
}

// FinalAnswer is the one structured answer an episode produces.
// Answer is present iff Status==ok; Limit iff Status==limit.
type FinalAnswer struct {
	Status AnswerStatus `json:"status"`
	Answer any          `json:"answer,omitempty"`
	Limit  *Limit       `json:"limit,omitempty"`
}

// RewardBreakdown is the scalar reward plus the named metrics the
// training loop logs alongside it. Produced once per episode, read-only
// afterward.
type RewardBreakdown struct {
	Reward float64 `json:"reward"`

	FormatOK        bool    `json:"format_ok"`
	SchemaOK        bool    `json:"schema_ok"`
	Correct         bool    `json:"correct"`
	LimitValid      bool    `json:"limit_valid"`
	SafetyViolation bool    `json:"safety_violation"`
	ToolCallCount   int     `json:"tool_call_count"`
	WeightedCost    float64 `json:"weighted_tool_cost"`
	EfficiencyMult  float64 `json:"efficiency_multiplier"`
	ProcessTier     int     `json:"process_credit_tier"`
	ProcessCredit   float64 `json:"process_credit"`
}

// Metrics flattens the breakdown into named numeric values for logging.
func (r *RewardBreakdown) Metrics() map[string]float64 {
	b := func(v bool) float64 {
		if v {
			return 1
		}
		return 0
	}
	return map[string]float64{
		"reward":                r.Reward,
		"format_ok":             b(r.FormatOK),
		"schema_ok":             b(r.SchemaOK),
		"correct":               b(r.Correct),
		"limit_valid":           b(r.LimitValid),
		"safety_violation":      b(r.SafetyViolation),
		"tool_call_count":       float64(r.ToolCallCount),
		"weighted_tool_cost":    r.WeightedCost,
		"efficiency_multiplier": r.EfficiencyMult,
		"process_credit_tier":   float64(r.ProcessTier),
		"process_credit":        r.ProcessCredit,
	}
}
