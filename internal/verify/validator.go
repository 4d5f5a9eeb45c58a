package verify

import (
	"encoding/json"
	"fmt"

	"github.com/soupgym/soupgym/internal/domain"
)

// Result is the validator's verdict on one raw final answer.
// FormatOK=false means the envelope was malformed; SchemaOK=false means
// it was well-formed but the answer value does not satisfy the task's
// schema. Either one short-circuits the reward engine to 0, logged as a
// metric distinct from "wrong answer".
type Result struct {
	FormatOK bool
	SchemaOK bool
	// Answer is the parsed envelope, set when FormatOK.
	Answer *domain.FinalAnswer
	// Normalized is the canonicalized answer value, set when SchemaOK
	// and Status==ok: a string, []string, or map[string]string.
	Normalized any
	// Err describes the first failure for diagnostics.
	Err string
}

func formatErr(msg string, args ...any) Result {
	return Result{Err: fmt.Sprintf(msg, args...)}
}

// Validate parses and schema-checks a raw final answer against the
// task's contract, then canonicalizes the answer value with the task's
// normalization rules.
func Validate(raw []byte, task *domain.TaskInstance) Result {
	var ans domain.FinalAnswer
	if err := json.Unmarshal(raw, &ans); err != nil {
		return formatErr("parse final answer: %v", err)
	}

	// Envelope contract: answer iff ok, limit iff limit.
	switch ans.Status {
	case domain.StatusOK:
		if ans.Answer == nil {
			return formatErr("status ok without answer field")
		}
		if ans.Limit != nil {
			return formatErr("status ok with limit field")
		}
	case domain.StatusLimit:
		if ans.Limit == nil {
			return formatErr("status limit without limit field")
		}
		if ans.Limit.Reason == "" {
			return formatErr("status limit with empty reason")
		}
		if ans.Answer != nil {
			return formatErr("status limit with answer field")
		}
	default:
		return formatErr("unknown status %q", ans.Status)
	}

	res := Result{FormatOK: true, Answer: &ans}

	if ans.Status == domain.StatusLimit {
		// The answer schema binds the answer field only; an abstention
		// carries none.
		res.SchemaOK = true
		return res
	}

	normalized, err := checkAndNormalize(ans.Answer, task)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	res.SchemaOK = true
	res.Normalized = normalized
	return res
}

// checkAndNormalize verifies the answer value against the schema and
// returns its canonical form.
func checkAndNormalize(v any, task *domain.TaskInstance) (any, error) {
	schema := task.AnswerSchema
	rules := task.Normalization

	switch schema.Kind {
	case domain.SchemaString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("answer must be a string, got %T", v)
		}
		return normalizeString(s, rules), nil

	case domain.SchemaList:
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("answer must be an array, got %T", v)
		}
		vals := make([]string, len(items))
		for i, it := range items {
			s, ok := it.(string)
			if !ok {
				return nil, fmt.Errorf("answer[%d] must be a string, got %T", i, it)
			}
			vals[i] = s
		}
		return normalizeList(vals, rules), nil

	case domain.SchemaRecord:
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("answer must be an object, got %T", v)
		}
		rec := make(map[string]string, len(obj))
		for k, it := range obj {
			s, ok := it.(string)
			if !ok {
				return nil, fmt.Errorf("answer[%q] must be a string, got %T", k, it)
			}
			rec[k] = s
		}
		normalized := normalizeRecord(rec, rules)
		if len(normalized) != len(schema.Fields) {
			return nil, fmt.Errorf("answer has %d fields, schema wants %d", len(normalized), len(schema.Fields))
		}
		for _, f := range schema.Fields {
			if _, ok := normalized[normalizeKey(f.Name)]; !ok {
				return nil, fmt.Errorf("answer missing field %q", f.Name)
			}
		}
		return normalized, nil

	default:
		return nil, fmt.Errorf("task schema kind %q is unknown", schema.Kind)
	}
}
