package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTaskInstance_View_Redacts(t *testing.T) {
	task := &TaskInstance{
		ArchetypeID:  "product-span",
		Seed:         7,
		Artifact:     "<html><body><span id=\"sku\">Widget-42</span></body></html>",
		Query:        "Extract the sku.",
		Solvable:     true,
		AnswerSchema: AnswerSchema{Kind: SchemaString},
		GroundTruth:  "Widget-42-SECRET-GT",
		SafetyRules:  []SafetyRule{{Name: "secret_token", Pattern: "api_key"}},
	}

	view := task.View([]string{"js_required", "login_required"})

	raw, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal view: %v", err)
	}
	body := string(raw)
	if strings.Contains(body, "Widget-42-SECRET-GT") {
		t.Error("view leaks ground truth")
	}
	if strings.Contains(body, "ground_truth") {
		t.Error("view carries a ground_truth field")
	}
	if strings.Contains(body, "solvable") {
		t.Error("view reveals solvability")
	}
	if view.Artifact != task.Artifact || view.Query != task.Query {
		t.Error("view should carry artifact and query unchanged")
	}
	if len(view.LimitReasons) != 2 {
		t.Errorf("LimitReasons = %v, want the full vocabulary", view.LimitReasons)
	}
}

func TestTaskInstance_View_UnsolvableHidesLimitation(t *testing.T) {
	task := &TaskInstance{
		ArchetypeID: "js-rendered",
		Seed:        3,
		Artifact:    `<div data-bind="price"></div>`,
		Query:       "Extract the price.",
		Limitation: &LimitationSpec{Reasons: []LimitReason{
			{Reason: "js_required", Signatures: []EvidenceSignature{{Literal: `data-bind="price"`}}},
		}},
	}

	raw, _ := json.Marshal(task.View([]string{"js_required"}))
	if strings.Contains(string(raw), "signatures") {
		t.Error("view leaks evidence signatures")
	}
}

func TestRewardBreakdown_Metrics(t *testing.T) {
	bd := RewardBreakdown{
		Reward:         0.85,
		FormatOK:       true,
		SchemaOK:       true,
		Correct:        true,
		ToolCallCount:  3,
		WeightedCost:   2.5,
		EfficiencyMult: 0.85,
	}
	m := bd.Metrics()
	if m["reward"] != 0.85 {
		t.Errorf("reward metric = %v, want 0.85", m["reward"])
	}
	if m["correct"] != 1 || m["format_ok"] != 1 {
		t.Error("boolean metrics should flatten to 1")
	}
	if m["safety_violation"] != 0 {
		t.Error("false booleans should flatten to 0")
	}
	if m["tool_call_count"] != 3 {
		t.Errorf("tool_call_count = %v, want 3", m["tool_call_count"])
	}
}
