package verify

import (
	"reflect"
	"testing"

	"github.com/soupgym/soupgym/internal/domain"
)

func stringTask() *domain.TaskInstance {
	return &domain.TaskInstance{
		ArchetypeID:  "product-span",
		Seed:         1,
		Artifact:     `<html><body><span id="sku">Widget-42</span></body></html>`,
		Solvable:     true,
		AnswerSchema: domain.AnswerSchema{Kind: domain.SchemaString},
		Normalization: domain.NormalizationRules{
			CollapseWhitespace: true,
			Unicode:            domain.UnicodeNFC,
		},
		GroundTruth:  "Widget-42",
		OptimalCalls: 2,
	}
}

func TestValidate_FormatErrors(t *testing.T) {
	task := stringTask()
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `{"status": "ok",`},
		{"unknown status", `{"status": "maybe", "answer": "x"}`},
		{"ok without answer", `{"status": "ok"}`},
		{"ok with limit", `{"status": "ok", "answer": "x", "limit": {"reason": "js_required", "evidence": "y"}}`},
		{"limit without limit", `{"status": "limit"}`},
		{"limit empty reason", `{"status": "limit", "limit": {"reason": "", "evidence": "y"}}`},
		{"limit with answer", `{"status": "limit", "answer": "x", "limit": {"reason": "js_required", "evidence": "y"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Validate([]byte(tc.raw), task)
			if res.FormatOK {
				t.Errorf("FormatOK = true for %s", tc.raw)
			}
			if res.Err == "" {
				t.Error("format failure should carry a diagnostic")
			}
		})
	}
}

func TestValidate_SchemaErrors(t *testing.T) {
	res := Validate([]byte(`{"status": "ok", "answer": 42}`), stringTask())
	if !res.FormatOK {
		t.Fatal("well-formed envelope should pass the format check")
	}
	if res.SchemaOK {
		t.Error("numeric answer against a string schema should fail")
	}

	recTask := stringTask()
	recTask.AnswerSchema = domain.AnswerSchema{
		Kind: domain.SchemaRecord,
		Fields: []domain.FieldSpec{
			{Name: "brand", Kind: domain.SchemaString},
			{Name: "color", Kind: domain.SchemaString},
		},
	}
	recTask.GroundTruth = map[string]string{"brand": "Acme Industrial", "color": "teal"}

	res = Validate([]byte(`{"status": "ok", "answer": {"brand": "Acme Industrial"}}`), recTask)
	if res.SchemaOK {
		t.Error("record missing a schema field should fail")
	}
	res = Validate([]byte(`{"status": "ok", "answer": {"brand": "a", "color": "b", "extra": "c"}}`), recTask)
	if res.SchemaOK {
		t.Error("record with an extra field should fail")
	}
}

func TestValidate_LimitSkipsSchema(t *testing.T) {
	raw := `{"status": "limit", "limit": {"reason": "js_required", "evidence": "app.js"}}`
	res := Validate([]byte(raw), stringTask())
	if !res.FormatOK || !res.SchemaOK {
		t.Errorf("abstention should pass both gates, got format=%v schema=%v (%s)", res.FormatOK, res.SchemaOK, res.Err)
	}
	if res.Normalized != nil {
		t.Error("abstention carries no normalized answer value")
	}
}

func TestValidate_NormalizesWhitespace(t *testing.T) {
	res := Validate([]byte(`{"status": "ok", "answer": "  Widget-42 \n "}`), stringTask())
	if !res.SchemaOK {
		t.Fatalf("Validate failed: %s", res.Err)
	}
	if res.Normalized != "Widget-42" {
		t.Errorf("Normalized = %q, want %q", res.Normalized, "Widget-42")
	}
}

func TestValidate_NormalizesUnicode(t *testing.T) {
	task := stringTask()
	task.GroundTruth = "café" // precomposed
	// Decomposed form: e + combining acute.
	res := Validate([]byte(`{"status": "ok", "answer": "café"}`), task)
	if !res.SchemaOK {
		t.Fatalf("Validate failed: %s", res.Err)
	}
	if res.Normalized != NormalizedGroundTruth(task) {
		t.Errorf("NFC should unify composed and decomposed forms: %q vs %q",
			res.Normalized, NormalizedGroundTruth(task))
	}
}

func TestValidate_ListOrderInsensitive(t *testing.T) {
	task := stringTask()
	task.AnswerSchema = domain.AnswerSchema{Kind: domain.SchemaList}
	task.GroundTruth = []string{"steel", "compact", "outdoor"}
	task.Normalization.OrderSensitive = false

	res := Validate([]byte(`{"status": "ok", "answer": ["outdoor", "steel", "compact"]}`), task)
	if !res.SchemaOK {
		t.Fatalf("Validate failed: %s", res.Err)
	}
	if !reflect.DeepEqual(res.Normalized, NormalizedGroundTruth(task)) {
		t.Errorf("order-insensitive list should normalize equal: %v vs %v",
			res.Normalized, NormalizedGroundTruth(task))
	}
}

func TestValidate_ListOrderSensitive(t *testing.T) {
	task := stringTask()
	task.AnswerSchema = domain.AnswerSchema{Kind: domain.SchemaList}
	task.GroundTruth = []string{"steel", "compact"}
	task.Normalization.OrderSensitive = true

	res := Validate([]byte(`{"status": "ok", "answer": ["compact", "steel"]}`), task)
	if !res.SchemaOK {
		t.Fatalf("Validate failed: %s", res.Err)
	}
	if reflect.DeepEqual(res.Normalized, NormalizedGroundTruth(task)) {
		t.Error("order-sensitive list must preserve submitted order")
	}
}

func TestValidate_RecordKeyNormalization(t *testing.T) {
	task := stringTask()
	task.AnswerSchema = domain.AnswerSchema{
		Kind:   domain.SchemaRecord,
		Fields: []domain.FieldSpec{{Name: "brand", Kind: domain.SchemaString}},
	}
	task.GroundTruth = map[string]string{"brand": "Fabrikam"}

	res := Validate([]byte(`{"status": "ok", "answer": {" Brand ": "Fabrikam"}}`), task)
	if !res.SchemaOK {
		t.Fatalf("Validate failed: %s", res.Err)
	}
	if !reflect.DeepEqual(res.Normalized, NormalizedGroundTruth(task)) {
		t.Errorf("record keys should compare case- and space-insensitively: %v", res.Normalized)
	}
}

func TestNormalizeString_CaseFold(t *testing.T) {
	got := normalizeString("  WiDGet-42 ", domain.NormalizationRules{CollapseWhitespace: true, CaseFold: true})
	if got != "widget-42" {
		t.Errorf("normalizeString = %q, want %q", got, "widget-42")
	}
}
