package sandbox

import (
	"strings"
	"testing"

	"github.com/soupgym/soupgym/internal/domain"
)

func testView() domain.TaskView {
	return domain.TaskView{
		ArchetypeID:  "product-span",
		Seed:         1,
		Artifact:     "<html><body>\n<span id=\"sku\">Widget-42</span>\n</body></html>",
		Query:        `Extract the "sku" span.`,
		AnswerSchema: domain.AnswerSchema{Kind: domain.SchemaString},
		LimitReasons: []string{"js_required"},
	}
}

func TestBuildScript_InjectsContext(t *testing.T) {
	script, err := buildScript("print(QUERY)", testView(), false)
	if err != nil {
		t.Fatalf("buildScript() error: %v", err)
	}
	// json.Marshal escapes angle brackets to </>, which is
	// equally valid Python string syntax.
	if !strings.Contains(script, `ARTIFACT = "`) || !strings.Contains(script, "Widget-42") {
		t.Error("artifact binding missing or misquoted")
	}
	if strings.Contains(script, "ARTIFACT = <") {
		t.Error("artifact embedded without quoting")
	}
	if !strings.Contains(script, "QUERY = ") || !strings.Contains(script, "_SOUPGYM_METADATA = ") {
		t.Error("query or metadata binding missing")
	}
	if !strings.Contains(script, "def task_metadata():") {
		t.Error("task_metadata accessor missing")
	}
	if !strings.HasSuffix(strings.TrimRight(script, "\n"), "print(QUERY)") {
		t.Error("submission must come last")
	}
}

func TestBuildScript_NetworkDeny(t *testing.T) {
	script, err := buildScript("pass", testView(), false)
	if err != nil {
		t.Fatalf("buildScript() error: %v", err)
	}
	if !strings.Contains(script, "_soupgym_deny") || !strings.Contains(script, "import socket") {
		t.Error("network deny shim missing with networking disabled")
	}

	script, err = buildScript("pass", testView(), true)
	if err != nil {
		t.Fatalf("buildScript() error: %v", err)
	}
	if strings.Contains(script, "_soupgym_deny") {
		t.Error("deny shim present with networking allowed")
	}
}

// Metadata is embedded as a JSON text string: raw true/false literals
// in generated Python would be a syntax error.
func TestBuildScript_MetadataAsJSONString(t *testing.T) {
	script, err := buildScript("pass", testView(), false)
	if err != nil {
		t.Fatalf("buildScript() error: %v", err)
	}
	if strings.Contains(script, "_SOUPGYM_METADATA = {") {
		t.Error("metadata must be a string literal, not a dict literal")
	}
	if !strings.Contains(script, "_json.loads(_SOUPGYM_METADATA)") {
		t.Error("task_metadata must decode the JSON text")
	}
}

// ─── Output Capping ─────────────────────────────────────────────────────────

func TestCappedBuffer_UnderCap(t *testing.T) {
	b := newCappedBuffer(16)
	n, err := b.Write([]byte("hello"))
	if err != nil || n != 5 {
		t.Fatalf("Write() = (%d, %v)", n, err)
	}
	if b.String() != "hello" || b.Truncated() {
		t.Errorf("buffer = %q truncated = %v", b.String(), b.Truncated())
	}
}

func TestCappedBuffer_OverCap(t *testing.T) {
	b := newCappedBuffer(4)
	b.Write([]byte("abcdef"))
	if b.String() != "abcd" {
		t.Errorf("buffer = %q, want the first 4 bytes", b.String())
	}
	if !b.Truncated() {
		t.Error("overflow must be reported as truncation")
	}
	// Later writes are swallowed but still acknowledged.
	n, err := b.Write([]byte("ghi"))
	if err != nil || n != 3 {
		t.Errorf("Write() after cap = (%d, %v)", n, err)
	}
	if b.String() != "abcd" {
		t.Errorf("buffer grew past the cap: %q", b.String())
	}
}

func TestMockExecutor_RecordsCalls(t *testing.T) {
	m := NewMockExecutor()
	m.RunFunc = func(code string, view domain.TaskView) domain.ExecResult {
		return domain.ExecResult{Stdout: "out:" + code}
	}
	res, err := m.Run(t.Context(), "print(1)", testView())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.Stdout != "out:print(1)" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if len(m.Calls) != 1 || m.Calls[0] != "print(1)" {
		t.Errorf("Calls = %v", m.Calls)
	}
}
