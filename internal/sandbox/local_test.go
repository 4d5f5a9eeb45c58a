package sandbox

import (
	"os/exec"
	"strings"
	"testing"

	"github.com/soupgym/soupgym/internal/config"
)

func testSandboxConfig() config.SandboxConfig {
	return config.SandboxConfig{
		Backend:          "local",
		Python:           "python3",
		TimeoutSeconds:   10,
		KillGraceSeconds: 2,
		OutputCapBytes:   64 * 1024,
	}
}

func newLocal(t *testing.T, cfg config.SandboxConfig) *LocalExecutor {
	t.Helper()
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not installed")
	}
	e, err := NewLocalExecutor(cfg)
	if err != nil {
		t.Fatalf("NewLocalExecutor() error: %v", err)
	}
	return e
}

func TestLocalExecutor_ContextVisible(t *testing.T) {
	e := newLocal(t, testSandboxConfig())
	res, err := e.Run(t.Context(), `
print(QUERY)
print(len(ARTIFACT))
meta = task_metadata()
print(meta["answer_schema"]["kind"])
`, testView())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Fatalf("ExitCode = %d, stderr: %s", res.ExitCode, res.Stderr)
	}
	if !strings.Contains(res.Stdout, `Extract the "sku" span.`) {
		t.Errorf("stdout missing query: %q", res.Stdout)
	}
	if !strings.Contains(res.Stdout, "string") {
		t.Errorf("stdout missing metadata schema kind: %q", res.Stdout)
	}
}

func TestLocalExecutor_CrashIsAResult(t *testing.T) {
	e := newLocal(t, testSandboxConfig())
	res, err := e.Run(t.Context(), `raise ValueError("boom")`, testView())
	if err != nil {
		t.Fatalf("a submission crash must not surface as an error: %v", err)
	}
	if res.ExitCode == 0 {
		t.Error("ExitCode = 0, want nonzero for an uncaught exception")
	}
	if !strings.Contains(res.Stderr, "boom") {
		t.Errorf("stderr missing traceback: %q", res.Stderr)
	}
}

func TestLocalExecutor_Timeout(t *testing.T) {
	cfg := testSandboxConfig()
	cfg.TimeoutSeconds = 1
	e := newLocal(t, cfg)
	res, err := e.Run(t.Context(), `
while True:
    pass
`, testView())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !res.TimedOut {
		t.Error("TimedOut = false, want true")
	}
	if !strings.Contains(res.Stderr, "wall-clock timeout") {
		t.Errorf("stderr = %q, want a timeout note", res.Stderr)
	}
}

func TestLocalExecutor_NetworkDenied(t *testing.T) {
	e := newLocal(t, testSandboxConfig())
	res, err := e.Run(t.Context(), `
import socket
socket.socket()
`, testView())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.ExitCode == 0 {
		t.Error("socket construction should raise with networking disabled")
	}
	if !strings.Contains(res.Stderr, "network access is disabled") {
		t.Errorf("stderr = %q, want the deny message", res.Stderr)
	}
}

func TestLocalExecutor_OutputCap(t *testing.T) {
	cfg := testSandboxConfig()
	cfg.OutputCapBytes = 256
	e := newLocal(t, cfg)
	res, err := e.Run(t.Context(), `print("x" * 10000)`, testView())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !res.Truncated {
		t.Error("Truncated = false, want true for a flood of output")
	}
	if len(res.Stdout) > 256 {
		t.Errorf("stdout is %d bytes, cap is 256", len(res.Stdout))
	}
}

func TestNewLocalExecutor_MissingInterpreter(t *testing.T) {
	cfg := testSandboxConfig()
	cfg.Python = "definitely-not-a-python"
	if _, err := NewLocalExecutor(cfg); err == nil {
		t.Error("missing interpreter should fail construction")
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := testSandboxConfig()
	cfg.Backend = "warp-drive"
	if _, err := New(cfg); err == nil {
		t.Error("unknown backend should fail")
	}
}
