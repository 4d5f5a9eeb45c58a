package sandbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/soupgym/soupgym/internal/config"
	"github.com/soupgym/soupgym/internal/domain"
)

// LocalExecutor runs submissions as plain python3 subprocesses on the
// host. Fast and dependency-free, but only minimally isolated: meant
// for development and tests, not production grading.
type LocalExecutor struct {
	cfg    config.SandboxConfig
	python string
}

// NewLocalExecutor locates the interpreter and returns the backend.
func NewLocalExecutor(cfg config.SandboxConfig) (*LocalExecutor, error) {
	python := cfg.Python
	if python == "" {
		python = "python3"
	}
	path, err := exec.LookPath(python)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrPythonNotFound, python)
	}
	return &LocalExecutor{cfg: cfg, python: path}, nil
}

// Run executes one submission. The result reports failure modes
// in-band: nonzero ExitCode for crashes, TimedOut for forced kills,
// Truncated when an output cap was hit.
func (e *LocalExecutor) Run(ctx context.Context, code string, view domain.TaskView) (domain.ExecResult, error) {
	return runProcess(ctx, []string{e.python, "-I"}, code, view, e.cfg)
}

// runProcess is shared by the local and isolated backends: write the
// assembled script to a private temp dir, run argv against it under a
// wall-clock timeout, and collect capped output.
func runProcess(ctx context.Context, argv []string, code string, view domain.TaskView, cfg config.SandboxConfig) (domain.ExecResult, error) {
	script, err := buildScript(code, view, cfg.AllowNetwork)
	if err != nil {
		return domain.ExecResult{}, err
	}

	dir, err := os.MkdirTemp("", "soupgym-run-")
	if err != nil {
		return domain.ExecResult{}, fmt.Errorf("create sandbox dir: %w", err)
	}
	defer os.RemoveAll(dir)

	scriptPath := filepath.Join(dir, "main.py")
	if err := os.WriteFile(scriptPath, []byte(script), 0600); err != nil {
		return domain.ExecResult{}, fmt.Errorf("write sandbox script: %w", err)
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	grace := time.Duration(cfg.KillGraceSeconds) * time.Second
	if grace <= 0 {
		grace = 3 * time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	argv = append(append([]string{}, argv...), scriptPath)
	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Dir = dir
	// Minimal, deterministic environment. PYTHONHASHSEED keeps dict
	// iteration order stable across runs for honest submissions.
	cmd.Env = []string{
		"PATH=" + os.Getenv("PATH"),
		"LANG=C.UTF-8",
		"PYTHONHASHSEED=0",
		"PYTHONDONTWRITEBYTECODE=1",
		"HOME=" + dir,
		"TMPDIR=" + dir,
	}
	stdout := newCappedBuffer(cfg.OutputCapBytes)
	stderr := newCappedBuffer(cfg.OutputCapBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	// Bounded kill grace: Cancel sends the kill, WaitDelay guarantees
	// Wait returns even if the process ignores it.
	cmd.WaitDelay = grace

	start := time.Now()
	runErr := cmd.Run()
	runtime := time.Since(start)

	res := domain.ExecResult{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Runtime:   runtime,
		Truncated: stdout.Truncated() || stderr.Truncated(),
	}

	timedOut := runCtx.Err() == context.DeadlineExceeded
	switch {
	case runErr == nil:
		res.ExitCode = 0
	case timedOut:
		res.TimedOut = true
		res.ExitCode = -1
		if res.Stderr != "" {
			res.Stderr += "\n"
		}
		res.Stderr += fmt.Sprintf("soupgym: killed after wall-clock timeout (%s)", timeout)
	default:
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			// Not a submission failure; the sandbox itself broke.
			return domain.ExecResult{}, fmt.Errorf("run sandbox process: %w", runErr)
		}
	}
	return res, nil
}
