package sandbox

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/soupgym/soupgym/internal/config"
	"github.com/soupgym/soupgym/internal/domain"
)

// defaultIsolationArgv detaches the network namespace; production
// deployments usually swap in a fuller jail (bwrap, nsjail) via config.
var defaultIsolationArgv = []string{"unshare", "--net", "--map-root-user"}

// IsolatedExecutor honors the same contract as LocalExecutor but runs
// the interpreter behind an isolation wrapper. It refuses to construct
// without the wrapper: hardened grading must never silently fall back
// to the unhardened path.
type IsolatedExecutor struct {
	cfg     config.SandboxConfig
	wrapper []string
	python  string
}

// NewIsolatedExecutor verifies the wrapper and interpreter exist.
func NewIsolatedExecutor(cfg config.SandboxConfig) (*IsolatedExecutor, error) {
	wrapper := cfg.IsolationArgv
	if len(wrapper) == 0 {
		wrapper = defaultIsolationArgv
	}
	if _, err := exec.LookPath(wrapper[0]); err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrIsolationUnavailable, wrapper[0])
	}
	python := cfg.Python
	if python == "" {
		python = "python3"
	}
	path, err := exec.LookPath(python)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrPythonNotFound, python)
	}
	return &IsolatedExecutor{cfg: cfg, wrapper: wrapper, python: path}, nil
}

// Run executes one submission inside the isolation wrapper.
func (e *IsolatedExecutor) Run(ctx context.Context, code string, view domain.TaskView) (domain.ExecResult, error) {
	argv := append(append([]string{}, e.wrapper...), e.python, "-I")
	return runProcess(ctx, argv, code, view, e.cfg)
}
