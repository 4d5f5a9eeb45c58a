// Package sandbox executes submitted Python against a task's injected
// execution context under strict resource and network limits. Crashes,
// nonzero exits and timeouts come back as ordinary ExecResults so the
// agent can observe and react to them; errors are reserved for
// infrastructure failures.
package sandbox

import (
	"context"
	"fmt"

	"github.com/soupgym/soupgym/internal/config"
	"github.com/soupgym/soupgym/internal/domain"
)

// Executor runs one submission against one task view. The view carries
// the artifact, the query and the task-exposed metadata, never the
// ground truth. No retries happen at this layer.
type Executor interface {
	Run(ctx context.Context, code string, view domain.TaskView) (domain.ExecResult, error)
}

// New builds the configured backend: "local" for development, or
// "isolated" for hardened grading behind an isolation wrapper.
func New(cfg config.SandboxConfig) (Executor, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocalExecutor(cfg)
	case "isolated":
		return NewIsolatedExecutor(cfg)
	default:
		return nil, fmt.Errorf("unknown sandbox backend %q", cfg.Backend)
	}
}
