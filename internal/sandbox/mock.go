package sandbox

import (
	"context"

	"github.com/soupgym/soupgym/internal/domain"
)

// ─── Mock Backend (for testing without a Python interpreter) ────────────────

// MockExecutor implements Executor for tests. Calls are recorded; the
// result comes from RunFunc when set, a zero success otherwise.
type MockExecutor struct {
	RunFunc func(code string, view domain.TaskView) domain.ExecResult
	Calls   []string
}

func NewMockExecutor() *MockExecutor { return &MockExecutor{} }

func (m *MockExecutor) Run(_ context.Context, code string, view domain.TaskView) (domain.ExecResult, error) {
	m.Calls = append(m.Calls, code)
	if m.RunFunc != nil {
		return m.RunFunc(code, view), nil
	}
	return domain.ExecResult{ExitCode: 0}, nil
}
