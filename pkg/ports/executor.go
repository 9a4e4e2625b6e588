package ports

import (
	"context"

	"github.com/aretw0/debloat/pkg/domain"
)

// CommandExecutor runs one command string through an external interpreter.
// It blocks until the process exits and never reports failure as an error:
// failures are returned as a StepResult with OK == false.
type CommandExecutor interface {
	Execute(ctx context.Context, command string) domain.StepResult
}

// ExecutorFunc adapts a function to CommandExecutor.
type ExecutorFunc func(ctx context.Context, command string) domain.StepResult

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, command string) domain.StepResult {
	return f(ctx, command)
}
