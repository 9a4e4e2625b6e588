package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/aretw0/debloat/internal/logging"
	"github.com/aretw0/debloat/pkg/domain"
	"github.com/aretw0/debloat/pkg/ports"
)

// DefaultShell returns the interpreter prefix for the current platform.
// The command string is appended as a single final argument.
func DefaultShell() []string {
	if runtime.GOOS == "windows" {
		return []string{"powershell", "-NoProfile", "-NonInteractive", "-Command"}
	}
	return []string{"sh", "-c"}
}

// Runner implements ports.CommandExecutor by running commands through a shell.
type Runner struct {
	shell   []string
	baseDir string
	journal ports.Journal
	logger  *slog.Logger
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithShell overrides the interpreter prefix (e.g. "bash", "-c").
func WithShell(shell ...string) RunnerOption {
	return func(r *Runner) {
		if len(shell) > 0 {
			r.shell = shell
		}
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// WithJournal records every failure in the durable journal.
func WithJournal(j ports.Journal) RunnerOption {
	return func(r *Runner) {
		if j != nil {
			r.journal = j
		}
	}
}

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a new Process Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		shell:   DefaultShell(),
		journal: ports.NopJournal{},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Shell returns the interpreter prefix in use.
func (r *Runner) Shell() []string {
	return append([]string(nil), r.shell...)
}

// Execute runs command and waits for it to exit.
func (r *Runner) Execute(ctx context.Context, command string) domain.StepResult {
	args := append(r.shell[1:len(r.shell):len(r.shell)], command)
	cmd := exec.CommandContext(ctx, r.shell[0], args...)
	cmd.Dir = r.baseDir
	hideWindow(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err == nil {
		res := domain.Succeeded(strings.TrimSpace(stdout.String()))
		res.Duration = elapsed
		r.logger.Debug("command succeeded", "duration", elapsed)
		return res
	}

	var res domain.StepResult
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res = domain.Failed(exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
	} else {
		// The interpreter never started.
		res = domain.Failed(-1, err.Error())
	}
	res.Duration = elapsed

	r.logger.Warn("command failed", "exit_code", res.ExitCode, "error", err)
	r.journal.Error(fmt.Sprintf("command failed: %s", command), errors.New(res.Text()))
	return res
}
