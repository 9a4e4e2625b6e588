package process_test

import (
	"context"
	"runtime"
	"sync"
	"testing"

	"github.com/aretw0/debloat/pkg/adapters/process"
	"github.com/aretw0/debloat/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingJournal struct {
	mu     sync.Mutex
	errors []string
}

func (j *recordingJournal) Info(string) {}

func (j *recordingJournal) Error(msg string, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, msg+": "+err.Error())
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell fixtures use POSIX sh")
	}
}

func TestRunner_Execute(t *testing.T) {
	skipOnWindows(t)
	ctx := context.Background()

	t.Run("Returns Trimmed Stdout", func(t *testing.T) {
		res := process.NewRunner().Execute(ctx, "echo '  hello  '")
		assert.True(t, res.OK)
		assert.Equal(t, "hello", res.Output)
		assert.Equal(t, "hello", res.Text())
	})

	t.Run("Empty Stdout Uses Success Message", func(t *testing.T) {
		res := process.NewRunner().Execute(ctx, "true")
		assert.True(t, res.OK)
		assert.Equal(t, domain.MsgStepSucceeded, res.Text())
	})

	t.Run("Non-Zero Exit Uses Stderr", func(t *testing.T) {
		j := &recordingJournal{}
		res := process.NewRunner(process.WithJournal(j)).Execute(ctx, "echo boom >&2; echo ignored; exit 3")
		assert.False(t, res.OK)
		assert.Equal(t, 3, res.ExitCode)
		assert.Equal(t, "Error: boom", res.Text())

		require.Len(t, j.errors, 1)
		assert.Contains(t, j.errors[0], "Error: boom")
	})

	t.Run("Non-Zero Exit Without Stderr", func(t *testing.T) {
		res := process.NewRunner().Execute(ctx, "exit 1")
		assert.False(t, res.OK)
		assert.Equal(t, "Error: Unknown shell error", res.Text())
	})

	t.Run("Preserves Embedded Quotes", func(t *testing.T) {
		res := process.NewRunner().Execute(ctx, `printf '%s' "a \"quoted\" word"`)
		assert.True(t, res.OK)
		assert.Equal(t, `a "quoted" word`, res.Output)
	})

	t.Run("Missing Interpreter Is A Failed Step", func(t *testing.T) {
		j := &recordingJournal{}
		r := process.NewRunner(process.WithShell("/nonexistent/interpreter", "-c"), process.WithJournal(j))
		res := r.Execute(ctx, "true")
		assert.False(t, res.OK)
		assert.Equal(t, -1, res.ExitCode)
		assert.Contains(t, res.Text(), "Error: ")
		assert.Len(t, j.errors, 1)
	})

	t.Run("Runs In Base Dir", func(t *testing.T) {
		dir := t.TempDir()
		res := process.NewRunner(process.WithBaseDir(dir)).Execute(ctx, "pwd -P")
		require.True(t, res.OK)
		assert.NotEmpty(t, res.Output)
	})
}

func TestDefaultShell(t *testing.T) {
	shell := process.DefaultShell()
	require.NotEmpty(t, shell)
	if runtime.GOOS == "windows" {
		assert.Equal(t, "powershell", shell[0])
		assert.Equal(t, "-Command", shell[len(shell)-1])
	} else {
		assert.Equal(t, []string{"sh", "-c"}, shell)
	}
}
