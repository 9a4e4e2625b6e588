package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/debloat/pkg/domain"
	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Progress is a run observer for the command line.
// In interactive mode it draws a pterm progress bar; otherwise it prints one plain
// line per log entry prefixed with the current progress.
type Progress struct {
	out         io.Writer
	interactive bool

	mu  sync.Mutex
	bar *pterm.ProgressbarPrinter
}

// NewProgress creates a progress observer writing to out.
func NewProgress(out io.Writer, interactive bool) *Progress {
	return &Progress{out: out, interactive: interactive}
}

// Notify implements ports.Observer.
func (p *Progress) Notify(_ context.Context, u domain.Update) {
	if u.Line == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.interactive {
		fmt.Fprintf(p.out, "[%3d%%] %s\n", u.Progress, u.Line)
		return
	}

	switch u.Kind {
	case domain.UpdateRunStarted:
		pterm.Info.WithWriter(p.out).Println(u.Line)
		if u.TotalSteps > 0 {
			bar, err := pterm.DefaultProgressbar.
				WithTotal(100).
				WithTitle("Debloating").
				WithWriter(p.out).
				Start()
			if err == nil {
				p.bar = bar
			}
		}
	case domain.UpdateStepStarted:
		if p.bar != nil {
			p.bar.UpdateTitle(strings.TrimSuffix(strings.TrimPrefix(u.Line, "Running: "), "..."))
		}
	case domain.UpdateStepFinished:
		if u.Result != nil && !u.Result.OK {
			pterm.Error.WithWriter(p.out).Println(u.Line)
		} else {
			pterm.Success.WithWriter(p.out).Println(u.Line)
		}
		p.advance(u.Progress)
	case domain.UpdateRunCompleted:
		p.advance(u.Progress)
		if p.bar != nil {
			_, _ = p.bar.Stop()
			p.bar = nil
		}
		pterm.Info.WithWriter(p.out).Println(u.Line)
	case domain.UpdateRunEmpty:
		pterm.Warning.WithWriter(p.out).Println(u.Line)
	}
}

func (p *Progress) advance(progress int) {
	if p.bar == nil {
		return
	}
	if delta := progress - p.bar.Current; delta > 0 {
		p.bar.Add(delta)
	}
}
