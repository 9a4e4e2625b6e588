package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/aretw0/debloat"
	"github.com/aretw0/debloat/internal/presentation/tui"
	"github.com/aretw0/debloat/pkg/domain"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	SessionID string
	// Only replaces the selection with exactly these options.
	Only    []string
	Enable  []string
	Disable []string
	// DryRun prints the plan without executing it.
	DryRun bool
	// Interactive draws a progress bar and renders markdown.
	Interactive bool
	Quiet       bool
}

// ApplySelection adjusts the session's selection from the run flags.
// Every ID is checked before anything changes.
func ApplySelection(ctx context.Context, sess *debloat.Session, c *domain.Catalog, opts RunOptions) error {
	for _, ids := range [][]string{opts.Only, opts.Enable, opts.Disable} {
		for _, id := range ids {
			if _, ok := c.Option(id); !ok {
				return fmt.Errorf("%w: %s", domain.ErrUnknownOption, id)
			}
		}
	}

	if len(opts.Only) > 0 {
		for _, opt := range c.Options() {
			if err := sess.SetOption(ctx, opt.ID, slices.Contains(opts.Only, opt.ID)); err != nil {
				return err
			}
		}
	}
	for _, id := range opts.Enable {
		if err := sess.SetOption(ctx, id, true); err != nil {
			return err
		}
	}
	for _, id := range opts.Disable {
		if err := sess.SetOption(ctx, id, false); err != nil {
			return err
		}
	}
	return nil
}

// Execute handles the run command: it applies the selection flags and runs the plan
// to completion, streaming progress to out. Step failures do not make it fail.
func Execute(ctx context.Context, st *Stack, out io.Writer, opts RunOptions) (domain.View, error) {
	sess, err := st.Engine.Session(ctx, opts.SessionID)
	if err != nil {
		return domain.View{}, err
	}
	if err := ApplySelection(ctx, sess, st.Engine.Catalog(), opts); err != nil {
		return domain.View{}, err
	}

	if opts.DryRun {
		return sess.View(), printMarkdown(out, tui.PlanMarkdown(sess.Plan()), sess.View().Theme, opts.Interactive)
	}

	if opts.Interactive && !opts.Quiet {
		tui.PrintBanner(out)
	}
	if !opts.Quiet {
		unsubscribe := sess.Subscribe(tui.NewProgress(out, opts.Interactive))
		defer unsubscribe()
	}

	st.Logger.Info("Run requested", "session_id", sess.ID(), "steps", len(sess.Plan()))
	if !sess.Run(ctx) {
		return sess.View(), fmt.Errorf("session %s already has a run in progress", sess.ID())
	}
	return sess.View(), nil
}

// List prints the catalog with the session's selection.
func List(ctx context.Context, st *Stack, out io.Writer, sessionID string, interactive bool) error {
	sess, err := st.Engine.Session(ctx, sessionID)
	if err != nil {
		return err
	}
	v := sess.View()
	md := tui.CatalogMarkdown(st.Engine.Catalog(), &domain.Preferences{
		Selection: v.Selection,
		Collapsed: v.Collapsed,
		Theme:     v.Theme,
	})
	return printMarkdown(out, md, v.Theme, interactive)
}

func printMarkdown(out io.Writer, md, theme string, interactive bool) error {
	if !interactive {
		_, err := io.WriteString(out, md)
		return err
	}
	render, err := tui.NewRenderer(theme)
	if err != nil {
		return err
	}
	rendered, err := render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, rendered)
	return err
}
