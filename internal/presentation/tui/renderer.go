package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/debloat/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// The dark and light themes map to the glamour styles of the same name; anything else
// detects the terminal background.
func NewRenderer(theme string) (func(string) (string, error), error) {
	style := glamour.WithAutoStyle()
	switch theme {
	case domain.ThemeDark:
		style = glamour.WithStandardStyle("dark")
	case domain.ThemeLight:
		style = glamour.WithStandardStyle("light")
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(100))
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// CatalogMarkdown describes the catalog as one table per category, marking the options
// enabled in selection. Collapsed categories only show their option count.
func CatalogMarkdown(c *domain.Catalog, prefs *domain.Preferences) string {
	var b strings.Builder
	b.WriteString("# Tweak catalog\n\n")

	for _, cat := range c.Categories {
		enabled := 0
		for _, opt := range cat.Options {
			if prefs.Selection[opt.ID] {
				enabled++
			}
		}
		fmt.Fprintf(&b, "## %s %s `%s`\n\n", cat.Icon, cat.Name, cat.ID)
		fmt.Fprintf(&b, "%d of %d options enabled.\n\n", enabled, len(cat.Options))

		if prefs.Collapsed[cat.ID] {
			continue
		}

		b.WriteString("| | Option | ID |\n|---|---|---|\n")
		for _, opt := range cat.Options {
			mark := " "
			if prefs.Selection[opt.ID] {
				mark = "x"
			}
			fmt.Fprintf(&b, "| [%s] | %s %s | `%s` |\n", mark, opt.Icon, escapeCell(opt.Name), opt.ID)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// PlanMarkdown lists the steps of a plan in execution order.
func PlanMarkdown(plan domain.Plan) string {
	if len(plan) == 0 {
		return domain.MsgNothingSelected + "\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Execution plan (%d steps)\n\n", len(plan))
	for i, opt := range plan {
		fmt.Fprintf(&b, "%d. **%s** `%s`\n\n   ```\n   %s\n   ```\n", i+1, escapeCell(opt.Name), opt.ID, opt.Command)
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
