package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the debloat ASCII banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"      _      _     _             _   ", "#34d399"},
		{"   __| | ___| |__ | | ___   __ _| |_ ", "#2dd4bf"},
		{"  / _` |/ _ \\ '_ \\| |/ _ \\ / _` | __|", "#22d3ee"},
		{" | (_| |  __/ |_) | | (_) | (_| | |_ ", "#38bdf8"},
		{"  \\__,_|\\___|_.__/|_|\\___/ \\__,_|\\__|", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
