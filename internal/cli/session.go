package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/debloat/pkg/session"
)

// ListPreferences prints the IDs of every stored session.
func ListPreferences(ctx context.Context, m *session.Manager, out io.Writer) error {
	ids, err := m.List(ctx)
	if err != nil {
		return fmt.Errorf("error listing sessions: %w", err)
	}
	if len(ids) == 0 {
		fmt.Fprintln(out, "No stored sessions found.")
		return nil
	}
	fmt.Fprintln(out, "Stored Sessions:")
	for _, id := range ids {
		fmt.Fprintln(out, "- "+id)
	}
	return nil
}

// InspectPreferences prints the stored preferences of a session as JSON.
func InspectPreferences(ctx context.Context, m *session.Manager, id string, out io.Writer) error {
	prefs, err := m.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("error loading session '%s': %w", id, err)
	}
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding session: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

// RemovePreferences deletes the stored preferences of a session.
func RemovePreferences(ctx context.Context, m *session.Manager, id string, out io.Writer) error {
	if err := m.Delete(ctx, id); err != nil {
		return fmt.Errorf("error removing session '%s': %w", id, err)
	}
	printSystemMessage(out, "Session '%s' removed.", id)
	return nil
}
