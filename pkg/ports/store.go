package ports

import (
	"context"

	"github.com/aretw0/debloat/pkg/domain"
)

// PreferenceStore persists the preferences of a session, so a selection survives restarts.
type PreferenceStore interface {
	// Save persists the preferences for a given session ID.
	Save(ctx context.Context, sessionID string, prefs *domain.Preferences) error

	// Load retrieves the preferences for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Preferences, error)

	// Delete removes the preferences for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
