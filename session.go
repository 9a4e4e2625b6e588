package debloat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/debloat/internal/runtime"
	"github.com/aretw0/debloat/pkg/domain"
	"github.com/aretw0/debloat/pkg/ports"
	"github.com/aretw0/debloat/pkg/session"
)

// Session is the handle a presentation layer holds for one user.
// Preference changes are persisted through the engine's session manager.
type Session struct {
	id      string
	orch    *runtime.Orchestrator
	manager *session.Manager
	logger  *slog.Logger
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// Start begins a run in the background. It returns false if a run is already in flight.
func (s *Session) Start(ctx context.Context) bool {
	return s.orch.Start(ctx)
}

// Run executes a run synchronously. It returns false if a run is already in flight.
func (s *Session) Run(ctx context.Context) bool {
	return s.orch.Run(ctx)
}

// Wait blocks until the current run has finished.
func (s *Session) Wait(ctx context.Context) error {
	return s.orch.Wait(ctx)
}

// Running reports whether a run is in flight.
func (s *Session) Running() bool {
	return s.orch.Running()
}

// View returns a snapshot of the session.
func (s *Session) View() domain.View {
	return s.orch.View()
}

// Plan returns the plan a run started now would execute.
func (s *Session) Plan() domain.Plan {
	return s.orch.Plan()
}

// Subscribe adds an observer for this session only.
func (s *Session) Subscribe(obs ports.Observer) (unsubscribe func()) {
	return s.orch.Subscribe(obs)
}

// ToggleOption flips an option and persists the preferences.
func (s *Session) ToggleOption(ctx context.Context, id string) (bool, error) {
	v, err := s.orch.ToggleOption(ctx, id)
	if err != nil {
		return false, err
	}
	return v, s.persist(ctx)
}

// ToggleCategory flips a category's collapsed flag and persists the preferences.
func (s *Session) ToggleCategory(ctx context.Context, id string) (bool, error) {
	v, err := s.orch.ToggleCategory(ctx, id)
	if err != nil {
		return false, err
	}
	return v, s.persist(ctx)
}

// ToggleTheme switches the theme and persists the preferences.
func (s *Session) ToggleTheme(ctx context.Context) (string, error) {
	theme := s.orch.ToggleTheme(ctx)
	return theme, s.persist(ctx)
}

// SetOption enables or disables an option, toggling only if needed.
func (s *Session) SetOption(ctx context.Context, id string, enabled bool) error {
	current, ok := s.orch.View().Selection[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownOption, id)
	}
	if current == enabled {
		return nil
	}
	_, err := s.ToggleOption(ctx, id)
	return err
}

func (s *Session) persist(ctx context.Context) error {
	if err := s.manager.Save(ctx, s.id, s.orch.Preferences()); err != nil {
		s.logger.Warn("Failed to persist preferences", "session_id", s.id, "error", err)
		return err
	}
	return nil
}
