package debloat

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/debloat/internal/logging"
	"github.com/aretw0/debloat/internal/runtime"
	"github.com/aretw0/debloat/pkg/adapters/memory"
	"github.com/aretw0/debloat/pkg/adapters/process"
	"github.com/aretw0/debloat/pkg/catalog"
	"github.com/aretw0/debloat/pkg/domain"
	"github.com/aretw0/debloat/pkg/ports"
	"github.com/aretw0/debloat/pkg/session"
)

// DefaultSessionID is used when a caller does not name a session.
const DefaultSessionID = "default"

// Cosmetic pauses used by interactive surfaces so progress can be watched.
const (
	InteractivePlanDelay = 100 * time.Millisecond
	InteractiveStepDelay = 200 * time.Millisecond
)

// Engine is the high-level entry point for the debloat library.
// It owns the shared collaborators (catalog, executor, journal, persistence)
// and hands out one Session per session ID.
type Engine struct {
	catalog   ports.CatalogProvider
	executor  ports.CommandExecutor
	journal   ports.Journal
	manager   *session.Manager
	observers []ports.Observer
	logger    *slog.Logger
	planDelay time.Duration
	stepDelay time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithCatalog sets the catalog provider. Defaults to the embedded catalog.
func WithCatalog(p ports.CatalogProvider) Option {
	return func(e *Engine) {
		e.catalog = p
	}
}

// WithExecutor sets the command executor. Defaults to a shell process runner.
func WithExecutor(x ports.CommandExecutor) Option {
	return func(e *Engine) {
		e.executor = x
	}
}

// WithJournal sets the durable journal shared by every session.
func WithJournal(j ports.Journal) Option {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithStore persists session preferences in store.
func WithStore(store ports.PreferenceStore, opts ...session.Option) Option {
	return func(e *Engine) {
		e.manager = session.NewManager(store, opts...)
	}
}

// WithSessionManager injects a fully configured session manager.
func WithSessionManager(m *session.Manager) Option {
	return func(e *Engine) {
		e.manager = m
	}
}

// WithObserver subscribes obs to every session created by the engine.
func WithObserver(obs ports.Observer) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, obs)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithDelays sets the cosmetic pauses after plan construction and after each step.
func WithDelays(plan, step time.Duration) Option {
	return func(e *Engine) {
		e.planDelay = plan
		e.stepDelay = step
	}
}

// New initializes a new Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.journal == nil {
		eng.journal = ports.NopJournal{}
	}
	if eng.catalog == nil {
		eng.catalog = catalog.NewStatic(catalog.Default())
	}
	if eng.executor == nil {
		eng.executor = process.NewRunner(
			process.WithJournal(eng.journal),
			process.WithLogger(eng.logger),
		)
	}
	if eng.manager == nil {
		eng.manager = session.NewManager(memory.NewStore(), session.WithLogger(eng.logger))
	}

	if err := eng.catalog.Catalog().Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return eng, nil
}

// Catalog returns the current catalog.
func (e *Engine) Catalog() *domain.Catalog {
	return e.catalog.Catalog()
}

// Sessions returns the IDs of the sessions opened in this process, sorted.
func (e *Engine) Sessions() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]string, 0, len(e.sessions))
	for id := range e.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Manager returns the session manager used for persistence.
func (e *Engine) Manager() *session.Manager {
	return e.manager
}

// Lookup returns an already opened session.
func (e *Engine) Lookup(id string) (*Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[id]
	return s, ok
}

// Session returns the session for id, opening it on first use.
// Opening loads stored preferences (or initializes them from catalog defaults).
func (e *Engine) Session(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		id = DefaultSessionID
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if s, ok := e.sessions[id]; ok {
		return s, nil
	}

	prefs, err := e.manager.LoadOrInit(ctx, id, e.catalog.Catalog())
	if err != nil {
		return nil, fmt.Errorf("failed to open session %s: %w", id, err)
	}

	opts := []runtime.Option{
		runtime.WithSessionID(id),
		runtime.WithPreferences(prefs),
		runtime.WithJournal(e.journal),
		runtime.WithLogger(e.logger.With("session_id", id)),
		runtime.WithDelays(e.planDelay, e.stepDelay),
	}
	for _, obs := range e.observers {
		opts = append(opts, runtime.WithObserver(obs))
	}

	s := &Session{
		id:      id,
		orch:    runtime.New(e.catalog, e.executor, opts...),
		manager: e.manager,
		logger:  e.logger,
	}
	e.sessions[id] = s
	e.logger.Debug("Session opened", "session_id", id)
	return s, nil
}

// Forget closes an idle session and deletes its stored preferences.
func (e *Engine) Forget(ctx context.Context, id string) error {
	e.mu.Lock()
	if s, ok := e.sessions[id]; ok {
		if s.Running() {
			e.mu.Unlock()
			return fmt.Errorf("session %s has a run in progress", id)
		}
		delete(e.sessions, id)
	}
	e.mu.Unlock()

	return e.manager.Delete(ctx, id)
}
