package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/debloat"
	"github.com/aretw0/debloat/internal/adapters/file"
	"github.com/aretw0/debloat/internal/config"
	"github.com/aretw0/debloat/internal/journal"
	"github.com/aretw0/debloat/pkg/adapters/memory"
	"github.com/aretw0/debloat/pkg/adapters/process"
	"github.com/aretw0/debloat/pkg/adapters/redis"
	"github.com/aretw0/debloat/pkg/catalog"
	"github.com/aretw0/debloat/pkg/observability"
	"github.com/aretw0/debloat/pkg/ports"
	"github.com/aretw0/debloat/pkg/session"
)

// Stack is an engine together with the collaborators the commands need to reach directly.
type Stack struct {
	Config      *config.Config
	Logger      *slog.Logger
	Engine      *debloat.Engine
	Broadcaster *observability.Broadcaster
	Metrics     *observability.Metrics
	// Watcher is set when the catalog file is hot-reloaded.
	Watcher *catalog.Watcher

	closers []func() error
}

// StackOptions tunes the stack for the command building it.
type StackOptions struct {
	// Interactive applies the cosmetic delays when none are configured.
	Interactive bool
	// Executor replaces the shell runner.
	Executor  ports.CommandExecutor
	Observers []ports.Observer
}

// createStack wires an engine from cfg following the CLI conventions.
func createStack(cfg *config.Config, logger *slog.Logger, opts StackOptions) (*Stack, error) {
	st := &Stack{
		Config:      cfg,
		Logger:      logger,
		Broadcaster: observability.NewBroadcaster(observability.WithBroadcastLogger(logger)),
		Metrics:     observability.NewMetrics(),
	}

	// 1. Durable journal
	var jrnl ports.Journal = ports.NopJournal{}
	if cfg.JournalEnabled() {
		j, err := journal.Open(cfg.Journal)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, j.Close)
		jrnl = j
	}

	// 2. Catalog
	provider, err := st.catalogProvider()
	if err != nil {
		st.Close()
		return nil, err
	}

	// 3. Preferences
	store, sessionOpts, err := st.preferenceStore()
	if err != nil {
		st.Close()
		return nil, err
	}
	sessionOpts = append(sessionOpts, session.WithLogger(logger))

	// 4. Executor
	executor := opts.Executor
	if executor == nil {
		executor = process.NewRunner(
			process.WithShell(cfg.Shell...),
			process.WithJournal(jrnl),
			process.WithLogger(logger),
		)
	}

	planDelay, stepDelay := cfg.PlanDelay, cfg.StepDelay
	if opts.Interactive && planDelay == 0 && stepDelay == 0 {
		planDelay, stepDelay = debloat.InteractivePlanDelay, debloat.InteractiveStepDelay
	}

	engineOpts := []debloat.Option{
		debloat.WithCatalog(provider),
		debloat.WithExecutor(executor),
		debloat.WithJournal(jrnl),
		debloat.WithStore(store, sessionOpts...),
		debloat.WithLogger(logger),
		debloat.WithDelays(planDelay, stepDelay),
		debloat.WithObserver(st.Broadcaster),
		debloat.WithObserver(st.Metrics),
	}
	for _, obs := range opts.Observers {
		engineOpts = append(engineOpts, debloat.WithObserver(obs))
	}

	st.Engine, err = debloat.New(engineOpts...)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return st, nil
}

func (st *Stack) catalogProvider() (ports.CatalogProvider, error) {
	cfg := st.Config
	switch {
	case cfg.Catalog == "":
		return catalog.NewStatic(catalog.Default()), nil
	case cfg.Watch:
		w, err := catalog.NewWatcher(cfg.Catalog, catalog.WithWatchLogger(st.Logger))
		if err != nil {
			return nil, err
		}
		st.Watcher = w
		return w, nil
	default:
		return catalog.Open(cfg.Catalog)
	}
}

func (st *Stack) preferenceStore() (ports.PreferenceStore, []session.Option, error) {
	sc := st.Config.Store
	switch sc.Driver {
	case config.DriverMemory:
		return memory.NewStore(), nil, nil
	case config.DriverFile:
		return file.New(sc.Dir), nil, nil
	case config.DriverRedis:
		store := redis.New(sc.Redis.Addr, sc.Redis.Password, sc.Redis.DB,
			redis.WithPrefix(sc.Redis.Prefix),
			redis.WithTTL(sc.Redis.TTL),
		)
		st.closers = append(st.closers, store.Close)
		locker := redis.NewLocker(store.Client(), sc.Redis.Prefix)
		return store, []session.Option{session.WithLocker(locker)}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", sc.Driver)
	}
}

// Close releases the journal and store connections.
func (st *Stack) Close() error {
	var errs []error
	for i := len(st.closers) - 1; i >= 0; i-- {
		errs = append(errs, st.closers[i]())
	}
	st.closers = nil
	return errors.Join(errs...)
}
