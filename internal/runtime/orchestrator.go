package runtime

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/aretw0/debloat/internal/logging"
	"github.com/aretw0/debloat/pkg/domain"
	"github.com/aretw0/debloat/pkg/ports"
	"github.com/google/uuid"
)

// Orchestrator owns the run state and preferences of one session.
//
// Run state is written only by the run loop while a run is in flight.
// Every mutation is published to observers before the next mutation can be
// published, so observers see updates in exactly the order the state changed.
type Orchestrator struct {
	sessionID string
	catalog   ports.CatalogProvider
	executor  ports.CommandExecutor
	journal   ports.Journal
	logger    *slog.Logger
	planDelay time.Duration
	stepDelay time.Duration
	now       func() time.Time

	mu    sync.Mutex
	run   domain.RunState
	prefs *domain.Preferences
	seq   int
	done  chan struct{}

	// pubMu is taken before mu is released so publication order matches mutation order.
	pubMu     sync.Mutex
	observers map[int]ports.Observer
	order     []int
	nextObs   int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSessionID tags published updates with a session ID.
func WithSessionID(id string) Option {
	return func(o *Orchestrator) {
		o.sessionID = id
	}
}

// WithJournal sets the durable journal.
func WithJournal(j ports.Journal) Option {
	return func(o *Orchestrator) {
		if j != nil {
			o.journal = j
		}
	}
}

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDelays sets the cosmetic pauses after plan construction and after each step.
func WithDelays(plan, step time.Duration) Option {
	return func(o *Orchestrator) {
		o.planDelay = plan
		o.stepDelay = step
	}
}

// WithPreferences seeds the session preferences (e.g. loaded from a store).
func WithPreferences(p *domain.Preferences) Option {
	return func(o *Orchestrator) {
		if p != nil {
			o.prefs = p.Clone()
		}
	}
}

// WithObserver subscribes an observer for the lifetime of the orchestrator.
func WithObserver(obs ports.Observer) Option {
	return func(o *Orchestrator) {
		o.addObserver(obs)
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// New creates an idle orchestrator.
func New(catalog ports.CatalogProvider, executor ports.CommandExecutor, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		catalog:   catalog,
		executor:  executor,
		journal:   ports.NopJournal{},
		logger:    logging.NewNop(),
		now:       time.Now,
		run:       domain.NewRunState(),
		prefs:     domain.NewPreferences(),
		observers: make(map[int]ports.Observer),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Subscribe adds an observer and returns a function that removes it.
// Observers must not call mutating methods of the orchestrator from Notify.
func (o *Orchestrator) Subscribe(obs ports.Observer) (unsubscribe func()) {
	o.pubMu.Lock()
	id := o.addObserver(obs)
	o.pubMu.Unlock()

	return func() {
		o.pubMu.Lock()
		defer o.pubMu.Unlock()
		delete(o.observers, id)
		for i, v := range o.order {
			if v == id {
				o.order = append(o.order[:i], o.order[i+1:]...)
				break
			}
		}
	}
}

func (o *Orchestrator) addObserver(obs ports.Observer) int {
	id := o.nextObs
	o.nextObs++
	o.observers[id] = obs
	o.order = append(o.order, id)
	return id
}

// Start begins a run in the background and reports whether it was accepted.
// It is a no-op returning false while a run is in flight.
// The run is detached from ctx cancellation; it always runs its plan to completion.
func (o *Orchestrator) Start(ctx context.Context) bool {
	runCtx := context.WithoutCancel(ctx)
	plan, ok := o.begin(runCtx)
	if !ok {
		return false
	}
	go o.execute(runCtx, plan)
	return true
}

// Run is Start followed by waiting for the run to finish.
func (o *Orchestrator) Run(ctx context.Context) bool {
	runCtx := context.WithoutCancel(ctx)
	plan, ok := o.begin(runCtx)
	if !ok {
		return false
	}
	o.execute(runCtx, plan)
	return true
}

// Wait blocks until the current run (if any) has finished or ctx is done.
func (o *Orchestrator) Wait(ctx context.Context) error {
	o.mu.Lock()
	done := o.done
	o.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Running reports whether a run is in flight.
func (o *Orchestrator) Running() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.run.Running
}

// begin performs the start transition and captures the plan.
func (o *Orchestrator) begin(ctx context.Context) (domain.Plan, bool) {
	o.mu.Lock()
	if o.run.Running {
		o.mu.Unlock()
		o.logger.Debug("Run already in progress, start ignored", "session_id", o.sessionID)
		return nil, false
	}

	cat := o.catalog.Catalog()
	o.prefs.EnsureDefaults(cat)
	plan := domain.BuildPlan(cat, o.prefs.Selection)

	o.run = domain.RunState{
		ID:         uuid.NewString(),
		Running:    true,
		TotalSteps: len(plan),
		Log:        []string{domain.MsgRunBanner},
		StartedAt:  o.now(),
	}
	o.done = make(chan struct{})

	u := o.update(domain.UpdateRunStarted)
	u.Line = domain.MsgRunBanner
	o.publishLocked(ctx, u)

	o.journal.Info(domain.JournalBanner)
	o.journal.Info(domain.MsgRunBanner)
	o.logger.Info("Run started", "session_id", o.sessionID, "steps", len(plan), "plan", plan.IDs())
	return plan, true
}

func (o *Orchestrator) execute(ctx context.Context, plan domain.Plan) {
	o.mu.Lock()
	done := o.done
	o.mu.Unlock()
	defer close(done)

	o.pause(o.planDelay)

	if len(plan) == 0 {
		o.commit(ctx, domain.UpdateRunEmpty, func(u *domain.Update) {
			o.run.Log = append(o.run.Log, domain.MsgNothingSelected)
			o.run.Running = false
			o.run.FinishedAt = o.now()
			u.Line = domain.MsgNothingSelected
		})
		o.journal.Info(domain.MsgNothingSelected)
		o.logger.Info("Run finished with empty plan", "session_id", o.sessionID)
		return
	}

	increment := domain.StepIncrement(len(plan))
	for i, opt := range plan {
		step := i + 1

		started := domain.StepStartedLine(opt.Name)
		o.commit(ctx, domain.UpdateStepStarted, func(u *domain.Update) {
			o.run.Log = append(o.run.Log, started)
			u.Line = started
			u.Step = step
			u.OptionID = opt.ID
		})
		o.journal.Info(started)

		res := o.executor.Execute(ctx, opt.Command)

		line := domain.StepResultLine(res)
		o.commit(ctx, domain.UpdateStepFinished, func(u *domain.Update) {
			o.run.Log = append(o.run.Log, line)
			o.run.Progress = domain.Advance(o.run.Progress, increment)
			u.Line = line
			u.Step = step
			u.OptionID = opt.ID
			u.Result = &res
		})
		o.journal.Info(line)
		o.logger.Debug("Step finished", "session_id", o.sessionID, "step", step, "option", opt.ID, "ok", res.OK)

		o.pause(o.stepDelay)
	}

	o.commit(ctx, domain.UpdateRunCompleted, func(u *domain.Update) {
		o.run.Progress = 100
		o.run.Log = append(o.run.Log, domain.MsgRunCompleted)
		o.run.Running = false
		o.run.FinishedAt = o.now()
		u.Line = domain.MsgRunCompleted
	})
	o.journal.Info(domain.MsgRunCompleted)
	o.logger.Info("Run completed", "session_id", o.sessionID, "steps", len(plan))
}

func (o *Orchestrator) pause(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// ToggleOption flips the selection of an option and returns its new value.
func (o *Orchestrator) ToggleOption(ctx context.Context, id string) (bool, error) {
	var enabled bool
	err := o.commitErr(ctx, domain.UpdateOptionToggled, func(u *domain.Update) error {
		v, err := o.prefs.ToggleOption(o.catalog.Catalog(), id)
		if err != nil {
			return err
		}
		enabled = v
		u.OptionID = id
		u.Enabled = &v
		return nil
	})
	return enabled, err
}

// ToggleCategory flips the collapsed flag of a category and returns its new value.
func (o *Orchestrator) ToggleCategory(ctx context.Context, id string) (bool, error) {
	var collapsed bool
	err := o.commitErr(ctx, domain.UpdateCategoryToggled, func(u *domain.Update) error {
		v, err := o.prefs.ToggleCategory(o.catalog.Catalog(), id)
		if err != nil {
			return err
		}
		collapsed = v
		u.CategoryID = id
		u.Collapsed = &v
		return nil
	})
	return collapsed, err
}

// ToggleTheme switches the theme and returns the new one.
func (o *Orchestrator) ToggleTheme(ctx context.Context) string {
	var theme string
	o.commit(ctx, domain.UpdateThemeToggled, func(u *domain.Update) {
		theme = o.prefs.ToggleTheme()
		u.Theme = theme
	})
	return theme
}

// View returns a consistent snapshot of the run state and preferences.
func (o *Orchestrator) View() domain.View {
	o.mu.Lock()
	defer o.mu.Unlock()

	cat := o.catalog.Catalog()
	o.prefs.EnsureDefaults(cat)
	return domain.View{
		Run:        o.run.Snapshot(),
		Selection:  maps.Clone(o.prefs.Selection),
		Collapsed:  maps.Clone(o.prefs.Collapsed),
		Theme:      o.prefs.Theme,
		PlanLength: len(domain.BuildPlan(cat, o.prefs.Selection)),
	}
}

// Plan returns the plan a run started now would execute.
func (o *Orchestrator) Plan() domain.Plan {
	o.mu.Lock()
	defer o.mu.Unlock()

	cat := o.catalog.Catalog()
	o.prefs.EnsureDefaults(cat)
	return domain.BuildPlan(cat, o.prefs.Selection)
}

// Preferences returns a copy of the current preferences.
func (o *Orchestrator) Preferences() *domain.Preferences {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.prefs.EnsureDefaults(o.catalog.Catalog())
	return o.prefs.Clone()
}

// commit applies mutate under the state lock and publishes the resulting update.
func (o *Orchestrator) commit(ctx context.Context, kind domain.UpdateKind, mutate func(u *domain.Update)) {
	_ = o.commitErr(ctx, kind, func(u *domain.Update) error {
		mutate(u)
		return nil
	})
}

// commitErr is commit for mutations that may be rejected; nothing is published on error.
func (o *Orchestrator) commitErr(ctx context.Context, kind domain.UpdateKind, mutate func(u *domain.Update) error) error {
	o.mu.Lock()
	u := o.update(kind)
	if err := mutate(&u); err != nil {
		o.mu.Unlock()
		return err
	}
	o.publishLocked(ctx, u)
	return nil
}

func (o *Orchestrator) update(kind domain.UpdateKind) domain.Update {
	return domain.Update{
		SessionID: o.sessionID,
		RunID:     o.run.ID,
		Kind:      kind,
	}
}

// publishLocked must be called with mu held; it releases mu.
func (o *Orchestrator) publishLocked(ctx context.Context, u domain.Update) {
	o.seq++
	u.Seq = o.seq
	u.Timestamp = o.now()
	u.LogLength = len(o.run.Log)
	u.Progress = o.run.Progress
	u.TotalSteps = o.run.TotalSteps
	u.Running = o.run.Running

	o.pubMu.Lock()
	o.mu.Unlock()
	defer o.pubMu.Unlock()

	for _, id := range o.order {
		o.observers[id].Notify(ctx, u)
	}
}
