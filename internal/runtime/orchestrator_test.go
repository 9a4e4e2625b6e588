package runtime_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/debloat/internal/runtime"
	"github.com/aretw0/debloat/pkg/catalog"
	"github.com/aretw0/debloat/pkg/domain"
	"github.com/aretw0/debloat/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedExecutor returns canned results per command and records what ran.
type scriptedExecutor struct {
	mu      sync.Mutex
	results map[string]domain.StepResult
	ran     []string
}

func newScripted(results map[string]domain.StepResult) *scriptedExecutor {
	return &scriptedExecutor{results: results}
}

func (e *scriptedExecutor) Execute(_ context.Context, command string) domain.StepResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ran = append(e.ran, command)
	if res, ok := e.results[command]; ok {
		return res
	}
	return domain.Succeeded("")
}

func (e *scriptedExecutor) Ran() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.ran...)
}

type recorder struct {
	mu      sync.Mutex
	updates []domain.Update
}

func (r *recorder) Notify(_ context.Context, u domain.Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
}

func (r *recorder) Updates() []domain.Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Update(nil), r.updates...)
}

type memJournal struct {
	mu    sync.Mutex
	lines []string
}

func (j *memJournal) Info(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.lines = append(j.lines, "INFO "+msg)
}

func (j *memJournal) Error(msg string, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.lines = append(j.lines, "ERROR "+msg+": "+err.Error())
}

func opt(id string, def bool) domain.Option {
	return domain.Option{ID: id, Name: strings.ToUpper(id), Default: def, Command: "cmd-" + id}
}

func provider(cats ...domain.Category) ports.CatalogProvider {
	return catalog.NewStatic(&domain.Catalog{Categories: cats})
}

func TestOrchestrator_SingleDefaultOption(t *testing.T) {
	exec := newScripted(map[string]domain.StepResult{"cmd-a": domain.Succeeded("done a")})
	rec := &recorder{}
	o := runtime.New(provider(domain.Category{ID: "c", Options: []domain.Option{opt("a", true), opt("b", false)}}), exec,
		runtime.WithObserver(rec))

	view := o.View()
	assert.Equal(t, map[string]bool{"a": true, "b": false}, view.Selection)
	assert.Equal(t, domain.WelcomeLog(), view.Run.Log)

	require.True(t, o.Run(context.Background()))

	assert.Equal(t, []string{"cmd-a"}, exec.Ran())

	view = o.View()
	assert.False(t, view.Run.Running)
	assert.Equal(t, 100, view.Run.Progress)
	assert.Equal(t, 1, view.Run.TotalSteps)
	assert.Equal(t, []string{
		domain.MsgRunBanner,
		"Running: A...",
		"Result: done a",
		domain.MsgRunCompleted,
	}, view.Run.Log)

	updates := rec.Updates()
	require.Len(t, updates, 4)
	assert.Equal(t, domain.UpdateRunStarted, updates[0].Kind)
	assert.Equal(t, domain.UpdateStepStarted, updates[1].Kind)
	assert.Equal(t, domain.UpdateStepFinished, updates[2].Kind)
	assert.Equal(t, domain.UpdateRunCompleted, updates[3].Kind)
	assert.True(t, updates[3].Terminal())
	assert.False(t, updates[3].Running)
}

func TestOrchestrator_RestorePointRunsFirst(t *testing.T) {
	exec := newScripted(nil)
	o := runtime.New(provider(
		domain.Category{ID: "c1", Options: []domain.Option{opt("other1", true), opt(domain.RestorePointID, true)}},
		domain.Category{ID: "c2", Options: []domain.Option{opt("other2", true)}},
	), exec)

	require.True(t, o.Run(context.Background()))

	assert.Equal(t, []string{"cmd-" + domain.RestorePointID, "cmd-other1", "cmd-other2"}, exec.Ran())
}

func TestOrchestrator_FailedStepStillCompletes(t *testing.T) {
	exec := newScripted(map[string]domain.StepResult{
		"cmd-a": domain.Failed(1, "access denied"),
		"cmd-b": domain.Failed(2, ""),
	})
	j := &memJournal{}
	o := runtime.New(provider(domain.Category{ID: "c", Options: []domain.Option{opt("a", true), opt("b", true), opt("c", true)}}), exec,
		runtime.WithJournal(j))

	require.True(t, o.Run(context.Background()))

	view := o.View()
	assert.Equal(t, 100, view.Run.Progress)
	assert.False(t, view.Run.Running)
	assert.Contains(t, view.Run.Log, "Result: Error: access denied")
	assert.Contains(t, view.Run.Log, "Result: Error: Unknown shell error")
	assert.Contains(t, view.Run.Log, "Result: "+domain.MsgStepSucceeded)
	assert.Equal(t, domain.MsgRunCompleted, view.Run.Log[len(view.Run.Log)-1])

	require.NotEmpty(t, j.lines)
	assert.Equal(t, "INFO "+domain.JournalBanner, j.lines[0])
	assert.Equal(t, "INFO "+domain.MsgRunCompleted, j.lines[len(j.lines)-1])
}

func TestOrchestrator_EmptyPlan(t *testing.T) {
	exec := newScripted(nil)
	rec := &recorder{}
	o := runtime.New(provider(domain.Category{ID: "c", Options: []domain.Option{opt("a", false)}}), exec,
		runtime.WithObserver(rec))

	require.True(t, o.Run(context.Background()))

	view := o.View()
	assert.Empty(t, exec.Ran())
	assert.Equal(t, 0, view.Run.Progress)
	assert.False(t, view.Run.Running)
	assert.Equal(t, []string{domain.MsgRunBanner, domain.MsgNothingSelected}, view.Run.Log)

	updates := rec.Updates()
	require.Len(t, updates, 2)
	assert.Equal(t, domain.UpdateRunEmpty, updates[1].Kind)
	assert.True(t, updates[1].Terminal())
}

func TestOrchestrator_ProgressPerStep(t *testing.T) {
	tests := []struct {
		steps int
		want  []int
	}{
		{steps: 3, want: []int{33, 66, 99, 100}},
		{steps: 4, want: []int{25, 50, 75, 100}},
		{steps: 6, want: []int{16, 32, 48, 64, 80, 96}},
	}
	for _, tt := range tests {
		var opts []domain.Option
		for i := range tt.steps {
			opts = append(opts, opt(string(rune('a'+i)), true))
		}
		rec := &recorder{}
		o := runtime.New(provider(domain.Category{ID: "c", Options: opts}), newScripted(nil), runtime.WithObserver(rec))

		require.True(t, o.Run(context.Background()))

		var got []int
		for _, u := range rec.Updates() {
			if u.Kind == domain.UpdateStepFinished {
				got = append(got, u.Progress)
			}
		}
		assert.Equal(t, tt.want[:tt.steps], got, "steps=%d", tt.steps)
		assert.Equal(t, 100, o.View().Run.Progress)
	}
}

func TestOrchestrator_UpdatesAreOrderedAndMonotonic(t *testing.T) {
	rec := &recorder{}
	o := runtime.New(provider(domain.Category{ID: "c", Options: []domain.Option{opt("a", true), opt("b", true), opt("c", true)}}),
		newScripted(nil), runtime.WithObserver(rec))

	require.True(t, o.Start(context.Background()))
	require.NoError(t, o.Wait(context.Background()))

	updates := rec.Updates()
	require.Len(t, updates, 1+2*3+1)
	for i := 1; i < len(updates); i++ {
		assert.Equal(t, updates[i-1].Seq+1, updates[i].Seq)
		assert.GreaterOrEqual(t, updates[i].Progress, updates[i-1].Progress)
		assert.Equal(t, updates[i-1].LogLength+1, updates[i].LogLength)
	}

	// Starting a step never moves progress; finishing one does.
	for _, u := range updates {
		if u.Kind == domain.UpdateStepStarted {
			assert.Equal(t, (u.Step-1)*33, u.Progress)
		}
	}
}

// gatedExecutor blocks every command until released.
type gatedExecutor struct {
	entered chan string
	release chan struct{}
}

func (g *gatedExecutor) Execute(_ context.Context, command string) domain.StepResult {
	g.entered <- command
	<-g.release
	return domain.Succeeded("ok")
}

func TestOrchestrator_StartWhileRunningIsNoop(t *testing.T) {
	gate := &gatedExecutor{entered: make(chan string, 4), release: make(chan struct{})}
	o := runtime.New(provider(domain.Category{ID: "c", Options: []domain.Option{opt("a", true), opt("b", true)}}), gate)

	require.True(t, o.Start(context.Background()))
	<-gate.entered

	before := o.View().Run
	assert.True(t, before.Running)

	assert.False(t, o.Start(context.Background()))
	assert.False(t, o.Run(context.Background()))

	after := o.View().Run
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, before.Progress, after.Progress)
	assert.Equal(t, before.Log, after.Log)
	assert.Equal(t, before.TotalSteps, after.TotalSteps)

	close(gate.release)
	require.NoError(t, o.Wait(context.Background()))
	assert.False(t, o.Running())
}

func TestOrchestrator_TogglesDuringRunDoNotAffectPlan(t *testing.T) {
	gate := &gatedExecutor{entered: make(chan string, 4), release: make(chan struct{})}
	o := runtime.New(provider(domain.Category{ID: "c", Options: []domain.Option{opt("a", true), opt("b", true), opt("c", false)}}), gate)
	ctx := context.Background()

	require.True(t, o.Start(ctx))
	assert.Equal(t, "cmd-a", <-gate.entered)

	enabled, err := o.ToggleOption(ctx, "b")
	require.NoError(t, err)
	assert.False(t, enabled)
	enabled, err = o.ToggleOption(ctx, "c")
	require.NoError(t, err)
	assert.True(t, enabled)

	close(gate.release)
	require.NoError(t, o.Wait(ctx))

	assert.Equal(t, "cmd-b", <-gate.entered)
	assert.Empty(t, gate.entered)

	view := o.View()
	assert.Equal(t, 2, view.Run.TotalSteps)
	assert.Equal(t, map[string]bool{"a": true, "b": false, "c": true}, view.Selection)
	assert.Equal(t, 2, view.PlanLength)
}

func TestOrchestrator_StartIgnoresCallerCancellation(t *testing.T) {
	gate := &gatedExecutor{entered: make(chan string, 4), release: make(chan struct{})}
	o := runtime.New(provider(domain.Category{ID: "c", Options: []domain.Option{opt("a", true), opt("b", true)}}), gate)

	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, o.Start(ctx))
	<-gate.entered
	cancel()
	close(gate.release)

	require.NoError(t, o.Wait(context.Background()))
	view := o.View()
	assert.Equal(t, 100, view.Run.Progress)
	assert.Equal(t, domain.MsgRunCompleted, view.Run.Log[len(view.Run.Log)-1])
}

func TestOrchestrator_Toggles(t *testing.T) {
	rec := &recorder{}
	o := runtime.New(provider(domain.Category{ID: "c", Collapsed: true, Options: []domain.Option{opt("a", true), opt("b", false)}}),
		newScripted(nil), runtime.WithObserver(rec), runtime.WithSessionID("s1"))
	ctx := context.Background()

	t.Run("Option Involution", func(t *testing.T) {
		v, err := o.ToggleOption(ctx, "a")
		require.NoError(t, err)
		assert.False(t, v)
		v, err = o.ToggleOption(ctx, "a")
		require.NoError(t, err)
		assert.True(t, v)
	})

	t.Run("Unknown Option", func(t *testing.T) {
		before := o.View().Selection
		_, err := o.ToggleOption(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrUnknownOption)
		assert.Equal(t, before, o.View().Selection)
	})

	t.Run("Category", func(t *testing.T) {
		v, err := o.ToggleCategory(ctx, "c")
		require.NoError(t, err)
		assert.False(t, v)
		_, err = o.ToggleCategory(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrUnknownCategory)
	})

	t.Run("Theme", func(t *testing.T) {
		assert.Equal(t, domain.ThemeDark, o.ToggleTheme(ctx))
		assert.Equal(t, domain.ThemeLight, o.ToggleTheme(ctx))
	})

	kinds := map[domain.UpdateKind]int{}
	for _, u := range rec.Updates() {
		assert.Equal(t, "s1", u.SessionID)
		kinds[u.Kind]++
	}
	assert.Equal(t, 2, kinds[domain.UpdateOptionToggled])
	assert.Equal(t, 1, kinds[domain.UpdateCategoryToggled])
	assert.Equal(t, 2, kinds[domain.UpdateThemeToggled])
}

func TestOrchestrator_SeededPreferencesSurvive(t *testing.T) {
	prefs := domain.NewPreferences()
	prefs.Selection = map[string]bool{"a": false}

	exec := newScripted(nil)
	o := runtime.New(provider(domain.Category{ID: "c", Options: []domain.Option{opt("a", true), opt("b", true)}}), exec,
		runtime.WithPreferences(prefs))

	require.True(t, o.Run(context.Background()))
	assert.Equal(t, []string{"cmd-b"}, exec.Ran())

	// The seed is copied, not shared.
	prefs.Selection["a"] = true
	assert.False(t, o.Preferences().Selection["a"])
}

func TestOrchestrator_Unsubscribe(t *testing.T) {
	rec := &recorder{}
	o := runtime.New(provider(domain.Category{ID: "c", Options: []domain.Option{opt("a", true)}}), newScripted(nil))
	ctx := context.Background()

	unsubscribe := o.Subscribe(rec)
	o.ToggleTheme(ctx)
	unsubscribe()
	o.ToggleTheme(ctx)

	assert.Len(t, rec.Updates(), 1)
}

func TestOrchestrator_Delays(t *testing.T) {
	o := runtime.New(provider(domain.Category{ID: "c", Options: []domain.Option{opt("a", true), opt("b", true)}}),
		newScripted(nil), runtime.WithDelays(20*time.Millisecond, 30*time.Millisecond))

	start := time.Now()
	require.True(t, o.Run(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestOrchestrator_WaitWithoutRun(t *testing.T) {
	o := runtime.New(provider(domain.Category{ID: "c", Options: []domain.Option{opt("a", true)}}), newScripted(nil))
	assert.NoError(t, o.Wait(context.Background()))
}
