package observability_test

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/debloat/pkg/domain"
	"github.com/aretw0/debloat/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordsRun(t *testing.T) {
	m := observability.NewMetrics()
	ctx := context.Background()

	ok := domain.Succeeded("fine")
	ok.Duration = 120 * time.Millisecond
	failed := domain.Failed(1, "nope")

	m.Notify(ctx, domain.Update{SessionID: "s", Kind: domain.UpdateRunStarted})
	m.Notify(ctx, domain.Update{SessionID: "s", Kind: domain.UpdateStepFinished, OptionID: "a", Result: &ok, Progress: 50})
	m.Notify(ctx, domain.Update{SessionID: "s", Kind: domain.UpdateStepFinished, OptionID: "b", Result: &failed, Progress: 100})
	m.Notify(ctx, domain.Update{SessionID: "s", Kind: domain.UpdateRunCompleted, Progress: 100})
	m.Notify(ctx, domain.Update{SessionID: "s", Kind: domain.UpdateThemeToggled})

	assert.Equal(t, 1, testutil.CollectAndCount(m.Registry(), "debloat_runs_in_flight"))

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := string(body)
	assert.Contains(t, out, `debloat_runs_total{event="started"} 1`)
	assert.Contains(t, out, `debloat_runs_total{event="completed"} 1`)
	assert.Contains(t, out, `debloat_steps_total{option_id="a",outcome="ok"} 1`)
	assert.Contains(t, out, `debloat_steps_total{option_id="b",outcome="failed"} 1`)
	assert.Contains(t, out, `debloat_toggles_total{kind="theme_toggled"} 1`)
	assert.Contains(t, out, `debloat_runs_in_flight 0`)
	assert.Contains(t, out, `debloat_run_progress_percent{session_id="s"} 100`)
	assert.Contains(t, out, `debloat_step_duration_seconds_count 2`)
}
