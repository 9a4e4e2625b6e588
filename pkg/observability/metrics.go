package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/debloat/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is a ports.Observer that records Prometheus metrics for sessions.
type Metrics struct {
	registry *prometheus.Registry

	runs         *prometheus.CounterVec
	steps        *prometheus.CounterVec
	stepDuration prometheus.Histogram
	toggles      *prometheus.CounterVec
	inFlight     prometheus.Gauge
	progress     *prometheus.GaugeVec
}

// NewMetrics registers the debloat collectors on a dedicated registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debloat_runs_total",
				Help: "Runs by lifecycle event (started, empty, completed)",
			},
			[]string{"event"},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debloat_steps_total",
				Help: "Executed steps by option and outcome",
			},
			[]string{"option_id", "outcome"},
		),
		stepDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "debloat_step_duration_seconds",
				Help:    "Duration of command executions",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
		),
		toggles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debloat_toggles_total",
				Help: "Preference toggles by kind",
			},
			[]string{"kind"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "debloat_runs_in_flight",
				Help: "Runs currently executing",
			},
		),
		progress: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "debloat_run_progress_percent",
				Help: "Progress of the latest run per session",
			},
			[]string{"session_id"},
		),
	}
	m.registry.MustRegister(m.runs, m.steps, m.stepDuration, m.toggles, m.inFlight, m.progress)
	return m
}

// Registry exposes the registry, e.g. for tests or extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Notify implements ports.Observer.
func (m *Metrics) Notify(_ context.Context, u domain.Update) {
	switch u.Kind {
	case domain.UpdateRunStarted:
		m.runs.WithLabelValues("started").Inc()
		m.inFlight.Inc()
	case domain.UpdateRunEmpty:
		m.runs.WithLabelValues("empty").Inc()
		m.inFlight.Dec()
	case domain.UpdateRunCompleted:
		m.runs.WithLabelValues("completed").Inc()
		m.inFlight.Dec()
	case domain.UpdateStepFinished:
		if u.Result != nil {
			outcome := "ok"
			if !u.Result.OK {
				outcome = "failed"
			}
			m.steps.WithLabelValues(u.OptionID, outcome).Inc()
			m.stepDuration.Observe(u.Result.Duration.Seconds())
		}
	case domain.UpdateOptionToggled, domain.UpdateCategoryToggled, domain.UpdateThemeToggled:
		m.toggles.WithLabelValues(string(u.Kind)).Inc()
		return
	}
	m.progress.WithLabelValues(u.SessionID).Set(float64(u.Progress))
}
