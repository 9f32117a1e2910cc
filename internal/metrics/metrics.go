// Package metrics exposes Prometheus instrumentation for case analysis.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/cold/internal/analysis"
)

const namespace = "cold"

// Step outcomes.
const (
	OutcomeOK                  = "ok"
	OutcomeUnavailable         = "unavailable"
	OutcomeMissingPrerequisite = "missing_prerequisite"
	OutcomeCancelled           = "cancelled"
	OutcomeError               = "error"
)

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry     *prometheus.Registry
	stepDuration *prometheus.HistogramVec
	stepOutcomes *prometheus.CounterVec
	themeRetries prometheus.Counter
	runs         *prometheus.CounterVec
}

// New registers the analysis collectors together with the Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		stepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "step_duration_seconds",
			Help:      "Duration of extraction steps, including retries.",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 80, 160, 320},
		}, []string{"step"}),
		stepOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "steps_total",
			Help:      "Extraction steps by outcome.",
		}, []string{"step", "outcome"}),
		themeRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "theme_retries_total",
			Help:      "Theme classification attempts rejected for invalid themes.",
		}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "runs_total",
			Help:      "Workflow runs by terminal outcome.",
		}, []string{"outcome"}),
	}
}

// ObserveStep records the duration and outcome of one extraction step.
func (m *Metrics) ObserveStep(step analysis.Step, d time.Duration, err error) {
	m.stepDuration.WithLabelValues(string(step)).Observe(d.Seconds())
	m.stepOutcomes.WithLabelValues(string(step), Outcome(err)).Inc()
}

func (m *Metrics) ObserveThemeRetry() {
	m.themeRetries.Inc()
}

// ObserveRun records how a workflow run ended.
func (m *Metrics) ObserveRun(err error) {
	m.runs.WithLabelValues(Outcome(err)).Inc()
}

// Outcome labels err.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, analysis.ErrServiceUnavailable):
		return OutcomeUnavailable
	case errors.Is(err, analysis.ErrMissingPrerequisite):
		return OutcomeMissingPrerequisite
	case errors.Is(err, context.Canceled):
		return OutcomeCancelled
	default:
		return OutcomeError
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
