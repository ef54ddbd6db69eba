// Package metrics records per-run provisioning metrics.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/flexprov/internal/events"
)

// Reconcile outcomes.
const (
	OutcomeFound   = "found"
	OutcomeCreated = "created"
	OutcomeFailed  = "failed"
)

// Recorder holds the collectors of one run in its own registry. A nil
// *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	reconcileTotal    *prometheus.CounterVec
	reconcileDuration *prometheus.HistogramVec
	eventsTotal       *prometheus.CounterVec
}

// NewRecorder creates a recorder with a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		reconcileTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flexprov",
				Name:      "reconcile_total",
				Help:      "Total number of reconciliations by resource kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		reconcileDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "flexprov",
				Name:      "reconcile_duration_seconds",
				Help:      "Duration of reconciliation in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~51s
			},
			[]string{"kind"},
		),
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flexprov",
				Name:      "events_total",
				Help:      "Total number of provisioning events by kind",
			},
			[]string{"kind"},
		),
	}
	r.registry.MustRegister(r.reconcileTotal, r.reconcileDuration, r.eventsTotal)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// RecordReconcile records one reconciliation of kind.
func (r *Recorder) RecordReconcile(kind, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.reconcileTotal.WithLabelValues(kind, outcome).Inc()
	r.reconcileDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveEvent counts a published event. It has the events.Handler shape so
// it can subscribe to a stream directly.
func (r *Recorder) ObserveEvent(e events.Event) {
	if r == nil {
		return
	}
	r.eventsTotal.WithLabelValues(string(e.Kind)).Inc()
}

// WriteFile writes the registry in the text exposition format to path.
func (r *Recorder) WriteFile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
