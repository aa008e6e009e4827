// Package metrics defines the Prometheus collectors for drive and simulate
// sessions. Collectors live in an instance-scoped registry rather than the
// package-global one, so tests and multiple app instances never collide.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for the sessions counter.
const (
	OutcomeDocked  = "docked"
	OutcomeMissed  = "missed"
	OutcomeAborted = "aborted"
	OutcomeError   = "error"
)

// Metrics bundles the collectors with their registry.
type Metrics struct {
	registry *prometheus.Registry

	CyclesTotal       prometheus.Counter
	SteeringOutput    prometheus.Histogram
	InferenceDuration prometheus.Histogram
	Sessions          *prometheus.CounterVec
}

// New creates a fresh registry with all collectors registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		CyclesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "fuzztruck",
			Name:      "cycles_total",
			Help:      "Control cycles completed (one pose poll plus one steering command).",
		}),
		SteeringOutput: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fuzztruck",
			Name:      "steering_output",
			Help:      "Steering commands sent, in [-1,1].",
			Buckets:   prometheus.LinearBuckets(-1, 0.25, 9),
		}),
		InferenceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fuzztruck",
			Name:      "inference_duration_seconds",
			Help:      "Wall time of one fuzzy inference cycle.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		Sessions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fuzztruck",
			Name:      "sessions_total",
			Help:      "Finished sessions by outcome.",
		}, []string{"outcome"}),
	}
}

// Gatherer exposes the registry for the /metrics endpoint.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
