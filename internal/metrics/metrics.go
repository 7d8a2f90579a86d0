package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the evaluation instrumentation.
type Metrics struct {
	evaluations *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    prometheus.Histogram
}

// New registers the guardrail metrics against the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bankguard",
			Name:      "evaluations_total",
			Help:      "Completed evaluations by verdict.",
		}, []string{"verdict"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bankguard",
			Name:      "oracle_failures_total",
			Help:      "Failed evaluations by failure kind.",
		}, []string{"kind"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bankguard",
			Name:      "evaluation_duration_seconds",
			Help:      "End-to-end evaluation latency including the oracle call.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}
}

// ObserveVerdict records one completed evaluation.
func (m *Metrics) ObserveVerdict(verdict string, elapsed time.Duration) {
	m.evaluations.WithLabelValues(verdict).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// ObserveFailure records one failed evaluation.
func (m *Metrics) ObserveFailure(kind string, elapsed time.Duration) {
	m.failures.WithLabelValues(kind).Inc()
	m.duration.Observe(elapsed.Seconds())
}
