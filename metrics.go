package qdie

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports throw pool activity to Prometheus.
type Metrics struct {
	Throws          *prometheus.CounterVec
	Outcomes        *prometheus.CounterVec
	Trials          prometheus.Counter
	BackendFailures prometheus.Counter
	Rejected        prometheus.Counter
	ThrowLatency    prometheus.Histogram
}

// NewMetrics builds the collectors and registers them on reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Throws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qdie",
			Name:      "throws_total",
			Help:      "Die throws completed, by number of sides.",
		}, []string{"sides"}),
		Outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qdie",
			Name:      "outcomes_total",
			Help:      "Decoded outcomes, by number of sides and face.",
		}, []string{"sides", "outcome"}),
		Trials: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "qdie",
			Name:      "trials_total",
			Help:      "Biased trials sent to the register backend.",
		}),
		BackendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "qdie",
			Name:      "backend_failures_total",
			Help:      "Throw attempts that failed against the backend.",
		}),
		Rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "qdie",
			Name:      "rejected_total",
			Help:      "Jobs refused by an open circuit breaker or a full queue.",
		}),
		ThrowLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "qdie",
			Name:      "throw_duration_seconds",
			Help:      "Time from scheduling a throw to its decoded outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Throws, m.Outcomes, m.Trials, m.BackendFailures, m.Rejected, m.ThrowLatency)
	}

	return m
}

func (m *Metrics) recordThrow(plan *EncodingPlan, outcome int, scheduled time.Time) {
	if m == nil {
		return
	}

	sides := strconv.Itoa(plan.Sides())
	m.Throws.WithLabelValues(sides).Inc()
	m.Outcomes.WithLabelValues(sides, strconv.Itoa(outcome)).Inc()
	m.Trials.Add(float64(plan.Len()))
	m.ThrowLatency.Observe(time.Since(scheduled).Seconds())
}

func (m *Metrics) recordFailure() {
	if m == nil {
		return
	}
	m.BackendFailures.Inc()
}

func (m *Metrics) recordRejected() {
	if m == nil {
		return
	}
	m.Rejected.Inc()
}
