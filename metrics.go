package picovalid

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomePassthrough     = "passthrough"
	outcomeValidated       = "validated"
	outcomeBindingError    = "binding_error"
	outcomeValidationError = "validation_error"
)

// Metrics instruments intercepted calls. All methods are safe on a nil
// receiver, so an Interceptor without metrics pays only a nil check.
type Metrics struct {
	calls            *prometheus.CounterVec
	transformSeconds prometheus.Histogram
}

// NewMetrics builds and registers the collectors against reg. Pass
// prometheus.DefaultRegisterer for the process-default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "picovalid",
			Name:      "intercepted_calls_total",
			Help:      "Intercepted method calls by outcome.",
		}, []string{"outcome"}),
		transformSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "picovalid",
			Name:      "transform_duration_seconds",
			Help:      "Time spent binding and validating arguments.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 8),
		}),
	}
	reg.MustRegister(m.calls, m.transformSeconds)
	return m
}

func (m *Metrics) observe(outcome string) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeTransform(d time.Duration) {
	if m == nil {
		return
	}
	m.transformSeconds.Observe(d.Seconds())
}
