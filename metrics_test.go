package picovalid

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.observe(outcomeValidated)
	m.observe(outcomeValidated)
	m.observe(outcomeBindingError)
	m.observeTransform(250 * time.Microsecond)

	if got := testutil.ToFloat64(m.calls.WithLabelValues(outcomeValidated)); got != 2 {
		t.Fatalf("validated count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.calls.WithLabelValues(outcomeBindingError)); got != 1 {
		t.Fatalf("binding_error count = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(reg, "picovalid_transform_duration_seconds"); got != 1 {
		t.Fatalf("histogram series = %d, want 1", got)
	}
}

func TestMetricsNilReceiver(t *testing.T) {
	var m *Metrics
	m.observe(outcomeValidated)
	m.observeTransform(time.Millisecond)
}
