package api

import (
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/cookedfr/cookedfr/internal/upstream"
)

// Metrics exposes counters and gauges for the relay.
// Upstream failures are counted per kind; the kinds never reach clients.
type Metrics struct {
	inFlight           atomic.Int64
	fortunes           atomic.Int64
	validationFailures atomic.Int64
	upstreamFailures   map[upstream.Kind]*atomic.Int64
}

// NewMetrics constructs an empty Metrics collection.
func NewMetrics() *Metrics {
	m := &Metrics{upstreamFailures: make(map[upstream.Kind]*atomic.Int64, len(upstream.Kinds))}
	for _, k := range upstream.Kinds {
		m.upstreamFailures[k] = &atomic.Int64{}
	}
	return m
}

// IncInFlight increments the in-flight request gauge.
func (m *Metrics) IncInFlight() {
	if m == nil {
		return
	}
	m.inFlight.Add(1)
}

// DecInFlight decrements the in-flight request gauge.
func (m *Metrics) DecInFlight() {
	if m == nil {
		return
	}
	m.inFlight.Add(-1)
}

// InFlight reports the number of relay requests currently awaiting the upstream.
func (m *Metrics) InFlight() int64 {
	if m == nil {
		return 0
	}
	return m.inFlight.Load()
}

// IncFortunes increments the successful fortune counter.
func (m *Metrics) IncFortunes() {
	if m == nil {
		return
	}
	m.fortunes.Add(1)
}

// Fortunes reports how many fortunes were returned.
func (m *Metrics) Fortunes() int64 {
	if m == nil {
		return 0
	}
	return m.fortunes.Load()
}

// IncValidationFailures increments the counter for rejected names.
func (m *Metrics) IncValidationFailures() {
	if m == nil {
		return
	}
	m.validationFailures.Add(1)
}

// ValidationFailures reports how many requests were rejected with 400.
func (m *Metrics) ValidationFailures() int64 {
	if m == nil {
		return 0
	}
	return m.validationFailures.Load()
}

// IncUpstreamFailure increments the failure counter for kind.
func (m *Metrics) IncUpstreamFailure(kind upstream.Kind) {
	if m == nil {
		return
	}
	c, ok := m.upstreamFailures[kind]
	if !ok {
		c = m.upstreamFailures[upstream.KindUnavailable]
	}
	c.Add(1)
}

// UpstreamFailures reports the failure count for kind.
func (m *Metrics) UpstreamFailures(kind upstream.Kind) int64 {
	if m == nil {
		return 0
	}
	if c, ok := m.upstreamFailures[kind]; ok {
		return c.Load()
	}
	return 0
}

// MetricsHandler exposes relay metrics using a Prometheus-compatible text format.
func MetricsHandler(metrics *Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		builder := &strings.Builder{}
		writeMetric(builder, "cookedfr_in_flight_requests", "gauge", metrics.InFlight())
		writeMetric(builder, "cookedfr_fortunes_total", "counter", metrics.Fortunes())
		writeMetric(builder, "cookedfr_validation_failures_total", "counter", metrics.ValidationFailures())

		fmt.Fprintf(builder, "# TYPE %s %s\n", "cookedfr_upstream_failures_total", "counter")
		for _, kind := range upstream.Kinds {
			fmt.Fprintf(builder, "cookedfr_upstream_failures_total{kind=%q} %d\n", string(kind), metrics.UpstreamFailures(kind))
		}

		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		_, _ = w.Write([]byte(builder.String()))
	})
}

func writeMetric(builder *strings.Builder, name, metricType string, value int64) {
	fmt.Fprintf(builder, "# TYPE %s %s\n", name, metricType)
	fmt.Fprintf(builder, "%s %d\n", name, value)
}
