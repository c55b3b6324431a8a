package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome of an uploaded file.
type Outcome string

const (
	Scored           Outcome = "scored"
	ValidationFailed Outcome = "validation_failed"
	Failed           Outcome = "failed"
)

// Metrics keeps the counters of the service on its own registry.
type Metrics struct {
	registry   *prometheus.Registry
	prometheus Prometheus
}

// New creates and registers the service metrics.
func New() *Metrics {
	m := &Metrics{
		registry:   prometheus.NewRegistry(),
		prometheus: NewPrometheusMetrics(),
	}
	m.registry.MustRegister(
		m.prometheus.Uploads,
		m.prometheus.Rows,
		m.prometheus.Duration,
	)
	return m
}

// Upload counts an upload for the route with the given outcome.
func (m *Metrics) Upload(route string, outcome Outcome) {
	m.prometheus.Uploads.WithLabelValues(route, string(outcome)).Inc()
}

// Labels counts the scored rows per cluster label.
func (m *Metrics) Labels(labels []int) {
	for _, l := range labels {
		m.prometheus.Rows.WithLabelValues(strconv.Itoa(l)).Inc()
	}
}

// Observe records how long the route took since start.
func (m *Metrics) Observe(route string, start time.Time) {
	m.prometheus.Duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
