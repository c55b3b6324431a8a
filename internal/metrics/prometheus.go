package metrics

import "github.com/prometheus/client_golang/prometheus"

type Prometheus struct {
	Uploads  *prometheus.CounterVec
	Rows     *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "segments",
				Name:      "uploads_total",
				Help:      "uploaded files by route and outcome",
			}, []string{"route", "outcome"}),
		Rows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "segments",
				Name:      "rows_scored_total",
				Help:      "scored rows by cluster label",
			}, []string{"label"}),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "segments",
				Name:      "request_duration_seconds",
				Buckets:   prometheus.DefBuckets,
			}, []string{"route"}),
	}
}
