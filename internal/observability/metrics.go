// Package observability exposes Prometheus metrics for the service.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the registered collectors shared across the application.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests  *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
	SyncedRecords prometheus.Gauge
}

// NewMetrics creates and registers the application's collectors on a private
// registry, keeping the default registry free of duplicates in tests.
func NewMetrics() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spidermap_http_requests_total",
			Help: "HTTP requests handled, by route and status code.",
		}, []string{"route", "code"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "spidermap_query_duration_seconds",
			Help:    "Relational store query durations, by operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		SyncedRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "spidermap_synced_records",
			Help: "Record documents written by the last sync run.",
		}),
	}

	for _, collector := range []prometheus.Collector{
		m.HTTPRequests,
		m.QueryDuration,
		m.SyncedRecords,
	} {
		if err := m.registry.Register(collector); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
