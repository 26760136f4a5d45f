package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetricsCollector handles mediator command and query metrics
type RequestMetricsCollector struct {
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
}

// NewRequestMetricsCollector creates a new request metrics collector
func NewRequestMetricsCollector() *RequestMetricsCollector {
	return &RequestMetricsCollector{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "app",
				Name:      "request_duration_seconds",
				Help:      "Command and query execution duration distribution",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0, 120.0},
			},
			[]string{"request", "status"},
		),

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "app",
				Name:      "requests_total",
				Help:      "Total number of commands and queries by type and status",
			},
			[]string{"request", "status"},
		),
	}
}

// Register registers the request metrics with reg
func (c *RequestMetricsCollector) Register(reg prometheus.Registerer) error {
	return registerAll(reg, c.requestDuration, c.requestsTotal)
}

// RecordRequest records one handled request
func (c *RequestMetricsCollector) RecordRequest(name string, seconds float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	c.requestDuration.WithLabelValues(name, status).Observe(seconds)
	c.requestsTotal.WithLabelValues(name, status).Inc()
}
