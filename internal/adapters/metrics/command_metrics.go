package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CommandMetricsCollector tracks mediator requests (commands and queries)
type CommandMetricsCollector struct {
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
}

// NewCommandMetricsCollector creates a new command metrics collector
func NewCommandMetricsCollector() *CommandMetricsCollector {
	return &CommandMetricsCollector{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "mediator",
				Name:      "request_duration_seconds",
				Help:      "Time spent handling a mediator request",
				Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 5.0},
			},
			[]string{"request", "status"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mediator",
				Name:      "requests_total",
				Help:      "Mediator requests handled, by type and status",
			},
			[]string{"request", "status"},
		),
	}
}

// Register registers the request metrics with the Prometheus registry
func (c *CommandMetricsCollector) Register() error {
	if Registry == nil {
		return nil
	}
	for _, metric := range []prometheus.Collector{c.requestDuration, c.requestsTotal} {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}
	return nil
}

// RecordCommandExecution records one handled request
func (c *CommandMetricsCollector) RecordCommandExecution(request string, seconds float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	c.requestDuration.WithLabelValues(request, status).Observe(seconds)
	c.requestsTotal.WithLabelValues(request, status).Inc()
}
