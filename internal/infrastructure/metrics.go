package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics aggregates the Prometheus collectors the application records.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	PipelineRunsTotal   *prometheus.CounterVec
	DatasetReloadsTotal prometheus.Counter
	DatasetRows         prometheus.Gauge
	WebSocketClients    prometheus.Gauge
}

// NewMetrics registers the application collectors on the given registerer.
// Pass prometheus.DefaultRegisterer in production; tests use a fresh
// prometheus.NewRegistry so repeated registration does not collide.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salesboard",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests processed, by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "salesboard",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds, by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		PipelineRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salesboard",
			Name:      "pipeline_runs_total",
			Help:      "Total pipeline stage executions, by stage and outcome.",
		}, []string{"stage", "outcome"}),
		DatasetReloadsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "salesboard",
			Name:      "dataset_reloads_total",
			Help:      "Total number of dataset reloads from disk.",
		}),
		DatasetRows: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "salesboard",
			Name:      "dataset_rows",
			Help:      "Number of data rows in the most recently loaded dataset.",
		}),
		WebSocketClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "salesboard",
			Name:      "websocket_clients",
			Help:      "Number of currently connected WebSocket clients.",
		}),
	}
}

// RecordPipelineRun records one execution of a pipeline stage.
func (m *Metrics) RecordPipelineRun(stage string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.PipelineRunsTotal.WithLabelValues(stage, outcome).Inc()
}
