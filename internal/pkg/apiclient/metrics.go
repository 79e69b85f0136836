package apiclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// RequestDuration covers the whole call including body decoding
	RequestDuration *prometheus.HistogramVec

	TotalRequests *prometheus.CounterVec

	// ErrorTotal is labelled with the ErrorKind of the failure
	ErrorTotal *prometheus.CounterVec
}

// NewMetrics registers client metrics on reg. A nil reg gets a private registry
// so callers that do not export metrics can still pass a non-nil *Metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		RequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_upstream_request_duration_seconds",
			Help:    "Histogram of upstream request latencies.",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15},
		}, []string{"client", "method", "status"}),

		TotalRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_upstream_requests_total",
			Help: "Total number of upstream requests.",
		}, []string{"client", "method"}),

		ErrorTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_upstream_errors_total",
			Help: "Total number of upstream errors by kind.",
		}, []string{"client", "kind"}),
	}
}
