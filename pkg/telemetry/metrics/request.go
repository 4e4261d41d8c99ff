package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"lumenhq/dispatch/pkg/config"
)

// RequestMetrics tracks dispatcher calls.
//
// Metrics:
//   - dispatch_requests_total: calls by provider, kind and status
//   - dispatch_duration_seconds: call duration histogram
//   - dispatch_response_size_bytes: provider response body size
type RequestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	sizeBytes       *prometheus.HistogramVec
}

// NewRequestMetrics creates and registers request metrics with the provided registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "dispatch_requests_total",
				Help:      "Total number of dispatcher calls",
			},
			[]string{"provider", "kind", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "dispatch_duration_seconds",
				Help:      "Duration of dispatcher calls in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"provider", "kind"},
		),

		sizeBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "dispatch_response_size_bytes",
				Help:      "Size of provider response bodies in bytes",
				Buckets:   prometheus.ExponentialBuckets(256, 4, 10), // 256B to 64MB
			},
			[]string{"provider", "kind"},
		),
	}

	registry.MustRegister(
		rm.requestsTotal,
		rm.requestDuration,
		rm.sizeBytes,
	)

	return rm
}

// RecordRequest records one finished call.
func (rm *RequestMetrics) RecordRequest(provider, kind, status string, duration time.Duration) {
	rm.requestsTotal.WithLabelValues(provider, kind, status).Inc()
	rm.requestDuration.WithLabelValues(provider, kind).Observe(duration.Seconds())
}

// RecordSize records the size of a response body. Empty bodies are skipped.
func (rm *RequestMetrics) RecordSize(provider, kind string, sizeBytes int) {
	if sizeBytes > 0 {
		rm.sizeBytes.WithLabelValues(provider, kind).Observe(float64(sizeBytes))
	}
}
