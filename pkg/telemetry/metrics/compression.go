package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"lumenhq/dispatch/pkg/config"
)

// CompressionMetrics tracks prompt compression.
//
// Metrics:
//   - compressions_total: compressions by method
//   - compression_ratio: final/original length
type CompressionMetrics struct {
	total *prometheus.CounterVec
	ratio prometheus.Histogram
}

// NewCompressionMetrics creates and registers compression metrics with the provided registry.
func NewCompressionMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CompressionMetrics {
	cm := &CompressionMetrics{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "compressions_total",
				Help:      "Total number of prompt compressions by method",
			},
			[]string{"method"},
		),

		ratio: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "compression_ratio",
				Help:      "Compressed prompt length divided by original length",
				Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
			},
		),
	}

	registry.MustRegister(cm.total, cm.ratio)

	return cm
}

// RecordCompression records one compression outcome.
func (cm *CompressionMetrics) RecordCompression(method string, ratio float64) {
	cm.total.WithLabelValues(method).Inc()
	cm.ratio.Observe(ratio)
}
