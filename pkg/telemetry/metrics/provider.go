package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"lumenhq/dispatch/pkg/config"
)

// ProviderMetrics tracks provider failures and capability substitutions.
//
// Metrics:
//   - provider_errors_total: failed calls by provider and error kind
//   - provider_substitutions_total: fallbacks by original provider,
//     substitute and capability
type ProviderMetrics struct {
	errors        *prometheus.CounterVec
	substitutions *prometheus.CounterVec
}

// NewProviderMetrics creates and registers provider metrics with the provided registry.
func NewProviderMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_errors_total",
				Help:      "Total number of provider errors by kind",
			},
			[]string{"provider", "error_kind"},
		),

		substitutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_substitutions_total",
				Help:      "Total number of capability fallbacks to another provider",
			},
			[]string{"from", "to", "capability"},
		),
	}

	registry.MustRegister(pm.errors, pm.substitutions)

	return pm
}

// RecordError increments the error counter.
func (pm *ProviderMetrics) RecordError(provider, errorKind string) {
	pm.errors.WithLabelValues(provider, errorKind).Inc()
}

// RecordSubstitution increments the substitution counter.
func (pm *ProviderMetrics) RecordSubstitution(from, to, capability string) {
	pm.substitutions.WithLabelValues(from, to, capability).Inc()
}
