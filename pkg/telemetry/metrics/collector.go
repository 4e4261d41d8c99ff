package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"lumenhq/dispatch/pkg/config"
)

// OtherLabel replaces a provider label once the cardinality limit is reached.
const OtherLabel = "other"

// Collector is the entry point for all dispatch metrics. It owns the
// Prometheus registry, the metric families and the cardinality limiter.
//
// A nil *Collector, or one built from a disabled config, records nothing,
// so callers never need to check before recording.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	requestMetrics     *RequestMetrics
	providerMetrics    *ProviderMetrics
	compressionMetrics *CompressionMetrics

	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created.
// Unset buckets and limits fall back to the config package defaults; cfg is
// not modified.
//
// Example:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordDispatch("openai", "text", "success", 800*time.Millisecond)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	local := *cfg
	if len(local.DurationBuckets) == 0 {
		local.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}
	if local.MaxCardinality <= 0 {
		local.MaxCardinality = config.DefaultMetricsMaxCardinality
	}

	c := &Collector{
		config:             &local,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(local.MaxCardinality),
	}

	c.requestMetrics = NewRequestMetrics(&local, registry)
	c.providerMetrics = NewProviderMetrics(&local, registry)
	c.compressionMetrics = NewCompressionMetrics(&local, registry)

	return c
}

// Enabled reports whether the collector records anything.
func (c *Collector) Enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordDispatch records a finished dispatcher call.
//
// Parameters:
//   - provider: provider id the call was sent to (e.g., "openai", "stability")
//   - kind: "text", "image-generate" or "image-edit"
//   - status: "success" or the error kind (e.g., "rate_limited", "network_timeout")
//   - duration: wall time of the whole call, compression included
func (c *Collector) RecordDispatch(provider, kind, status string, duration time.Duration) {
	if !c.Enabled() {
		return
	}

	provider = c.limit("dispatch", provider, kind, status)
	c.requestMetrics.RecordRequest(provider, kind, status, duration)
}

// RecordResponseSize records the size of a provider response body.
func (c *Collector) RecordResponseSize(provider, kind string, sizeBytes int) {
	if !c.Enabled() {
		return
	}

	provider = c.limit("response", provider, kind)
	c.requestMetrics.RecordSize(provider, kind, sizeBytes)
}

// RecordProviderError records a failed provider call.
//
// Parameters:
//   - provider: provider id
//   - errorKind: error taxonomy kind (e.g., "auth_failed", "malformed_response")
func (c *Collector) RecordProviderError(provider, errorKind string) {
	if !c.Enabled() {
		return
	}

	provider = c.limit("error", provider, errorKind)
	c.providerMetrics.RecordError(provider, errorKind)
}

// RecordSubstitution records a capability fallback from one provider to another.
func (c *Collector) RecordSubstitution(from, to, capability string) {
	if !c.Enabled() {
		return
	}

	from = c.limit("substitution", from, to, capability)
	c.providerMetrics.RecordSubstitution(from, to, capability)
}

// RecordCompression records one prompt compression.
//
// Parameters:
//   - method: "unchanged", "ai-compressed" or "smart-truncated"
//   - ratio: final length divided by original length
func (c *Collector) RecordCompression(method string, ratio float64) {
	if !c.Enabled() {
		return
	}

	c.compressionMetrics.RecordCompression(method, ratio)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// limit returns the provider label to use, folding it into OtherLabel once
// the family's label sets exceed the cardinality limit.
func (c *Collector) limit(family, provider string, rest ...string) string {
	labelSet := fmt.Sprintf("%s:%s:%v", family, provider, rest)
	if !c.cardinalityLimiter.Allow(labelSet) {
		return OtherLabel
	}
	return provider
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label set is allowed. Returns true if the label set
// already exists or if we haven't reached the cardinality limit yet.
// Returns false if adding this label set would exceed the limit.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
