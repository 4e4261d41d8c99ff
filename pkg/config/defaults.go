package config

import "time"

// Default values for configuration fields.
const (
	// Dispatch defaults
	DefaultProvider     = "openai"
	DefaultTextTimeout  = 30 * time.Second
	DefaultImageTimeout = 120 * time.Second

	// Compression defaults
	DefaultCompressionTemperature = 0.6

	// Transport defaults
	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 10
	DefaultIdleConnTimeout     = 90 * time.Second
	DefaultMaxResponseBytes    = int64(64 << 20)

	// Telemetry defaults
	DefaultLoggingLevel          = "info"
	DefaultLoggingFormat         = "text"
	DefaultMetricsMaxCardinality = 1000
	DefaultTracingSampler        = "ratio"
	DefaultTracingSampleRatio    = 1.0
	DefaultTracingServiceName    = "dispatch"
	DefaultOTLPTimeout           = 10 * time.Second
)

// DefaultDurationBuckets covers text calls (sub-second to 30s) and image
// calls (up to 120s).
var DefaultDurationBuckets = []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Dispatch defaults
	if cfg.Dispatch.DefaultProvider == "" && cfg.Dispatch.BaseURL == "" {
		cfg.Dispatch.DefaultProvider = DefaultProvider
	}
	if cfg.Dispatch.TextTimeout == 0 {
		cfg.Dispatch.TextTimeout = DefaultTextTimeout
	}
	if cfg.Dispatch.ImageTimeout == 0 {
		cfg.Dispatch.ImageTimeout = DefaultImageTimeout
	}

	// Compression defaults
	if cfg.Compression.Timeout == 0 {
		cfg.Compression.Timeout = cfg.Dispatch.TextTimeout
	}
	if cfg.Compression.Temperature == 0 {
		cfg.Compression.Temperature = DefaultCompressionTemperature
	}

	// Transport defaults
	if cfg.Transport.MaxIdleConns == 0 {
		cfg.Transport.MaxIdleConns = DefaultMaxIdleConns
	}
	if cfg.Transport.MaxIdleConnsPerHost == 0 {
		cfg.Transport.MaxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
	}
	if cfg.Transport.IdleConnTimeout == 0 {
		cfg.Transport.IdleConnTimeout = DefaultIdleConnTimeout
	}
	if cfg.Transport.MaxResponseBytes == 0 {
		cfg.Transport.MaxResponseBytes = DefaultMaxResponseBytes
	}

	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}

	if len(cfg.Metrics.DurationBuckets) == 0 {
		cfg.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}
	if cfg.Metrics.MaxCardinality == 0 {
		cfg.Metrics.MaxCardinality = DefaultMetricsMaxCardinality
	}

	if cfg.Tracing.Sampler == "" {
		cfg.Tracing.Sampler = DefaultTracingSampler
	}
	// A ratio of zero is indistinguishable from "unset"; use sampler: never
	// to disable sampling.
	if cfg.Tracing.SampleRatio == 0 {
		cfg.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Tracing.OTLP.Timeout == 0 {
		cfg.Tracing.OTLP.Timeout = DefaultOTLPTimeout
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
