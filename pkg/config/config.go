package config

import "time"

// Config is the root configuration structure for the dispatcher.
// It is read once at startup and handed to the components as plain values.
type Config struct {
	// Dispatch contains provider selection and per-call timeouts.
	Dispatch DispatchConfig `yaml:"dispatch"`

	// Providers overrides or extends the built-in provider table.
	// Keys are provider ids (e.g., "openai", "google").
	Providers map[string]ProviderConfig `yaml:"providers"`

	// Aliases maps extra override names to provider ids. They are merged
	// over the built-in alias table.
	Aliases map[string]string `yaml:"aliases"`

	// Fallbacks maps a capability to the provider substituted when the
	// resolved provider lacks it. Merged over the built-in fallbacks.
	Fallbacks map[string]string `yaml:"fallbacks"`

	// Compression contains prompt compression configuration.
	Compression CompressionConfig `yaml:"compression"`

	// Transport contains HTTP client pooling configuration.
	Transport TransportConfig `yaml:"transport"`

	// Telemetry contains configuration for logging, metrics and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// DispatchConfig controls how a provider is chosen when a request carries
// no override, and how long each call may take.
type DispatchConfig struct {
	// DefaultProvider is used when neither the request nor BaseURL selects
	// a provider.
	// Default: "openai"
	DefaultProvider string `yaml:"default_provider" env:"DEFAULT_PROVIDER"`

	// BaseURL is matched against provider base URL patterns to detect the
	// provider. When it matches, calls are sent to this URL.
	BaseURL string `yaml:"base_url" env:"BASE_URL"`

	// TextTimeout bounds a text completion call.
	// Default: 30s
	TextTimeout time.Duration `yaml:"text_timeout" env:"TEXT_TIMEOUT"`

	// ImageTimeout bounds image generation and edit calls.
	// Default: 120s
	ImageTimeout time.Duration `yaml:"image_timeout" env:"IMAGE_TIMEOUT"`
}

// ProviderConfig overrides fields of a built-in provider profile, or fully
// describes a new one.
type ProviderConfig struct {
	// BaseURL is the provider API root.
	BaseURL string `yaml:"base_url" env:"BASE_URL"`

	// BaseURLPatterns are substrings used for base URL detection.
	BaseURLPatterns []string `yaml:"base_url_patterns" env:"BASE_URL_PATTERNS" envSeparator:","`

	// Model is the default text model.
	Model string `yaml:"model" env:"MODEL"`

	// ImageModel is the default image generation model.
	ImageModel string `yaml:"image_model" env:"IMAGE_MODEL"`

	// EditModel is the default image edit model.
	EditModel string `yaml:"edit_model" env:"EDIT_MODEL"`

	// WireFormat is one of "openai", "google", "openrouter", "midjourney", "generic".
	WireFormat string `yaml:"wire_format" env:"WIRE_FORMAT"`

	// Capabilities lists "text", "image-generate" and "image-edit".
	Capabilities []string `yaml:"capabilities" env:"CAPABILITIES" envSeparator:","`

	// RequestSizeLimit is the maximum prompt length in characters.
	RequestSizeLimit int `yaml:"request_size_limit" env:"REQUEST_SIZE_LIMIT"`

	// Disabled removes a built-in provider from the table.
	Disabled bool `yaml:"disabled" env:"DISABLED"`

	// AppURL is sent as HTTP-Referer by the openrouter wire format.
	AppURL string `yaml:"app_url" env:"APP_URL"`

	// AppTitle is sent as X-Title by the openrouter wire format.
	AppTitle string `yaml:"app_title" env:"APP_TITLE"`
}

// CompressionConfig controls the AI pass of prompt compression.
type CompressionConfig struct {
	// DisableAI skips the AI pass; oversized prompts are only truncated.
	DisableAI bool `yaml:"disable_ai" env:"DISABLE_AI"`

	// Provider selects the provider of the AI pass (id or alias). Empty
	// uses the dispatcher's default text provider.
	Provider string `yaml:"provider" env:"PROVIDER"`

	// Model overrides the model of the AI pass.
	Model string `yaml:"model" env:"MODEL"`

	// Timeout bounds the AI pass.
	// Default: the text timeout
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`

	// Temperature is the sampling temperature of the AI pass.
	// Default: 0.6
	Temperature float64 `yaml:"temperature" env:"TEMPERATURE"`
}

// TransportConfig configures the pooled HTTP client shared by all calls.
type TransportConfig struct {
	// MaxIdleConns is the pool-wide idle connection limit.
	// Default: 100
	MaxIdleConns int `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS"`

	// MaxIdleConnsPerHost is the per-host idle connection limit.
	// Default: 10
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host" env:"MAX_IDLE_CONNS_PER_HOST"`

	// IdleConnTimeout closes idle connections after this duration.
	// Default: 90s
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout" env:"IDLE_CONN_TIMEOUT"`

	// MaxResponseBytes caps how much of a response body is read.
	// Default: 67108864 (64MB)
	MaxResponseBytes int64 `yaml:"max_response_bytes" env:"MAX_RESPONSE_BYTES"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging" envPrefix:"LOG_"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics" envPrefix:"METRICS_"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing" envPrefix:"TRACING_"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level" env:"LEVEL"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format" env:"FORMAT"`

	// AddSource includes file and line number in log entries.
	AddSource bool `yaml:"add_source" env:"ADD_SOURCE"`

	// DisableRedaction turns off masking of API keys, bearer tokens and
	// embedded image data in log output.
	DisableRedaction bool `yaml:"disable_redaction" env:"DISABLE_REDACTION"`

	// RedactPatterns contains additional redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are recorded.
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// Namespace is an optional metric name prefix.
	Namespace string `yaml:"namespace" env:"NAMESPACE"`

	// DurationBuckets defines histogram buckets for call duration (seconds).
	// Default: [0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120]
	DurationBuckets []float64 `yaml:"duration_buckets"`

	// MaxCardinality caps distinct label sets per metric family.
	// Default: 1000
	MaxCardinality int `yaml:"max_cardinality" env:"MAX_CARDINALITY"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler" env:"SAMPLER"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio" env:"SAMPLE_RATIO"`

	// AlwaysSampleKinds lists request kinds ("text", "image-generate",
	// "image-edit") traced regardless of Sampler.
	AlwaysSampleKinds []string `yaml:"always_sample_kinds" env:"ALWAYS_SAMPLE_KINDS" envSeparator:","`

	// Endpoint is the OTLP gRPC collector endpoint (e.g., "localhost:4317").
	Endpoint string `yaml:"endpoint" env:"ENDPOINT"`

	// ServiceName is the service name in traces.
	// Default: "dispatch"
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp" envPrefix:"OTLP_"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for the OTLP connection.
	Insecure bool `yaml:"insecure" env:"INSECURE"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}
