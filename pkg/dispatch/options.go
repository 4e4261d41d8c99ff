package dispatch

import (
	"log/slog"
	"time"

	"lumenhq/dispatch/pkg/config"
	"lumenhq/dispatch/pkg/providers"
	"lumenhq/dispatch/pkg/providers/openrouter"
	"lumenhq/dispatch/pkg/telemetry/metrics"
	"lumenhq/dispatch/pkg/telemetry/tracing"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. Pass logging.Logger.Slog() to get redaction
// and context fields.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMetrics records every call on collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(d *Dispatcher) {
		d.metrics = collector
	}
}

// WithTracer wraps every call in a span from tracer.
func WithTracer(tracer *tracing.Tracer) Option {
	return func(d *Dispatcher) {
		if tracer != nil {
			d.tracer = tracer
		}
	}
}

// WithTransport replaces the pooled transport.
func WithTransport(transport *providers.Transport) Option {
	return func(d *Dispatcher) {
		d.transport = transport
	}
}

// WithTransportConfig sets the pool settings of the default transport.
// It has no effect together with WithTransport.
func WithTransportConfig(cfg providers.TransportConfig) Option {
	return func(d *Dispatcher) {
		d.transportConfig = cfg
	}
}

// WithCodec registers codec for its wire format, replacing the built-in one.
func WithCodec(codec providers.Codec) Option {
	return func(d *Dispatcher) {
		d.codecs[codec.Format()] = codec
	}
}

// WithBaseURL sets the configured base URL used for provider detection
// when a request carries no override.
func WithBaseURL(baseURL string) Option {
	return func(d *Dispatcher) {
		d.baseURL = baseURL
	}
}

// WithDefaultProvider sets the provider (id or alias) used when a request
// carries no override and no base URL is configured.
func WithDefaultProvider(name string) Option {
	return func(d *Dispatcher) {
		d.defaultProvider = name
	}
}

// WithTimeouts sets the per-call timeouts. Zero keeps the default.
func WithTimeouts(text, image time.Duration) Option {
	return func(d *Dispatcher) {
		if text > 0 {
			d.textTimeout = text
		}
		if image > 0 {
			d.imageTimeout = image
		}
	}
}

// WithCompressionProvider selects the provider and model of the AI
// compression pass. Empty values use the dispatcher's text defaults.
func WithCompressionProvider(provider, model string) Option {
	return func(d *Dispatcher) {
		d.compression.provider = provider
		d.compression.model = model
	}
}

// WithCompressionTuning sets the timeout and temperature of the AI
// compression pass. Zero keeps the default.
func WithCompressionTuning(timeout time.Duration, temperature float64) Option {
	return func(d *Dispatcher) {
		d.compression.timeout = timeout
		d.compression.temperature = temperature
	}
}

// WithoutAICompression makes oversized prompts go straight to truncation.
func WithoutAICompression() Option {
	return func(d *Dispatcher) {
		d.compression.disableAI = true
	}
}

// ConfigOptions returns the options described by cfg. Options given to New
// after them take precedence.
func ConfigOptions(cfg *config.Config) []Option {
	opts := []Option{
		WithBaseURL(cfg.Dispatch.BaseURL),
		WithDefaultProvider(cfg.Dispatch.DefaultProvider),
		WithTimeouts(cfg.Dispatch.TextTimeout, cfg.Dispatch.ImageTimeout),
		WithTransportConfig(cfg.TransportConfig()),
		WithCompressionProvider(cfg.Compression.Provider, cfg.Compression.Model),
		WithCompressionTuning(cfg.Compression.Timeout, cfg.Compression.Temperature),
	}
	if cfg.Compression.DisableAI {
		opts = append(opts, WithoutAICompression())
	}
	if codec := openRouterCodec(cfg); codec != nil {
		opts = append(opts, WithCodec(codec))
	}
	return opts
}

// openRouterCodec returns an OpenRouter codec carrying the configured
// attribution, or nil when the defaults apply.
func openRouterCodec(cfg *config.Config) *openrouter.Codec {
	pc := cfg.Providers[string(providers.OpenRouter)]
	if pc.AppURL == "" && pc.AppTitle == "" {
		return nil
	}
	var opts []openrouter.Option
	if pc.AppURL != "" {
		opts = append(opts, openrouter.WithHTTPReferer(pc.AppURL))
	}
	if pc.AppTitle != "" {
		opts = append(opts, openrouter.WithXTitle(pc.AppTitle))
	}
	return openrouter.New(opts...)
}
