package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"lumenhq/dispatch/pkg/compress"
	"lumenhq/dispatch/pkg/config"
	"lumenhq/dispatch/pkg/providers"
	"lumenhq/dispatch/pkg/providers/google"
	"lumenhq/dispatch/pkg/providers/midjourney"
	"lumenhq/dispatch/pkg/providers/openai"
	"lumenhq/dispatch/pkg/providers/openrouter"
	"lumenhq/dispatch/pkg/providers/stability"
	"lumenhq/dispatch/pkg/telemetry/logging"
	"lumenhq/dispatch/pkg/telemetry/metrics"
	"lumenhq/dispatch/pkg/telemetry/tracing"
)

// Default per-call timeouts.
const (
	DefaultTextTimeout  = config.DefaultTextTimeout
	DefaultImageTimeout = config.DefaultImageTimeout
)

// statusSuccess and statusInvalid label calls that did not fail with a
// provider error kind.
const (
	statusSuccess = "success"
	statusInvalid = "invalid_request"
)

// Dispatcher turns DispatchRequests into provider HTTP calls and normalizes
// the responses. It holds no per-call state and is safe for concurrent use.
type Dispatcher struct {
	registry  *providers.Registry
	detector  *providers.Detector
	transport *providers.Transport
	codecs    map[providers.WireFormat]providers.Codec

	compressor  *compress.Compressor
	compression compressionSettings

	baseURL         string
	defaultProvider string
	textTimeout     time.Duration
	imageTimeout    time.Duration

	transportConfig providers.TransportConfig

	logger  *slog.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
}

type compressionSettings struct {
	disableAI   bool
	provider    string
	model       string
	timeout     time.Duration
	temperature float64
}

// New creates a Dispatcher over registry.
//
// Without options it sends calls through a pooled transport with the
// default timeouts, uses the built-in codec for every wire format and runs
// the AI compression pass through itself.
func New(registry *providers.Registry, opts ...Option) (*Dispatcher, error) {
	if registry == nil {
		return nil, errors.New("dispatch: registry is nil")
	}

	d := &Dispatcher{
		registry: registry,
		codecs: map[providers.WireFormat]providers.Codec{
			providers.WireOpenAI:     openai.New(),
			providers.WireOpenRouter: openrouter.New(),
			providers.WireGoogle:     google.New(),
			providers.WireMidjourney: midjourney.New(),
			providers.WireGeneric:    stability.New(),
		},
		textTimeout:     DefaultTextTimeout,
		imageTimeout:    DefaultImageTimeout,
		transportConfig: providers.DefaultTransportConfig(),
		logger:          slog.Default(),
		tracer:          tracing.Noop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.transport == nil {
		d.transport = providers.NewTransport(d.transportConfig, d.logger)
	}
	d.detector = providers.NewDetector(registry, d.logger)

	compressOpts := []compress.Option{compress.WithLogger(d.logger)}
	if !d.compression.disableAI {
		compressOpts = append(compressOpts, compress.WithCompleter(d))
	}
	if d.compression.timeout > 0 {
		compressOpts = append(compressOpts, compress.WithTimeout(d.compression.timeout))
	}
	if d.compression.temperature > 0 {
		compressOpts = append(compressOpts, compress.WithTemperature(d.compression.temperature))
	}
	d.compressor = compress.New(compressOpts...)

	return d, nil
}

// FromConfig builds the registry described by cfg and a Dispatcher over it.
// opts are applied after the configuration.
func FromConfig(cfg *config.Config, opts ...Option) (*Dispatcher, error) {
	registry, err := cfg.NewRegistry()
	if err != nil {
		return nil, err
	}
	return New(registry, append(ConfigOptions(cfg), opts...)...)
}

// Registry returns the provider registry.
func (d *Dispatcher) Registry() *providers.Registry {
	return d.registry
}

// Close releases pooled connections.
func (d *Dispatcher) Close() error {
	return d.transport.Close()
}

// CompleteText sends a single-turn text completion. req.Kind is set to text.
func (d *Dispatcher) CompleteText(ctx context.Context, req *providers.DispatchRequest) (*providers.DispatchResult, error) {
	return d.call(ctx, providers.CapabilityText, req)
}

// AnalyzeImage asks a text model about req.SourceImage. It is a text
// completion whose message carries the image after the prompt.
func (d *Dispatcher) AnalyzeImage(ctx context.Context, req *providers.DispatchRequest) (*providers.DispatchResult, error) {
	if req != nil && strings.TrimSpace(req.SourceImage) == "" {
		return nil, &providers.ValidationError{Field: "source_image", Message: "source image is required for image analysis"}
	}
	return d.call(ctx, providers.CapabilityText, req)
}

// GenerateImage generates one image from req.Prompt.
func (d *Dispatcher) GenerateImage(ctx context.Context, req *providers.DispatchRequest) (*providers.DispatchResult, error) {
	return d.call(ctx, providers.CapabilityImageGenerate, req)
}

// EditImage edits req.SourceImage according to req.Prompt.
func (d *Dispatcher) EditImage(ctx context.Context, req *providers.DispatchRequest) (*providers.DispatchResult, error) {
	return d.call(ctx, providers.CapabilityImageEdit, req)
}

// CompressPrompt fits text into the request size limit of the provider that
// would serve kind, using the same resolution as a real call.
func (d *Dispatcher) CompressPrompt(ctx context.Context, kind providers.Capability, text, apiKey, override string) (compress.Outcome, error) {
	det, _, err := d.resolve(&providers.DispatchRequest{Kind: kind, ProviderOverride: override})
	if err != nil {
		return compress.Outcome{}, err
	}
	return d.fit(ctx, providers.Sanitize(text), det.Profile, apiKey)
}

// call runs one dispatch and records its metrics and span.
func (d *Dispatcher) call(ctx context.Context, kind providers.Capability, in *providers.DispatchRequest) (*providers.DispatchResult, error) {
	start := time.Now()
	requestID := uuid.NewString()

	var req providers.DispatchRequest
	if in != nil {
		req = *in
	}
	req.Kind = kind

	ctx = logging.WithRequestID(ctx, requestID)
	ctx = logging.WithKind(ctx, string(kind))
	ctx, span := d.tracer.Start(ctx, "dispatch."+string(kind),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(tracing.RequestAttributes(requestID, string(kind), providers.RuneLen(req.Prompt))...),
	)
	defer span.End()
	if traceID := tracing.TraceID(ctx); traceID != "" {
		ctx = logging.WithTraceID(ctx, traceID)
	}

	var err error
	if in == nil {
		err = validate(nil)
	}
	var (
		result   *providers.DispatchResult
		provider providers.ProviderID
	)
	if err == nil {
		result, provider, err = d.dispatch(ctx, span, requestID, &req)
	}

	status := statusSuccess
	if err != nil {
		status = errorStatus(err)
		if status != statusInvalid {
			d.metrics.RecordProviderError(providerLabel(provider), status)
		}
		tracing.SetErrorAttributes(span, err, status)
		d.logger.WarnContext(ctx, "dispatch failed",
			slog.String("error_kind", status),
			slog.Any("error", err),
			slog.Duration("elapsed", time.Since(start)),
		)
	} else {
		tracing.SetStatus(span, nil)
	}
	d.metrics.RecordDispatch(providerLabel(provider), string(kind), status, time.Since(start))

	return result, err
}

// dispatch is the pipeline: validate, resolve, fit, build, send, check, parse.
func (d *Dispatcher) dispatch(ctx context.Context, span trace.Span, requestID string, req *providers.DispatchRequest) (*providers.DispatchResult, providers.ProviderID, error) {
	if err := validate(req); err != nil {
		return nil, "", err
	}

	det, endpoint, err := d.resolve(req)
	if err != nil {
		return nil, "", err
	}
	profile := det.Profile
	if det.Substitution != nil {
		d.metrics.RecordSubstitution(string(det.Substitution.From), string(det.Substitution.To), string(det.Substitution.Capability))
		span.SetAttributes(tracing.SubstitutedFrom(string(det.Substitution.From)))
	}

	codec, ok := d.codecs[profile.WireFormat]
	if !ok {
		return nil, profile.ID, providers.NewError(providers.UnsupportedCapability, profile.ID,
			"no codec registered for wire format %q", profile.WireFormat)
	}

	model := strings.TrimSpace(req.ModelOverride)
	if model == "" {
		model = profile.ModelFor(req.Kind)
	}
	ctx = logging.WithProvider(ctx, string(profile.ID))
	ctx = logging.WithModel(ctx, model)
	tracing.SetProviderAttributes(span, string(profile.ID), model)

	prompt := providers.Sanitize(req.Prompt)
	if prompt == "" {
		return nil, profile.ID, &providers.ValidationError{Field: "prompt", Message: "prompt is empty after sanitization"}
	}

	outcome, err := d.fit(ctx, prompt, profile, req.APIKey)
	if err != nil {
		return nil, profile.ID, err
	}
	tracing.SetCompressionAttributes(span, string(outcome.Method), outcome.OriginalLength, outcome.FinalLength)

	effective := *req
	effective.Prompt = outcome.Text
	effective.NegativePrompt = providers.Sanitize(req.NegativePrompt)

	payload, err := codec.Build(profile, model, &effective)
	if err != nil {
		return nil, profile.ID, err
	}
	tracing.InjectHeaders(ctx, payload.Headers)

	timeout := d.imageTimeout
	if req.Kind == providers.CapabilityText {
		timeout = d.textTimeout
	}

	d.logger.DebugContext(ctx, "dispatching request",
		slog.String("endpoint", endpoint),
		slog.Int("prompt_length", outcome.FinalLength),
		slog.String("compression", string(outcome.Method)),
		slog.Duration("timeout", timeout),
	)

	resp, err := d.transport.Do(ctx, profile.ID, payload.Method, payload.URL(endpoint), payload.Headers, payload.Body, timeout)
	if err != nil {
		return nil, profile.ID, err
	}
	d.metrics.RecordResponseSize(string(profile.ID), string(req.Kind), len(resp.Body))
	span.SetAttributes(tracing.HTTPStatus(resp.StatusCode))

	if err := providers.CheckStatus(profile.ID, resp); err != nil {
		return nil, profile.ID, err
	}

	parsed, err := codec.Parse(profile, req.Kind, resp.Body)
	if err != nil {
		return nil, profile.ID, err
	}

	result := &providers.DispatchResult{
		RequestID:                 requestID,
		Kind:                      req.Kind,
		Provider:                  profile.ID,
		Model:                     model,
		Text:                      parsed.Text,
		ImageReference:            parsed.ImageReference,
		RevisedPrompt:             parsed.RevisedPrompt,
		RawProviderResponseDigest: providers.Digest(resp.Body),
		NormalizedPromptEcho:      outcome.Text,
		Compression:               outcome.Summary(),
		Substitution:              det.Substitution,
		Latency:                   resp.Latency,
	}

	d.logger.InfoContext(ctx, "dispatch completed",
		slog.Duration("latency", resp.Latency),
		slog.String("compression", string(outcome.Method)),
		slog.Bool("substituted", det.Substitution != nil),
	)
	return result, profile.ID, nil
}

// resolve picks the provider for req and the base URL its call is sent to.
//
// An explicit override wins. Otherwise a configured base URL is matched
// against provider patterns and, when matched, calls go to that URL.
// Without a base URL the default provider is used. A substituted provider
// is always called at its own base URL.
func (d *Dispatcher) resolve(req *providers.DispatchRequest) (providers.Detection, string, error) {
	override := strings.TrimSpace(req.ProviderOverride)
	baseURL := ""
	if override == "" {
		if d.baseURL != "" {
			baseURL = d.baseURL
		} else {
			override = d.defaultProvider
		}
	}

	det, err := d.detector.Detect(baseURL, override, req.Kind)
	if err != nil {
		return providers.Detection{}, "", err
	}

	endpoint := det.Profile.BaseURL
	if baseURL != "" && det.Substitution == nil {
		endpoint = baseURL
	}
	return det, endpoint, nil
}

type compressionPassKey struct{}

// fit compresses prompt into profile's request size limit.
func (d *Dispatcher) fit(ctx context.Context, prompt string, profile providers.ProviderProfile, apiKey string) (compress.Outcome, error) {
	budget := profile.RequestSizeLimit
	if budget <= 0 {
		budget = max(providers.RuneLen(prompt), 1)
	}
	return d.CompressToBudget(ctx, prompt, budget, apiKey)
}

// CompressToBudget compresses prompt to at most budget runes. Inside the AI
// compression pass the nested call only truncates, so compression never
// recurses.
func (d *Dispatcher) CompressToBudget(ctx context.Context, prompt string, budget int, apiKey string) (compress.Outcome, error) {
	req := compress.Request{
		Text:     prompt,
		Budget:   budget,
		APIKey:   apiKey,
		Provider: d.compression.provider,
		Model:    d.compression.model,
	}
	if ctx.Value(compressionPassKey{}) != nil {
		req.APIKey = ""
	} else if providers.RuneLen(prompt) > budget {
		req.InputLimit = d.compressionInputLimit()
		ctx = context.WithValue(ctx, compressionPassKey{}, true)
	}

	outcome, err := d.compressor.Compress(ctx, req)
	if err != nil {
		return compress.Outcome{}, err
	}
	d.metrics.RecordCompression(string(outcome.Method), outcome.Ratio())
	return outcome, nil
}

// compressionInputLimit returns the request size limit of the provider
// serving the AI compression pass, or 0 when it cannot be resolved.
func (d *Dispatcher) compressionInputLimit() int {
	det, _, err := d.resolve(&providers.DispatchRequest{
		Kind:             providers.CapabilityText,
		ProviderOverride: d.compression.provider,
	})
	if err != nil {
		return 0
	}
	return det.Profile.RequestSizeLimit
}

func errorStatus(err error) string {
	var verr *providers.ValidationError
	if errors.As(err, &verr) {
		return statusInvalid
	}
	return providers.KindOf(err).String()
}

func providerLabel(id providers.ProviderID) string {
	if id == "" {
		return "none"
	}
	return string(id)
}
