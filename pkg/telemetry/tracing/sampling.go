package tracing

import (
	"fmt"
	"sort"
	"strings"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"lumenhq/dispatch/pkg/config"
)

// Sampler strategies accepted in telemetry.tracing.sampler.
const (
	SamplerAlways = "always"
	SamplerNever  = "never"
	SamplerRatio  = "ratio"
)

// newSampler builds the root sampler for dispatch spans. Kinds listed in
// AlwaysSampleKinds are recorded whatever the strategy says; everything
// else follows the strategy. The result is parent-based, so the nested
// completion of an AI compression pass shares its caller's decision.
//
//	telemetry:
//	  tracing:
//	    sampler: ratio
//	    sample_ratio: 0.05
//	    always_sample_kinds: [image-edit]
func newSampler(cfg *config.TracingConfig) (sdktrace.Sampler, error) {
	var base sdktrace.Sampler
	switch cfg.Sampler {
	case SamplerAlways:
		base = sdktrace.AlwaysSample()
	case SamplerNever:
		base = sdktrace.NeverSample()
	case SamplerRatio, "":
		if cfg.SampleRatio < 0.0 || cfg.SampleRatio > 1.0 {
			return nil, fmt.Errorf("sample ratio must be between 0.0 and 1.0, got %f", cfg.SampleRatio)
		}
		base = sdktrace.TraceIDRatioBased(cfg.SampleRatio)
	default:
		return nil, fmt.Errorf("unknown sampler strategy: %s (valid: always, never, ratio)", cfg.Sampler)
	}

	if len(cfg.AlwaysSampleKinds) > 0 {
		kinds := make(map[string]bool, len(cfg.AlwaysSampleKinds))
		for _, k := range cfg.AlwaysSampleKinds {
			kinds[strings.TrimSpace(k)] = true
		}
		base = &kindSampler{base: base, kinds: kinds}
	}
	return sdktrace.ParentBased(base), nil
}

// kindSampler samples every span whose start attributes carry a kind in
// kinds and defers to base for the rest.
type kindSampler struct {
	base  sdktrace.Sampler
	kinds map[string]bool
}

func (s *kindSampler) ShouldSample(p sdktrace.SamplingParameters) sdktrace.SamplingResult {
	for _, attr := range p.Attributes {
		if string(attr.Key) == AttrKind && s.kinds[attr.Value.AsString()] {
			return sdktrace.SamplingResult{
				Decision:   sdktrace.RecordAndSample,
				Tracestate: trace.SpanContextFromContext(p.ParentContext).TraceState(),
			}
		}
	}
	return s.base.ShouldSample(p)
}

func (s *kindSampler) Description() string {
	kinds := make([]string, 0, len(s.kinds))
	for k := range s.kinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return fmt.Sprintf("KindSampler{%s,%s}", strings.Join(kinds, "|"), s.base.Description())
}
