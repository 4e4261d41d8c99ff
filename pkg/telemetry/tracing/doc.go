// Package tracing provides OpenTelemetry tracing for dispatcher calls.
//
// # Overview
//
// Every dispatcher call runs in one span named "dispatch.<kind>" carrying the
// provider, model, prompt length and compression outcome. Spans are
// exported over OTLP gRPC. When tracing is disabled the tracer hands out
// noop spans.
//
// Outbound provider requests carry the W3C traceparent header of the
// call's span (see InjectHeaders), so a provider-side proxy can join the
// trace:
//
//	traceparent: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//
// # Sampling Strategies
//
// Three sampling strategies are supported:
//   - always: Sample all traces (development/debugging)
//   - never: Sample no traces
//   - ratio: Sample a fraction of traces by trace ID
//
// # Configuration
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: localhost:4317
//	    sampler: ratio
//	    sample_ratio: 0.1
//	    otlp:
//	      insecure: true
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "dispatch.text")
//	defer span.End()
package tracing
