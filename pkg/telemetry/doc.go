// Package telemetry wires the logging, metrics and tracing packages together
// from one TelemetryConfig.
//
// # Components
//
//   - logging: slog handler with API key redaction and request context fields
//   - metrics: Prometheus collector for dispatch, provider and compression metrics
//   - tracing: OpenTelemetry tracer, noop unless enabled
//
// # Usage
//
//	tel, err := telemetry.New(&cfg.Telemetry, os.Stderr)
//	if err != nil {
//		return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	d, err := dispatch.FromConfig(cfg,
//		dispatch.WithLogger(tel.Logger().Slog()),
//		dispatch.WithMetrics(tel.Metrics()),
//		dispatch.WithTracer(tel.Tracer()),
//	)
//
// # Redaction
//
// Redaction is on by default. Bearer tokens, sk- and AIza keys, key query
// parameters and base64 image payloads never reach the log output.
package telemetry
