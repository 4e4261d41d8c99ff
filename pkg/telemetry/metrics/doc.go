// Package metrics provides Prometheus metrics for the dispatcher.
//
// # Metrics
//
//   - dispatch_requests_total{provider,kind,status}
//   - dispatch_duration_seconds{provider,kind}
//   - dispatch_response_size_bytes{provider,kind}
//   - provider_errors_total{provider,error_kind}
//   - provider_substitutions_total{from,to,capability}
//   - compressions_total{method}
//   - compression_ratio
//
// Names carry the configured namespace as a prefix when one is set.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordDispatch("google", "text", "success", 900*time.Millisecond)
//	collector.RecordCompression("smart-truncated", 0.8)
//
//	http.Handle("/metrics", collector.Handler())
//
// # Cardinality
//
// Provider ids come from configuration, so the label space is open. Once
// a family has MaxCardinality distinct label sets, new providers are
// recorded under "other".
package metrics
