// Package config provides configuration management for the dispatcher.
//
// Configuration is read once at startup from an optional YAML file, an
// optional .env file and the process environment, then handed to the
// provider registry, transport, compressor and telemetry as plain values.
//
// # Configuration Loading
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("dispatch.yaml")
//
//  2. With a .env file and environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("dispatch.yaml", ".env")
//
// An empty path loads the defaults.
//
// # Environment Variable Overrides
//
// Variables use the DISPATCH_ prefix:
//
//   - DISPATCH_DEFAULT_PROVIDER, DISPATCH_BASE_URL
//   - DISPATCH_TEXT_TIMEOUT, DISPATCH_IMAGE_TIMEOUT
//   - DISPATCH_COMPRESSION_PROVIDER, DISPATCH_COMPRESSION_DISABLE_AI
//   - DISPATCH_LOG_LEVEL, DISPATCH_LOG_FORMAT
//   - DISPATCH_METRICS_ENABLED, DISPATCH_TRACING_ENABLED, DISPATCH_TRACING_ENDPOINT
//   - DISPATCH_TRACING_SAMPLER, DISPATCH_TRACING_ALWAYS_SAMPLE_KINDS
//   - DISPATCH_PROVIDERS_<ID>_BASE_URL, _MODEL, _IMAGE_MODEL, _REQUEST_SIZE_LIMIT
//   - DISPATCH_PROVIDERS_OPENROUTER_APP_URL, DISPATCH_PROVIDERS_OPENROUTER_APP_TITLE
//
// Environment variables always take precedence over file-based configuration.
// API keys are never part of the configuration; callers pass them per call.
//
// # Provider Table
//
// The providers section overrides fields of the built-in profiles or adds
// new ones. A new provider must name its base URL, wire format,
// capabilities and request size limit:
//
//	providers:
//	  openai:
//	    request_size_limit: 8000
//	  openrouter:
//	    app_url: https://example.com
//	    app_title: Brief Studio
//	  local:
//	    base_url: http://localhost:8000/v1
//	    wire_format: openai
//	    capabilities: [text]
//	    request_size_limit: 16000
//	aliases:
//	  lm: local
//
// Config.NewRegistry turns the result into a providers.Registry.
//
// # Validation
//
// Validate collects every problem into a ValidationError of FieldErrors,
// including alias and fallback references that do not resolve.
package config
