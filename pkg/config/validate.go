package config

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"lumenhq/dispatch/pkg/providers"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "dispatch.text_timeout").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateDispatch(&cfg.Dispatch)...)
	errs = append(errs, validateProviders(cfg.Providers)...)
	errs = append(errs, validateRegistry(cfg)...)
	errs = append(errs, validateCompression(&cfg.Compression)...)
	errs = append(errs, validateTransport(&cfg.Transport)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateDispatch(cfg *DispatchConfig) []FieldError {
	var errs []FieldError

	if cfg.DefaultProvider == "" && cfg.BaseURL == "" {
		errs = append(errs, FieldError{
			Field:   "dispatch.default_provider",
			Message: "a default provider or a base URL is required",
		})
	}
	if cfg.BaseURL != "" {
		if msg := checkURL(cfg.BaseURL); msg != "" {
			errs = append(errs, FieldError{Field: "dispatch.base_url", Message: msg})
		}
	}

	if cfg.TextTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "dispatch.text_timeout",
			Message: "text timeout must be positive",
		})
	}
	if cfg.ImageTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "dispatch.image_timeout",
			Message: "image timeout must be positive",
		})
	}

	return errs
}

// validateProviders checks each provider entry on its own. Cross-references
// (aliases, fallbacks, default provider) are checked by validateRegistry.
func validateProviders(entries map[string]ProviderConfig) []FieldError {
	var errs []FieldError

	builtin := make(map[string]bool)
	for _, p := range providers.DefaultProfiles() {
		builtin[string(p.ID)] = true
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	enabled := len(builtin)
	for _, id := range ids {
		pc := entries[id]
		prefix := fmt.Sprintf("providers.%s", id)

		if pc.Disabled {
			if builtin[id] {
				enabled--
			}
			continue
		}
		if !builtin[id] {
			enabled++
		}

		if pc.BaseURL != "" {
			if msg := checkURL(pc.BaseURL); msg != "" {
				errs = append(errs, FieldError{Field: prefix + ".base_url", Message: msg})
			}
		}
		if pc.AppURL != "" {
			if msg := checkURL(pc.AppURL); msg != "" {
				errs = append(errs, FieldError{Field: prefix + ".app_url", Message: msg})
			}
		}
		if pc.RequestSizeLimit < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".request_size_limit",
				Message: "request size limit must be positive",
			})
		}
		if pc.WireFormat != "" && !validWireFormat(pc.WireFormat) {
			errs = append(errs, FieldError{
				Field:   prefix + ".wire_format",
				Message: fmt.Sprintf("invalid wire format %q: must be 'openai', 'google', 'openrouter', 'midjourney' or 'generic'", pc.WireFormat),
			})
		}
		for _, c := range pc.Capabilities {
			if !providers.Capability(c).Valid() {
				errs = append(errs, FieldError{
					Field:   prefix + ".capabilities",
					Message: fmt.Sprintf("invalid capability %q: must be 'text', 'image-generate' or 'image-edit'", c),
				})
			}
		}

		// New providers have no built-in profile to inherit from.
		if !builtin[id] {
			if pc.BaseURL == "" {
				errs = append(errs, FieldError{Field: prefix + ".base_url", Message: "base URL is required for a new provider"})
			}
			if pc.WireFormat == "" {
				errs = append(errs, FieldError{Field: prefix + ".wire_format", Message: "wire format is required for a new provider"})
			}
			if len(pc.Capabilities) == 0 {
				errs = append(errs, FieldError{Field: prefix + ".capabilities", Message: "at least one capability is required for a new provider"})
			}
			if pc.RequestSizeLimit == 0 {
				errs = append(errs, FieldError{Field: prefix + ".request_size_limit", Message: "request size limit is required for a new provider"})
			}
		}
	}

	if enabled <= 0 {
		errs = append(errs, FieldError{
			Field:   "providers",
			Message: "at least one provider must be enabled",
		})
	}

	return errs
}

// validateRegistry builds the registry and checks every name that must
// resolve through it.
func validateRegistry(cfg *Config) []FieldError {
	registry, err := cfg.NewRegistry()
	if err != nil {
		return []FieldError{{Field: "providers", Message: err.Error()}}
	}

	var errs []FieldError
	if name := cfg.Dispatch.DefaultProvider; name != "" {
		if _, ok := registry.Resolve(name); !ok {
			errs = append(errs, FieldError{
				Field:   "dispatch.default_provider",
				Message: fmt.Sprintf("unknown provider %q", name),
			})
		}
	}
	if name := cfg.Compression.Provider; name != "" {
		p, ok := registry.Resolve(name)
		switch {
		case !ok:
			errs = append(errs, FieldError{
				Field:   "compression.provider",
				Message: fmt.Sprintf("unknown provider %q", name),
			})
		case !p.Supports(providers.CapabilityText):
			errs = append(errs, FieldError{
				Field:   "compression.provider",
				Message: fmt.Sprintf("provider %q does not support text completion", name),
			})
		}
	}
	return errs
}

func validateCompression(cfg *CompressionConfig) []FieldError {
	var errs []FieldError

	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "compression.timeout",
			Message: "compression timeout must be positive",
		})
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		errs = append(errs, FieldError{
			Field:   "compression.temperature",
			Message: "temperature must be between 0.0 and 2.0",
		})
	}

	return errs
}

func validateTransport(cfg *TransportConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxIdleConns < 0 {
		errs = append(errs, FieldError{Field: "transport.max_idle_conns", Message: "must be non-negative"})
	}
	if cfg.MaxIdleConnsPerHost < 0 {
		errs = append(errs, FieldError{Field: "transport.max_idle_conns_per_host", Message: "must be non-negative"})
	}
	if cfg.IdleConnTimeout < 0 {
		errs = append(errs, FieldError{Field: "transport.idle_conn_timeout", Message: "must be non-negative"})
	}
	if cfg.MaxResponseBytes < 0 {
		errs = append(errs, FieldError{Field: "transport.max_response_bytes", Message: "must be non-negative"})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	// Validate logging level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if cfg.Logging.Level == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: "logging level is required",
		})
	} else if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	// Validate logging format
	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if cfg.Logging.Format == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: "logging format is required",
		})
	} else if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json', 'text' or 'console'", cfg.Logging.Format),
		})
	}

	for i, p := range cfg.Logging.RedactPatterns {
		if _, err := regexp.Compile(p.Pattern); err != nil {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("telemetry.logging.redact_patterns[%d].pattern", i),
				Message: fmt.Sprintf("invalid regular expression: %v", err),
			})
		}
	}

	if cfg.Metrics.MaxCardinality < 0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.max_cardinality",
			Message: "max cardinality must be non-negative",
		})
	}

	// Validate tracing configuration
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	switch cfg.Tracing.Sampler {
	case "always", "never", "ratio":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never' or 'ratio'", cfg.Tracing.Sampler),
		})
	}
	for _, k := range cfg.Tracing.AlwaysSampleKinds {
		if !providers.Capability(k).Valid() {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.always_sample_kinds",
				Message: fmt.Sprintf("invalid kind %q: must be 'text', 'image-generate' or 'image-edit'", k),
			})
		}
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	return errs
}

func checkURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Sprintf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "URL must use http or https"
	}
	if u.Host == "" {
		return "URL must include a host"
	}
	return ""
}

func validWireFormat(s string) bool {
	switch providers.WireFormat(s) {
	case providers.WireOpenAI, providers.WireGoogle, providers.WireOpenRouter, providers.WireMidjourney, providers.WireGeneric:
		return true
	}
	return false
}
