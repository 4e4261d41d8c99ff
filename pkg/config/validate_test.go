package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_Defaults(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("default configuration should be valid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "no provider selection",
			mutate: func(c *Config) { c.Dispatch.DefaultProvider = "" },
			field:  "dispatch.default_provider",
		},
		{
			name:   "unknown default provider",
			mutate: func(c *Config) { c.Dispatch.DefaultProvider = "acme" },
			field:  "dispatch.default_provider",
		},
		{
			name:   "bad base URL",
			mutate: func(c *Config) { c.Dispatch.DefaultProvider = "dalle"; c.Dispatch.BaseURL = "ftp://example.com" },
			field:  "dispatch.base_url",
		},
		{
			name:   "negative text timeout",
			mutate: func(c *Config) { c.Dispatch.TextTimeout = -1 },
			field:  "dispatch.text_timeout",
		},
		{
			name:   "image-only compression provider",
			mutate: func(c *Config) { c.Compression.Provider = "mj" },
			field:  "compression.provider",
		},
		{
			name:   "temperature out of range",
			mutate: func(c *Config) { c.Compression.Temperature = 3 },
			field:  "compression.temperature",
		},
		{
			name: "bad openrouter app URL",
			mutate: func(c *Config) {
				c.Providers = map[string]ProviderConfig{"openrouter": {AppURL: "example.com"}}
			},
			field: "providers.openrouter.app_url",
		},
		{
			name: "new provider missing fields",
			mutate: func(c *Config) {
				c.Providers = map[string]ProviderConfig{"acme": {Model: "m"}}
			},
			field: "providers.acme.base_url",
		},
		{
			name: "invalid wire format",
			mutate: func(c *Config) {
				c.Providers = map[string]ProviderConfig{"openai": {WireFormat: "soap"}}
			},
			field: "providers.openai.wire_format",
		},
		{
			name: "invalid capability",
			mutate: func(c *Config) {
				c.Providers = map[string]ProviderConfig{"google": {Capabilities: []string{"video"}}}
			},
			field: "providers.google.capabilities",
		},
		{
			name: "fallback to provider lacking capability",
			mutate: func(c *Config) {
				c.Fallbacks = map[string]string{"image-edit": "google"}
			},
			field: "providers",
		},
		{
			name: "all providers disabled",
			mutate: func(c *Config) {
				c.Providers = map[string]ProviderConfig{}
				for _, id := range []string{"openai", "google", "openrouter", "sumopod", "stability", "midjourney"} {
					c.Providers[id] = ProviderConfig{Disabled: true}
				}
			},
			field: "providers",
		},
		{
			name:   "invalid log level",
			mutate: func(c *Config) { c.Telemetry.Logging.Level = "verbose" },
			field:  "telemetry.logging.level",
		},
		{
			name: "invalid redact pattern",
			mutate: func(c *Config) {
				c.Telemetry.Logging.RedactPatterns = []RedactPattern{{Name: "bad", Pattern: "(["}}
			},
			field: "telemetry.logging.redact_patterns[0].pattern",
		},
		{
			name:   "tracing without endpoint",
			mutate: func(c *Config) { c.Telemetry.Tracing.Enabled = true },
			field:  "telemetry.tracing.endpoint",
		},
		{
			name:   "unknown always-sampled kind",
			mutate: func(c *Config) { c.Telemetry.Tracing.AlwaysSampleKinds = []string{"video"} },
			field:  "telemetry.tracing.always_sample_kinds",
		},
		{
			name:   "unknown sampler",
			mutate: func(c *Config) { c.Telemetry.Tracing.Sampler = "sometimes" },
			field:  "telemetry.tracing.sampler",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on %q, got %v", tt.field, err)
			}
		})
	}
}

func TestValidationError_Format(t *testing.T) {
	single := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if single.Error() != "configuration validation failed: a: bad" {
		t.Errorf("unexpected message %q", single.Error())
	}

	multi := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}}
	if !strings.Contains(multi.Error(), "with 2 errors") {
		t.Errorf("unexpected message %q", multi.Error())
	}
}
