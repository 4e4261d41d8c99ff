package cli

import (
	"errors"
	"fmt"
	"testing"

	"lumenhq/dispatch/pkg/config"
	"lumenhq/dispatch/pkg/providers"
)

func TestConfigError(t *testing.T) {
	err := &ConfigError{
		Field:   "dispatch.base_url",
		Message: "missing required field",
	}

	expected := "config error in dispatch.base_url: missing required field"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("field", "message")
	if err.Field != "field" {
		t.Errorf("Field = %q, want %q", err.Field, "field")
	}
	if err.Message != "message" {
		t.Errorf("Message = %q, want %q", err.Message, "message")
	}
}

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := &CommandError{
		Command: "run",
		Err:     underlyingErr,
	}

	expected := "command run failed: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := &CommandError{
		Command: "run",
		Err:     underlyingErr,
	}

	unwrapped := err.Unwrap()
	if unwrapped != underlyingErr {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, underlyingErr)
	}

	// Test with errors.Is
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should work with CommandError.Unwrap()")
	}
}

func TestNewCommandError(t *testing.T) {
	underlyingErr := errors.New("test")
	err := NewCommandError("command", underlyingErr)

	if err.Command != "command" {
		t.Errorf("Command = %q, want %q", err.Command, "command")
	}
	if err.Err != underlyingErr {
		t.Errorf("Err = %v, want %v", err.Err, underlyingErr)
	}
}

func TestConfigError_NoField(t *testing.T) {
	err := NewConfigError("", "no config")
	if err.Error() != "config error: no config" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("boom"), ExitFailure},
		{"cli config", NewConfigError("format", "bad"), ExitUsage},
		{"config validation", fmt.Errorf("load: %w", config.ValidationError{Errors: []config.FieldError{{Field: "x", Message: "y"}}}), ExitUsage},
		{"request validation", &providers.ValidationError{Field: "prompt", Message: "required"}, ExitUsage},
		{"registry", &providers.ConfigError{Provider: "acme", Message: "no base url"}, ExitUsage},
		{"auth", providers.NewError(providers.AuthenticationFailed, providers.OpenAI, "bad key"), ExitAuth},
		{"forbidden", providers.NewError(providers.Forbidden, providers.OpenAI, "denied"), ExitAuth},
		{"rate limited", NewCommandError("text", providers.NewError(providers.RateLimited, providers.OpenAI, "slow down")), ExitRateLimited},
		{"timeout", providers.NewError(providers.NetworkTimeout, providers.Google, "deadline"), ExitTimeout},
		{"unsupported", providers.Unsupported(providers.Stability, providers.CapabilityText), ExitUnsupported},
		{"malformed", providers.Malformed(providers.Midjourney, "no image"), ExitProvider},
		{"unavailable", providers.NewError(providers.ServiceUnavailable, providers.Sumopod, "503"), ExitProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
