package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestProviderError(t *testing.T) {
	t.Run("with status code", func(t *testing.T) {
		err := &ProviderError{
			Kind:       ServiceUnavailable,
			Provider:   OpenAI,
			StatusCode: 500,
			Message:    "internal error",
		}

		expected := `provider "openai" service_unavailable (status 500): internal error`
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})

	t.Run("without status code", func(t *testing.T) {
		err := &ProviderError{
			Kind:     MalformedResponse,
			Provider: Google,
			Message:  "no completion text",
		}

		expected := `provider "google" malformed_response: no completion text`
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})

	t.Run("rate limited with retry after", func(t *testing.T) {
		err := &ProviderError{
			Kind:       RateLimited,
			Provider:   OpenAI,
			StatusCode: 429,
			RetryAfter: 10 * time.Second,
		}

		if !strings.Contains(err.Error(), "retry after 10s") {
			t.Errorf("expected retry hint in %q", err.Error())
		}
	})

	t.Run("with cause", func(t *testing.T) {
		err := &ProviderError{
			Kind:     NetworkTimeout,
			Provider: OpenAI,
			Cause:    context.DeadlineExceeded,
		}

		if !errors.Is(err, context.DeadlineExceeded) {
			t.Error("expected error to wrap cause")
		}
		if errors.Unwrap(err) != context.DeadlineExceeded {
			t.Errorf("expected unwrapped error to be %v", context.DeadlineExceeded)
		}
	})
}

func TestProviderError_IsSentinel(t *testing.T) {
	err := fmt.Errorf("dispatch failed: %w", &ProviderError{
		Kind:       RateLimited,
		Provider:   Sumopod,
		StatusCode: 429,
	})

	if !errors.Is(err, ErrRateLimited) {
		t.Error("expected wrapped error to match ErrRateLimited")
	}
	if errors.Is(err, ErrServiceUnavailable) {
		t.Error("did not expect wrapped error to match ErrServiceUnavailable")
	}
	if KindOf(err) != RateLimited {
		t.Errorf("expected KindOf to return RateLimited, got %s", KindOf(err))
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Error("expected KindUnknown for a non-provider error")
	}
}

func TestProviderError_IsSpecificInstance(t *testing.T) {
	a := &ProviderError{Kind: NotFound, Provider: OpenAI, StatusCode: 404}
	b := &ProviderError{Kind: NotFound, Provider: OpenAI, StatusCode: 404}

	if errors.Is(a, b) {
		t.Error("distinct errors with a provider set should not match each other")
	}
	if !errors.Is(a, a) {
		t.Error("an error should match itself")
	}
}

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{AuthenticationFailed, "authentication_failed"},
		{Forbidden, "forbidden"},
		{NotFound, "not_found"},
		{RateLimited, "rate_limited"},
		{ServiceUnavailable, "service_unavailable"},
		{MalformedResponse, "malformed_response"},
		{UnsupportedCapability, "unsupported_capability"},
		{NetworkTimeout, "network_timeout"},
		{CompressionExhausted, "compression_exhausted"},
		{ErrorKind(99), "error_kind(99)"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

func TestConfigError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &ConfigError{Provider: "dalle", Field: "aliases", Message: "alias targets unknown provider"}

		expected := `provider "dalle" configuration error (field "aliases"): alias targets unknown provider`
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})

	t.Run("without field", func(t *testing.T) {
		err := &ConfigError{Provider: "openai", Message: "bad"}

		expected := `provider "openai" configuration error: bad`
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "prompt", Message: "prompt is required"}

	expected := `request validation failed (field "prompt"): prompt is required`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}
