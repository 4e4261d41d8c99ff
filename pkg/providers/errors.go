package providers

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies a dispatch failure.
type ErrorKind int

const (
	// KindUnknown is the zero value and never produced by this package.
	KindUnknown ErrorKind = iota

	// AuthenticationFailed means the provider rejected the API key (HTTP 401).
	AuthenticationFailed

	// Forbidden means the key is valid but not allowed (HTTP 403).
	Forbidden

	// NotFound means the endpoint or model does not exist (HTTP 404).
	NotFound

	// RateLimited means the provider throttled the call (HTTP 429).
	RateLimited

	// ServiceUnavailable covers 503, other non-2xx statuses and refused connections.
	ServiceUnavailable

	// MalformedResponse means the body lacked the fields its wire format requires.
	MalformedResponse

	// UnsupportedCapability means no provider could serve the requested capability.
	UnsupportedCapability

	// NetworkTimeout means the call exceeded its deadline or was cancelled.
	NetworkTimeout

	// CompressionExhausted means a compression budget below one was requested.
	CompressionExhausted
)

var kindNames = map[ErrorKind]string{
	KindUnknown:           "unknown",
	AuthenticationFailed:  "authentication_failed",
	Forbidden:             "forbidden",
	NotFound:              "not_found",
	RateLimited:           "rate_limited",
	ServiceUnavailable:    "service_unavailable",
	MalformedResponse:     "malformed_response",
	UnsupportedCapability: "unsupported_capability",
	NetworkTimeout:        "network_timeout",
	CompressionExhausted:  "compression_exhausted",
}

// String returns the snake_case name used in logs and metric labels.
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("error_kind(%d)", int(k))
}

// Sentinel values for errors.Is matching by kind:
//
//	if errors.Is(err, providers.ErrRateLimited) { ... }
var (
	ErrAuthenticationFailed  = &ProviderError{Kind: AuthenticationFailed}
	ErrForbidden             = &ProviderError{Kind: Forbidden}
	ErrNotFound              = &ProviderError{Kind: NotFound}
	ErrRateLimited           = &ProviderError{Kind: RateLimited}
	ErrServiceUnavailable    = &ProviderError{Kind: ServiceUnavailable}
	ErrMalformedResponse     = &ProviderError{Kind: MalformedResponse}
	ErrUnsupportedCapability = &ProviderError{Kind: UnsupportedCapability}
	ErrNetworkTimeout        = &ProviderError{Kind: NetworkTimeout}
	ErrCompressionExhausted  = &ProviderError{Kind: CompressionExhausted}
)

// ProviderError is the single error type surfaced by dispatch operations.
// Kind selects the variant; the remaining fields are filled where they apply.
type ProviderError struct {
	// Kind is the failure class
	Kind ErrorKind

	// Provider is the provider involved (empty when none was resolved)
	Provider ProviderID

	// StatusCode is the HTTP status code (0 if not applicable)
	StatusCode int

	// RetryAfter is the provider's retry hint for RateLimited errors
	RetryAfter time.Duration

	// Message is the error message
	Message string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	var s string
	switch {
	case e.Provider == "":
		s = e.Kind.String()
	case e.StatusCode > 0:
		s = fmt.Sprintf("provider %q %s (status %d)", e.Provider, e.Kind, e.StatusCode)
	default:
		s = fmt.Sprintf("provider %q %s", e.Provider, e.Kind)
	}
	if e.Kind == RateLimited && e.RetryAfter > 0 {
		s += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

// Unwrap returns the underlying error for error chain support.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Is matches any ProviderError of the same kind when target is a bare
// sentinel (no provider, no status).
func (e *ProviderError) Is(target error) bool {
	t, ok := target.(*ProviderError)
	if !ok {
		return false
	}
	if t.Provider != "" || t.StatusCode != 0 {
		return e == t
	}
	return e.Kind == t.Kind
}

// KindOf returns the kind of the first ProviderError in err's chain, or
// KindUnknown.
func KindOf(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// NewError builds a ProviderError.
func NewError(kind ErrorKind, provider ProviderID, format string, args ...any) *ProviderError {
	return &ProviderError{
		Kind:     kind,
		Provider: provider,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Unsupported builds an UnsupportedCapability error.
func Unsupported(provider ProviderID, c Capability) *ProviderError {
	return NewError(UnsupportedCapability, provider, "capability %q not supported", c)
}

// Malformed builds a MalformedResponse error.
func Malformed(provider ProviderID, format string, args ...any) *ProviderError {
	return NewError(MalformedResponse, provider, format, args...)
}

// ConfigError represents an invalid provider registry configuration.
// It is returned at construction time, never from a dispatch call.
type ConfigError struct {
	// Provider is the provider (or alias) with invalid configuration
	Provider string

	// Field is the configuration field that is invalid
	Field string

	// Message describes the configuration error
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("provider %q configuration error (field %q): %s",
			e.Provider, e.Field, e.Message)
	}
	return fmt.Sprintf("provider %q configuration error: %s", e.Provider, e.Message)
}

// ValidationError represents an invalid DispatchRequest.
type ValidationError struct {
	// Field is the request field that failed validation
	Field string

	// Message describes why validation failed
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("request validation failed (field %q): %s", e.Field, e.Message)
}
