package providers

import (
	"errors"
	"testing"

	"lumenhq/dispatch/pkg/providers"
)

// TestProfiles returns the default provider table with every base URL
// pointed at baseURL (typically a MockServer).
func TestProfiles(baseURL string) []providers.ProviderProfile {
	profiles := providers.DefaultProfiles()
	for i := range profiles {
		profiles[i].BaseURL = baseURL
	}
	return profiles
}

// TestRegistry builds a registry over TestProfiles(baseURL).
func TestRegistry(t *testing.T, baseURL string) *providers.Registry {
	t.Helper()
	r, err := providers.NewRegistry(providers.RegistryConfig{Profiles: TestProfiles(baseURL)})
	if err != nil {
		t.Fatalf("failed to build test registry: %v", err)
	}
	return r
}

// TestRequest creates a request of the given kind with a test API key.
func TestRequest(kind providers.Capability, prompt string) *providers.DispatchRequest {
	return &providers.DispatchRequest{
		Kind:   kind,
		Prompt: prompt,
		APIKey: "sk-test-key",
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertKind fails the test unless err is a ProviderError of the given kind.
func AssertKind(t *testing.T, err error, kind providers.ErrorKind) *providers.ProviderError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	var pe *providers.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *providers.ProviderError, got %T: %v", err, err)
	}
	if pe.Kind != kind {
		t.Fatalf("expected %s error, got %s: %v", kind, pe.Kind, err)
	}
	return pe
}
