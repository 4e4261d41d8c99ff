package dispatch

import (
	"strings"

	"lumenhq/dispatch/pkg/providers"
)

// validate checks the caller-supplied shape of req before anything is resolved.
func validate(req *providers.DispatchRequest) error {
	if req == nil {
		return &providers.ValidationError{Field: "request", Message: "request is nil"}
	}
	if !req.Kind.Valid() {
		return &providers.ValidationError{Field: "kind", Message: "unknown kind " + string(req.Kind)}
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return &providers.ValidationError{Field: "prompt", Message: "prompt is required"}
	}
	if strings.TrimSpace(req.APIKey) == "" {
		return &providers.ValidationError{Field: "api_key", Message: "API key is required"}
	}
	if req.MaxTokens < 0 {
		return &providers.ValidationError{Field: "max_tokens", Message: "max tokens must not be negative"}
	}
	if req.N < 0 {
		return &providers.ValidationError{Field: "n", Message: "image count must not be negative"}
	}
	if req.Temperature != nil && (*req.Temperature < 0 || *req.Temperature > 2) {
		return &providers.ValidationError{Field: "temperature", Message: "temperature must be between 0.0 and 2.0"}
	}

	if req.Kind == providers.CapabilityText && strings.TrimSpace(req.SourceImage) != "" &&
		!providers.IsImageReference(req.SourceImage) {
		return &providers.ValidationError{Field: "source_image", Message: "image to analyze must be an http(s) URL or a data URI"}
	}

	if req.Kind == providers.CapabilityImageEdit {
		if strings.TrimSpace(req.SourceImage) == "" {
			return &providers.ValidationError{Field: "source_image", Message: "source image is required for image edits"}
		}
		if !providers.IsImageReference(req.SourceImage) {
			return &providers.ValidationError{Field: "source_image", Message: "source image must be an http(s) URL or a data URI"}
		}
		switch req.Fidelity {
		case "", "low", "high":
		default:
			return &providers.ValidationError{Field: "fidelity", Message: "fidelity must be 'low' or 'high'"}
		}
	}
	return nil
}
