package providers

import (
	"slices"
	"time"
)

// ProviderID identifies one third-party API family registered with the dispatcher.
type ProviderID string

const (
	// OpenAI is the OpenAI platform (chat completions and images).
	OpenAI ProviderID = "openai"

	// Google is the Generative Language API (Gemini text, Imagen images).
	Google ProviderID = "google"

	// OpenRouter is the OpenRouter aggregation endpoint.
	OpenRouter ProviderID = "openrouter"

	// Sumopod is the Sumopod OpenAI-compatible gateway.
	Sumopod ProviderID = "sumopod"

	// Stability is the Stability-style text-to-image API.
	Stability ProviderID = "stability"

	// Midjourney is the Midjourney wrapper API.
	Midjourney ProviderID = "midjourney"
)

// Capability is an operation a provider can perform. The same values are
// used as the kind of a DispatchRequest.
type Capability string

const (
	// CapabilityText is single-turn text completion.
	CapabilityText Capability = "text"

	// CapabilityImageGenerate is prompt-to-image generation.
	CapabilityImageGenerate Capability = "image-generate"

	// CapabilityImageEdit is image editing from a source image and a prompt.
	CapabilityImageEdit Capability = "image-edit"
)

// Capabilities lists every capability in a stable order.
var Capabilities = []Capability{CapabilityText, CapabilityImageGenerate, CapabilityImageEdit}

// Valid reports whether c is a known capability.
func (c Capability) Valid() bool {
	return slices.Contains(Capabilities, c)
}

// WireFormat is the JSON request/response family a provider speaks.
type WireFormat string

const (
	// WireOpenAI is the OpenAI-compatible shape (choices/message/content, data[]).
	WireOpenAI WireFormat = "openai"

	// WireGoogle is the Google Generative Language shape (contents/parts, candidates).
	WireGoogle WireFormat = "google"

	// WireOpenRouter is the OpenAI shape plus referer and title headers.
	WireOpenRouter WireFormat = "openrouter"

	// WireMidjourney is the Midjourney wrapper shape (flat prompt, image_url).
	WireMidjourney WireFormat = "midjourney"

	// WireGeneric is the Stability-style text-to-image shape (artifacts[]).
	WireGeneric WireFormat = "generic"
)

// ProviderProfile describes one provider. Profiles are built once when the
// registry is constructed and are never mutated afterwards.
type ProviderProfile struct {
	// ID is the canonical provider identifier.
	ID ProviderID

	// BaseURL is the default API root (e.g., "https://api.openai.com/v1").
	BaseURL string

	// BaseURLPatterns are case-insensitive substrings matched against a
	// configured base URL during detection.
	BaseURLPatterns []string

	// DefaultModel is the model used for text requests when none is given.
	DefaultModel string

	// DefaultImageModel is the model used for image generation.
	DefaultImageModel string

	// DefaultEditModel is the model used for image edits.
	DefaultEditModel string

	// WireFormat selects the codec used to build and parse requests.
	WireFormat WireFormat

	// Capabilities is the set of operations this provider accepts.
	Capabilities []Capability

	// RequestSizeLimit is the maximum prompt length in characters.
	RequestSizeLimit int
}

// Supports reports whether the profile declares capability c.
func (p ProviderProfile) Supports(c Capability) bool {
	return slices.Contains(p.Capabilities, c)
}

// ModelFor returns the default model for the given capability.
func (p ProviderProfile) ModelFor(c Capability) string {
	switch c {
	case CapabilityImageGenerate:
		if p.DefaultImageModel != "" {
			return p.DefaultImageModel
		}
	case CapabilityImageEdit:
		if p.DefaultEditModel != "" {
			return p.DefaultEditModel
		}
		if p.DefaultImageModel != "" {
			return p.DefaultImageModel
		}
	}
	return p.DefaultModel
}

// clone returns a deep copy so callers cannot mutate registry state.
func (p ProviderProfile) clone() ProviderProfile {
	p.BaseURLPatterns = slices.Clone(p.BaseURLPatterns)
	p.Capabilities = slices.Clone(p.Capabilities)
	return p
}

// DispatchRequest is one call into the dispatcher. The dispatcher never
// retains it after the call returns.
type DispatchRequest struct {
	// Kind is the requested operation.
	Kind Capability

	// Prompt is the user prompt (required).
	Prompt string

	// NegativePrompt lists things the image should not contain (image kinds only).
	NegativePrompt string

	// SourceImage is the image to edit (image-edit) or to analyze (text,
	// optional), as an http(s) URL or a data URI.
	SourceImage string

	// Fidelity is the edit fidelity hint ("low" or "high").
	Fidelity string

	// APIKey authenticates this call only.
	APIKey string

	// ProviderOverride selects a provider by id or alias, bypassing base URL detection.
	ProviderOverride string

	// ModelOverride replaces the profile's default model.
	ModelOverride string

	// Temperature is the sampling temperature for text requests (nil = default).
	Temperature *float64

	// MaxTokens caps the completion length for text requests (0 = default).
	MaxTokens int

	// Size is the requested image size (e.g., "1024x1024").
	Size string

	// Quality is the requested image quality (e.g., "hd", "high").
	Quality string

	// N is the number of images to request (0 = 1).
	N int
}

// CompressionMethod records how the effective prompt was derived from the
// caller's prompt.
type CompressionMethod string

const (
	// MethodUnchanged means the prompt already fit its budget.
	MethodUnchanged CompressionMethod = "unchanged"

	// MethodAICompressed means an AI paraphrase fit the budget.
	MethodAICompressed CompressionMethod = "ai-compressed"

	// MethodSmartTruncated means boundary-aware truncation was applied.
	MethodSmartTruncated CompressionMethod = "smart-truncated"
)

// CompressionSummary is the metadata of a compression pass attached to a result.
type CompressionSummary struct {
	Method         CompressionMethod
	OriginalLength int
	FinalLength    int
}

// Substitution records the one sanctioned provider swap: the resolved
// provider lacked the requested capability and a capable default was used.
type Substitution struct {
	// From is the provider that was resolved first.
	From ProviderID

	// To is the provider actually used.
	To ProviderID

	// Capability is the capability From was missing.
	Capability Capability

	// Reason is a human-readable explanation.
	Reason string
}

// DispatchResult is the normalized output of a dispatcher call.
type DispatchResult struct {
	// RequestID correlates logs, traces and the result.
	RequestID string

	// Kind echoes the request kind.
	Kind Capability

	// Provider is the provider that served the call.
	Provider ProviderID

	// Model is the model that was requested.
	Model string

	// Text is the completion for text requests.
	Text string

	// ImageReference is an http(s) URL or a self-contained data URI.
	ImageReference string

	// RevisedPrompt is the provider's own rewrite of the prompt, if it reported one.
	// It is informational only.
	RevisedPrompt string

	// RawProviderResponseDigest is "sha256:<hex>" of the raw response body.
	RawProviderResponseDigest string

	// NormalizedPromptEcho is the exact prompt that was transmitted.
	NormalizedPromptEcho string

	// Compression describes how NormalizedPromptEcho was derived.
	Compression CompressionSummary

	// Substitution is non-nil when a capable default replaced the resolved provider.
	Substitution *Substitution

	// Latency is the transport round-trip time.
	Latency time.Duration
}
