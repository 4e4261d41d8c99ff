// Package providers is the provider-agnostic core of the dispatch layer.
//
// # Overview
//
// The package defines the provider table (Registry), provider resolution
// (Detector), the request and result types shared by every wire family, the
// error taxonomy (ProviderError and its kinds), the request sanitizer, the
// pooled HTTP Transport, and the Codec contract implemented once per wire
// family in the subpackages:
//
//   - openai     OpenAI-compatible endpoints (OpenAI, Sumopod)
//   - openrouter OpenAI body plus HTTP-Referer and X-Title headers
//   - google     Generative Language API (generateContent, Imagen predict)
//   - midjourney Midjourney wrapper API
//   - stability  Stability-style text-to-image API
//
// # Detection
//
// A request is routed by an explicit provider override (id or alias) or, when
// none is given, by matching the configured base URL against each profile's
// patterns in registration order:
//
//	registry := providers.MustNewRegistry(providers.RegistryConfig{})
//	detector := providers.NewDetector(registry, nil)
//
//	det, err := detector.Detect("https://api.openai.com/v1", "imagen", providers.CapabilityImageGenerate)
//	// det.Profile.ID == providers.Google
//
// When the resolved provider lacks the requested capability, the registry's
// fallback for that capability is used instead and det.Substitution records
// the swap.
//
// # Errors
//
// Every failure surfaced by a dispatch call is a *ProviderError. Match kinds
// with errors.Is against the exported sentinels:
//
//	if errors.Is(err, providers.ErrRateLimited) {
//	    var pe *providers.ProviderError
//	    errors.As(err, &pe)
//	    time.Sleep(pe.RetryAfter)
//	}
//
// Non-2xx statuses are mapped by CheckStatus before any body is parsed.
// Codecs report missing or empty fields as MalformedResponse and never return
// guessed content.
package providers
