package providers

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultProfiles returns the built-in provider table in detection order.
// Providers whose URLs can embed another provider's name (gateways and
// aggregators) come before the providers they proxy.
func DefaultProfiles() []ProviderProfile {
	return []ProviderProfile{
		{
			ID:               Sumopod,
			BaseURL:          "https://ai.sumopod.com/v1",
			BaseURLPatterns:  []string{"sumopod"},
			DefaultModel:     "gpt-4o-mini",
			WireFormat:       WireOpenAI,
			Capabilities:     []Capability{CapabilityText},
			RequestSizeLimit: 32000,
		},
		{
			ID:               OpenRouter,
			BaseURL:          "https://openrouter.ai/api/v1",
			BaseURLPatterns:  []string{"openrouter"},
			DefaultModel:     "openai/gpt-4o",
			WireFormat:       WireOpenRouter,
			Capabilities:     []Capability{CapabilityText},
			RequestSizeLimit: 32000,
		},
		{
			ID:                Google,
			BaseURL:           "https://generativelanguage.googleapis.com/v1beta",
			BaseURLPatterns:   []string{"generativelanguage", "googleapis", "gemini"},
			DefaultModel:      "gemini-1.5-pro",
			DefaultImageModel: "imagen-3.0-generate-002",
			WireFormat:        WireGoogle,
			Capabilities:      []Capability{CapabilityText, CapabilityImageGenerate},
			RequestSizeLimit:  32000,
		},
		{
			ID:                Midjourney,
			BaseURL:           "https://api.midjourneyapi.io/v2",
			BaseURLPatterns:   []string{"midjourney"},
			DefaultImageModel: "midjourney-v6",
			WireFormat:        WireMidjourney,
			Capabilities:      []Capability{CapabilityImageGenerate},
			RequestSizeLimit:  4000,
		},
		{
			ID:                Stability,
			BaseURL:           "https://api.stability.ai/v1",
			BaseURLPatterns:   []string{"stability"},
			DefaultImageModel: "stable-diffusion-xl-1024-v1-0",
			WireFormat:        WireGeneric,
			Capabilities:      []Capability{CapabilityImageGenerate},
			RequestSizeLimit:  2000,
		},
		{
			ID:                OpenAI,
			BaseURL:           "https://api.openai.com/v1",
			BaseURLPatterns:   []string{"api.openai.com", "openai"},
			DefaultModel:      "gpt-4o",
			DefaultImageModel: "dall-e-3",
			DefaultEditModel:  "gpt-image-1",
			WireFormat:        WireOpenAI,
			Capabilities:      []Capability{CapabilityText, CapabilityImageGenerate, CapabilityImageEdit},
			RequestSizeLimit:  4000,
		},
	}
}

// DefaultAliases returns the built-in alias table. Keys are normalized with
// NormalizeAlias when the registry is built.
func DefaultAliases() map[string]ProviderID {
	return map[string]ProviderID{
		"openai_dalle":  OpenAI,
		"dalle":         OpenAI,
		"dalle-3":       OpenAI,
		"gpt-image":     OpenAI,
		"gpt_image_1":   OpenAI,
		"imagen":        Google,
		"gemini":        Google,
		"gemini_imagen": Google,
		"sumo":          Sumopod,
		"mj":            Midjourney,
		"stability_ai":  Stability,
		"sdxl":          Stability,
		"or":            OpenRouter,
	}
}

// DefaultCapabilityFallbacks maps each capability to the provider substituted
// when the resolved provider lacks it.
func DefaultCapabilityFallbacks() map[Capability]ProviderID {
	return map[Capability]ProviderID{
		CapabilityText:          OpenAI,
		CapabilityImageGenerate: OpenAI,
		CapabilityImageEdit:     OpenAI,
	}
}

// RegistryConfig holds everything needed to build a Registry.
type RegistryConfig struct {
	// Profiles in detection order. Empty means DefaultProfiles().
	Profiles []ProviderProfile

	// Aliases maps alternate names to provider ids. Nil means DefaultAliases().
	Aliases map[string]ProviderID

	// Fallbacks maps capabilities to substitute providers. Nil means
	// DefaultCapabilityFallbacks().
	Fallbacks map[Capability]ProviderID
}

// Registry is the immutable set of provider profiles, the alias table, and
// the capability fallbacks. It is safe for concurrent use.
type Registry struct {
	order     []ProviderID
	profiles  map[ProviderID]ProviderProfile
	aliases   map[string]ProviderID
	fallbacks map[Capability]ProviderID
}

// NewRegistry validates cfg and builds a Registry. Every alias and fallback
// must name a registered provider, ids must be unique, base URLs must parse
// and size limits must be positive.
func NewRegistry(cfg RegistryConfig) (*Registry, error) {
	profiles := cfg.Profiles
	if len(profiles) == 0 {
		profiles = DefaultProfiles()
	}
	aliases := cfg.Aliases
	if aliases == nil {
		aliases = DefaultAliases()
	}
	fallbacks := cfg.Fallbacks
	if fallbacks == nil {
		fallbacks = DefaultCapabilityFallbacks()
	}

	r := &Registry{
		profiles:  make(map[ProviderID]ProviderProfile, len(profiles)),
		aliases:   make(map[string]ProviderID, len(aliases)),
		fallbacks: make(map[Capability]ProviderID, len(fallbacks)),
	}

	for _, p := range profiles {
		if err := validateProfile(p); err != nil {
			return nil, err
		}
		if _, dup := r.profiles[p.ID]; dup {
			return nil, &ConfigError{Provider: string(p.ID), Field: "id", Message: "duplicate provider id"}
		}
		r.profiles[p.ID] = p.clone()
		r.order = append(r.order, p.ID)
	}

	for alias, id := range aliases {
		if _, ok := r.profiles[id]; !ok {
			return nil, &ConfigError{
				Provider: alias,
				Field:    "aliases",
				Message:  fmt.Sprintf("alias targets unknown provider %q", id),
			}
		}
		key := NormalizeAlias(alias)
		if key == "" {
			return nil, &ConfigError{Provider: alias, Field: "aliases", Message: "alias is empty after normalization"}
		}
		if prev, ok := r.aliases[key]; ok && prev != id {
			return nil, &ConfigError{
				Provider: alias,
				Field:    "aliases",
				Message:  fmt.Sprintf("alias collides with %q after normalization", prev),
			}
		}
		r.aliases[key] = id
	}

	for c, id := range fallbacks {
		if !c.Valid() {
			return nil, &ConfigError{Provider: string(id), Field: "fallbacks", Message: fmt.Sprintf("unknown capability %q", c)}
		}
		p, ok := r.profiles[id]
		if !ok {
			return nil, &ConfigError{
				Provider: string(id),
				Field:    "fallbacks",
				Message:  fmt.Sprintf("fallback for %q targets unknown provider", c),
			}
		}
		if !p.Supports(c) {
			return nil, &ConfigError{
				Provider: string(id),
				Field:    "fallbacks",
				Message:  fmt.Sprintf("fallback provider does not support %q", c),
			}
		}
		r.fallbacks[c] = id
	}

	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on error. Intended for tests
// and package-level defaults.
func MustNewRegistry(cfg RegistryConfig) *Registry {
	r, err := NewRegistry(cfg)
	if err != nil {
		panic(err)
	}
	return r
}

func validateProfile(p ProviderProfile) error {
	if p.ID == "" {
		return &ConfigError{Field: "id", Message: "provider id is required"}
	}
	if p.BaseURL == "" {
		return &ConfigError{Provider: string(p.ID), Field: "base_url", Message: "base URL is required"}
	}
	u, err := url.Parse(p.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ConfigError{Provider: string(p.ID), Field: "base_url", Message: fmt.Sprintf("invalid base URL %q", p.BaseURL)}
	}
	if p.RequestSizeLimit < 1 {
		return &ConfigError{Provider: string(p.ID), Field: "request_size_limit", Message: "request size limit must be positive"}
	}
	if len(p.Capabilities) == 0 {
		return &ConfigError{Provider: string(p.ID), Field: "capabilities", Message: "at least one capability is required"}
	}
	for _, c := range p.Capabilities {
		if !c.Valid() {
			return &ConfigError{Provider: string(p.ID), Field: "capabilities", Message: fmt.Sprintf("unknown capability %q", c)}
		}
	}
	switch p.WireFormat {
	case WireOpenAI, WireGoogle, WireOpenRouter, WireMidjourney, WireGeneric:
	default:
		return &ConfigError{Provider: string(p.ID), Field: "wire_format", Message: fmt.Sprintf("unknown wire format %q", p.WireFormat)}
	}
	return nil
}

// NormalizeAlias lowercases name and strips separators ("_", "-", ".", spaces).
func NormalizeAlias(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', '.', ' ', '\t':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(name)))
}

// Lookup returns the profile registered under id.
func (r *Registry) Lookup(id ProviderID) (ProviderProfile, bool) {
	p, ok := r.profiles[id]
	if !ok {
		return ProviderProfile{}, false
	}
	return p.clone(), true
}

// Resolve maps a provider id or alias to its profile.
func (r *Registry) Resolve(name string) (ProviderProfile, bool) {
	key := NormalizeAlias(name)
	if key == "" {
		return ProviderProfile{}, false
	}
	if id, ok := r.aliases[key]; ok {
		return r.Lookup(id)
	}
	for _, id := range r.order {
		if NormalizeAlias(string(id)) == key {
			return r.Lookup(id)
		}
	}
	return ProviderProfile{}, false
}

// Profiles returns all profiles in registration order.
func (r *Registry) Profiles() []ProviderProfile {
	out := make([]ProviderProfile, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.profiles[id].clone())
	}
	return out
}

// Aliases returns a copy of the normalized alias table.
func (r *Registry) Aliases() map[string]ProviderID {
	out := make(map[string]ProviderID, len(r.aliases))
	for k, v := range r.aliases {
		out[k] = v
	}
	return out
}

// Fallback returns the provider substituted for capability c.
func (r *Registry) Fallback(c Capability) (ProviderProfile, bool) {
	id, ok := r.fallbacks[c]
	if !ok {
		return ProviderProfile{}, false
	}
	return r.Lookup(id)
}
