package providers

import (
	"errors"
	"testing"
)

func TestNewRegistry_Defaults(t *testing.T) {
	r, err := NewRegistry(RegistryConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	profiles := r.Profiles()
	if len(profiles) != len(DefaultProfiles()) {
		t.Fatalf("expected %d profiles, got %d", len(DefaultProfiles()), len(profiles))
	}
	for i, p := range DefaultProfiles() {
		if profiles[i].ID != p.ID {
			t.Errorf("profile %d: expected %s, got %s", i, p.ID, profiles[i].ID)
		}
	}

	openai, ok := r.Lookup(OpenAI)
	if !ok {
		t.Fatal("expected openai profile")
	}
	if openai.RequestSizeLimit != 4000 {
		t.Errorf("expected openai limit 4000, got %d", openai.RequestSizeLimit)
	}
	if !openai.Supports(CapabilityImageEdit) {
		t.Error("expected openai to support image edits")
	}
}

func TestRegistry_ResolveAliases(t *testing.T) {
	r := MustNewRegistry(RegistryConfig{})

	tests := []struct {
		alias string
		want  ProviderID
	}{
		{"openai", OpenAI},
		{"OpenAI", OpenAI},
		{"openai_dalle", OpenAI},
		{"dalle", OpenAI},
		{"dalle-3", OpenAI},
		{"DALLE3", OpenAI},
		{"imagen", Google},
		{"gemini_imagen", Google},
		{"Gemini-Imagen", Google},
		{"google", Google},
		{"sumo", Sumopod},
		{"sumopod", Sumopod},
		{"mj", Midjourney},
		{"midjourney", Midjourney},
		{"stability_ai", Stability},
		{"openrouter", OpenRouter},
		{"  open_router ", OpenRouter},
	}

	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			got, ok := r.Resolve(tt.alias)
			if !ok {
				t.Fatalf("expected %q to resolve", tt.alias)
			}
			canonical, _ := r.Lookup(tt.want)
			if got.ID != canonical.ID || got.BaseURL != canonical.BaseURL {
				t.Errorf("alias %q resolved to %s, want %s", tt.alias, got.ID, tt.want)
			}
		})
	}
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	r := MustNewRegistry(RegistryConfig{})

	for _, name := range []string{"", "   ", "anthropic", "dall"} {
		if _, ok := r.Resolve(name); ok {
			t.Errorf("expected %q not to resolve", name)
		}
	}
}

func TestNewRegistry_Validation(t *testing.T) {
	valid := func() ProviderProfile {
		return ProviderProfile{
			ID:               "custom",
			BaseURL:          "https://api.example.com/v1",
			BaseURLPatterns:  []string{"example"},
			DefaultModel:     "m",
			WireFormat:       WireOpenAI,
			Capabilities:     []Capability{CapabilityText},
			RequestSizeLimit: 1000,
		}
	}
	fallbacks := map[Capability]ProviderID{CapabilityText: "custom"}

	tests := []struct {
		name      string
		profiles  []ProviderProfile
		aliases   map[string]ProviderID
		fallbacks map[Capability]ProviderID
		field     string
	}{
		{
			name:      "alias to unknown provider",
			profiles:  []ProviderProfile{valid()},
			aliases:   map[string]ProviderID{"ghost": "nope"},
			fallbacks: fallbacks,
			field:     "aliases",
		},
		{
			name:      "duplicate id",
			profiles:  []ProviderProfile{valid(), valid()},
			aliases:   map[string]ProviderID{},
			fallbacks: fallbacks,
			field:     "id",
		},
		{
			name: "zero size limit",
			profiles: func() []ProviderProfile {
				p := valid()
				p.RequestSizeLimit = 0
				return []ProviderProfile{p}
			}(),
			aliases:   map[string]ProviderID{},
			fallbacks: fallbacks,
			field:     "request_size_limit",
		},
		{
			name: "bad base URL",
			profiles: func() []ProviderProfile {
				p := valid()
				p.BaseURL = "not a url"
				return []ProviderProfile{p}
			}(),
			aliases:   map[string]ProviderID{},
			fallbacks: fallbacks,
			field:     "base_url",
		},
		{
			name: "unknown wire format",
			profiles: func() []ProviderProfile {
				p := valid()
				p.WireFormat = "soap"
				return []ProviderProfile{p}
			}(),
			aliases:   map[string]ProviderID{},
			fallbacks: fallbacks,
			field:     "wire_format",
		},
		{
			name:      "fallback lacks capability",
			profiles:  []ProviderProfile{valid()},
			aliases:   map[string]ProviderID{},
			fallbacks: map[Capability]ProviderID{CapabilityImageGenerate: "custom"},
			field:     "fallbacks",
		},
		{
			name:      "alias collision after normalization",
			profiles:  []ProviderProfile{valid(), func() ProviderProfile { p := valid(); p.ID = "other"; return p }()},
			aliases:   map[string]ProviderID{"my-alias": "custom", "my_alias": "other"},
			fallbacks: fallbacks,
			field:     "aliases",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(RegistryConfig{
				Profiles:  tt.profiles,
				Aliases:   tt.aliases,
				Fallbacks: tt.fallbacks,
			})
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if ce.Field != tt.field {
				t.Errorf("expected field %q, got %q (%v)", tt.field, ce.Field, err)
			}
		})
	}
}

func TestRegistry_ProfilesAreCopies(t *testing.T) {
	r := MustNewRegistry(RegistryConfig{})

	p, _ := r.Lookup(OpenAI)
	p.Capabilities[0] = "mutated"
	p.BaseURLPatterns = nil

	again, _ := r.Lookup(OpenAI)
	if again.Capabilities[0] != CapabilityText {
		t.Error("mutating a returned profile must not affect the registry")
	}
	if len(again.BaseURLPatterns) == 0 {
		t.Error("expected patterns to survive caller mutation")
	}
}

func TestProviderProfile_ModelFor(t *testing.T) {
	p, _ := MustNewRegistry(RegistryConfig{}).Lookup(OpenAI)

	if got := p.ModelFor(CapabilityText); got != "gpt-4o" {
		t.Errorf("text model = %q", got)
	}
	if got := p.ModelFor(CapabilityImageGenerate); got != "dall-e-3" {
		t.Errorf("image model = %q", got)
	}
	if got := p.ModelFor(CapabilityImageEdit); got != "gpt-image-1" {
		t.Errorf("edit model = %q", got)
	}
}

func TestNormalizeAlias(t *testing.T) {
	tests := map[string]string{
		"OpenAI_DALLE": "openaidalle",
		"dall-e-3":     "dalle3",
		" mj ":         "mj",
		"gpt.image.1":  "gptimage1",
		"":             "",
	}
	for in, want := range tests {
		if got := NormalizeAlias(in); got != want {
			t.Errorf("NormalizeAlias(%q) = %q, want %q", in, got, want)
		}
	}
}
