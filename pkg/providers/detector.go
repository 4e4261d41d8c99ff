package providers

import (
	"fmt"
	"log/slog"
	"strings"
)

// Detection is the outcome of provider detection.
type Detection struct {
	// Profile is the provider that will serve the request.
	Profile ProviderProfile

	// Substitution is set when Profile replaced a provider lacking the capability.
	Substitution *Substitution
}

// Detector resolves which provider serves a request.
type Detector struct {
	registry *Registry
	logger   *slog.Logger
}

// NewDetector creates a Detector over registry. A nil logger uses slog.Default().
func NewDetector(registry *Registry, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{registry: registry, logger: logger}
}

// Detect resolves the provider for capability c.
//
// An explicit override (id or alias) wins; an unknown override is an error.
// Otherwise the base URL is matched against every profile's patterns in
// registration order and the first match wins. When the resolved provider
// does not declare c, the registry's fallback for c is substituted and the
// swap is reported in Detection.Substitution and logged at warn level.
func (d *Detector) Detect(baseURL, override string, c Capability) (Detection, error) {
	if !c.Valid() {
		return Detection{}, NewError(UnsupportedCapability, "", "unknown capability %q", c)
	}

	var (
		profile ProviderProfile
		ok      bool
	)
	if strings.TrimSpace(override) != "" {
		profile, ok = d.registry.Resolve(override)
		if !ok {
			return Detection{}, NewError(UnsupportedCapability, "", "unknown provider override %q", override)
		}
	} else {
		profile, ok = d.matchBaseURL(baseURL)
		if !ok {
			return Detection{}, NewError(UnsupportedCapability, "", "no provider matches base URL %q", baseURL)
		}
	}

	if profile.Supports(c) {
		return Detection{Profile: profile}, nil
	}

	fallback, ok := d.registry.Fallback(c)
	if !ok || !fallback.Supports(c) {
		return Detection{}, Unsupported(profile.ID, c)
	}

	sub := &Substitution{
		From:       profile.ID,
		To:         fallback.ID,
		Capability: c,
		Reason:     fmt.Sprintf("provider %q does not support %q", profile.ID, c),
	}
	d.logger.Warn("provider substituted for unsupported capability",
		"from", sub.From,
		"to", sub.To,
		"capability", c,
	)
	return Detection{Profile: fallback, Substitution: sub}, nil
}

func (d *Detector) matchBaseURL(baseURL string) (ProviderProfile, bool) {
	u := strings.ToLower(strings.TrimSpace(baseURL))
	if u == "" {
		return ProviderProfile{}, false
	}
	for _, p := range d.registry.Profiles() {
		for _, pattern := range p.BaseURLPatterns {
			if pattern != "" && strings.Contains(u, strings.ToLower(pattern)) {
				return p, true
			}
		}
	}
	return ProviderProfile{}, false
}
