package config

import (
	"sort"

	"lumenhq/dispatch/pkg/providers"
)

// RegistryConfig merges the provider section over the built-in table.
// Built-in providers keep their detection order; providers only named in
// the configuration follow in id order. Aliases and fallbacks that point
// at a disabled provider are dropped. The result is validated by
// providers.NewRegistry.
func (c *Config) RegistryConfig() providers.RegistryConfig {
	disabled := make(map[providers.ProviderID]bool)
	known := make(map[providers.ProviderID]bool)

	var profiles []providers.ProviderProfile
	for _, p := range providers.DefaultProfiles() {
		known[p.ID] = true
		pc, ok := c.Providers[string(p.ID)]
		if ok && pc.Disabled {
			disabled[p.ID] = true
			continue
		}
		if ok {
			p = mergeProfile(p, pc)
		}
		profiles = append(profiles, p)
	}

	var extra []string
	for id, pc := range c.Providers {
		if !known[providers.ProviderID(id)] && !pc.Disabled {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	for _, id := range extra {
		profiles = append(profiles, mergeProfile(providers.ProviderProfile{ID: providers.ProviderID(id)}, c.Providers[id]))
	}

	aliases := make(map[string]providers.ProviderID)
	for name, id := range providers.DefaultAliases() {
		if !disabled[id] {
			aliases[providers.NormalizeAlias(name)] = id
		}
	}
	for name, id := range c.Aliases {
		aliases[providers.NormalizeAlias(name)] = providers.ProviderID(id)
	}

	fallbacks := make(map[providers.Capability]providers.ProviderID)
	for capability, id := range providers.DefaultCapabilityFallbacks() {
		if !disabled[id] {
			fallbacks[capability] = id
		}
	}
	for capability, id := range c.Fallbacks {
		fallbacks[providers.Capability(capability)] = providers.ProviderID(id)
	}

	return providers.RegistryConfig{
		Profiles:  profiles,
		Aliases:   aliases,
		Fallbacks: fallbacks,
	}
}

// NewRegistry builds the provider registry described by the configuration.
func (c *Config) NewRegistry() (*providers.Registry, error) {
	return providers.NewRegistry(c.RegistryConfig())
}

// TransportConfig returns the HTTP pool settings.
func (c *Config) TransportConfig() providers.TransportConfig {
	return providers.TransportConfig{
		MaxIdleConns:        c.Transport.MaxIdleConns,
		MaxIdleConnsPerHost: c.Transport.MaxIdleConnsPerHost,
		IdleConnTimeout:     c.Transport.IdleConnTimeout,
		MaxResponseBytes:    c.Transport.MaxResponseBytes,
	}
}

func mergeProfile(p providers.ProviderProfile, pc ProviderConfig) providers.ProviderProfile {
	if pc.BaseURL != "" {
		p.BaseURL = pc.BaseURL
	}
	if len(pc.BaseURLPatterns) > 0 {
		p.BaseURLPatterns = append([]string(nil), pc.BaseURLPatterns...)
	}
	if pc.Model != "" {
		p.DefaultModel = pc.Model
	}
	if pc.ImageModel != "" {
		p.DefaultImageModel = pc.ImageModel
	}
	if pc.EditModel != "" {
		p.DefaultEditModel = pc.EditModel
	}
	if pc.WireFormat != "" {
		p.WireFormat = providers.WireFormat(pc.WireFormat)
	}
	if len(pc.Capabilities) > 0 {
		p.Capabilities = make([]providers.Capability, len(pc.Capabilities))
		for i, c := range pc.Capabilities {
			p.Capabilities[i] = providers.Capability(c)
		}
	}
	if pc.RequestSizeLimit != 0 {
		p.RequestSizeLimit = pc.RequestSizeLimit
	}
	return p
}
