package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"lumenhq/dispatch/pkg/providers"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DISPATCH_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// An empty path yields the defaults. The configuration is not modified by
// environment variables; use LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Variables from envFile (a .env file) are
// loaded first without replacing variables already set in the process.
// Environment variables follow the naming convention DISPATCH_FIELD
// (e.g., DISPATCH_TEXT_TIMEOUT, DISPATCH_LOG_LEVEL) and
// DISPATCH_PROVIDERS_<ID>_FIELD for providers. They always take precedence
// over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Load the .env file into the process environment
// 3. Apply environment variable overrides
// 4. Apply default values
// 5. Validate final configuration
func LoadConfigWithEnvOverrides(path, envFile string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %q: %w", envFile, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

func readFile(path string) (*Config, error) {
	var cfg Config
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	return &cfg, nil
}

// envOverrides is the environment-settable subset of Config. Fields absent
// from the environment keep the value they were seeded with.
type envOverrides struct {
	Dispatch    DispatchConfig
	Compression CompressionConfig `envPrefix:"COMPRESSION_"`
	Transport   TransportConfig   `envPrefix:"TRANSPORT_"`
	Telemetry   TelemetryConfig
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) error {
	ov := envOverrides{
		Dispatch:    cfg.Dispatch,
		Compression: cfg.Compression,
		Transport:   cfg.Transport,
		Telemetry:   cfg.Telemetry,
	}
	if err := env.ParseWithOptions(&ov, env.Options{Prefix: EnvPrefix}); err != nil {
		return err
	}
	cfg.Dispatch = ov.Dispatch
	cfg.Compression = ov.Compression
	cfg.Transport = ov.Transport
	cfg.Telemetry = ov.Telemetry

	var errs []error
	for _, id := range providerIDs(cfg) {
		if err := applyProviderEnvOverrides(cfg, id); err != nil {
			errs = append(errs, fmt.Errorf("provider %q: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// applyProviderEnvOverrides applies environment variable overrides for a specific provider.
// Provider environment variables follow the format DISPATCH_PROVIDERS_<ID>_<FIELD>
// where ID is the uppercase provider id.
func applyProviderEnvOverrides(cfg *Config, id string) error {
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}

	provider, exists := cfg.Providers[id]
	before := provider

	prefix := EnvPrefix + "PROVIDERS_" + envName(id) + "_"
	if err := env.ParseWithOptions(&provider, env.Options{Prefix: prefix}); err != nil {
		return err
	}

	// Only update the map if we found at least one override
	if exists || !reflect.DeepEqual(before, provider) {
		cfg.Providers[id] = provider
	}
	return nil
}

// providerIDs returns the built-in provider ids followed by any additional
// ids named in the file, sorted.
func providerIDs(cfg *Config) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, p := range providers.DefaultProfiles() {
		seen[string(p.ID)] = true
		ids = append(ids, string(p.ID))
	}
	var extra []string
	for id := range cfg.Providers {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	return append(ids, extra...)
}

func envName(id string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(id))
}
