package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeFile(t, "dispatch.yaml", `
dispatch:
  default_provider: google
  text_timeout: 20s
  image_timeout: 90s

providers:
  stability:
    request_size_limit: 1500
  local:
    base_url: http://localhost:8000/v1
    wire_format: openai
    capabilities: [text]
    request_size_limit: 16000

aliases:
  lm: local

compression:
  provider: sumo
  temperature: 0.3

telemetry:
  logging:
    level: debug
    format: json
  metrics:
    enabled: true
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Dispatch.DefaultProvider != "google" {
		t.Errorf("expected default provider %q, got %q", "google", cfg.Dispatch.DefaultProvider)
	}
	if cfg.Dispatch.TextTimeout != 20*time.Second || cfg.Dispatch.ImageTimeout != 90*time.Second {
		t.Errorf("unexpected timeouts %v / %v", cfg.Dispatch.TextTimeout, cfg.Dispatch.ImageTimeout)
	}
	if cfg.Providers["stability"].RequestSizeLimit != 1500 {
		t.Errorf("unexpected stability limit %d", cfg.Providers["stability"].RequestSizeLimit)
	}
	if cfg.Compression.Provider != "sumo" || cfg.Compression.Temperature != 0.3 {
		t.Errorf("unexpected compression section %+v", cfg.Compression)
	}
	if cfg.Compression.Timeout != 20*time.Second {
		t.Errorf("compression timeout should default to the text timeout, got %v", cfg.Compression.Timeout)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected logging level %q, got %q", "debug", cfg.Telemetry.Logging.Level)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics enabled")
	}

	registry, err := cfg.NewRegistry()
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	if p, ok := registry.Resolve("lm"); !ok || p.BaseURL != "http://localhost:8000/v1" {
		t.Errorf("alias lm did not resolve to the local provider: %+v", p)
	}
}

func TestLoadConfig_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("failed to load defaults: %v", err)
	}
	if cfg.Dispatch.DefaultProvider != DefaultProvider {
		t.Errorf("expected default provider %q, got %q", DefaultProvider, cfg.Dispatch.DefaultProvider)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped not-exist error, got %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeFile(t, "bad.yaml", "dispatch: [unclosed")

	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	path := writeFile(t, "invalid.yaml", `
dispatch:
  default_provider: nonexistent
aliases:
  foo: nowhere
`)

	_, err := LoadConfig(path)
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "alias targets unknown provider") {
		t.Errorf("expected alias error, got %v", err)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeFile(t, "dispatch.yaml", `
dispatch:
  default_provider: openai
  text_timeout: 20s
telemetry:
  logging:
    level: info
`)

	t.Setenv("DISPATCH_TEXT_TIMEOUT", "45s")
	t.Setenv("DISPATCH_LOG_LEVEL", "warn")
	t.Setenv("DISPATCH_COMPRESSION_DISABLE_AI", "true")
	t.Setenv("DISPATCH_METRICS_ENABLED", "true")
	t.Setenv("DISPATCH_PROVIDERS_OPENAI_REQUEST_SIZE_LIMIT", "6000")
	t.Setenv("DISPATCH_PROVIDERS_GOOGLE_MODEL", "gemini-2.0-flash")
	t.Setenv("DISPATCH_PROVIDERS_OPENROUTER_APP_TITLE", "Brief Studio")

	cfg, err := LoadConfigWithEnvOverrides(path, "")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Dispatch.TextTimeout != 45*time.Second {
		t.Errorf("expected text timeout 45s, got %v", cfg.Dispatch.TextTimeout)
	}
	if cfg.Dispatch.DefaultProvider != "openai" {
		t.Errorf("file value lost: %q", cfg.Dispatch.DefaultProvider)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("expected log level warn, got %q", cfg.Telemetry.Logging.Level)
	}
	if !cfg.Compression.DisableAI {
		t.Error("expected AI compression disabled")
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics enabled")
	}
	if cfg.Providers["openai"].RequestSizeLimit != 6000 {
		t.Errorf("expected openai limit 6000, got %d", cfg.Providers["openai"].RequestSizeLimit)
	}
	if cfg.Providers["google"].Model != "gemini-2.0-flash" {
		t.Errorf("expected google model override, got %q", cfg.Providers["google"].Model)
	}
	if cfg.Providers["openrouter"].AppTitle != "Brief Studio" {
		t.Errorf("expected openrouter app title override, got %q", cfg.Providers["openrouter"].AppTitle)
	}
	if _, ok := cfg.Providers["stability"]; ok {
		t.Error("providers without overrides should not be added")
	}
}

func TestLoadConfigWithEnvOverrides_EnvFile(t *testing.T) {
	envFile := writeFile(t, ".env", "DISPATCH_BASE_URL=https://openrouter.ai/api/v1\nDISPATCH_IMAGE_TIMEOUT=3m\n")

	// godotenv does not replace variables that are already set.
	t.Setenv("DISPATCH_IMAGE_TIMEOUT", "150s")
	t.Setenv("DISPATCH_BASE_URL", "")
	os.Unsetenv("DISPATCH_BASE_URL")

	cfg, err := LoadConfigWithEnvOverrides("", envFile)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("DISPATCH_BASE_URL") })

	if cfg.Dispatch.BaseURL != "https://openrouter.ai/api/v1" {
		t.Errorf("expected base URL from .env, got %q", cfg.Dispatch.BaseURL)
	}
	if cfg.Dispatch.ImageTimeout != 150*time.Second {
		t.Errorf("process environment should win over .env, got %v", cfg.Dispatch.ImageTimeout)
	}
	if cfg.Dispatch.DefaultProvider != "" {
		t.Errorf("base URL should suppress the default provider, got %q", cfg.Dispatch.DefaultProvider)
	}
}

func TestLoadConfigWithEnvOverrides_BadValue(t *testing.T) {
	t.Setenv("DISPATCH_TEXT_TIMEOUT", "soon")

	_, err := LoadConfigWithEnvOverrides("", "")
	if err == nil || !strings.Contains(err.Error(), "environment overrides") {
		t.Fatalf("expected environment parse error, got %v", err)
	}
}

func TestLoadConfigWithEnvOverrides_MissingEnvFile(t *testing.T) {
	_, err := LoadConfigWithEnvOverrides("", filepath.Join(t.TempDir(), "missing.env"))
	if err == nil {
		t.Fatal("expected error for missing env file")
	}
}
