package openai

import (
	"encoding/json"
	"strings"
	"testing"

	testhelpers "lumenhq/dispatch/internal/providers"
	"lumenhq/dispatch/pkg/providers"
)

func openAIProfile(t *testing.T) providers.ProviderProfile {
	t.Helper()
	p, ok := providers.MustNewRegistry(providers.RegistryConfig{}).Lookup(providers.OpenAI)
	if !ok {
		t.Fatal("openai profile missing")
	}
	return p
}

func decode(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	return m
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func assertFields(t *testing.T, body map[string]any, want ...string) {
	t.Helper()
	if len(body) != len(want) {
		t.Errorf("expected fields %v, got %v", want, keys(body))
	}
	for _, f := range want {
		if _, ok := body[f]; !ok {
			t.Errorf("missing field %q in %v", f, keys(body))
		}
	}
}

func TestCodec_BuildText(t *testing.T) {
	c := New()
	req := testhelpers.TestRequest(providers.CapabilityText, "Describe\x00 rim light.\n\n\n\nShort.")

	payload, err := c.Build(openAIProfile(t), "gpt-4o", req)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if payload.Path != PathChat {
		t.Errorf("expected path %s, got %s", PathChat, payload.Path)
	}
	if payload.Headers["Authorization"] != "Bearer sk-test-key" {
		t.Errorf("unexpected Authorization header %q", payload.Headers["Authorization"])
	}
	if _, ok := payload.Headers["HTTP-Referer"]; ok {
		t.Error("OpenAI requests must not carry OpenRouter headers")
	}

	body := decode(t, payload.Body)
	assertFields(t, body, "model", "messages", "max_tokens", "temperature")
	if body["model"] != "gpt-4o" {
		t.Errorf("unexpected model %v", body["model"])
	}
	if body["max_tokens"] != float64(DefaultMaxTokens) {
		t.Errorf("expected default max_tokens, got %v", body["max_tokens"])
	}
	if body["temperature"] != DefaultTemperature {
		t.Errorf("expected default temperature, got %v", body["temperature"])
	}

	msgs := body["messages"].([]any)
	msg := msgs[0].(map[string]any)
	if msg["role"] != "user" {
		t.Errorf("expected user role, got %v", msg["role"])
	}
	if msg["content"] != "Describe rim light.\n\nShort." {
		t.Errorf("expected sanitized content, got %q", msg["content"])
	}
}

func TestCodec_BuildTextWithImage(t *testing.T) {
	tests := map[string]string{
		"url":      "https://cdn.example.com/moodboard.jpg",
		"data uri": "data:image/png;base64," + testhelpers.PNGBase64,
	}
	for name, image := range tests {
		t.Run(name, func(t *testing.T) {
			req := testhelpers.TestRequest(providers.CapabilityText, "Describe the lighting.")
			req.SourceImage = " " + image + " "

			payload, err := New().Build(openAIProfile(t), "gpt-4o", req)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if payload.Path != PathChat {
				t.Errorf("expected path %s, got %s", PathChat, payload.Path)
			}

			body := decode(t, payload.Body)
			msg := body["messages"].([]any)[0].(map[string]any)
			parts, ok := msg["content"].([]any)
			if !ok || len(parts) != 2 {
				t.Fatalf("expected two content parts, got %v", msg["content"])
			}
			text := parts[0].(map[string]any)
			if text["type"] != "text" || text["text"] != "Describe the lighting." {
				t.Errorf("unexpected text part %v", text)
			}
			img := parts[1].(map[string]any)
			if img["type"] != "image_url" {
				t.Errorf("unexpected image part type %v", img["type"])
			}
			if _, ok := img["text"]; ok {
				t.Error("image part must not carry text")
			}
			if got := img["image_url"].(map[string]any)["url"]; got != image {
				t.Errorf("expected image %q, got %v", image, got)
			}
		})
	}
}

func TestCodec_BuildTextOverrides(t *testing.T) {
	temp := 0.0
	req := testhelpers.TestRequest(providers.CapabilityText, "hi")
	req.Temperature = &temp
	req.MaxTokens = 900

	payload, err := New().Build(openAIProfile(t), "gpt-4o-mini", req)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	body := decode(t, payload.Body)
	if body["temperature"] != 0.0 {
		t.Errorf("expected explicit zero temperature to be sent, got %v", body["temperature"])
	}
	if body["max_tokens"] != 900.0 {
		t.Errorf("expected max_tokens 900, got %v", body["max_tokens"])
	}
}

func TestCodec_BuildImage(t *testing.T) {
	tests := []struct {
		name    string
		model   string
		fields  []string
		quality string
	}{
		{"dall-e", "dall-e-3", []string{"model", "prompt", "n", "size", "quality", "response_format"}, "hd"},
		{"gpt-image", "gpt-image-1", []string{"model", "prompt", "n", "size", "quality"}, "high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testhelpers.TestRequest(providers.CapabilityImageGenerate, "a red bicycle")
			req.NegativePrompt = "people"

			payload, err := New().Build(openAIProfile(t), tt.model, req)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if payload.Path != PathGenerations {
				t.Errorf("unexpected path %s", payload.Path)
			}
			body := decode(t, payload.Body)
			assertFields(t, body, tt.fields...)
			if body["quality"] != tt.quality {
				t.Errorf("expected quality %q, got %v", tt.quality, body["quality"])
			}
			if body["prompt"] != "a red bicycle" {
				t.Errorf("prompt must be sent exactly, got %q", body["prompt"])
			}
			if body["n"] != 1.0 || body["size"] != DefaultSize {
				t.Errorf("unexpected defaults n=%v size=%v", body["n"], body["size"])
			}
		})
	}
}

func TestCodec_BuildEdit(t *testing.T) {
	req := testhelpers.TestRequest(providers.CapabilityImageEdit, "make the sky purple")
	req.SourceImage = "data:image/png;base64," + testhelpers.PNGBase64

	payload, err := New().Build(openAIProfile(t), "gpt-image-1", req)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if payload.Path != PathEdits {
		t.Errorf("unexpected path %s", payload.Path)
	}

	body := decode(t, payload.Body)
	assertFields(t, body, "model", "prompt", "images", "input_fidelity", "quality", "n", "output_format")
	if body["input_fidelity"] != DefaultFidelity {
		t.Errorf("expected default fidelity, got %v", body["input_fidelity"])
	}
	images := body["images"].([]any)
	if images[0].(map[string]any)["image_url"] != req.SourceImage {
		t.Error("expected source image to be passed through")
	}
}

func TestCodec_BuildUnsupported(t *testing.T) {
	sumopod, _ := providers.MustNewRegistry(providers.RegistryConfig{}).Lookup(providers.Sumopod)

	_, err := New().Build(sumopod, "gpt-4o", testhelpers.TestRequest(providers.CapabilityImageGenerate, "x"))
	testhelpers.AssertKind(t, err, providers.UnsupportedCapability)
}

func TestCodec_ParseText(t *testing.T) {
	body, _ := json.Marshal(testhelpers.MockOpenAIChat("A warm backlit portrait.", "gpt-4o"))

	parsed, err := New().Parse(openAIProfile(t), providers.CapabilityText, body)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed.Text != "A warm backlit portrait." {
		t.Errorf("unexpected text %q", parsed.Text)
	}
}

func TestCodec_ParseTextMissing(t *testing.T) {
	tests := map[string]string{
		"no choices":    `{"id":"x","choices":[]}`,
		"empty content": `{"choices":[{"message":{"content":""}}]}`,
		"null content":  `{"choices":[{"message":{"content":null}}]}`,
		"not json":      `upstream connect error`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			parsed, err := New().Parse(openAIProfile(t), providers.CapabilityText, []byte(body))
			testhelpers.AssertKind(t, err, providers.MalformedResponse)
			if parsed != nil {
				t.Error("expected no result on malformed response")
			}
		})
	}
}

func TestCodec_ParseImage(t *testing.T) {
	t.Run("url", func(t *testing.T) {
		body, _ := json.Marshal(testhelpers.MockOpenAIImageURL("https://img.example.com/1.png", "a red bicycle, cinematic"))
		parsed, err := New().Parse(openAIProfile(t), providers.CapabilityImageGenerate, body)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if parsed.ImageReference != "https://img.example.com/1.png" {
			t.Errorf("unexpected reference %q", parsed.ImageReference)
		}
		if parsed.RevisedPrompt != "a red bicycle, cinematic" {
			t.Errorf("expected revised prompt to be reported, got %q", parsed.RevisedPrompt)
		}
	})

	t.Run("base64", func(t *testing.T) {
		body, _ := json.Marshal(testhelpers.MockOpenAIImageB64(testhelpers.PNGBase64))
		parsed, err := New().Parse(openAIProfile(t), providers.CapabilityImageEdit, body)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if !strings.HasPrefix(parsed.ImageReference, "data:image/png;base64,") {
			t.Errorf("expected data URI, got %q", parsed.ImageReference)
		}
	})

	t.Run("gateway envelope", func(t *testing.T) {
		body := []byte(`{"images":[{"url":"https://gw.example.com/a.webp"}]}`)
		parsed, err := New().Parse(openAIProfile(t), providers.CapabilityImageGenerate, body)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if parsed.ImageReference != "https://gw.example.com/a.webp" {
			t.Errorf("unexpected reference %q", parsed.ImageReference)
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, err := New().Parse(openAIProfile(t), providers.CapabilityImageGenerate, []byte(`{"data":[]}`))
		testhelpers.AssertKind(t, err, providers.MalformedResponse)
	})
}
