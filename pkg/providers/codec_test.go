package providers

import (
	"encoding/base64"
	"testing"
)

var testPNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestNormalizeImageReference(t *testing.T) {
	b64 := base64.StdEncoding.EncodeToString(testPNG)

	tests := []struct {
		name    string
		in      string
		mime    string
		want    string
		wantErr bool
	}{
		{"https url", "https://cdn.example.com/a.png", "", "https://cdn.example.com/a.png", false},
		{"http url", " http://cdn.example.com/a.png ", "", "http://cdn.example.com/a.png", false},
		{"data uri", "data:image/webp;base64,AAAA", "", "data:image/webp;base64,AAAA", false},
		{"base64 png", b64, "", "data:image/png;base64," + b64, false},
		{"wrapped base64", b64[:20] + "\n" + b64[20:], "", "data:image/png;base64," + b64, false},
		{"reported mime wins", b64, "image/webp", "data:image/webp;base64," + b64, false},
		{"non-image mime hint is ignored", b64, "text/plain", "data:image/png;base64," + b64, false},
		{"data uri without payload", "data:image/png;base64", "", "", true},
		{"not an image", "this is not an image!", "", "", true},
		{"status word", "queued", "", "", true},
		{"status word decodable as raw base64", "pending", "", "", true},
		{"status word with mime hint", "processing", "image/png", "", true},
		{"empty", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeImageReference(tt.in, tt.mime)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeImageReference_RejectsNonImageBinary(t *testing.T) {
	payloads := map[string][]byte{
		"random bytes": {0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10, 0x11},
		"plain text":   []byte("the image is still being rendered, try again"),
		"json":         []byte(`{"status":"queued","progress":0}`),
	}
	for name, data := range payloads {
		t.Run(name, func(t *testing.T) {
			got, err := NormalizeImageReference(base64.StdEncoding.EncodeToString(data), "")
			if err == nil {
				t.Fatalf("expected error, got %q", got)
			}
		})
	}
}

func TestRequireImage_StatusWord(t *testing.T) {
	doc, err := ParseJSON(Midjourney, []byte(`{"image_url":"queued","status":"queued"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = RequireImage(Midjourney, doc, "image_url")
	if KindOf(err) != MalformedResponse {
		t.Errorf("expected MalformedResponse, got %v", err)
	}
}

func TestSplitDataURI(t *testing.T) {
	mime, data, ok := SplitDataURI("data:image/jpeg;base64,AAAA")
	if !ok || mime != "image/jpeg" || data != "AAAA" {
		t.Errorf("got (%q, %q, %v)", mime, data, ok)
	}
	if _, _, ok := SplitDataURI("https://x/y.png"); ok {
		t.Error("expected a URL not to split")
	}
	if _, _, ok := SplitDataURI("data:image/png;base64"); ok {
		t.Error("expected a data URI without payload not to split")
	}
}

func TestIsImageReference(t *testing.T) {
	for in, want := range map[string]bool{
		"https://x/y.png":            true,
		"data:image/png;base64,AAAA": true,
		"data:text/plain,hi":         false,
		"/tmp/photo.png":             false,
		"":                           false,
	} {
		if got := IsImageReference(in); got != want {
			t.Errorf("IsImageReference(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRequireText(t *testing.T) {
	doc, err := ParseJSON(OpenAI, []byte(`{"choices":[{"message":{"content":"  "}}],"text":"flat"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := RequireText(OpenAI, doc, "choices.0.message.content", "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "flat" {
		t.Errorf("expected blank first candidate to be skipped, got %q", got)
	}

	_, err = RequireText(OpenAI, doc, "candidates.0.content.parts.0.text")
	if KindOf(err) != MalformedResponse {
		t.Errorf("expected MalformedResponse, got %v", err)
	}
}

func TestParseJSON_Invalid(t *testing.T) {
	for _, body := range []string{"", "<html>502</html>", `{"a":`} {
		if _, err := ParseJSON(Google, []byte(body)); KindOf(err) != MalformedResponse {
			t.Errorf("body %q: expected MalformedResponse, got %v", body, err)
		}
	}
}

func TestRequireImage(t *testing.T) {
	doc, _ := ParseJSON(OpenAI, []byte(`{"data":[{"url":"not-a-url-or-image!"}]}`))
	if _, err := RequireImage(OpenAI, doc, "data.0.url"); KindOf(err) != MalformedResponse {
		t.Errorf("expected MalformedResponse, got %v", err)
	}
}

func TestDigest(t *testing.T) {
	d := Digest([]byte("abc"))
	if d != "sha256:ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Errorf("unexpected digest %q", d)
	}
}

func TestCheckKind(t *testing.T) {
	p, _ := MustNewRegistry(RegistryConfig{}).Lookup(Google)

	if err := CheckKind(p, CapabilityText, CapabilityText, CapabilityImageGenerate); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := CheckKind(p, CapabilityImageEdit, CapabilityText, CapabilityImageGenerate); KindOf(err) != UnsupportedCapability {
		t.Errorf("expected UnsupportedCapability for undeclared kind, got %v", err)
	}

	p.Capabilities = append(p.Capabilities, CapabilityImageEdit)
	if err := CheckKind(p, CapabilityImageEdit, CapabilityText, CapabilityImageGenerate); KindOf(err) != UnsupportedCapability {
		t.Errorf("expected UnsupportedCapability when the family cannot serve the kind, got %v", err)
	}
}

func TestPayload_URL(t *testing.T) {
	p := &Payload{Path: "/chat/completions"}
	if got := p.URL("https://api.openai.com/v1/"); got != "https://api.openai.com/v1/chat/completions" {
		t.Errorf("unexpected URL %q", got)
	}
}
