package providers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Codec builds request payloads for, and parses responses from, one wire
// format family. Implementations are stateless and safe for concurrent use.
type Codec interface {
	// Format returns the wire format this codec implements.
	Format() WireFormat

	// Build returns the request for req against profile using model. It fails
	// with UnsupportedCapability when the profile or the family cannot serve
	// req.Kind. Every text field is passed through Sanitize.
	Build(profile ProviderProfile, model string, req *DispatchRequest) (*Payload, error)

	// Parse extracts the output for kind from a 2xx response body. It fails
	// with MalformedResponse when the expected fields are absent or empty.
	Parse(profile ProviderProfile, kind Capability, body []byte) (*Parsed, error)
}

// Payload is a provider-specific request ready for Transport.
type Payload struct {
	// Method is the HTTP method.
	Method string

	// Path is the endpoint path relative to the provider base URL, optionally
	// with a query string.
	Path string

	// Headers are the request headers, including authentication.
	Headers map[string]string

	// Body is the encoded JSON body.
	Body []byte
}

// URL joins the payload path onto baseURL.
func (p *Payload) URL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(p.Path, "/")
}

// Parsed is the family-independent output of a Codec.
type Parsed struct {
	// Text is the completion (text kinds).
	Text string

	// ImageReference is a URL or data URI (image kinds).
	ImageReference string

	// RevisedPrompt is the provider's rewrite of the prompt, when reported.
	RevisedPrompt string
}

// BearerHeaders returns the headers every provider receives.
func BearerHeaders(apiKey string) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + apiKey,
		"Content-Type":  "application/json",
	}
}

// NewJSONPayload encodes body and returns a POST payload.
func NewJSONPayload(provider ProviderID, path string, headers map[string]string, body any) (*Payload, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, &ProviderError{
			Kind:     MalformedResponse,
			Provider: provider,
			Message:  "failed to encode request body",
			Cause:    err,
		}
	}
	return &Payload{
		Method:  http.MethodPost,
		Path:    path,
		Headers: headers,
		Body:    data,
	}, nil
}

// CheckKind rejects kinds the profile does not declare or the family cannot
// serve.
func CheckKind(profile ProviderProfile, kind Capability, familySupports ...Capability) error {
	if !profile.Supports(kind) {
		return Unsupported(profile.ID, kind)
	}
	for _, c := range familySupports {
		if c == kind {
			return nil
		}
	}
	return NewError(UnsupportedCapability, profile.ID, "wire format %q cannot serve %q", profile.WireFormat, kind)
}

// ParseJSON validates body and returns it as a gjson result.
func ParseJSON(provider ProviderID, body []byte) (gjson.Result, error) {
	if len(body) == 0 {
		return gjson.Result{}, Malformed(provider, "empty response body")
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, Malformed(provider, "response body is not valid JSON")
	}
	return gjson.ParseBytes(body), nil
}

// FirstString returns the first non-empty string found at paths, along with
// the path it was found at.
func FirstString(doc gjson.Result, paths ...string) (value, path string, ok bool) {
	for _, p := range paths {
		if v := doc.Get(p); v.Type == gjson.String && strings.TrimSpace(v.String()) != "" {
			return v.String(), p, true
		}
	}
	return "", "", false
}

// Digest returns "sha256:<hex>" of body.
func Digest(body []byte) string {
	sum := sha256.Sum256(body)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// RequireText extracts a completion from one of paths or fails with MalformedResponse.
func RequireText(provider ProviderID, doc gjson.Result, paths ...string) (string, error) {
	text, _, ok := FirstString(doc, paths...)
	if !ok {
		return "", Malformed(provider, "no completion text at %s", strings.Join(paths, " | "))
	}
	return text, nil
}

// RequireImage extracts an image from one of paths and normalizes it to a
// URL or data URI, failing with MalformedResponse otherwise.
func RequireImage(provider ProviderID, doc gjson.Result, paths ...string) (string, error) {
	return RequireImageAs(provider, doc, "", paths...)
}

// RequireImageAs is RequireImage for providers that report the MIME type of
// base64 payloads alongside them.
func RequireImageAs(provider ProviderID, doc gjson.Result, mimeHint string, paths ...string) (string, error) {
	raw, path, ok := FirstString(doc, paths...)
	if !ok {
		return "", Malformed(provider, "no image at %s", strings.Join(paths, " | "))
	}
	ref, err := NormalizeImageReference(raw, mimeHint)
	if err != nil {
		return "", &ProviderError{
			Kind:     MalformedResponse,
			Provider: provider,
			Message:  fmt.Sprintf("invalid image at %s", path),
			Cause:    err,
		}
	}
	return ref, nil
}
