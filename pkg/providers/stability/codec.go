// Package stability implements the generic text-to-image wire format used
// by Stability-style endpoints. It is the codec for providers.WireGeneric.
package stability

import (
	"fmt"
	"strconv"
	"strings"

	"lumenhq/dispatch/pkg/providers"
)

// PathTextToImage is the generation endpoint.
const PathTextToImage = "/text-to-image"

// Defaults applied to every request.
const (
	DefaultSteps    = 50
	DefaultCFGScale = 7
	DefaultWidth    = 1024
	DefaultHeight   = 1024
)

// GenerateRequest is a text-to-image request.
type GenerateRequest struct {
	Model          string  `json:"model"`
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt,omitempty"`
	Steps          int     `json:"steps"`
	CFGScale       float64 `json:"cfg_scale"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Samples        int     `json:"samples"`
}

var imagePaths = []string{"artifacts.0.base64", "image", "image_url", "images.0"}

// Codec implements providers.Codec for the generic family.
type Codec struct{}

// New returns a generic text-to-image codec.
func New() *Codec {
	return &Codec{}
}

// Format returns providers.WireGeneric.
func (c *Codec) Format() providers.WireFormat {
	return providers.WireGeneric
}

// Build constructs a text-to-image request.
func (c *Codec) Build(profile providers.ProviderProfile, model string, req *providers.DispatchRequest) (*providers.Payload, error) {
	if err := providers.CheckKind(profile, req.Kind, providers.CapabilityImageGenerate); err != nil {
		return nil, err
	}

	width, height, err := dimensions(req.Size)
	if err != nil {
		return nil, &providers.ValidationError{Field: "size", Message: err.Error()}
	}
	samples := req.N
	if samples <= 0 {
		samples = 1
	}

	headers := providers.BearerHeaders(req.APIKey)
	headers["Accept"] = "application/json"

	body := &GenerateRequest{
		Model:          model,
		Prompt:         providers.Sanitize(req.Prompt),
		NegativePrompt: providers.Sanitize(req.NegativePrompt),
		Steps:          DefaultSteps,
		CFGScale:       DefaultCFGScale,
		Width:          width,
		Height:         height,
		Samples:        samples,
	}
	return providers.NewJSONPayload(profile.ID, PathTextToImage, headers, body)
}

// Parse extracts the first artifact.
func (c *Codec) Parse(profile providers.ProviderProfile, kind providers.Capability, body []byte) (*providers.Parsed, error) {
	doc, err := providers.ParseJSON(profile.ID, body)
	if err != nil {
		return nil, err
	}
	if reason := doc.Get("artifacts.0.finishReason").String(); reason != "" && reason != "SUCCESS" {
		return nil, providers.Malformed(profile.ID, "artifact finished with %s", reason)
	}
	ref, err := providers.RequireImage(profile.ID, doc, imagePaths...)
	if err != nil {
		return nil, err
	}
	return &providers.Parsed{ImageReference: ref}, nil
}

func dimensions(size string) (int, int, error) {
	if size == "" {
		return DefaultWidth, DefaultHeight, nil
	}
	w, h, ok := strings.Cut(strings.ToLower(size), "x")
	if !ok {
		return 0, 0, fmt.Errorf("expected WIDTHxHEIGHT, got %q", size)
	}
	width, err := strconv.Atoi(w)
	if err != nil || width <= 0 {
		return 0, 0, fmt.Errorf("invalid width in %q", size)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height <= 0 {
		return 0, 0, fmt.Errorf("invalid height in %q", size)
	}
	return width, height, nil
}
