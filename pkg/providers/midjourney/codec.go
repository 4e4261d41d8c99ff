// Package midjourney implements the wire format of the Midjourney API
// wrapper: a single generate endpoint returning an image URL.
package midjourney

import (
	"lumenhq/dispatch/pkg/providers"
)

// PathGenerate is the generation endpoint.
const PathGenerate = "/generate"

// GenerateRequest is a Midjourney generation request.
type GenerateRequest struct {
	Prompt      string `json:"prompt"`
	Model       string `json:"model"`
	AspectRatio string `json:"aspect_ratio"`
	Quality     string `json:"quality"`
}

var imagePaths = []string{"image_url", "url", "data.image_url", "data.url"}

// Codec implements providers.Codec for Midjourney.
type Codec struct{}

// New returns a Midjourney codec.
func New() *Codec {
	return &Codec{}
}

// Format returns providers.WireMidjourney.
func (c *Codec) Format() providers.WireFormat {
	return providers.WireMidjourney
}

// Build constructs a generation request. The wrapper has no negative prompt
// field, so NegativePrompt is not sent.
func (c *Codec) Build(profile providers.ProviderProfile, model string, req *providers.DispatchRequest) (*providers.Payload, error) {
	if err := providers.CheckKind(profile, req.Kind, providers.CapabilityImageGenerate); err != nil {
		return nil, err
	}

	headers := providers.BearerHeaders(req.APIKey)
	headers["Accept"] = "application/json"

	quality := req.Quality
	if quality == "" {
		quality = "high"
	}
	body := &GenerateRequest{
		Prompt:      providers.Sanitize(req.Prompt),
		Model:       model,
		AspectRatio: aspectRatio(req.Size),
		Quality:     quality,
	}
	return providers.NewJSONPayload(profile.ID, PathGenerate, headers, body)
}

// Parse extracts the image URL.
func (c *Codec) Parse(profile providers.ProviderProfile, kind providers.Capability, body []byte) (*providers.Parsed, error) {
	doc, err := providers.ParseJSON(profile.ID, body)
	if err != nil {
		return nil, err
	}
	ref, err := providers.RequireImage(profile.ID, doc, imagePaths...)
	if err != nil {
		return nil, err
	}
	return &providers.Parsed{ImageReference: ref}, nil
}

func aspectRatio(size string) string {
	switch size {
	case "1792x1024", "1536x1024":
		return "16:9"
	case "1024x1792", "1024x1536":
		return "9:16"
	}
	return "1:1"
}
