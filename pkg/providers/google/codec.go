package google

import (
	"mime"
	"net/url"
	"path"
	"strings"

	"lumenhq/dispatch/pkg/providers"
)

// GenerateRequest is a generateContent request.
type GenerateRequest struct {
	Contents         []Content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

// Content is one turn of a generateContent conversation.
type Content struct {
	Parts []Part `json:"parts"`
}

// Part is a text part or an image part. Exactly one field is set.
type Part struct {
	Text       string    `json:"text,omitempty"`
	InlineData *Blob     `json:"inline_data,omitempty"`
	FileData   *FileData `json:"file_data,omitempty"`
}

// Blob carries base64 image bytes inline.
type Blob struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// FileData references an image by URI.
type FileData struct {
	MimeType string `json:"mime_type"`
	FileURI  string `json:"file_uri"`
}

// GenerationConfig holds sampling parameters.
type GenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

// PredictRequest is an Imagen predict request.
type PredictRequest struct {
	Instances  []Instance `json:"instances"`
	Parameters Parameters `json:"parameters"`
}

// Instance is one Imagen prompt.
type Instance struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negativePrompt,omitempty"`
}

// Parameters controls Imagen output.
type Parameters struct {
	SampleCount int    `json:"sampleCount"`
	AspectRatio string `json:"aspectRatio,omitempty"`
}

// Defaults applied when the request leaves a field unset.
const (
	DefaultMaxOutputTokens = 150
	DefaultTemperature     = 0.7
	DefaultImageMIME       = "image/jpeg"
)

var (
	textPaths  = []string{"candidates.0.content.parts.0.text", "text"}
	imagePaths = []string{"predictions.0.bytesBase64Encoded", "generatedImages.0.image.imageBytes"}
)

// Codec implements providers.Codec for the Generative Language API.
type Codec struct{}

// New returns a Google codec.
func New() *Codec {
	return &Codec{}
}

// Format returns providers.WireGoogle.
func (c *Codec) Format() providers.WireFormat {
	return providers.WireGoogle
}

// Build constructs a generateContent (text) or predict (image) request.
// The key is sent both as a bearer token and as x-goog-api-key.
func (c *Codec) Build(profile providers.ProviderProfile, model string, req *providers.DispatchRequest) (*providers.Payload, error) {
	if err := providers.CheckKind(profile, req.Kind,
		providers.CapabilityText,
		providers.CapabilityImageGenerate,
	); err != nil {
		return nil, err
	}

	headers := providers.BearerHeaders(req.APIKey)
	headers["x-goog-api-key"] = req.APIKey

	if req.Kind == providers.CapabilityText {
		maxTokens := req.MaxTokens
		if maxTokens <= 0 {
			maxTokens = DefaultMaxOutputTokens
		}
		temperature := DefaultTemperature
		if req.Temperature != nil {
			temperature = *req.Temperature
		}
		parts := []Part{{Text: providers.Sanitize(req.Prompt)}}
		if image := imagePart(req.SourceImage); image != nil {
			parts = append(parts, *image)
		}
		body := &GenerateRequest{
			Contents: []Content{{Parts: parts}},
			GenerationConfig: GenerationConfig{
				MaxOutputTokens: maxTokens,
				Temperature:     temperature,
			},
		}
		return providers.NewJSONPayload(profile.ID, modelPath(model, "generateContent"), headers, body)
	}

	n := req.N
	if n <= 0 {
		n = 1
	}
	body := &PredictRequest{
		Instances: []Instance{{
			Prompt:         providers.Sanitize(req.Prompt),
			NegativePrompt: providers.Sanitize(req.NegativePrompt),
		}},
		Parameters: Parameters{
			SampleCount: n,
			AspectRatio: aspectRatio(req.Size),
		},
	}
	return providers.NewJSONPayload(profile.ID, modelPath(model, "predict"), headers, body)
}

// Parse extracts the first candidate's text or the first prediction's image.
func (c *Codec) Parse(profile providers.ProviderProfile, kind providers.Capability, body []byte) (*providers.Parsed, error) {
	doc, err := providers.ParseJSON(profile.ID, body)
	if err != nil {
		return nil, err
	}

	if kind == providers.CapabilityText {
		text, err := providers.RequireText(profile.ID, doc, textPaths...)
		if err != nil {
			return nil, err
		}
		return &providers.Parsed{Text: text}, nil
	}

	reported := doc.Get("predictions.0.mimeType").String()
	ref, err := providers.RequireImageAs(profile.ID, doc, reported, imagePaths...)
	if err != nil {
		return nil, err
	}
	return &providers.Parsed{ImageReference: ref}, nil
}

// imagePart turns a data URI into inline_data and a URL into file_data.
// The MIME type of a URL is taken from its extension.
func imagePart(ref string) *Part {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	if mimeType, data, ok := providers.SplitDataURI(ref); ok {
		return &Part{InlineData: &Blob{MimeType: mimeType, Data: data}}
	}
	mimeType := DefaultImageMIME
	if u, err := url.Parse(ref); err == nil {
		if t := mime.TypeByExtension(strings.ToLower(path.Ext(u.Path))); strings.HasPrefix(t, "image/") {
			mimeType = t
		}
	}
	return &Part{FileData: &FileData{MimeType: mimeType, FileURI: ref}}
}

func modelPath(model, method string) string {
	model = strings.TrimPrefix(model, "models/")
	return "/models/" + url.PathEscape(model) + ":" + method
}

// aspectRatio maps a WxH size onto the ratios Imagen accepts.
func aspectRatio(size string) string {
	switch size {
	case "1024x1024", "512x512", "256x256":
		return "1:1"
	case "1792x1024", "1536x1024":
		return "16:9"
	case "1024x1792", "1024x1536":
		return "9:16"
	}
	return ""
}
