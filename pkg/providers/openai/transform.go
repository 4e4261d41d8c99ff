package openai

import (
	"strings"

	"lumenhq/dispatch/pkg/providers"
)

// OpenAI API request types

// ChatRequest represents an OpenAI chat completion request.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
}

// ChatMessage represents a message in OpenAI format. Content is a string,
// or a []ContentPart when the message carries an image.
type ChatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// ContentPart is one element of a multi-part message.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL references an input image by URL or data URI.
type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

// ImageRequest represents an OpenAI image generation request.
type ImageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size,omitempty"`
	Quality        string `json:"quality,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
}

// EditRequest represents an OpenAI image edit request in JSON form.
type EditRequest struct {
	Model         string      `json:"model"`
	Prompt        string      `json:"prompt"`
	Images        []EditImage `json:"images"`
	InputFidelity string      `json:"input_fidelity,omitempty"`
	Quality       string      `json:"quality,omitempty"`
	N             int         `json:"n"`
	Size          string      `json:"size,omitempty"`
	OutputFormat  string      `json:"output_format,omitempty"`
}

// EditImage references a source image by URL or data URI.
type EditImage struct {
	ImageURL string `json:"image_url"`
}

// Defaults applied when the request leaves a field unset.
const (
	DefaultMaxTokens   = 150
	DefaultTemperature = 0.7
	DefaultSize        = "1024x1024"
	DefaultN           = 1
	DefaultFidelity    = "high"
)

// Endpoint paths relative to the base URL.
const (
	PathChat        = "/chat/completions"
	PathGenerations = "/images/generations"
	PathEdits       = "/images/edits"
)

// Response paths probed when parsing.
var (
	textPaths  = []string{"choices.0.message.content", "choices.0.text"}
	imagePaths = []string{"data.0.url", "data.0.b64_json"}
)

// transformChat builds a chat completion request.
func transformChat(model string, req *providers.DispatchRequest) *ChatRequest {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	temperature := DefaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	return &ChatRequest{
		Model:       model,
		Messages:    []ChatMessage{{Role: "user", Content: chatContent(req)}},
		MaxTokens:   maxTokens,
		Temperature: &temperature,
	}
}

// chatContent is the prompt alone, or the prompt followed by the source
// image when the request asks for image analysis.
func chatContent(req *providers.DispatchRequest) any {
	prompt := providers.Sanitize(req.Prompt)
	image := strings.TrimSpace(req.SourceImage)
	if image == "" {
		return prompt
	}
	return []ContentPart{
		{Type: "text", Text: prompt},
		{Type: "image_url", ImageURL: &ImageURL{URL: image}},
	}
}

// transformImage builds an image generation request. DALL-E models accept a
// response_format and "hd"/"standard" quality; gpt-image models always
// return base64 and use "low"/"medium"/"high".
func transformImage(model string, req *providers.DispatchRequest) *ImageRequest {
	out := &ImageRequest{
		Model:  model,
		Prompt: providers.Sanitize(req.Prompt),
		N:      imageCount(req.N),
		Size:   firstNonEmpty(req.Size, DefaultSize),
	}
	if isDALLE(model) {
		out.Quality = firstNonEmpty(req.Quality, "hd")
		out.ResponseFormat = "url"
	} else {
		out.Quality = firstNonEmpty(req.Quality, "high")
	}
	return out
}

// transformEdit builds an image edit request.
func transformEdit(model string, req *providers.DispatchRequest) *EditRequest {
	out := &EditRequest{
		Model:   model,
		Prompt:  providers.Sanitize(req.Prompt),
		Images:  []EditImage{{ImageURL: strings.TrimSpace(req.SourceImage)}},
		Quality: firstNonEmpty(req.Quality, "high"),
		N:       imageCount(req.N),
		Size:    req.Size,
	}
	if !isDALLE(model) {
		out.InputFidelity = firstNonEmpty(req.Fidelity, DefaultFidelity)
		out.OutputFormat = "png"
	}
	return out
}

func isDALLE(model string) bool {
	return strings.HasPrefix(strings.ToLower(model), "dall-e")
}

func imageCount(n int) int {
	if n <= 0 {
		return DefaultN
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
