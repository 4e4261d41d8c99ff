package openai

import (
	"lumenhq/dispatch/pkg/providers"
)

// Codec implements providers.Codec for OpenAI-compatible endpoints
// (OpenAI itself and gateways such as Sumopod).
type Codec struct{}

// New returns an OpenAI codec.
func New() *Codec {
	return &Codec{}
}

// Format returns providers.WireOpenAI.
func (c *Codec) Format() providers.WireFormat {
	return providers.WireOpenAI
}

// Build constructs the chat, generation or edit request for req.Kind.
func (c *Codec) Build(profile providers.ProviderProfile, model string, req *providers.DispatchRequest) (*providers.Payload, error) {
	if err := providers.CheckKind(profile, req.Kind,
		providers.CapabilityText,
		providers.CapabilityImageGenerate,
		providers.CapabilityImageEdit,
	); err != nil {
		return nil, err
	}

	headers := providers.BearerHeaders(req.APIKey)

	switch req.Kind {
	case providers.CapabilityText:
		return providers.NewJSONPayload(profile.ID, PathChat, headers, transformChat(model, req))
	case providers.CapabilityImageGenerate:
		return providers.NewJSONPayload(profile.ID, PathGenerations, headers, transformImage(model, req))
	default:
		return providers.NewJSONPayload(profile.ID, PathEdits, headers, transformEdit(model, req))
	}
}

// Parse extracts the completion text or the first image from body.
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

	// Sumopod-style gateways return a few alternate image envelopes.
	paths := append(append([]string{}, imagePaths...),
		"data.0.base64", "images.0.url", "images.0.image", "image_url")
	ref, err := providers.RequireImage(profile.ID, doc, paths...)
	if err != nil {
		return nil, err
	}
	return &providers.Parsed{
		ImageReference: ref,
		RevisedPrompt:  doc.Get("data.0.revised_prompt").String(),
	}, nil
}
