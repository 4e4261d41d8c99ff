// Package openai implements the OpenAI-compatible wire format.
//
// The codec serves three request kinds:
//
//   - text:           POST /chat/completions
//   - image-generate: POST /images/generations
//   - image-edit:     POST /images/edits (JSON body with images[].image_url)
//
// Responses are read from choices[0].message.content for text and from
// data[0].url or data[0].b64_json for images; base64 images are returned as
// data URIs. Gateways speaking the same format (Sumopod) use this codec
// unchanged, and the openrouter package embeds it.
//
// # Basic Usage
//
//	codec := openai.New()
//	payload, err := codec.Build(profile, "gpt-4o", &providers.DispatchRequest{
//	    Kind:   providers.CapabilityText,
//	    Prompt: "Describe golden hour lighting.",
//	    APIKey: apiKey,
//	})
package openai
