// Package openrouter implements the OpenRouter wire format: the OpenAI chat
// body plus the HTTP-Referer and X-Title headers OpenRouter uses to attribute
// traffic to an application.
package openrouter

import (
	"lumenhq/dispatch/pkg/providers"
	"lumenhq/dispatch/pkg/providers/openai"
)

// Default attribution headers.
const (
	DefaultReferer = "https://github.com/lumenhq/dispatch"
	DefaultTitle   = "lumenhq dispatch"
)

// Codec embeds the OpenAI codec and adds attribution headers.
type Codec struct {
	*openai.Codec

	referer string
	title   string
}

// Option configures a Codec.
type Option func(*Codec)

// WithHTTPReferer sets the HTTP-Referer header.
func WithHTTPReferer(referer string) Option {
	return func(c *Codec) {
		c.referer = referer
	}
}

// WithXTitle sets the X-Title header.
func WithXTitle(title string) Option {
	return func(c *Codec) {
		c.title = title
	}
}

// New returns an OpenRouter codec.
func New(opts ...Option) *Codec {
	c := &Codec{
		Codec:   openai.New(),
		referer: DefaultReferer,
		title:   DefaultTitle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Format returns providers.WireOpenRouter.
func (c *Codec) Format() providers.WireFormat {
	return providers.WireOpenRouter
}

// Build builds the OpenAI-format request and attaches the attribution
// headers. Only text completion is routed through OpenRouter.
func (c *Codec) Build(profile providers.ProviderProfile, model string, req *providers.DispatchRequest) (*providers.Payload, error) {
	if err := providers.CheckKind(profile, req.Kind, providers.CapabilityText); err != nil {
		return nil, err
	}

	payload, err := c.Codec.Build(profile, model, req)
	if err != nil {
		return nil, err
	}
	if c.referer != "" {
		payload.Headers["HTTP-Referer"] = c.referer
	}
	if c.title != "" {
		payload.Headers["X-Title"] = c.title
	}
	return payload, nil
}
