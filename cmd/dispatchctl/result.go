package main

import (
	"fmt"
	"strings"

	"lumenhq/dispatch/pkg/providers"
)

// resultView is the printable form of a DispatchResult.
type resultView struct {
	RequestID      string            `json:"request_id"`
	Kind           string            `json:"kind"`
	Provider       string            `json:"provider"`
	Model          string            `json:"model"`
	Text           string            `json:"text,omitempty"`
	ImageReference string            `json:"image_reference,omitempty"`
	RevisedPrompt  string            `json:"revised_prompt,omitempty"`
	PromptEcho     string            `json:"prompt_echo"`
	Compression    compressionView   `json:"compression"`
	Substitution   *substitutionView `json:"substitution,omitempty"`
	Digest         string            `json:"response_digest"`
	LatencyMS      int64             `json:"latency_ms"`
}

type compressionView struct {
	Method         string `json:"method"`
	OriginalLength int    `json:"original_length"`
	FinalLength    int    `json:"final_length"`
}

type substitutionView struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Capability string `json:"capability"`
	Reason     string `json:"reason"`
}

func newResultView(r *providers.DispatchResult) *resultView {
	v := &resultView{
		RequestID:      r.RequestID,
		Kind:           string(r.Kind),
		Provider:       string(r.Provider),
		Model:          r.Model,
		Text:           r.Text,
		ImageReference: r.ImageReference,
		RevisedPrompt:  r.RevisedPrompt,
		PromptEcho:     r.NormalizedPromptEcho,
		Compression: compressionView{
			Method:         string(r.Compression.Method),
			OriginalLength: r.Compression.OriginalLength,
			FinalLength:    r.Compression.FinalLength,
		},
		Digest:    r.RawProviderResponseDigest,
		LatencyMS: r.Latency.Milliseconds(),
	}
	if s := r.Substitution; s != nil {
		v.Substitution = &substitutionView{
			From:       string(s.From),
			To:         string(s.To),
			Capability: string(s.Capability),
			Reason:     s.Reason,
		}
	}
	return v
}

// String is the text output: the completion or image reference, followed
// by a notice line when the prompt or provider was changed.
func (v *resultView) String() string {
	var sb strings.Builder
	if v.Text != "" {
		sb.WriteString(v.Text)
	} else {
		sb.WriteString(v.ImageReference)
	}
	var notes []string
	if v.Substitution != nil {
		notes = append(notes, fmt.Sprintf("provider %s substituted for %s", v.Substitution.To, v.Substitution.From))
	}
	if v.Compression.Method != string(providers.MethodUnchanged) {
		notes = append(notes, fmt.Sprintf("prompt %s from %d to %d characters",
			v.Compression.Method, v.Compression.OriginalLength, v.Compression.FinalLength))
	}
	if len(notes) > 0 {
		sb.WriteString("\n# ")
		sb.WriteString(strings.Join(notes, "; "))
	}
	return sb.String()
}
