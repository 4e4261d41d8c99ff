package compress

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lumenhq/dispatch/pkg/providers"
)

// DefaultTimeout bounds the AI compression sub-call.
const DefaultTimeout = 30 * time.Second

// DefaultTemperature is the sampling temperature of the AI pass.
const DefaultTemperature = 0.6

const instructionTemplate = `Rewrite the text below as one dense, comma-separated paragraph.
Keep every concrete descriptive and technical detail: subjects, materials, textures, lighting, composition, mood, colors, equipment and settings.
Drop headings, rationale, process notes and repetition.
The result MUST be shorter than %d characters. Reply with the paragraph only.

---
%s
---`

// Completer runs one text completion. The dispatcher implements it.
type Completer interface {
	CompleteText(ctx context.Context, req *providers.DispatchRequest) (*providers.DispatchResult, error)
}

// Request is one compression call.
type Request struct {
	// Text is the prompt to compress.
	Text string

	// Budget is the maximum length of the result in runes.
	Budget int

	// APIKey authenticates the AI pass. Without it only truncation runs.
	APIKey string

	// Provider and Model select the provider and model of the AI pass.
	Provider string
	Model    string

	// InputLimit is the request size limit of the provider serving the AI
	// pass. The text is truncated so instruction plus text fits it.
	// Zero means unlimited.
	InputLimit int
}

// Outcome is the result of a compression call.
type Outcome struct {
	Text           string
	Method         providers.CompressionMethod
	OriginalLength int
	FinalLength    int
}

// Summary returns the outcome without its text.
func (o Outcome) Summary() providers.CompressionSummary {
	return providers.CompressionSummary{
		Method:         o.Method,
		OriginalLength: o.OriginalLength,
		FinalLength:    o.FinalLength,
	}
}

// Ratio returns FinalLength / OriginalLength.
func (o Outcome) Ratio() float64 {
	if o.OriginalLength == 0 {
		return 1
	}
	return float64(o.FinalLength) / float64(o.OriginalLength)
}

// Compressor fits prompts into a budget.
type Compressor struct {
	completer   Completer
	logger      *slog.Logger
	timeout     time.Duration
	temperature float64
}

// Option configures a Compressor.
type Option func(*Compressor)

// WithCompleter enables the AI pass.
func WithCompleter(c Completer) Option {
	return func(comp *Compressor) {
		comp.completer = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(comp *Compressor) {
		if logger != nil {
			comp.logger = logger
		}
	}
}

// WithTimeout bounds the AI pass. Zero leaves only the caller's deadline.
func WithTimeout(d time.Duration) Option {
	return func(comp *Compressor) {
		comp.timeout = d
	}
}

// WithTemperature sets the sampling temperature of the AI pass.
func WithTemperature(t float64) Option {
	return func(comp *Compressor) {
		comp.temperature = t
	}
}

// New creates a Compressor. Without WithCompleter it only truncates.
func New(opts ...Option) *Compressor {
	c := &Compressor{
		logger:      slog.Default(),
		timeout:     DefaultTimeout,
		temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compress returns req.Text reduced to at most req.Budget runes.
func (c *Compressor) Compress(ctx context.Context, req Request) (Outcome, error) {
	if req.Budget < 1 {
		return Outcome{}, providers.NewError(providers.CompressionExhausted, "", "budget %d is below 1", req.Budget)
	}

	original := providers.RuneLen(req.Text)
	if original <= req.Budget {
		return c.finish(req.Text, providers.MethodUnchanged, original), nil
	}

	logger := c.logger.With(
		slog.Int("original_length", original),
		slog.Int("budget", req.Budget),
	)

	if text, ok := c.aiPass(ctx, logger, req); ok {
		if providers.RuneLen(text) <= req.Budget {
			out := c.finish(text, providers.MethodAICompressed, original)
			logger.Info("prompt compressed", slog.String("method", string(out.Method)), slog.Int("final_length", out.FinalLength))
			return out, nil
		}
		logger.Warn("ai compression exceeded budget, truncating its result",
			slog.Int("ai_length", providers.RuneLen(text)))
		out := c.finish(SmartTruncate(text, req.Budget), providers.MethodSmartTruncated, original)
		logger.Info("prompt compressed", slog.String("method", string(out.Method)), slog.Int("final_length", out.FinalLength))
		return out, nil
	}

	out := c.finish(SmartTruncate(req.Text, req.Budget), providers.MethodSmartTruncated, original)
	logger.Info("prompt compressed", slog.String("method", string(out.Method)), slog.Int("final_length", out.FinalLength))
	return out, nil
}

func (c *Compressor) finish(text string, method providers.CompressionMethod, original int) Outcome {
	return Outcome{
		Text:           text,
		Method:         method,
		OriginalLength: original,
		FinalLength:    providers.RuneLen(text),
	}
}

// aiPass asks the completer for a paraphrase. Every failure is logged and
// reported as !ok.
func (c *Compressor) aiPass(ctx context.Context, logger *slog.Logger, req Request) (string, bool) {
	if c.completer == nil || req.APIKey == "" {
		return "", false
	}

	input := req.Text
	if req.InputLimit > 0 {
		room := req.InputLimit - providers.RuneLen(Instruction("", req.Budget))
		if room < 1 {
			logger.Debug("compression provider limit leaves no room for input, skipping ai pass",
				slog.Int("input_limit", req.InputLimit))
			return "", false
		}
		input = SmartTruncate(input, room)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	temperature := c.temperature
	result, err := c.completer.CompleteText(ctx, &providers.DispatchRequest{
		Kind:             providers.CapabilityText,
		Prompt:           Instruction(input, req.Budget),
		APIKey:           req.APIKey,
		ProviderOverride: req.Provider,
		ModelOverride:    req.Model,
		Temperature:      &temperature,
		MaxTokens:        maxTokens(req.Budget),
	})
	if err != nil {
		logger.Warn("ai compression failed, falling back to smart truncation",
			slog.String("error_kind", providers.KindOf(err).String()),
			slog.Any("error", err))
		return "", false
	}

	text := providers.Sanitize(result.Text)
	if text == "" {
		logger.Warn("ai compression returned empty text, falling back to smart truncation")
		return "", false
	}
	return text, true
}

// Instruction returns the AI compression prompt for text and budget.
func Instruction(text string, budget int) string {
	return fmt.Sprintf(instructionTemplate, budget, text)
}

// maxTokens allows roughly one token per three characters of budget.
func maxTokens(budget int) int {
	return max(budget/3+64, 256)
}
