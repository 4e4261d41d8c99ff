// Package compress reduces prompts to a provider's character budget.
//
// A Compressor first asks a text model for a denser paraphrase of the prompt
// (when a Completer and an API key are available) and falls back to
// SmartTruncate, which cuts at the latest paragraph, sentence or word
// boundary that fits. Lengths are counted in runes throughout.
//
// The result never exceeds the budget, and compressing a result again with
// the same budget returns it unchanged:
//
//	c := compress.New(compress.WithCompleter(dispatcher))
//	out, err := c.Compress(ctx, compress.Request{
//		Text:   brief,
//		Budget: 4000,
//		APIKey: key,
//	})
//
// AI failures are logged and absorbed. The only error Compress returns is
// CompressionExhausted for a budget below one.
package compress
