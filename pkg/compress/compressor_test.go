package compress

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"lumenhq/dispatch/pkg/providers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	text  string
	err   error
	delay time.Duration
	calls []*providers.DispatchRequest
}

func (f *fakeCompleter) CompleteText(ctx context.Context, req *providers.DispatchRequest) (*providers.DispatchResult, error) {
	f.calls = append(f.calls, req)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, &providers.ProviderError{Kind: providers.NetworkTimeout, Cause: ctx.Err()}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &providers.DispatchResult{Kind: providers.CapabilityText, Text: f.text}, nil
}

// brief returns n runes of sentences.
func brief(n int) string {
	const sentence = "Soft window light falls across a textured marble table. "
	return strings.Repeat(sentence, n/len(sentence)+1)[:n]
}

func TestCompress_Unchanged(t *testing.T) {
	fc := &fakeCompleter{text: "should not be used"}
	c := New(WithCompleter(fc))

	out, err := c.Compress(context.Background(), Request{Text: "a short prompt", Budget: 100, APIKey: "sk-test"})
	require.NoError(t, err)

	assert.Equal(t, providers.MethodUnchanged, out.Method)
	assert.Equal(t, "a short prompt", out.Text)
	assert.Equal(t, 14, out.OriginalLength)
	assert.Equal(t, 14, out.FinalLength)
	assert.Empty(t, fc.calls)
}

func TestCompress_BudgetBelowOne(t *testing.T) {
	_, err := New().Compress(context.Background(), Request{Text: "x", Budget: 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, providers.ErrCompressionExhausted))
}

func TestCompress_AISuccess(t *testing.T) {
	fc := &fakeCompleter{text: "  dense paraphrase of the brief  "}
	c := New(WithCompleter(fc))

	out, err := c.Compress(context.Background(), Request{
		Text:     brief(500),
		Budget:   100,
		APIKey:   "sk-test",
		Provider: "openai",
		Model:    "gpt-4o-mini",
	})
	require.NoError(t, err)

	assert.Equal(t, providers.MethodAICompressed, out.Method)
	assert.Equal(t, "dense paraphrase of the brief", out.Text)
	assert.Equal(t, 500, out.OriginalLength)

	require.Len(t, fc.calls, 1)
	call := fc.calls[0]
	assert.Equal(t, providers.CapabilityText, call.Kind)
	assert.Equal(t, "sk-test", call.APIKey)
	assert.Equal(t, "openai", call.ProviderOverride)
	assert.Equal(t, "gpt-4o-mini", call.ModelOverride)
	require.NotNil(t, call.Temperature)
	assert.Equal(t, DefaultTemperature, *call.Temperature)
	assert.Contains(t, call.Prompt, "shorter than 100 characters")
}

func TestCompress_AIOverBudgetIsTruncated(t *testing.T) {
	fc := &fakeCompleter{text: strings.Repeat("dense words ", 30)}
	c := New(WithCompleter(fc))

	out, err := c.Compress(context.Background(), Request{Text: brief(1000), Budget: 100, APIKey: "sk-test"})
	require.NoError(t, err)

	assert.Equal(t, providers.MethodSmartTruncated, out.Method)
	assert.LessOrEqual(t, out.FinalLength, 100)
	assert.True(t, strings.HasPrefix(out.Text, "dense words"), "the AI result is truncated, not the original")
}

func TestCompress_AIFailureFallsBack(t *testing.T) {
	// 5,000 characters, budget 4,000, AI sub-call fails at the transport.
	fc := &fakeCompleter{err: providers.NewError(providers.ServiceUnavailable, providers.OpenAI, "connection failed")}
	c := New(WithCompleter(fc))

	text := brief(5000)
	out, err := c.Compress(context.Background(), Request{Text: text, Budget: 4000, APIKey: "sk-test"})
	require.NoError(t, err)

	assert.Equal(t, providers.MethodSmartTruncated, out.Method)
	assert.Equal(t, 5000, out.OriginalLength)
	assert.LessOrEqual(t, out.FinalLength, 4000)
	assert.GreaterOrEqual(t, out.FinalLength, 3800, "a sentence boundary exists within the last 200 characters")
	assert.True(t, strings.HasSuffix(out.Text, "."))
	assert.True(t, strings.HasPrefix(text, out.Text))
	assert.Len(t, fc.calls, 1)
}

func TestCompress_EmptyAIResultFallsBack(t *testing.T) {
	fc := &fakeCompleter{text: " \n "}
	out, err := New(WithCompleter(fc)).Compress(context.Background(), Request{Text: brief(300), Budget: 100, APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, providers.MethodSmartTruncated, out.Method)
	assert.NotEmpty(t, out.Text)
}

func TestCompress_TimeoutFallsBack(t *testing.T) {
	fc := &fakeCompleter{text: "too late", delay: time.Second}
	c := New(WithCompleter(fc), WithTimeout(20*time.Millisecond))

	start := time.Now()
	out, err := c.Compress(context.Background(), Request{Text: brief(300), Budget: 100, APIKey: "sk-test"})
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, providers.MethodSmartTruncated, out.Method)
}

func TestCompress_SkipsAIWithoutKeyOrCompleter(t *testing.T) {
	fc := &fakeCompleter{text: "unused"}

	out, err := New(WithCompleter(fc)).Compress(context.Background(), Request{Text: brief(300), Budget: 100})
	require.NoError(t, err)
	assert.Equal(t, providers.MethodSmartTruncated, out.Method)
	assert.Empty(t, fc.calls)

	out, err = New().Compress(context.Background(), Request{Text: brief(300), Budget: 100, APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, providers.MethodSmartTruncated, out.Method)
}

func TestCompress_PrefitsAIInput(t *testing.T) {
	fc := &fakeCompleter{text: "short"}
	c := New(WithCompleter(fc))

	_, err := c.Compress(context.Background(), Request{
		Text:       brief(20000),
		Budget:     1000,
		APIKey:     "sk-test",
		InputLimit: 4000,
	})
	require.NoError(t, err)

	require.Len(t, fc.calls, 1)
	assert.LessOrEqual(t, providers.RuneLen(fc.calls[0].Prompt), 4000)
}

func TestCompress_InputLimitTooSmallSkipsAI(t *testing.T) {
	fc := &fakeCompleter{text: "short"}
	out, err := New(WithCompleter(fc)).Compress(context.Background(), Request{
		Text:       brief(300),
		Budget:     100,
		APIKey:     "sk-test",
		InputLimit: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, fc.calls)
	assert.Equal(t, providers.MethodSmartTruncated, out.Method)
}

func TestCompress_Idempotent(t *testing.T) {
	c := New(WithCompleter(&fakeCompleter{err: errors.New("offline")}))

	for _, budget := range []int{1, 17, 250, 4000} {
		first, err := c.Compress(context.Background(), Request{Text: brief(5000), Budget: budget, APIKey: "sk-test"})
		require.NoError(t, err)
		assert.LessOrEqual(t, first.FinalLength, budget)

		second, err := c.Compress(context.Background(), Request{Text: first.Text, Budget: budget, APIKey: "sk-test"})
		require.NoError(t, err)
		assert.Equal(t, providers.MethodUnchanged, second.Method)
		assert.Equal(t, first.Text, second.Text)
	}
}

func TestOutcome_Summary(t *testing.T) {
	out := Outcome{Text: "abc", Method: providers.MethodSmartTruncated, OriginalLength: 6, FinalLength: 3}
	assert.Equal(t, providers.CompressionSummary{
		Method:         providers.MethodSmartTruncated,
		OriginalLength: 6,
		FinalLength:    3,
	}, out.Summary())
	assert.InDelta(t, 0.5, out.Ratio(), 1e-9)
}
