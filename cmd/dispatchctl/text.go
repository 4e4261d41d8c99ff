package main

import (
	"github.com/spf13/cobra"

	"lumenhq/dispatch/pkg/cli"
	"lumenhq/dispatch/pkg/providers"
)

type requestFlags struct {
	provider string
	model    string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.provider, "provider", "p", "", "provider id or alias (e.g. openai, gemini, mj)")
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "model override")
}

func newTextCmd(opts *globalOptions) *cobra.Command {
	var (
		rf          requestFlags
		temperature float64
		maxTokens   int
		image       string
	)

	cmd := &cobra.Command{
		Use:   "text [prompt]",
		Short: "Send a text completion",
		Long: `Send a single-turn text completion. The prompt is taken from the
arguments, or from stdin when none are given or the argument is "-".
With --image the model is asked about an image (URL, data URI or local
file) that is sent after the prompt.

Examples:
  dispatchctl text "Write a haiku about rain"
  echo "Explain TCP slow start" | dispatchctl text --provider openrouter
  dispatchctl text -o json --max-tokens 200 "List three prime numbers"
  dispatchctl text --image still.jpg "Describe the lighting in this frame"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readPrompt(cmd, args)
			if err != nil {
				return err
			}

			var source string
			if image != "" {
				if source, err = sourceReference("image", image); err != nil {
					return err
				}
			}

			rt, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.close(cmd)

			key, err := rt.apiKey()
			if err != nil {
				return err
			}

			req := &providers.DispatchRequest{
				Prompt:           prompt,
				APIKey:           key,
				ProviderOverride: rf.provider,
				ModelOverride:    rf.model,
				MaxTokens:        maxTokens,
				SourceImage:      source,
			}
			if cmd.Flags().Changed("temperature") {
				req.Temperature = &temperature
			}

			ctx, stop := cli.SetupSignalHandler(cmd.Context())
			defer stop()

			complete := rt.dispatcher.CompleteText
			if source != "" {
				complete = rt.dispatcher.AnalyzeImage
			}
			result, err := complete(ctx, req)
			if err != nil {
				return cli.NewCommandError("text", err)
			}
			return rt.formatter.FormatTo(cmd.OutOrStdout(), newResultView(result))
		},
	}

	rf.register(cmd)
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "sampling temperature (0.0-2.0)")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "completion length cap")
	cmd.Flags().StringVar(&image, "image", "", "image to analyze (URL, data URI or file)")
	return cmd
}
