package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lumenhq/dispatch/pkg/cli"
	"lumenhq/dispatch/pkg/compress"
	"lumenhq/dispatch/pkg/providers"
)

type compressView struct {
	Method         string  `json:"method"`
	OriginalLength int     `json:"original_length"`
	FinalLength    int     `json:"final_length"`
	Ratio          float64 `json:"ratio"`
	Text           string  `json:"text"`
}

func (v compressView) String() string {
	return fmt.Sprintf("%s\n# %s: %d -> %d characters", v.Text, v.Method, v.OriginalLength, v.FinalLength)
}

func newCompressCmd(opts *globalOptions) *cobra.Command {
	var (
		provider string
		kind     string
		budget   int
		noAI     bool
	)

	cmd := &cobra.Command{
		Use:   "compress [prompt]",
		Short: "Fit a prompt into a provider's request size limit",
		Long: `Show the prompt that would be sent after compression. The budget is the
request size limit of the provider that would serve --kind, or --budget.
Without an API key, or with --no-ai, only smart truncation runs.

Examples:
  dispatchctl compress --provider stability < brief.txt
  dispatchctl compress --budget 500 --no-ai "a very long prompt ..."`,
		RunE: func(cmd *cobra.Command, args []string) error {
			capability := providers.Capability(kind)
			if !capability.Valid() {
				return cli.NewConfigError("kind", fmt.Sprintf("unknown kind %q", kind))
			}
			prompt, err := readPrompt(cmd, args)
			if err != nil {
				return err
			}

			rt, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.close(cmd)

			key := ""
			if !noAI {
				if key, err = rt.apiKey(); err != nil {
					return err
				}
			}

			ctx, stop := cli.SetupSignalHandler(cmd.Context())
			defer stop()

			var outcome compress.Outcome
			if budget > 0 {
				outcome, err = rt.dispatcher.CompressToBudget(ctx, providers.Sanitize(prompt), budget, key)
			} else {
				outcome, err = rt.dispatcher.CompressPrompt(ctx, capability, prompt, key, provider)
			}
			if err != nil {
				return cli.NewCommandError("compress", err)
			}

			return rt.formatter.FormatTo(cmd.OutOrStdout(), compressView{
				Method:         string(outcome.Method),
				OriginalLength: outcome.OriginalLength,
				FinalLength:    outcome.FinalLength,
				Ratio:          outcome.Ratio(),
				Text:           outcome.Text,
			})
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "", "provider whose limit is the budget")
	cmd.Flags().StringVarP(&kind, "kind", "k", string(providers.CapabilityImageGenerate), "request kind: text, image-generate, image-edit")
	cmd.Flags().IntVar(&budget, "budget", 0, "explicit budget in characters")
	cmd.Flags().BoolVar(&noAI, "no-ai", false, "skip the AI pass")
	return cmd
}
