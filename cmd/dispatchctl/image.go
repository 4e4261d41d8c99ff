package main

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lumenhq/dispatch/pkg/cli"
	"lumenhq/dispatch/pkg/providers"
)

type imageFlags struct {
	requestFlags
	negative string
	size     string
	quality  string
	n        int
}

func (f *imageFlags) register(cmd *cobra.Command) {
	f.requestFlags.register(cmd)
	cmd.Flags().StringVar(&f.negative, "negative", "", "things the image should not contain")
	cmd.Flags().StringVar(&f.size, "size", "", "image size, e.g. 1024x1024")
	cmd.Flags().StringVar(&f.quality, "quality", "", "image quality, e.g. hd")
	cmd.Flags().IntVarP(&f.n, "count", "n", 0, "number of images to request")
}

func (f *imageFlags) request(prompt, key string) *providers.DispatchRequest {
	return &providers.DispatchRequest{
		Prompt:           prompt,
		NegativePrompt:   f.negative,
		APIKey:           key,
		ProviderOverride: f.provider,
		ModelOverride:    f.model,
		Size:             f.size,
		Quality:          f.quality,
		N:                f.n,
	}
}

func newImageCmd(opts *globalOptions) *cobra.Command {
	var f imageFlags

	cmd := &cobra.Command{
		Use:   "image [prompt]",
		Short: "Generate an image",
		Long: `Generate an image and print its URL or data URI.

Examples:
  dispatchctl image "a red fox in fresh snow"
  dispatchctl image --provider sdxl --negative "text, watermark" "city skyline at night"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readPrompt(cmd, args)
			if err != nil {
				return err
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

			ctx, stop := cli.SetupSignalHandler(cmd.Context())
			defer stop()

			result, err := rt.dispatcher.GenerateImage(ctx, f.request(prompt, key))
			if err != nil {
				return cli.NewCommandError("image", err)
			}
			return rt.formatter.FormatTo(cmd.OutOrStdout(), newResultView(result))
		},
	}

	f.register(cmd)
	return cmd
}

func newEditCmd(opts *globalOptions) *cobra.Command {
	var (
		f        imageFlags
		source   string
		fidelity string
	)

	cmd := &cobra.Command{
		Use:   "edit --source IMAGE [prompt]",
		Short: "Edit an image",
		Long: `Edit an image according to the prompt. --source accepts an http(s)
URL, a data URI, or a local file which is sent as a data URI.

Examples:
  dispatchctl edit --source https://example.com/room.png "paint the walls green"
  dispatchctl edit --source ./portrait.jpg --fidelity high "add a blue scarf"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readPrompt(cmd, args)
			if err != nil {
				return err
			}
			ref, err := sourceReference("source", source)
			if err != nil {
				return err
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

			req := f.request(prompt, key)
			req.SourceImage = ref
			req.Fidelity = fidelity

			ctx, stop := cli.SetupSignalHandler(cmd.Context())
			defer stop()

			result, err := rt.dispatcher.EditImage(ctx, req)
			if err != nil {
				return cli.NewCommandError("edit", err)
			}
			return rt.formatter.FormatTo(cmd.OutOrStdout(), newResultView(result))
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&source, "source", "s", "", "source image: URL, data URI or file path")
	cmd.Flags().StringVar(&fidelity, "fidelity", "", "edit fidelity: low or high")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

// sourceReference returns value unchanged when it already is an image
// reference, otherwise reads it as a file and encodes it as a data URI.
func sourceReference(flag, value string) (string, error) {
	value = strings.TrimSpace(value)
	if providers.IsImageReference(value) {
		return value, nil
	}

	data, err := os.ReadFile(value)
	if err != nil {
		return "", cli.NewConfigError(flag, fmt.Sprintf("not a URL, data URI or readable file: %v", err))
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", cli.NewConfigError(flag, fmt.Sprintf("%s is not an image (%s)", value, mime))
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
