package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"lumenhq/dispatch/pkg/cli"
	"lumenhq/dispatch/pkg/config"
	"lumenhq/dispatch/pkg/dispatch"
	"lumenhq/dispatch/pkg/telemetry"
	"lumenhq/dispatch/pkg/telemetry/logging"
	"lumenhq/dispatch/pkg/telemetry/tracing"
)

// globalOptions holds the persistent flags.
type globalOptions struct {
	configFile string
	envFile    string
	verbose    bool
	metrics    bool
	apiKey     string
	format     string
}

// cliEnv is the part of the environment read by the command itself rather
// than the configuration loader.
type cliEnv struct {
	APIKey string `env:"API_KEY"`
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "dispatchctl",
		Short: "Send text and image requests to AI providers",
		Long: `dispatchctl sends text completion, image generation and image edit
requests to AI providers (OpenAI, Google, OpenRouter, Sumopod, Stability,
Midjourney) through one interface.

The provider is taken from --provider, else detected from the configured
base URL, else the configured default. Prompts longer than the provider
accepts are compressed first.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file path (defaults when empty)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", ".env file loaded before environment overrides")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().BoolVar(&opts.metrics, "metrics", false, "print Prometheus metrics to stderr after the command")
	cmd.PersistentFlags().StringVar(&opts.apiKey, "api-key", "", "provider API key (default $DISPATCH_API_KEY)")
	cmd.PersistentFlags().StringVarP(&opts.format, "format", "o", "text", "output format: text, json, csv")

	cmd.AddCommand(
		newTextCmd(opts),
		newImageCmd(opts),
		newEditCmd(opts),
		newCompressCmd(opts),
		newProvidersCmd(opts),
		newValidateCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// runtime is everything a command needs after configuration is loaded.
type runtime struct {
	cfg        *config.Config
	logger     *logging.Logger
	telemetry  *telemetry.Telemetry
	dispatcher *dispatch.Dispatcher
	formatter  cli.Formatter
	opts       *globalOptions
}

// setup loads configuration and builds the telemetry stack and dispatcher.
func setup(cmd *cobra.Command, opts *globalOptions) (*runtime, error) {
	format, err := cli.ParseOutputFormat(opts.format)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfigWithEnvOverrides(opts.configFile, opts.envFile)
	if err != nil {
		return nil, err
	}
	if opts.verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if opts.metrics {
		cfg.Telemetry.Metrics.Enabled = true
	}

	tracing.Version = Version
	tel, err := telemetry.New(&cfg.Telemetry, cmd.ErrOrStderr())
	if err != nil {
		return nil, cli.NewConfigError("telemetry", err.Error())
	}
	logger := tel.Logger()

	d, err := dispatch.FromConfig(cfg,
		dispatch.WithLogger(logger.Slog()),
		dispatch.WithMetrics(tel.Metrics()),
		dispatch.WithTracer(tel.Tracer()),
	)
	if err != nil {
		_ = tel.Shutdown(context.Background())
		return nil, err
	}

	logger.Debug("configuration loaded",
		"config_file", opts.configFile,
		"default_provider", cfg.Dispatch.DefaultProvider,
		"base_url", cfg.Dispatch.BaseURL,
		"providers", len(d.Registry().Profiles()),
	)

	return &runtime{
		cfg:        cfg,
		logger:     logger,
		telemetry:  tel,
		dispatcher: d,
		formatter:  cli.NewFormatter(format),
		opts:       opts,
	}, nil
}

// close flushes telemetry and, with --metrics, prints the exposition.
func (r *runtime) close(cmd *cobra.Command) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.telemetry.Shutdown(ctx); err != nil {
		r.logger.Warn("telemetry shutdown failed", "error", err)
	}
	if err := r.dispatcher.Close(); err != nil {
		r.logger.Warn("transport close failed", "error", err)
	}
	if r.opts.metrics {
		if err := r.telemetry.Metrics().WriteText(cmd.ErrOrStderr()); err != nil {
			r.logger.Warn("failed to write metrics", "error", err)
		}
	}
}

// apiKey returns the key from --api-key or DISPATCH_API_KEY.
func (r *runtime) apiKey() (string, error) {
	if key := strings.TrimSpace(r.opts.apiKey); key != "" {
		return key, nil
	}
	e, err := env.ParseAsWithOptions[cliEnv](env.Options{Prefix: config.EnvPrefix})
	if err != nil {
		return "", fmt.Errorf("failed to read environment: %w", err)
	}
	return strings.TrimSpace(e.APIKey), nil
}

// readPrompt joins args, or reads stdin when args are empty or "-".
func readPrompt(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read prompt from stdin: %w", err)
	}
	return string(data), nil
}
