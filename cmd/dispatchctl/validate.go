package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lumenhq/dispatch/pkg/config"
)

func newValidateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		Long: `Load the configuration file, the .env file and environment overrides,
and report every validation error at once.

Examples:
  dispatchctl validate --config dispatch.yaml
  dispatchctl validate --config dispatch.yaml --env-file .env`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfigWithEnvOverrides(opts.configFile, opts.envFile)
			if err != nil {
				return err
			}
			registry, err := cfg.NewRegistry()
			if err != nil {
				return err
			}

			source := opts.configFile
			if source == "" {
				source = "built-in defaults"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration is valid (%s): %d providers\n", source, len(registry.Profiles()))
			return nil
		},
	}
}
