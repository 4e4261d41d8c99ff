package main

import (
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lumenhq/dispatch/pkg/cli"
	"lumenhq/dispatch/pkg/providers"
)

func newProvidersCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List configured providers",
		Long: `List every provider in the registry with its wire format, capabilities,
request size limit, default models and aliases.

Examples:
  dispatchctl providers
  dispatchctl providers -o csv > providers.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.close(cmd)

			return rt.formatter.FormatTo(cmd.OutOrStdout(), providerTable(rt.dispatcher.Registry()))
		},
	}
}

func providerTable(r *providers.Registry) *cli.Table {
	aliases := make(map[providers.ProviderID][]string)
	for alias, id := range r.Aliases() {
		if alias != string(id) {
			aliases[id] = append(aliases[id], alias)
		}
	}

	t := &cli.Table{
		Headers: []string{"ID", "WIRE", "CAPABILITIES", "LIMIT", "MODEL", "IMAGE MODEL", "BASE URL", "ALIASES"},
	}
	for _, p := range r.Profiles() {
		caps := make([]string, len(p.Capabilities))
		for i, c := range p.Capabilities {
			caps[i] = string(c)
		}
		names := aliases[p.ID]
		slices.Sort(names)

		t.Rows = append(t.Rows, []string{
			string(p.ID),
			string(p.WireFormat),
			strings.Join(caps, ","),
			strconv.Itoa(p.RequestSizeLimit),
			dash(p.DefaultModel),
			dash(p.DefaultImageModel),
			p.BaseURL,
			dash(strings.Join(names, ",")),
		})
	}
	return t
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
