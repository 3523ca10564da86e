package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newInfoCommand(a *app) *cobra.Command {
	var (
		genesis string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "info <network>",
		Short: "Show network metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := a.services.Registry.GetNetworkInfo(cmd.Context(), args[0], genesis)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), info)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Name:\t%s\n", info.Name)
			fmt.Fprintf(w, "Display name:\t%s\n", orDash(info.DisplayName))
			fmt.Fprintf(w, "Tokens:\t%s\n", orDash(strings.Join(info.Tokens, ", ")))
			fmt.Fprintf(w, "Website:\t%s\n", orDash(info.Website))
			fmt.Fprintf(w, "Relay chain:\t%s\n", orDash(info.RelayChain))
			fmt.Fprintf(w, "Parachain ID:\t%s\n", orDash(info.ParachainID))
			fmt.Fprintf(w, "Genesis hash:\t%s\n", orDash(info.GenesisHash))
			if info.Description != "" {
				fmt.Fprintf(w, "Description:\t%s\n", info.Description)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&genesis, "genesis", "", "Genesis hash to disambiguate networks sharing a name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}
