package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"archive-registry/internal/domain/entity"
)

func newUpdateVersionsCommand(a *app) *cobra.Command {
	var (
		out    string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "update-versions",
		Short: "Probe every provider for its live version",
		Long: `Probe the data source of every provider for its version and report the
difference to the recorded release. With --out the refreshed registry is
written to that directory.

The probed version replaces the recorded release, so providers recorded under
a release name such as ArrowSquid no longer match the default release of
lookup once refreshed. Pass --release with the version to select them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapshot, reports, err := a.services.Maintenance.RefreshVersions(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				err = printJSON(cmd.OutOrStdout(), reports)
			} else {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
				fmt.Fprintln(w, "TYPE\tNETWORK\tPROVIDER\tRECORDED\tLIVE\tSTATUS")
				for _, r := range reports {
					status := string(r.Status)
					if r.Status == entity.ProbeOK {
						status = string(r.Change)
					} else if r.Error != "" {
						status += ": " + r.Error
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
						r.Family, r.Network, r.Provider, orDash(r.Previous), orDash(r.Current), status)
				}
				err = w.Flush()
			}
			if err != nil {
				return err
			}

			if out == "" {
				return nil
			}
			if err := a.services.Writer.Save(cmd.Context(), snapshot, out); err != nil {
				return fmt.Errorf("writing refreshed registry: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Updated registry written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Directory to write the refreshed registry to")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output reports in JSON format")
	return cmd
}

func newVerifyGenesisCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "verify-genesis",
		Short: "Compare each provider's genesis hash with the recorded one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reports, err := a.services.Maintenance.VerifyGenesisHashes(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				if err := printJSON(cmd.OutOrStdout(), reports); err != nil {
					return err
				}
			} else {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
				fmt.Fprintln(w, "TYPE\tNETWORK\tPROVIDER\tURL\tSTATUS")
				for _, r := range reports {
					status := string(r.Status)
					switch r.Status {
					case entity.ProbeMismatch:
						status = fmt.Sprintf("expected %s but got %s", r.Expected, r.Actual)
					case entity.ProbeFailed:
						status = "error: " + r.Error
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Family, r.Network, r.Provider, r.URL, status)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}

			for _, r := range reports {
				if r.Status == entity.ProbeMismatch {
					return fmt.Errorf("genesis hash mismatch found for network %s", r.Network)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output reports in JSON format")
	return cmd
}
