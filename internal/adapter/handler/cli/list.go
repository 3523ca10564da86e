package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"archive-registry/internal/domain/entity"
)

func newListCommand(a *app) *cobra.Command {
	var (
		typeFilter    string
		releaseFilter string
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Display the list of available archives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			family, err := entity.ParseFamily(typeFilter)
			if err != nil {
				return err
			}

			rows, err := a.services.Registry.ListArchives(cmd.Context(), family, releaseFilter)
			if err != nil {
				return err
			}
			if asJSON {
				if rows == nil {
					rows = []entity.ArchiveListing{}
				}
				return printJSON(cmd.OutOrStdout(), rows)
			}

			families := []entity.Family{entity.FamilyEVM, entity.FamilySubstrate}
			if family != "" {
				families = []entity.Family{family}
			}
			for _, fam := range families {
				if err := printListTable(cmd.OutOrStdout(), fam, rows); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeFilter, "type", "t", "", "Network type (evm or substrate)")
	cmd.Flags().StringVarP(&releaseFilter, "release", "r", "", "Release name (e.g. FireSquid, ArrowSquid)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func printListTable(out io.Writer, family entity.Family, rows []entity.ArchiveListing) error {
	fmt.Fprintf(out, "%s archives:\n", family)
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NETWORK\tRELEASE\tENDPOINT")
	for _, r := range rows {
		if r.Family != family {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Network, orDash(r.Release), r.Endpoint)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out)
	return err
}
