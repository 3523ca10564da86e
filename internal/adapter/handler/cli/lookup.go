package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"archive-registry/internal/domain/entity"
)

type lookupFlags struct {
	family   string
	genesis  string
	release  string
	image    string
	gateway  string
	ingest   string
	ingester string
	worker   string
	all      bool
	json     bool
}

func (f lookupFlags) criteria() (entity.FilterCriteria, error) {
	family, err := entity.ParseFamily(f.family)
	if err != nil {
		return entity.FilterCriteria{}, err
	}
	return entity.FilterCriteria{
		Family:   family,
		Genesis:  f.genesis,
		Release:  f.release,
		Image:    f.image,
		Gateway:  f.gateway,
		Ingest:   f.ingest,
		Ingester: f.ingester,
		Worker:   f.worker,
	}, nil
}

func newLookupCommand(a *app) *cobra.Command {
	var flags lookupFlags

	cmd := &cobra.Command{
		Use:   "lookup <network>",
		Short: "Resolve a network to its archive endpoint",
		Long: `Resolve a network to the endpoint of its first matching provider.
Without --release the current default release is applied. With --all every
matching provider is listed and no default release is applied.

Without --type the registry is picked by the exact network name, so a name
in any other casing than the registry's needs --type.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := flags.criteria()
			if err != nil {
				return err
			}

			if !flags.all {
				endpoint, err := a.services.Registry.ResolveEndpoint(cmd.Context(), args[0], criteria)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), endpoint)
				return err
			}

			providers, err := a.services.Registry.LookupProviders(cmd.Context(), args[0], criteria)
			if err != nil {
				return err
			}
			if flags.json {
				return printJSON(cmd.OutOrStdout(), providers)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tRELEASE\tDATA SOURCE\tEXPLORER")
			for _, p := range providers {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Provider, orDash(p.Release), p.DataSourceURL, orDash(p.ExplorerURL.String()))
			}
			return w.Flush()
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.family, "type", "t", "", "Registry type (substrate or evm)")
	f.StringVar(&flags.genesis, "genesis", "", "Genesis hash of the network")
	f.StringVarP(&flags.release, "release", "r", "", "Release name or major version")
	f.StringVar(&flags.image, "image", "", "Archive image")
	f.StringVar(&flags.gateway, "gateway", "", "Gateway image")
	f.StringVar(&flags.ingest, "ingest", "", "Ingest image")
	f.StringVar(&flags.ingester, "ingester", "", "Ingester image")
	f.StringVar(&flags.worker, "worker", "", "Worker image")
	f.BoolVar(&flags.all, "all", false, "List every matching provider")
	f.BoolVar(&flags.json, "json", false, "Output in JSON format (with --all)")
	return cmd
}
