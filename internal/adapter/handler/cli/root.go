// Package cli implements the archive-registry command line on top of the
// application services.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"archive-registry/internal/application/port"
	domainRepo "archive-registry/internal/domain/repository"
)

// Services bundles what the commands run against.
type Services struct {
	Registry    port.RegistryService
	Maintenance port.MaintenanceService
	Writer      domainRepo.SnapshotWriter
}

// Loader builds the services from the config directory. The returned cleanup
// runs after the command finishes.
type Loader func(ctx context.Context, configPath string) (*Services, func(), error)

type app struct {
	load       Loader
	configPath string
	services   *Services
	cleanup    func()
}

// Execute runs the command line and releases the loaded services afterwards.
func Execute(ctx context.Context, version string, load Loader) error {
	root, a := newRootCommand(version, load)
	defer a.close()
	return root.ExecuteContext(ctx)
}

// NewRootCommand creates the root command with every subcommand attached.
func NewRootCommand(version string, load Loader) *cobra.Command {
	root, _ := newRootCommand(version, load)
	return root
}

func newRootCommand(version string, load Loader) (*cobra.Command, *app) {
	a := &app{load: load}

	root := &cobra.Command{
		Use:           "archive-registry",
		Short:         "Look up Subsquid archive endpoints",
		Long:          "archive-registry resolves network names to archive endpoints and maintains the archive registry.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			services, cleanup, err := a.load(cmd.Context(), a.configPath)
			if err != nil {
				return err
			}
			a.services, a.cleanup = services, cleanup
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "configs", "Directory containing config.yaml")

	root.AddCommand(
		newLookupCommand(a),
		newListCommand(a),
		newInfoCommand(a),
		newUpdateVersionsCommand(a),
		newVerifyGenesisCommand(a),
	)
	return root, a
}

func (a *app) close() {
	if a.cleanup != nil {
		a.cleanup()
	}
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
