// Package cli implements the cobra commands of the loadcalc tool.
//
// The commands are the input layer in front of the calculator: raw flag
// values and manifest files are parsed and validated here, and only typed
// package specifications reach the calculator.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/eugenenazirov/container-load/internal/calculator"
	"github.com/eugenenazirov/container-load/internal/config"
	"github.com/eugenenazirov/container-load/internal/storage"
)

// Version is injected from the main package.
var Version = "dev"

// globalOptions are bound to persistent flags on the root command.
type globalOptions struct {
	jsonOutput bool
	configFile string
}

// NewRootCommand creates the root command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "loadcalc",
		Short: "Shipping container load calculator",
		Long: `loadcalc computes how many packages of a given size and weight fit into a
shipping container, which constraint (space or weight) limits the load, and
how much of the container's volume and payload is used.

Packages are packed axis-aligned without rotation; pre-orient the package
along the container's longest axis for the best result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}

	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML configuration file with extra containers")

	rootCmd.AddCommand(newContainersCommand(opts))
	rootCmd.AddCommand(newCalcCommand(opts))
	rootCmd.AddCommand(newPlanCommand(opts))
	rootCmd.AddCommand(newBatchCommand(opts))

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		os.Exit(1)
	}
}

// catalogue builds the container catalogue, including containers from --config.
func (o *globalOptions) catalogue() (*storage.MemoryStorage, error) {
	store := storage.NewMemoryStorage()
	if o.configFile == "" {
		return store, nil
	}

	cfg, err := config.Load(&config.CLIOverrides{ConfigFile: o.configFile})
	if err != nil {
		return nil, err
	}
	for _, p := range cfg.Containers {
		if err := store.AddProfile(p); err != nil {
			return nil, fmt.Errorf("register container %q: %w", p.ID, err)
		}
	}
	return store, nil
}

func (o *globalOptions) profile(id string) (calculator.ContainerProfile, error) {
	store, err := o.catalogue()
	if err != nil {
		return calculator.ContainerProfile{}, err
	}
	return store.GetProfile(id)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
