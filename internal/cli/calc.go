package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eugenenazirov/container-load/internal/calculator"
)

type packageFlags struct {
	container  string
	dimensions string
	weight     string
	noStack    bool
}

func (f *packageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.container, "container", "c", "20ft", "Container profile ID")
	cmd.Flags().StringVarP(&f.dimensions, "size", "s", "", "Package dimensions in cm as LENGTHxWIDTHxHEIGHT")
	cmd.Flags().StringVarP(&f.weight, "weight", "w", "", "Package weight in kg")
	cmd.Flags().BoolVar(&f.noStack, "no-stack", false, "Package is not stackable (single layer)")
	_ = cmd.MarkFlagRequired("size")
	_ = cmd.MarkFlagRequired("weight")
}

func (f *packageFlags) resolve(opts *globalOptions) (calculator.ContainerProfile, calculator.PackageSpec, error) {
	spec, err := ParsePackage(f.dimensions, f.weight, !f.noStack)
	if err != nil {
		return calculator.ContainerProfile{}, calculator.PackageSpec{}, err
	}
	profile, err := opts.profile(f.container)
	if err != nil {
		return calculator.ContainerProfile{}, calculator.PackageSpec{}, err
	}
	return profile, spec, nil
}

func newCalcCommand(opts *globalOptions) *cobra.Command {
	flags := &packageFlags{}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate how many packages fit into one container",
		Example: `  loadcalc calc --size 50x40x30 --weight 10
  loadcalc calc -c 40ft-hc -s 120x80x100 -w 150 --no-stack --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, spec, err := flags.resolve(opts)
			if err != nil {
				return err
			}
			result, err := calculator.CalculateLoad(profile, spec)
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"container": profile,
					"package":   spec,
					"result":    result,
				})
			}
			printLoad(cmd.OutOrStdout(), profile, result)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func printLoad(w io.Writer, profile calculator.ContainerProfile, r calculator.LoadResult) {
	fmt.Fprintf(w, "Container:          %s (%s)\n", profile.Name, profile.ID)
	fmt.Fprintf(w, "Capacity:           %d units (limited by %s)\n", r.CapacityUnits, r.LimitingFactor)
	fmt.Fprintf(w, "Layout:             %d x %d x %d\n", r.UnitsAlongLength, r.UnitsAlongWidth, r.UnitsAlongHeight)
	fmt.Fprintf(w, "Volume utilisation: %.2f%% (%.3f of %g m³)\n", r.VolumeUtilizationPct, r.TotalVolumeM3, profile.VolumeCubicMeters)
	fmt.Fprintf(w, "Weight utilisation: %.2f%% (%g of %g kg)\n", r.WeightUtilizationPct, r.TotalWeightKg, profile.MaxWeight)
	if r.CapacityUnits == 0 {
		fmt.Fprintln(w, "This package cannot be shipped in this container.")
	}
}
