package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eugenenazirov/container-load/internal/calculator"
)

func newPlanCommand(opts *globalOptions) *cobra.Command {
	flags := &packageFlags{}
	var quantity int

	cmd := &cobra.Command{
		Use:     "plan",
		Short:   "Calculate how many containers a quantity of packages needs",
		Example: `  loadcalc plan --size 50x40x30 --weight 10 --quantity 1000`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, spec, err := flags.resolve(opts)
			if err != nil {
				return err
			}
			plan, err := calculator.PlanShipment(profile, spec, quantity)
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"container": profile,
					"package":   spec,
					"plan":      plan,
				})
			}
			out := cmd.OutOrStdout()
			printLoad(out, profile, plan.PerContainer)
			fmt.Fprintf(out, "Containers needed:  %d for %d units (%d in the last container)\n",
				plan.ContainersRequired, plan.Quantity, plan.UnitsInLastContainer)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 0, "Number of packages to ship")
	_ = cmd.MarkFlagRequired("quantity")
	return cmd
}
