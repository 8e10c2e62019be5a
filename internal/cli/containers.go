package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newContainersCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "containers",
		Short: "List known container profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := opts.catalogue()
			if err != nil {
				return err
			}
			profiles, err := store.ListProfiles()
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), profiles)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tINNER (cm)\tMAX kg\tVOLUME m³")
			for _, p := range profiles {
				fmt.Fprintf(tw, "%s\t%s\t%gx%gx%g\t%g\t%g\n",
					p.ID, p.Name, p.InnerLength, p.InnerWidth, p.InnerHeight, p.MaxWeight, p.VolumeCubicMeters)
			}
			return tw.Flush()
		},
	}
}
