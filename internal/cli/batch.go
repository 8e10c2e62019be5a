package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eugenenazirov/container-load/internal/batch"
	"github.com/eugenenazirov/container-load/internal/calculator"
	"github.com/eugenenazirov/container-load/internal/manifest"
)

func newBatchCommand(opts *globalOptions) *cobra.Command {
	var (
		file    string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Evaluate every package of a manifest file",
		Long: `Evaluate every package listed in a manifest against the manifest's container.

Manifests are JSON and may contain comments:

  {
    "container": "40ft",
    "packages": [
      // stackable defaults to true
      {"label": "chairs", "length": 50, "width": 40, "height": 30, "weight": 10, "quantity": 1200}
    ]
  }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := manifest.Load(file)
			if err != nil {
				return err
			}
			profile, err := opts.profile(m.Container)
			if err != nil {
				return err
			}

			evaluator := batch.NewEvaluator(calculator.New(), workers)
			outcomes, err := evaluator.EvaluatePackages(cmd.Context(), profile, m.Items())
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), batchReport(profile, outcomes))
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Container: %s (%s)\n", profile.Name, profile.ID)
			fmt.Fprintln(tw, "PACKAGE\tUNITS\tLIMIT\tVOLUME %\tWEIGHT %\tCONTAINERS")
			for _, o := range outcomes {
				if o.Err != nil {
					fmt.Fprintf(tw, "%s\terror: %v\t\t\t\t\n", o.Label, o.Err)
					continue
				}
				containers := "-"
				if o.Plan != nil {
					containers = fmt.Sprintf("%d", o.Plan.ContainersRequired)
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%.2f\t%.2f\t%s\n",
					o.Label, o.Result.CapacityUnits, o.Result.LimitingFactor,
					o.Result.VolumeUtilizationPct, o.Result.WeightUtilizationPct, containers)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Manifest file (JSON with comments)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent workers (0 uses GOMAXPROCS)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

type batchReportItem struct {
	Label  string                   `json:"label"`
	Result *calculator.LoadResult   `json:"result,omitempty"`
	Plan   *calculator.ShipmentPlan `json:"plan,omitempty"`
	Error  string                   `json:"error,omitempty"`
}

func batchReport(profile calculator.ContainerProfile, outcomes []batch.Outcome) map[string]any {
	items := make([]batchReportItem, 0, len(outcomes))
	for _, o := range outcomes {
		item := batchReportItem{Label: o.Label}
		if o.Err != nil {
			item.Error = o.Err.Error()
		} else {
			result := o.Result
			item.Result = &result
			item.Plan = o.Plan
		}
		items = append(items, item)
	}
	return map[string]any{"container": profile, "results": items}
}
