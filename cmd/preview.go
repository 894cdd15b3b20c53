package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aguepe1/Fleet-Simulator/core/model"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the repair, maintenance and failure distributions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, release, err := newService(cfg)
		if err != nil {
			return err
		}
		defer release()
		ds, err := svc.Preview()
		if err != nil {
			return err
		}
		return writePreview(cmd.OutOrStdout(), ds)
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func writePreview(w io.Writer, ds model.Distributions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	pmf := func(title string, s model.PMFSummary) {
		fmt.Fprintf(tw, "%s (shape %.2f, scale %.4f)\n", title, s.Shape, s.Scale)
		fmt.Fprintln(tw, "days\tprobability")
		for i, d := range s.Days {
			fmt.Fprintf(tw, "%d\t%.4f\n", d, s.Probabilities[i])
		}
		fmt.Fprintln(tw)
	}
	pmf("Repair duration", ds.Repair)
	pmf("Maintenance duration", ds.Maintenance)

	f := ds.Failure
	if !f.Enabled {
		fmt.Fprintln(tw, "Failure hazard: disabled (availability 1)")
		return tw.Flush()
	}
	fmt.Fprintf(tw, "Failure hazard (shape %.2f, scale %.4f, MTTF %.2f days)\n", f.Shape, f.Scale, f.MTTF)
	fmt.Fprintln(tw, "age\tdaily failure probability")
	for i, a := range f.Ages {
		fmt.Fprintf(tw, "%d\t%.4f\n", a, f.Rates[i])
	}
	return tw.Flush()
}
