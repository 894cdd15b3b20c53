package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aguepe1/Fleet-Simulator/core/model"
	"github.com/aguepe1/Fleet-Simulator/core/runstore"
)

var runsLsOpts struct {
	state string
	limit int
	since time.Duration
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Stored search runs",
}

var runsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored search runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, release, err := newService(cfg)
		if err != nil {
			return err
		}
		defer release()
		q := runstore.RunQuery{State: model.SearchState(runsLsOpts.state), Limit: runsLsOpts.limit}
		if runsLsOpts.since > 0 {
			q.Start = time.Now().Add(-runsLsOpts.since)
		}
		recs, err := svc.Runs(cmd.Context(), q)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tFINISHED\tSTATE\tMINIMUM\tPERFECT\tTRIALS")
		for _, r := range recs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n", r.ID, r.Timestamp.Format(time.RFC3339),
				r.Result.State, r.Result.MinimumReserve, r.Result.PerfectReserve, len(r.Result.History))
		}
		return tw.Flush()
	},
}

func init() {
	runsLsCmd.Flags().StringVar(&runsLsOpts.state, "state", "", "only runs in this terminal state (done, cancelled, exhausted)")
	runsLsCmd.Flags().IntVar(&runsLsOpts.limit, "limit", 0, "keep only the most recent runs")
	runsLsCmd.Flags().DurationVar(&runsLsOpts.since, "since", 0, "only runs finished within this duration")
	runsCmd.AddCommand(runsLsCmd)
	rootCmd.AddCommand(runsCmd)
}
