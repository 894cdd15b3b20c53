package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var trialReserve int

var trialCmd = &cobra.Command{
	Use:   "trial",
	Short: "Estimate the service level of one reserve size",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, release, err := newService(cfg)
		if err != nil {
			return err
		}
		defer release()
		res, err := svc.Trial(ctx, trialReserve)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "reserve=%d fleet=%d service_level=%.4f%% shortfall_hours=%d/%d duration=%s\n",
			res.Reserve, cfg.Simulation.FleetSize(res.Reserve), res.ServiceLevel*100,
			res.ShortfallHours, res.TotalHours, res.Duration.Round(time.Millisecond))
		return nil
	},
}

func init() {
	trialCmd.Flags().IntVarP(&trialReserve, "reserve", "r", 0, "number of reserve units")
	rootCmd.AddCommand(trialCmd)
}
