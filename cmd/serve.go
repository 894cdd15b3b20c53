package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aguepe1/Fleet-Simulator/infra/logger"
	"github.com/aguepe1/Fleet-Simulator/infra/metrics"
)

var serveWithSearch bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve metrics, stored runs and live progress over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, release, err := newService(cfg)
		if err != nil {
			return err
		}
		defer release()
		log := logger.New("serve")

		if serveWithSearch {
			go func() {
				rec, err := svc.Search(ctx, nil)
				if err != nil {
					log.Errorf("search: %v", err)
					return
				}
				log.Infof("search %s finished in state %s", rec.ID, rec.Result.State)
			}()
		}
		return metrics.ListenAndServe(ctx, cfg.Server.Addr, newMux(svc.Store(), svc.Progress(), cfg.Server))
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveWithSearch, "search", false, "run a search in the background while serving")
	rootCmd.AddCommand(serveCmd)
}
