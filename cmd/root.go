package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aguepe1/Fleet-Simulator/app"
	"github.com/aguepe1/Fleet-Simulator/config"
	"github.com/aguepe1/Fleet-Simulator/infra/logger"
)

var (
	cfgPath string
	envFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "fleetsim",
	Short: "Monte Carlo sizing of reserve fleets",
	Long: `fleetsim estimates how many standby units a fleet needs so that the
hourly demand is covered with a target service level, by simulating unit
failures, repairs and preventive maintenance day by day.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json); defaults only when empty")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the configuration")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func setup(cmd *cobra.Command, _ []string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	loaded, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// Logs go to stderr so stdout carries the transcript and exports.
	logger.SetOutput(os.Stderr)
	if err := logger.Configure(loaded.Logging); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// newService builds the service and returns a function releasing it.
func newService(c *config.Config) (*app.Service, func(), error) {
	svc, err := app.New(c)
	if err != nil {
		return nil, nil, err
	}
	return svc, func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}, nil
}
