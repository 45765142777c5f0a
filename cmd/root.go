package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/gridfeed/config"
	coremon "github.com/kilianp07/gridfeed/core/monitoring"
	"github.com/kilianp07/gridfeed/infra/logger"
	"github.com/kilianp07/gridfeed/infra/monitoring"
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:               "gridfeed",
	Short:             "Grid electricity data collectors",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
}

// Execute runs the CLI until completion or until interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Configure(logger.Options{
		Level:      loaded.Logging.Level,
		File:       loaded.Logging.File,
		MaxSizeMB:  loaded.Logging.MaxSizeMB,
		MaxBackups: loaded.Logging.MaxBackups,
		MaxAgeDays: loaded.Logging.MaxAgeDays,
	}); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	mon, err := monitoring.NewSentryMonitor(loaded.Sentry)
	if err != nil {
		return fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)
	cfg = loaded
	return nil
}
