package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"newsarchive/internal/config"
	"newsarchive/internal/logger"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "newsarchive",
	Short: "Daily news archive indexer and site data generator",
	Long: `newsarchive maintains a date-partitioned JSON news archive: it fills
gaps against the upstream source, rebuilds the browse/search aggregates, and
emits the JSON views the static site is generated from.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		output := "stdout"
		if cfg.LogFile != "" {
			output = cfg.LogFile
		}
		return logger.Init(logger.Config{
			Level:  cfg.LogLevel,
			Output: output,
			Pretty: cfg.Env == "development",
		})
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(backfillCmd)
	rootCmd.AddCommand(publishCmd)
}

// signalContext returns a context cancelled on SIGINT/SIGTERM. The crawler
// honors cancellation at date boundaries, so one Ctrl-C finishes the current
// date and stops cleanly.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
