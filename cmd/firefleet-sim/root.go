package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"firefleet-sim/internal/config"
	"firefleet-sim/internal/logging"
)

var (
	logLevel string
	logFile  string
)

var rootCmd = &cobra.Command{
	Use:   "firefleet-sim",
	Short: "Firefighting fleet simulation toolkit",
	Long:  "firefleet-sim simulates a fleet of firefighting aircraft shuttling between base, reservoir and fire, runs parameter sweeps over it and replays recorded runs.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log := logging.NewWithOptions(logging.Options{Level: logLevel, File: logFile})
		cmd.SetContext(logging.NewContext(cmd.Context(), log))
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write JSON logs to a rotated file instead of STDERR")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(presetsCmd)
}

// loadConfig reads a fleet config file, or returns the default config when
// path is empty.
func loadConfig(path, schema string) (*config.FleetConfig, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path, schema)
}
