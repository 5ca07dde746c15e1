package main

import (
	"time"

	"github.com/spf13/cobra"

	"firefleet-sim/internal/config"
	"firefleet-sim/internal/logging"
	"firefleet-sim/internal/sim"
)

var (
	simPrintOnly    bool
	simConfigPath   string
	simSchemaPath   string
	simPreset       string
	simPolicy       string
	simFleetSize    int
	simBaseCapacity int
	simTUI          bool
	simFrameDelay   time.Duration
	simOut          string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate one day of fleet operations",
	Long:  "simulate runs a single 24h fleet simulation and streams every tick to STDOUT, GreptimeDB, a JSONL log or the TUI.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}
		if err := applySimulateFlags(cmd, cfg); err != nil {
			return err
		}

		writer, _, cleanup, err := newWriters(cfg, writerOptions{
			PrintOnly:  simPrintOnly,
			TUI:        simTUI,
			FrameDelay: simFrameDelay,
			TickFile:   simOut,
		})
		if err != nil {
			return err
		}
		defer cleanup()

		log := logging.FromContext(cmd.Context())
		run, err := sim.NewRun(cfg, sim.WithTickWriter(writer), sim.WithLogger(log))
		if err != nil {
			return err
		}
		s := run.Execute(cmd.Context())
		log.Info("simulation finished",
			"run_id", s.RunID,
			"ticks", s.Ticks,
			"base_visits", s.BaseVisits,
			"water_released", s.WaterReleased,
			"fuel_deficits", s.FuelDeficits,
		)
		return nil
	},
}

// applySimulateFlags layers explicitly set flags over the loaded config.
func applySimulateFlags(cmd *cobra.Command, cfg *config.FleetConfig) error {
	flags := cmd.Flags()
	if flags.Changed("preset") {
		if err := cfg.ApplyPreset(simPreset); err != nil {
			return err
		}
	}
	if flags.Changed("policy") {
		cfg.Policy = simPolicy
	}
	if flags.Changed("fleet-size") {
		cfg.FleetSize = simFleetSize
	}
	if flags.Changed("base-capacity") {
		cfg.BaseCapacity = simBaseCapacity
	}
	return cfg.Validate()
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print ticks to STDOUT instead of writing to DB")
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "", "Path to fleet configuration YAML (defaults to the example fleet)")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "", "Path to CUE schema file (defaults to the embedded schema)")
	simulateCmd.Flags().StringVar(&simPreset, "preset", "", "Region preset overriding the leg lengths")
	simulateCmd.Flags().StringVar(&simPolicy, "policy", config.PolicyForced, "Extinguishing policy (forced, mass-attack)")
	simulateCmd.Flags().IntVar(&simFleetSize, "fleet-size", 1, "Number of aircraft")
	simulateCmd.Flags().IntVar(&simBaseCapacity, "base-capacity", 1, "Aircraft serviced at the base at once")
	simulateCmd.Flags().BoolVar(&simTUI, "tui", false, "Render the run in a terminal UI")
	simulateCmd.Flags().DurationVar(&simFrameDelay, "frame-delay", 50*time.Millisecond, "Pause between ticks in the terminal UI")
	simulateCmd.Flags().StringVar(&simOut, "out", "", "Path to export ticks (JSONL, .zst for zstd)")
}
