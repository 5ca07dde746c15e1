package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"firefleet-sim/internal/sim"
)

var (
	replayInput      string
	replaySpeed      float64
	replayPrintOnly  bool
	replayTUI        bool
	replayConfigPath string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded tick log",
	Long:  "replay feeds tick rows from a JSONL log (optionally zstd compressed) back into GreptimeDB, STDOUT or the TUI.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		cfg, err := loadConfig(replayConfigPath, "")
		if err != nil {
			return err
		}
		writer, _, cleanup, err := newWriters(cfg, writerOptions{PrintOnly: replayPrintOnly, TUI: replayTUI})
		if err != nil {
			return err
		}
		defer cleanup()
		return sim.ReplayLogFile(replayInput, writer, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to tick log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 60.0, "Playback speed multiplier (0 replays without pauses)")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print ticks to STDOUT instead of writing to DB")
	replayCmd.Flags().BoolVar(&replayTUI, "tui", false, "Render the replay in a terminal UI")
	replayCmd.Flags().StringVar(&replayConfigPath, "config", "", "Fleet configuration shown in the TUI header")
	replayCmd.MarkFlagRequired("input")
}
