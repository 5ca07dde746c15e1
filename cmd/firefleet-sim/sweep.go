package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"firefleet-sim/internal/logging"
	"firefleet-sim/internal/sim"
	"firefleet-sim/internal/sweep"
)

var (
	sweepPlan       string
	sweepWorkers    int
	sweepOutDir     string
	sweepConfigPath string
	sweepSchemaPath string
	sweepPrintOnly  bool
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a parameter sweep",
	Long: "sweep runs one simulation per point of a built-in study or a YAML plan file. " +
		"With --out, results are also written as <plan>.dat and <plan>.jsonl.",
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := sweep.Resolve(sweepPlan)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(sweepConfigPath, sweepSchemaPath)
		if err != nil {
			return err
		}

		wopts := writerOptions{PrintOnly: sweepPrintOnly}
		var dat *sim.DatWriter
		if sweepOutDir != "" {
			if err := os.MkdirAll(sweepOutDir, 0o755); err != nil {
				return err
			}
			if !plan.Trace {
				wopts.SweepFile = filepath.Join(sweepOutDir, plan.Name+".jsonl")
			} else {
				wopts.TickFile = filepath.Join(sweepOutDir, plan.Name+".jsonl")
			}
			dat, err = sim.CreateDatFile(filepath.Join(sweepOutDir, plan.Name+".dat"))
			if err != nil {
				return err
			}
			defer dat.Close()
		}
		tw, sw, cleanup, err := newWriters(cfg, wopts)
		if err != nil {
			return err
		}
		defer cleanup()

		opts := sweep.Options{
			Workers:  sweepWorkers,
			Sweeps:   sw,
			Progress: progressLogger(cmd),
		}
		if plan.Trace {
			// Trace plans stream ticks; the per-tick table replaces the
			// summary table in the .dat file.
			opts.Ticks = tw
			if dat != nil {
				opts.Ticks = sim.NewMultiWriter([]sim.TickWriter{tw, dat}, nil)
			}
		} else if dat != nil {
			opts.Sweeps = sim.NewMultiWriter(nil, []sim.SweepWriter{sw, dat})
		}

		rows, err := sweep.Execute(cmd.Context(), cfg, plan, opts)
		if err != nil {
			return fmt.Errorf("sweep %s: %w", plan.Name, err)
		}
		logging.FromContext(cmd.Context()).Info("sweep written", "plan", plan.Name, "rows", len(rows), "out", sweepOutDir)
		return nil
	},
}

// progressLogger logs sweep progress roughly every tenth of the points.
func progressLogger(cmd *cobra.Command) func(done, total int) {
	log := logging.FromContext(cmd.Context())
	return func(done, total int) {
		step := max(total/10, 1)
		if done%step == 0 || done == total {
			log.Info("sweep progress", "done", done, "total", total)
		}
	}
}

func init() {
	sweepCmd.Flags().StringVar(&sweepPlan, "plan", "", "Built-in study name or path to a plan YAML")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 1, "Concurrent simulations (0 uses all CPUs)")
	sweepCmd.Flags().StringVar(&sweepOutDir, "out", "", "Directory for .dat and .jsonl results")
	sweepCmd.Flags().StringVar(&sweepConfigPath, "config", "", "Path to base fleet configuration YAML")
	sweepCmd.Flags().StringVar(&sweepSchemaPath, "schema", "", "Path to CUE schema file (defaults to the embedded schema)")
	sweepCmd.Flags().BoolVar(&sweepPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to DB")
	sweepCmd.MarkFlagRequired("plan")
}
