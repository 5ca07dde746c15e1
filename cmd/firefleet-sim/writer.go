package main

import (
	"os"
	"time"

	"firefleet-sim/internal/config"
	"firefleet-sim/internal/sim"
)

// rowWriter accepts both tick and sweep rows.
type rowWriter interface {
	sim.TickWriter
	sim.SweepWriter
}

type writerOptions struct {
	PrintOnly  bool
	TUI        bool
	FrameDelay time.Duration
	// TickFile and SweepFile add JSONL exports next to the base writer.
	TickFile  string
	SweepFile string
}

// newWriters sets up tick and sweep writers based on flags and env vars.
// It returns the writers and a cleanup function to close any resources.
func newWriters(cfg *config.FleetConfig, opts writerOptions) (sim.TickWriter, sim.SweepWriter, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	var base rowWriter
	if opts.TUI {
		tw := sim.NewTUIWriter(cfg, opts.FrameDelay)
		closers = append(closers, tw.Close)
		base = tw
	} else {
		w, err := baseWriter(cfg, opts.PrintOnly)
		if err != nil {
			return nil, nil, nil, err
		}
		base = w
	}
	if opts.TickFile == "" && opts.SweepFile == "" {
		return base, base, cleanup, nil
	}

	fw, err := sim.NewFileWriter(opts.TickFile, opts.SweepFile)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	closers = append(closers, fw.Close)
	mw := sim.NewMultiWriter([]sim.TickWriter{base, fw}, []sim.SweepWriter{base, fw})
	return mw, mw, cleanup, nil
}

// baseWriter chooses STDOUT or GreptimeDB based on printOnly and env vars.
func baseWriter(cfg *config.FleetConfig, printOnly bool) (rowWriter, error) {
	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	if printOnly || endpoint == "" {
		return sim.NewStdoutWriter(cfg), nil
	}
	database := os.Getenv("GREPTIMEDB_DATABASE")
	if database == "" {
		database = "public"
	}
	w, err := sim.NewGreptimeDBWriter(endpoint, database)
	if err != nil {
		return nil, err
	}
	return w, nil
}
