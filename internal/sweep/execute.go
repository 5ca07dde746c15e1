// Sweep driver running one simulation per plan point
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"firefleet-sim/internal/config"
	"firefleet-sim/internal/logging"
	"firefleet-sim/internal/sim"
	"firefleet-sim/internal/telemetry"
)

// Options configures Execute.
type Options struct {
	// Workers bounds the number of concurrent runs. Zero uses GOMAXPROCS.
	// Trace plans always run on a single worker.
	Workers int
	// Sweeps receives the summary rows in point order once all runs finished.
	Sweeps sim.SweepWriter
	// Ticks receives every tick of trace plans.
	Ticks sim.TickWriter
	// Progress, if set, is called after each finished point. Calls are
	// serialized.
	Progress func(done, total int)
	Now      func() time.Time
}

// Execute runs every point of plan on top of base and returns the summary
// rows in point order.
func Execute(ctx context.Context, base *config.FleetConfig, plan *Plan, opts Options) ([]telemetry.SweepRow, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	points, err := plan.Points()
	if err != nil {
		return nil, err
	}
	cfgs := make([]*config.FleetConfig, len(points))
	for i, pt := range points {
		cfg, err := plan.Config(base, pt)
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("point %d %v: %w", i, pt, err)
		}
		cfgs[i] = cfg
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if plan.Trace {
		workers = 1
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := logging.FromContext(ctx)
	log.Info("sweep started", "plan", plan.Name, "points", len(points), "workers", workers)

	rows := make([]telemetry.SweepRow, len(points))
	var mu sync.Mutex
	done := 0
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range points {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row, err := runPoint(gctx, plan, points[i], cfgs[i], opts, now, log)
			if err != nil {
				return err
			}
			rows[i] = row
			if opts.Progress != nil {
				mu.Lock()
				done++
				opts.Progress(done, len(points))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.Sweeps != nil {
		if err := sim.WriteSweeps(opts.Sweeps, rows); err != nil {
			return rows, fmt.Errorf("write sweep rows: %w", err)
		}
	}
	log.Info("sweep finished", "plan", plan.Name, "points", len(points))
	return rows, nil
}

func runPoint(ctx context.Context, plan *Plan, point []telemetry.AxisValue, cfg *config.FleetConfig,
	opts Options, now func() time.Time, log *slog.Logger) (telemetry.SweepRow, error) {
	runOpts := []sim.Option{sim.WithClock(now), sim.WithLogger(log)}
	if plan.Trace && opts.Ticks != nil {
		runOpts = append(runOpts, sim.WithTickWriter(opts.Ticks))
	}
	run, err := sim.NewRun(cfg, runOpts...)
	if err != nil {
		return telemetry.SweepRow{}, err
	}
	s := run.Execute(ctx)
	log.Debug("sweep point finished", "plan", plan.Name, "point", point, "base_visits", s.BaseVisits,
		"water_released", s.WaterReleased)
	return telemetry.SweepRow{
		Plan:          plan.Name,
		RunID:         s.RunID,
		Point:         point,
		FuelCapacity:  cfg.FuelCapacityKg,
		WaterCapacity: cfg.WaterCapacityKg,
		DashSpeedKt:   cfg.DashSpeedKt,
		FleetSize:     cfg.FleetSize,
		BaseCapacity:  cfg.BaseCapacity,
		Policy:        cfg.Policy,
		BaseVisits:    s.BaseVisits,
		WaterReleased: s.WaterReleased,
		FuelDeficits:  s.FuelDeficits,
		Timestamp:     now().UTC(),
	}, nil
}
