// Simulation run driving the fleet over one simulated day
package sim

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"firefleet-sim/internal/config"
	"firefleet-sim/internal/logging"
	"firefleet-sim/internal/telemetry"
)

// TicksPerDay is the fixed horizon of one run in one-minute ticks.
const TicksPerDay = 24 * 60

// Summary is the per-run aggregate read by sweep drivers.
type Summary struct {
	RunID         string
	Ticks         int
	BaseVisits    int
	WaterReleased float64
	FuelDeficits  int
}

// Option customizes a Run.
type Option func(*Run)

// WithTickWriter records every tick of Execute to w.
func WithTickWriter(w TickWriter) Option {
	return func(r *Run) { r.writer = w }
}

// WithClock sets the wall clock used to anchor simulated timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Run) { r.now = now }
}

// WithLogger sets the logger; otherwise the context logger of Execute or
// slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(r *Run) { r.log = l }
}

// Run is one simulation run: an immutable configuration, the fleet it
// drives and the tick counter.
type Run struct {
	id     string
	cfg    *config.FleetConfig
	coord  *Coordinator
	gen    *telemetry.Generator
	tick   int
	writer TickWriter
	log    *slog.Logger
	now    func() time.Time
}

// NewRun validates cfg and prepares an empty fleet. The configuration is
// copied, so later changes by the caller do not leak into the run.
func NewRun(cfg *config.FleetConfig, opts ...Option) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Run{cfg: cfg.Clone(), now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	coord, err := NewCoordinator(r.cfg, r.log)
	if err != nil {
		return nil, err
	}
	r.coord = coord
	r.Reset()
	return r, nil
}

// ID returns the identifier of the current run.
func (r *Run) ID() string { return r.id }

// Config returns a copy of the run configuration.
func (r *Run) Config() *config.FleetConfig { return r.cfg.Clone() }

// Coordinator exposes the fleet for read access.
func (r *Run) Coordinator() *Coordinator { return r.coord }

// Tick returns the index of the next tick to be simulated.
func (r *Run) Tick() int { return r.tick }

// Done reports whether the horizon has been reached.
func (r *Run) Done() bool { return r.tick >= TicksPerDay }

// Reset clears the fleet, base queue and counters and starts a new run
// with the same configuration.
func (r *Run) Reset() {
	r.coord.Reset()
	r.tick = 0
	r.id = uuid.New().String()
	r.gen = telemetry.NewGenerator(r.id, r.now())
}

// Step simulates one tick.
func (r *Run) Step() {
	r.coord.Tick(r.tick)
	r.tick++
}

// Snapshot returns the state after the most recent tick.
func (r *Run) Snapshot() telemetry.TickRow {
	st := r.coord.State()
	row := r.gen.GenerateTick(max(r.tick-1, 0), r.coord.Fleet(), r.coord.Params())
	row.CurrentPower = st.CurrentPower
	row.BaseVisits = st.BaseVisits
	row.WaterReleased = st.WaterReleased
	row.FuelDeficits = st.FuelDeficits
	row.QueueLength = len(r.coord.Queue())
	row.Drops = r.coord.Drops()
	return row
}

// Summary returns the counters of the run so far.
func (r *Run) Summary() Summary {
	st := r.coord.State()
	return Summary{
		RunID:         r.id,
		Ticks:         r.tick,
		BaseVisits:    st.BaseVisits,
		WaterReleased: st.WaterReleased,
		FuelDeficits:  st.FuelDeficits,
	}
}

// Execute resets the run and simulates the full horizon. Write failures
// are logged and do not stop the run.
func (r *Run) Execute(ctx context.Context) Summary {
	log := r.log
	if log == nil {
		log = logging.FromContext(ctx)
		r.coord.log = log
	}
	r.Reset()
	log.Debug("run started", "run_id", r.id, "fleet_size", r.cfg.FleetSize,
		"base_capacity", r.cfg.BaseCapacity, "policy", r.cfg.Policy)

	for !r.Done() {
		r.Step()
		if r.writer == nil {
			continue
		}
		row := r.Snapshot()
		if err := r.writer.WriteTick(row); err != nil {
			log.Error("tick write failed", "run_id", r.id, "tick", row.Tick, "err", err)
		}
	}

	s := r.Summary()
	if s.FuelDeficits > 0 {
		log.Warn("run finished with fuel deficits", "run_id", r.id, "fuel_deficits", s.FuelDeficits)
	}
	log.Debug("run finished", "run_id", r.id, "base_visits", s.BaseVisits, "water_released", s.WaterReleased)
	return s
}
