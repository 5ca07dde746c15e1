package sweep

import (
	"context"
	"sync"
	"testing"
	"time"

	"firefleet-sim/internal/config"
	"firefleet-sim/internal/sim"
	"firefleet-sim/internal/telemetry"
)

type collectSweeps struct {
	rows []telemetry.SweepRow
}

func (c *collectSweeps) WriteSweep(r telemetry.SweepRow) error {
	c.rows = append(c.rows, r)
	return nil
}

type collectTicks struct {
	mu   sync.Mutex
	rows []telemetry.TickRow
}

func (c *collectTicks) WriteTick(r telemetry.TickRow) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = append(c.rows, r)
	return nil
}

func fixedClock() time.Time { return time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC) }

func smallFleetPlan() *Plan {
	return &Plan{
		Name:   "small-fleet",
		Policy: config.PolicyForced,
		Axes:   []Axis{{Parameter: ParamFleetSize, Values: []float64{1, 2, 3, 4}}},
	}
}

func TestExecuteOrderedRows(t *testing.T) {
	out := &collectSweeps{}
	rows, err := Execute(context.Background(), config.Default(), smallFleetPlan(), Options{
		Workers: 4,
		Sweeps:  out,
		Now:     fixedClock,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(rows) != 4 || len(out.rows) != 4 {
		t.Fatalf("expected 4 rows, got %d/%d", len(rows), len(out.rows))
	}
	for i, r := range out.rows {
		if r.FleetSize != i+1 {
			t.Fatalf("row %d out of order: fleet size %d", i, r.FleetSize)
		}
		if v, ok := r.Value(ParamFleetSize); !ok || int(v) != i+1 {
			t.Fatalf("row %d has wrong point %v", i, r.Point)
		}
		if r.Plan != "small-fleet" || r.RunID == "" || !r.Timestamp.Equal(fixedClock()) {
			t.Fatalf("row %d missing identity: %+v", i, r)
		}
	}
	if out.rows[3].BaseVisits <= out.rows[0].BaseVisits {
		t.Fatalf("four aircraft should visit base more often than one: %d vs %d",
			out.rows[3].BaseVisits, out.rows[0].BaseVisits)
	}
}

func TestExecuteMatchesSerialRuns(t *testing.T) {
	plan := smallFleetPlan()
	parallel, err := Execute(context.Background(), config.Default(), plan, Options{Workers: 3})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for i, pt := range mustPoints(t, plan) {
		cfg, err := plan.Config(config.Default(), pt)
		if err != nil {
			t.Fatalf("Config: %v", err)
		}
		run, err := sim.NewRun(cfg)
		if err != nil {
			t.Fatalf("NewRun: %v", err)
		}
		s := run.Execute(context.Background())
		if s.BaseVisits != parallel[i].BaseVisits || s.WaterReleased != parallel[i].WaterReleased {
			t.Fatalf("point %d differs: serial %+v parallel %+v", i, s, parallel[i])
		}
	}
}

func TestExecuteTrace(t *testing.T) {
	plan := BuiltIn()["aircraft-time"]
	ticks := &collectTicks{}
	out := &collectSweeps{}
	rows, err := Execute(context.Background(), config.Default(), &plan, Options{Workers: 8, Ticks: ticks, Sweeps: out})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(rows) != 1 || len(out.rows) != 1 {
		t.Fatalf("expected a single summary row, got %d", len(rows))
	}
	if len(ticks.rows) != sim.TicksPerDay {
		t.Fatalf("expected %d traced ticks, got %d", sim.TicksPerDay, len(ticks.rows))
	}
	last := ticks.rows[len(ticks.rows)-1]
	if last.WaterReleased != rows[0].WaterReleased || last.BaseVisits != rows[0].BaseVisits {
		t.Fatalf("trace and summary disagree: %+v vs %+v", last, rows[0])
	}
	if rows[0].DashSpeedKt != 166 {
		t.Fatalf("trace should fly 166 kt on every leg, got %v", rows[0].DashSpeedKt)
	}
}

func TestExecuteProgress(t *testing.T) {
	var calls []int
	_, err := Execute(context.Background(), config.Default(), smallFleetPlan(), Options{
		Workers:  2,
		Progress: func(done, total int) { calls = append(calls, done) },
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(calls) != 4 || calls[3] != 4 {
		t.Fatalf("unexpected progress calls %v", calls)
	}
}

func TestExecuteRejectsInvalidPoint(t *testing.T) {
	plan := &Plan{Name: "bad", Axes: []Axis{{Parameter: ParamFleetSize, Values: []float64{0}}}}
	if _, err := Execute(context.Background(), config.Default(), plan, Options{}); err == nil {
		t.Fatalf("expected validation error for fleet size 0")
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Execute(ctx, config.Default(), smallFleetPlan(), Options{Workers: 1}); err == nil {
		t.Fatalf("expected context error")
	}
}

func mustPoints(t *testing.T, p *Plan) [][]telemetry.AxisValue {
	t.Helper()
	pts, err := p.Points()
	if err != nil {
		t.Fatalf("Points: %v", err)
	}
	return pts
}
