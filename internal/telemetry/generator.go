package telemetry

import (
	"time"

	"firefleet-sim/internal/aircraft"
)

// Generator turns fleet state into tick rows for one run.
type Generator struct {
	RunID string
	// Start anchors simulated minutes to wall-clock timestamps.
	Start time.Time
}

// NewGenerator creates a generator for a run starting at start.
func NewGenerator(runID string, start time.Time) *Generator {
	return &Generator{RunID: runID, Start: start.UTC()}
}

// Timestamp maps a tick to its simulated time.
func (g *Generator) Timestamp(tick int) time.Time {
	return g.Start.Add(time.Duration(tick) * time.Minute)
}

// GenerateTick reads every aircraft and returns a TickRow without the
// fleet counters; the caller fills those in.
func (g *Generator) GenerateTick(tick int, fleet []*aircraft.Aircraft, p *aircraft.Params) TickRow {
	rows := make([]AircraftRow, 0, len(fleet))
	for _, ac := range fleet {
		rows = append(rows, AircraftRow{
			AircraftID: ac.ID,
			State:      ac.State.String(),
			PositionNM: ac.Position(p),
			Fuel:       ac.Fuel,
			Water:      ac.Water,
			Power:      ac.Power,
		})
	}
	return TickRow{
		RunID:     g.RunID,
		Tick:      tick,
		Aircraft:  rows,
		Timestamp: g.Timestamp(tick),
	}
}
