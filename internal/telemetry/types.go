// Record types emitted by simulation runs and sweeps
package telemetry

import (
	"os"
	"time"
)

// AircraftRow is the per-tick reading of one aircraft.
type AircraftRow struct {
	AircraftID int     `json:"aircraft_id"` // TAG
	State      string  `json:"state"`       // FIELD
	PositionNM float64 `json:"position_nm"` // FIELD
	Fuel       float64 `json:"fuel"`        // FIELD
	Water      float64 `json:"water"`       // FIELD
	Power      float64 `json:"power"`       // FIELD
}

// Drop kinds.
const (
	DropForced     = "forced"
	DropMassAttack = "mass_attack"
	DropDivert     = "divert"
)

// DropEvent records water released on the fire during one tick.
type DropEvent struct {
	Kind        string  `json:"kind"`
	AircraftIDs []int   `json:"aircraft_ids"`
	WaterKg     float64 `json:"water_kg"`
}

// TickRow is the fleet-wide record of one simulated minute.
type TickRow struct {
	RunID         string        `json:"run_id"`         // TAG
	Tick          int           `json:"tick"`           // FIELD
	CurrentPower  float64       `json:"power"`          // FIELD
	BaseVisits    int           `json:"base_visits"`    // FIELD
	WaterReleased float64       `json:"water_released"` // FIELD
	FuelDeficits  int           `json:"fuel_deficits"`  // FIELD
	QueueLength   int           `json:"queue_length"`   // FIELD
	Aircraft      []AircraftRow `json:"aircraft"`
	Drops         []DropEvent   `json:"drops,omitempty"`
	Timestamp     time.Time     `json:"ts"` // TIME INDEX
}

// TickTableName holds the table name used when writing tick rows to
// GreptimeDB. It defaults to "firefleet_ticks" but can be overridden via
// the FIREFLEET_TICK_TABLE environment variable.
var TickTableName = func() string {
	if env := os.Getenv("FIREFLEET_TICK_TABLE"); env != "" {
		return env
	}
	return "firefleet_ticks"
}()

func (TickRow) TableName() string {
	return TickTableName
}

// Lead returns the reading of the first spawned aircraft, which is what the
// single-aircraft trace follows.
func (r TickRow) Lead() (AircraftRow, bool) {
	if len(r.Aircraft) == 0 {
		return AircraftRow{}, false
	}
	return r.Aircraft[0], true
}
