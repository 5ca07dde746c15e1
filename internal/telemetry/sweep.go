package telemetry

import (
	"os"
	"time"
)

// AxisValue is the value one sweep parameter took for a sweep point.
type AxisValue struct {
	Parameter string  `json:"parameter"`
	Value     float64 `json:"value"`
}

// SweepRow captures the aggregate outcome of one run inside a sweep.
type SweepRow struct {
	Plan          string      `json:"plan"`   // TAG
	RunID         string      `json:"run_id"` // TAG
	Point         []AxisValue `json:"point"`
	FuelCapacity  float64     `json:"fuel_capacity"`
	WaterCapacity float64     `json:"water_capacity"`
	DashSpeedKt   float64     `json:"dash_speed_kt"`
	FleetSize     int         `json:"fleet_size"`
	BaseCapacity  int         `json:"base_capacity"`
	Policy        string      `json:"policy"`
	BaseVisits    int         `json:"base_visits"`
	WaterReleased float64     `json:"water_released"`
	FuelDeficits  int         `json:"fuel_deficits"`
	Timestamp     time.Time   `json:"ts"`
}

// SweepTableName is the GreptimeDB table for sweep rows, overridable via
// FIREFLEET_SWEEP_TABLE.
var SweepTableName = func() string {
	if env := os.Getenv("FIREFLEET_SWEEP_TABLE"); env != "" {
		return env
	}
	return "firefleet_sweeps"
}()

func (SweepRow) TableName() string {
	return SweepTableName
}

// Value returns the value of parameter at this sweep point.
func (r SweepRow) Value(parameter string) (float64, bool) {
	for _, av := range r.Point {
		if av.Parameter == parameter {
			return av.Value, true
		}
	}
	return 0, false
}
