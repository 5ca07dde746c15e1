package aircraft

import "fmt"

// State is the phase of the base → reservoir → fire cycle an aircraft is in.
type State int

const (
	ToBase State = iota
	AtBase
	ToReservoir
	AtReservoir
	ToFire
	AtFire
)

var stateNames = [...]string{
	ToBase:      "to_base",
	AtBase:      "at_base",
	ToReservoir: "to_reservoir",
	AtReservoir: "at_reservoir",
	ToFire:      "to_fire",
	AtFire:      "at_fire",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// InTransit reports whether the aircraft is flying a leg in this state.
func (s State) InTransit() bool {
	return s == ToBase || s == ToReservoir || s == ToFire
}

// ParseState is the inverse of State.String.
func ParseState(name string) (State, error) {
	for i, n := range stateNames {
		if n == name {
			return State(i), nil
		}
	}
	return 0, fmt.Errorf("unknown aircraft state %q", name)
}

// Event is delivered to an aircraft's state machine.
type Event int

const (
	// Tick advances the aircraft by one simulated minute.
	Tick Event = iota
	// Extinguish orders an aircraft at the fire to drop its water now.
	Extinguish
)

// Params holds the run-scoped constants the state machine reads. Distances
// are in NM, speeds in NM/min, times in minutes, masses in kg.
type Params struct {
	LegBase         float64
	LegReservoir    float64
	TimeAtBase      float64
	TimeAtReservoir float64

	CruiseSpeed float64
	DashSpeed   float64

	EmptyWeight   float64
	FuelCapacity  float64
	WaterCapacity float64

	// TurbinePower is the installed turbine output in kWh/min used for the
	// fuel reserve thresholds.
	TurbinePower           float64
	TurbineFuelConsumption float64
}

// DivertReserve is the fuel below which an aircraft holding at the fire
// abandons the fire and returns to base on its own.
func (p *Params) DivertReserve() float64 {
	return 1.2 * p.TurbinePower * p.TurbineFuelConsumption / p.CruiseSpeed * p.LegBase
}

// ReservoirReserve is the fuel needed after a drop to make one more
// reservoir round trip and still reach base.
func (p *Params) ReservoirReserve() float64 {
	return 1.2 * p.TurbinePower * p.TurbineFuelConsumption / p.CruiseSpeed * (2*p.LegReservoir + p.LegBase)
}

// Outcome reports what happened to one aircraft while handling one event.
// The aircraft never touches fleet-level state directly; the coordinator
// folds outcomes into its counters.
type Outcome struct {
	// Power is the cruise power in kW computed during a Tick.
	Power float64
	// ArrivedAtBase is set on the tick the aircraft enters AtBase from a leg.
	ArrivedAtBase bool
	// Released is the water in kg dropped on the fire.
	Released float64
	// FuelDeficit is set when fuel is negative after the tick.
	FuelDeficit bool
}
