// Per-aircraft state machine for the base/reservoir/fire cycle
package aircraft

import "firefleet-sim/internal/physics"

// Aircraft holds runtime state for one simulated firefighting aircraft.
type Aircraft struct {
	ID int

	State State
	// LastState is the state occupied before the current one. It only
	// selects which cruise speed applies to the current leg.
	LastState State

	TimeToTransition float64 // [min], dwell states only
	DistToTarget     float64 // [NM], transit states only

	Fuel  float64 // [kg]
	Water float64 // [kg]

	// Power is the cruise power computed on the most recent tick.
	Power float64 // [kW]
}

// New returns a freshly spawned aircraft waiting at base with empty tanks.
func New(id int) *Aircraft {
	return &Aircraft{ID: id, State: AtBase, LastState: AtBase}
}

// Speed returns the leg speed in NM/min for the aircraft's current state.
// The dash speed only applies on the two legs bordering the
// reservoir-fire shuttle.
func (a *Aircraft) Speed(p *Params) float64 {
	if (a.State == ToReservoir && a.LastState == AtFire) ||
		(a.State == ToFire && a.LastState == AtReservoir) {
		return p.DashSpeed
	}
	return p.CruiseSpeed
}

// Mass returns the current all-up mass in kg.
func (a *Aircraft) Mass(p *Params) float64 {
	return p.EmptyWeight + a.Water + a.Fuel
}

// Advance moves the aircraft forward one tick.
func (a *Aircraft) Advance(p *Params) Outcome {
	return a.Handle(Tick, p)
}

// Extinguish drops the water load if the aircraft is at the fire.
func (a *Aircraft) Extinguish(p *Params) Outcome {
	return a.Handle(Extinguish, p)
}

// Handle is the aircraft's transition function.
func (a *Aircraft) Handle(ev Event, p *Params) Outcome {
	switch ev {
	case Tick:
		return a.tick(p)
	case Extinguish:
		return a.extinguish(p)
	}
	return Outcome{}
}

func (a *Aircraft) tick(p *Params) Outcome {
	speed := a.Speed(p)
	power := physics.RequiredPower(speed*60, a.Mass(p))
	burn := physics.FuelBurnRate(power, p.TurbineFuelConsumption)
	a.Power = power
	out := Outcome{Power: power}

	switch a.State {
	case ToBase:
		a.fly(speed, burn)
		if a.DistToTarget <= 0 {
			a.enter(AtBase)
			a.TimeToTransition = p.TimeAtBase
			out.ArrivedAtBase = true
		}

	case AtBase:
		// The base queue owns this timer.
		if a.TimeToTransition <= 0 {
			a.Fuel = p.FuelCapacity
			a.enter(ToReservoir)
			a.DistToTarget = p.LegReservoir + p.LegBase
		}

	case ToReservoir:
		a.fly(speed, burn)
		if a.DistToTarget <= 0 {
			a.enter(AtReservoir)
			a.TimeToTransition = p.TimeAtReservoir
		}

	case AtReservoir:
		a.TimeToTransition--
		if a.TimeToTransition <= 0 {
			a.Water = p.WaterCapacity
			a.enter(ToFire)
			a.DistToTarget = p.LegReservoir
		}

	case ToFire:
		a.fly(speed, burn)
		if a.DistToTarget <= 0 {
			a.enter(AtFire)
		}

	case AtFire:
		if a.Fuel < p.DivertReserve() {
			out.Released = a.dropWater()
			a.enter(ToBase)
			a.DistToTarget = p.LegBase
		}
	}

	out.FuelDeficit = a.Fuel < 0
	return out
}

func (a *Aircraft) extinguish(p *Params) Outcome {
	if a.State != AtFire {
		return Outcome{}
	}
	out := Outcome{Released: a.dropWater()}
	if a.Fuel < p.ReservoirReserve() {
		a.enter(ToBase)
		a.DistToTarget = p.LegBase
	} else {
		a.enter(ToReservoir)
		a.DistToTarget = p.LegReservoir
	}
	return out
}

func (a *Aircraft) fly(speed, burn float64) {
	a.DistToTarget -= speed
	a.Fuel -= burn
}

func (a *Aircraft) enter(s State) {
	a.LastState = a.State
	a.State = s
}

func (a *Aircraft) dropWater() float64 {
	w := a.Water
	a.Water = 0
	return w
}

// Position returns the distance in NM along the base → fire → reservoir
// axis. It is continuous across every transition.
func (a *Aircraft) Position(p *Params) float64 {
	switch a.State {
	case ToBase:
		return a.DistToTarget
	case AtBase:
		return 0
	case ToReservoir:
		return p.LegReservoir + p.LegBase - a.DistToTarget
	case AtReservoir:
		return p.LegReservoir + p.LegBase
	case ToFire:
		return p.LegBase + a.DistToTarget
	case AtFire:
		return p.LegBase
	}
	return 0
}
