package sim

import (
	"fmt"
	"log/slog"

	"firefleet-sim/internal/aircraft"
	"firefleet-sim/internal/config"
	"firefleet-sim/internal/telemetry"
)

// SpawnInterval is the number of ticks between two aircraft launches.
const SpawnInterval = 5

// Policy decides when aircraft holding at the fire release their water.
type Policy int

const (
	// PolicyForced drops as soon as an aircraft reaches the fire.
	PolicyForced Policy = iota
	// PolicyMassAttack waits until enough aircraft are present to exceed
	// the extinguishing attack threshold, then all drop together.
	PolicyMassAttack
)

func (p Policy) String() string {
	switch p {
	case PolicyForced:
		return config.PolicyForced
	case PolicyMassAttack:
		return config.PolicyMassAttack
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy converts a config policy name.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case config.PolicyForced, "":
		return PolicyForced, nil
	case config.PolicyMassAttack:
		return PolicyMassAttack, nil
	}
	return 0, fmt.Errorf("unknown policy %q", name)
}

// FleetState holds the fleet-wide counters of one run.
type FleetState struct {
	BaseVisits    int
	WaterReleased float64
	// CurrentPower is the power of whichever aircraft was advanced last in
	// the most recent tick.
	CurrentPower float64
	// FuelDeficits counts aircraft-ticks that ended with negative fuel.
	FuelDeficits int
}

// Coordinator owns the fleet of one run: it spawns aircraft, runs base
// operations, advances every aircraft and coordinates water drops.
type Coordinator struct {
	params              aircraft.Params
	fleetSize           int
	baseCapacity        int
	extinguishingAttack float64
	policy              Policy

	fleet []*aircraft.Aircraft
	queue BaseQueue
	state FleetState
	drops []telemetry.DropEvent

	// deficit remembers which aircraft already had their fuel deficit logged.
	deficit map[int]bool
	log     *slog.Logger
}

// ParamsFromConfig converts a fleet configuration to state machine units.
func ParamsFromConfig(cfg *config.FleetConfig) aircraft.Params {
	return aircraft.Params{
		LegBase:                cfg.LegBaseNM,
		LegReservoir:           cfg.LegReservoirNM,
		TimeAtBase:             cfg.TimeAtBaseMin,
		TimeAtReservoir:        cfg.TimeAtReservoirMin,
		CruiseSpeed:            cfg.CruiseSpeed(),
		DashSpeed:              cfg.DashSpeed(),
		EmptyWeight:            cfg.EmptyWeightKg,
		FuelCapacity:           cfg.FuelCapacityKg,
		WaterCapacity:          cfg.WaterCapacityKg,
		TurbinePower:           cfg.TurbinePower(),
		TurbineFuelConsumption: cfg.TurbineFuelConsumption,
	}
}

// NewCoordinator creates an empty fleet for cfg. A nil logger uses
// slog.Default().
func NewCoordinator(cfg *config.FleetConfig, log *slog.Logger) (*Coordinator, error) {
	policy, err := ParsePolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{
		params:              ParamsFromConfig(cfg),
		fleetSize:           cfg.FleetSize,
		baseCapacity:        cfg.BaseCapacity,
		extinguishingAttack: cfg.ExtinguishingAttackKg,
		policy:              policy,
		deficit:             make(map[int]bool),
		log:                 log,
	}, nil
}

// Params returns the state machine constants of this fleet.
func (c *Coordinator) Params() *aircraft.Params { return &c.params }

// Policy returns the extinguish policy in use.
func (c *Coordinator) Policy() Policy { return c.policy }

// Fleet returns the live aircraft in spawn order. Callers must not mutate them.
func (c *Coordinator) Fleet() []*aircraft.Aircraft { return c.fleet }

// Queue returns the aircraft ids waiting at base in arrival order.
func (c *Coordinator) Queue() []int { return c.queue.IDs() }

// State returns the fleet counters.
func (c *Coordinator) State() FleetState { return c.state }

// Drops returns the water releases of the most recent tick.
func (c *Coordinator) Drops() []telemetry.DropEvent { return c.drops }

// Reset discards every aircraft, the base queue and the counters. The
// configuration is kept.
func (c *Coordinator) Reset() {
	c.fleet = nil
	c.queue.Reset()
	c.state = FleetState{}
	c.drops = nil
	clear(c.deficit)
}

// Tick runs one simulated minute: spawn, base service, then advance.
func (c *Coordinator) Tick(t int) {
	c.Spawn(t)
	c.ServiceBase()
	c.Advance()
}

// Spawn launches the next aircraft if the fleet is not complete and t falls
// on the spawn cadence.
func (c *Coordinator) Spawn(t int) bool {
	if len(c.fleet) >= c.fleetSize || t%SpawnInterval != 0 {
		return false
	}
	ac := aircraft.New(len(c.fleet))
	c.fleet = append(c.fleet, ac)
	c.queue.Push(ac.ID)
	c.log.Debug("aircraft spawned", "tick", t, "aircraft_id", ac.ID)
	return true
}

// ServiceBase runs one minute of turnaround service at base.
func (c *Coordinator) ServiceBase() {
	c.queue.Service(c.baseCapacity, c.fleet)
}

// Advance steps every aircraft once and applies the extinguish policy.
func (c *Coordinator) Advance() {
	c.drops = nil

	switch c.policy {
	case PolicyForced:
		var ids []int
		var water float64
		for _, ac := range c.fleet {
			c.advance(ac)
			if ac.State == aircraft.AtFire {
				out := ac.Extinguish(&c.params)
				c.state.WaterReleased += out.Released
				ids = append(ids, ac.ID)
				water += out.Released
			}
		}
		c.recordDrop(telemetry.DropForced, ids, water)

	case PolicyMassAttack:
		atFire := 0
		for _, ac := range c.fleet {
			c.advance(ac)
			if ac.State == aircraft.AtFire {
				atFire++
			}
		}
		if float64(atFire)*c.params.WaterCapacity > c.extinguishingAttack {
			c.extinguishAll()
		}
	}
}

func (c *Coordinator) extinguishAll() {
	var ids []int
	var water float64
	for _, ac := range c.fleet {
		if ac.State != aircraft.AtFire {
			continue
		}
		out := ac.Extinguish(&c.params)
		c.state.WaterReleased += out.Released
		ids = append(ids, ac.ID)
		water += out.Released
	}
	c.recordDrop(telemetry.DropMassAttack, ids, water)
}

func (c *Coordinator) advance(ac *aircraft.Aircraft) {
	out := ac.Advance(&c.params)
	c.state.CurrentPower = out.Power
	if out.ArrivedAtBase {
		c.state.BaseVisits++
		c.queue.Push(ac.ID)
	}
	if out.Released > 0 {
		c.state.WaterReleased += out.Released
		c.recordDrop(telemetry.DropDivert, []int{ac.ID}, out.Released)
	}
	if out.FuelDeficit {
		c.state.FuelDeficits++
		if !c.deficit[ac.ID] {
			c.deficit[ac.ID] = true
			c.log.Warn("fuel empty", "aircraft_id", ac.ID, "state", ac.State.String(), "fuel", ac.Fuel)
		}
	}
}

func (c *Coordinator) recordDrop(kind string, ids []int, water float64) {
	if len(ids) == 0 {
		return
	}
	c.drops = append(c.drops, telemetry.DropEvent{Kind: kind, AircraftIDs: ids, WaterKg: water})
}
