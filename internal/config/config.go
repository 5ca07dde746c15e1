// YAML config loader with CUE validation integration
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownPreset is returned when a config names a region preset that
// does not exist.
var ErrUnknownPreset = errors.New("unknown preset")

// Extinguish policies.
const (
	PolicyForced     = "forced"
	PolicyMassAttack = "mass-attack"
)

// FleetConfig is the run-scoped configuration of one simulation run. It is
// set before a run starts and never changes while the run is executing.
type FleetConfig struct {
	Preset string `yaml:"preset"`

	LegBaseNM      float64 `yaml:"leg_base_nm"`
	LegReservoirNM float64 `yaml:"leg_reservoir_nm"`

	TimeAtBaseMin      float64 `yaml:"time_at_base_min"`
	TimeAtReservoirMin float64 `yaml:"time_at_reservoir_min"`

	CruiseSpeedKt float64 `yaml:"cruise_speed_kt"`
	DashSpeedKt   float64 `yaml:"dash_speed_kt"`

	CruisePowerKW          float64 `yaml:"cruise_power_kw"`
	TurbineFuelConsumption float64 `yaml:"turbine_fuel_consumption"`

	MTOWKg          float64 `yaml:"mtow_kg"`
	EmptyWeightKg   float64 `yaml:"empty_weight_kg"`
	FuelCapacityKg  float64 `yaml:"fuel_capacity_kg"`
	WaterCapacityKg float64 `yaml:"water_capacity_kg"`

	ExtinguishingAttackKg float64 `yaml:"extinguishing_attack_kg"`
	FleetSize             int     `yaml:"fleet_size"`
	BaseCapacity          int     `yaml:"base_capacity"`
	Policy                string  `yaml:"policy"`
}

// Region holds the leg geometry of one operating area.
type Region struct {
	Name           string
	LegBaseNM      float64
	LegReservoirNM float64
}

var presets = map[string]Region{
	"example":  {Name: "example", LegBaseNM: 75.0, LegReservoirNM: 15.0},
	"portugal": {Name: "portugal2017", LegBaseNM: 49.0, LegReservoirNM: 4.9},
	"turkey":   {Name: "turkey2021", LegBaseNM: 54.0, LegReservoirNM: 10.9},
}

// Preset returns the leg geometry registered under name.
func Preset(name string) (Region, error) {
	r, ok := presets[strings.ToLower(name)]
	if !ok {
		return Region{}, fmt.Errorf("%w %q", ErrUnknownPreset, name)
	}
	return r, nil
}

// PresetNames lists the known presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Default returns the reference aircraft flying the example geometry with
// 700 kg of fuel and the rest of the payload as water.
func Default() *FleetConfig {
	const mtow = 5670.0
	ew := 0.52 * mtow
	cfg := &FleetConfig{
		Preset:                 "example",
		LegBaseNM:              75.0,
		LegReservoirNM:         15.0,
		TimeAtBaseMin:          10.0,
		TimeAtReservoirMin:     2.0,
		CruiseSpeedKt:          166.0,
		DashSpeedKt:            151.0,
		CruisePowerKW:          700,
		TurbineFuelConsumption: 0.27,
		MTOWKg:                 mtow,
		EmptyWeightKg:          ew,
		ExtinguishingAttackKg:  11000,
		FleetSize:              1,
		BaseCapacity:           1,
		Policy:                 PolicyForced,
	}
	cfg.SetFuelCapacity(700)
	return cfg
}

// Clone returns an independent copy of the configuration.
func (c *FleetConfig) Clone() *FleetConfig {
	cp := *c
	return &cp
}

// Payload is the useful load shared between fuel and water.
func (c *FleetConfig) Payload() float64 {
	return c.MTOWKg - c.EmptyWeightKg
}

// SetFuelCapacity sets the fuel tank size and gives the remaining payload
// to the water tank.
func (c *FleetConfig) SetFuelCapacity(fuel float64) {
	c.FuelCapacityKg = fuel
	c.WaterCapacityKg = c.Payload() - fuel
}

// SetFuelPercentage splits the payload so that pct percent is fuel.
func (c *FleetConfig) SetFuelPercentage(pct float64) {
	c.SetFuelCapacity(c.Payload() * pct / 100)
}

// CruiseSpeed returns the nominal leg speed in NM/min.
func (c *FleetConfig) CruiseSpeed() float64 { return c.CruiseSpeedKt / 60 }

// DashSpeed returns the reservoir shuttle speed in NM/min.
func (c *FleetConfig) DashSpeed() float64 { return c.DashSpeedKt / 60 }

// TurbinePower returns the installed turbine output in kWh/min.
func (c *FleetConfig) TurbinePower() float64 {
	return (c.CruisePowerKW + 200.0) / 60.0
}

// ApplyPreset overwrites the leg geometry with the named preset.
func (c *FleetConfig) ApplyPreset(name string) error {
	r, err := Preset(name)
	if err != nil {
		return err
	}
	c.Preset = strings.ToLower(name)
	c.LegBaseNM = r.LegBaseNM
	c.LegReservoirNM = r.LegReservoirNM
	return nil
}

// Validate checks the invariants the simulation relies on.
func (c *FleetConfig) Validate() error {
	var errs []error
	if c.LegBaseNM <= 0 || c.LegReservoirNM <= 0 {
		errs = append(errs, fmt.Errorf("legs must be positive (base=%v, reservoir=%v)", c.LegBaseNM, c.LegReservoirNM))
	}
	if c.CruiseSpeedKt <= 0 || c.DashSpeedKt <= 0 {
		errs = append(errs, fmt.Errorf("speeds must be positive (cruise=%v, dash=%v)", c.CruiseSpeedKt, c.DashSpeedKt))
	}
	if c.FuelCapacityKg < 0 || c.WaterCapacityKg < 0 {
		errs = append(errs, fmt.Errorf("tank capacities must not be negative (fuel=%v, water=%v)", c.FuelCapacityKg, c.WaterCapacityKg))
	}
	// Allow for rounding when water was derived from the payload.
	if total := c.EmptyWeightKg + c.FuelCapacityKg + c.WaterCapacityKg; total > c.MTOWKg+1e-6 {
		errs = append(errs, fmt.Errorf("empty weight + fuel + water = %.1f kg exceeds MTOW %.1f kg", total, c.MTOWKg))
	}
	if c.FleetSize < 1 {
		errs = append(errs, fmt.Errorf("fleet_size must be at least 1, got %d", c.FleetSize))
	}
	if c.BaseCapacity < 1 {
		errs = append(errs, fmt.Errorf("base_capacity must be at least 1, got %d", c.BaseCapacity))
	}
	switch c.Policy {
	case PolicyForced, PolicyMassAttack:
	default:
		errs = append(errs, fmt.Errorf("unknown policy %q", c.Policy))
	}
	return errors.Join(errs...)
}

// Load loads a YAML config on top of Default and validates it against a CUE
// schema. An empty schema path selects the embedded schema.
func Load(configPath, cueSchemaPath string) (*FleetConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML config bytes. Keys that are absent keep their default
// values; a preset is applied before the explicit legs so that legs given
// in the file win.
func Parse(data []byte) (*FleetConfig, error) {
	var probe struct {
		Preset         string   `yaml:"preset"`
		FuelCapacityKg *float64 `yaml:"fuel_capacity_kg"`
		WaterCapacity  *float64 `yaml:"water_capacity_kg"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()
	if probe.Preset != "" {
		if err := cfg.ApplyPreset(probe.Preset); err != nil {
			return nil, err
		}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Preset = strings.ToLower(cfg.Preset)
	if probe.FuelCapacityKg != nil && probe.WaterCapacity == nil {
		cfg.SetFuelCapacity(*probe.FuelCapacityKg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
