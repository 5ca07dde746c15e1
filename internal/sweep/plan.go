package sweep

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"firefleet-sim/internal/config"
	"firefleet-sim/internal/telemetry"
)

// ErrUnknownParameter is returned for axis or override names that do not
// map to a configuration field.
var ErrUnknownParameter = errors.New("unknown sweep parameter")

// Sweep parameters.
const (
	ParamFuelPercentage      = "fuel_percentage"
	ParamFuelCapacity        = "fuel_capacity_kg"
	ParamReservoirSpeed      = "reservoir_speed_kt"
	ParamCruiseSpeed         = "cruise_speed_kt"
	ParamFleetSize           = "fleet_size"
	ParamBaseCapacity        = "base_capacity"
	ParamExtinguishingAttack = "extinguishing_attack_kg"
	ParamLegBase             = "leg_base_nm"
	ParamLegReservoir        = "leg_reservoir_nm"
)

// Plan defines a parameter sweep: fixed overrides applied to the base
// configuration and the axes whose cartesian product gives the points.
type Plan struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description,omitempty"`
	Policy      string             `yaml:"policy,omitempty"`
	Overrides   map[string]float64 `yaml:"overrides,omitempty"`
	Axes        []Axis             `yaml:"axes,omitempty"`
	// Trace records every tick of every point instead of only the summary.
	Trace bool `yaml:"trace,omitempty"`
}

// Axis is one swept parameter, given either as explicit values or as an
// inclusive range.
type Axis struct {
	Parameter string    `yaml:"parameter"`
	Values    []float64 `yaml:"values,omitempty"`
	From      float64   `yaml:"from,omitempty"`
	To        float64   `yaml:"to,omitempty"`
	Step      float64   `yaml:"step,omitempty"`
}

// Load reads a YAML sweep plan from disk.
func Load(path string) (*Plan, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	var p Plan
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan %s: %w", path, err)
	}
	return &p, nil
}

// Validate checks names, policy and axis ranges.
func (p *Plan) Validate() error {
	var errs []error
	if p.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	switch p.Policy {
	case "", config.PolicyForced, config.PolicyMassAttack:
	default:
		errs = append(errs, fmt.Errorf("unknown policy %q", p.Policy))
	}
	for name := range p.Overrides {
		if !knownParameter(name) {
			errs = append(errs, fmt.Errorf("override: %w %q", ErrUnknownParameter, name))
		}
	}
	for i, a := range p.Axes {
		if !knownParameter(a.Parameter) {
			errs = append(errs, fmt.Errorf("axis %d: %w %q", i, ErrUnknownParameter, a.Parameter))
		}
		if _, err := a.Points(); err != nil {
			errs = append(errs, fmt.Errorf("axis %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Points returns the values of the axis. Range values are computed as
// from + i*step so long ranges do not drift.
func (a Axis) Points() ([]float64, error) {
	if len(a.Values) > 0 {
		return a.Values, nil
	}
	if a.Step <= 0 {
		return nil, fmt.Errorf("%s: step must be positive", a.Parameter)
	}
	if a.To < a.From {
		return nil, fmt.Errorf("%s: range %v..%v is empty", a.Parameter, a.From, a.To)
	}
	n := int(math.Floor((a.To-a.From)/a.Step+1e-9)) + 1
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = a.From + float64(i)*a.Step
	}
	return vals, nil
}

// Points returns the cartesian product of the axes, outer axis first. A
// plan without axes has a single empty point.
func (p *Plan) Points() ([][]telemetry.AxisValue, error) {
	points := [][]telemetry.AxisValue{nil}
	for _, a := range p.Axes {
		vals, err := a.Points()
		if err != nil {
			return nil, err
		}
		next := make([][]telemetry.AxisValue, 0, len(points)*len(vals))
		for _, prefix := range points {
			for _, v := range vals {
				pt := make([]telemetry.AxisValue, len(prefix), len(prefix)+1)
				copy(pt, prefix)
				next = append(next, append(pt, telemetry.AxisValue{Parameter: a.Parameter, Value: v}))
			}
		}
		points = next
	}
	return points, nil
}

// Config derives the configuration of one point from base: policy first,
// then overrides in name order, then the axis values.
func (p *Plan) Config(base *config.FleetConfig, point []telemetry.AxisValue) (*config.FleetConfig, error) {
	cfg := base.Clone()
	if p.Policy != "" {
		cfg.Policy = p.Policy
	}
	names := make([]string, 0, len(p.Overrides))
	for n := range p.Overrides {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if err := Apply(cfg, n, p.Overrides[n]); err != nil {
			return nil, err
		}
	}
	for _, av := range point {
		if err := Apply(cfg, av.Parameter, av.Value); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func knownParameter(name string) bool {
	return Apply(config.Default(), name, 1) == nil
}

// Apply sets one sweep parameter on cfg. Fuel parameters hand the rest of
// the payload to the water tank.
func Apply(cfg *config.FleetConfig, param string, v float64) error {
	switch param {
	case ParamFuelPercentage:
		cfg.SetFuelPercentage(v)
	case ParamFuelCapacity:
		cfg.SetFuelCapacity(v)
	case ParamReservoirSpeed:
		cfg.DashSpeedKt = v
	case ParamCruiseSpeed:
		cfg.CruiseSpeedKt = v
	case ParamFleetSize:
		cfg.FleetSize = int(math.Round(v))
	case ParamBaseCapacity:
		cfg.BaseCapacity = int(math.Round(v))
	case ParamExtinguishingAttack:
		cfg.ExtinguishingAttackKg = v
	case ParamLegBase:
		cfg.LegBaseNM = v
	case ParamLegReservoir:
		cfg.LegReservoirNM = v
	default:
		return fmt.Errorf("%w %q", ErrUnknownParameter, param)
	}
	return nil
}
