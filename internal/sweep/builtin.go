package sweep

import (
	"fmt"
	"sort"

	"firefleet-sim/internal/config"
)

// referenceCruiseKt is the speed flown on every leg by the single-aircraft
// trace and the fleet study.
const referenceCruiseKt = 166.0

// BuiltIn returns the predefined studies keyed by name.
func BuiltIn() map[string]Plan {
	return map[string]Plan{
		"fuel-percentage": {
			Name:        "fuel-percentage",
			Description: "Split the payload between fuel and water from 10 to 90 percent fuel.",
			Policy:      config.PolicyForced,
			Axes:        []Axis{{Parameter: ParamFuelPercentage, From: 10, To: 90, Step: 1}},
		},
		"reservoir-speed": {
			Name:        "reservoir-speed",
			Description: "Vary the speed flown between fire and reservoir from 90 to 190 kt.",
			Policy:      config.PolicyForced,
			Overrides:   map[string]float64{ParamFuelCapacity: 700},
			Axes:        []Axis{{Parameter: ParamReservoirSpeed, From: 90, To: 190, Step: 0.1}},
		},
		"aircraft-time": {
			Name:        "aircraft-time",
			Description: "Trace fuel, water and power of a single aircraft over one day.",
			Policy:      config.PolicyForced,
			Overrides: map[string]float64{
				ParamFuelCapacity:   700,
				ParamCruiseSpeed:    referenceCruiseKt,
				ParamReservoirSpeed: referenceCruiseKt,
			},
			Trace: true,
		},
		"fleet": {
			Name:        "fleet",
			Description: "Grow the fleet from 1 to 199 aircraft for base capacities 1, 2, 5 and 10 under mass attack.",
			Policy:      config.PolicyMassAttack,
			Overrides: map[string]float64{
				ParamFuelCapacity:   700,
				ParamCruiseSpeed:    referenceCruiseKt,
				ParamReservoirSpeed: referenceCruiseKt,
			},
			Axes: []Axis{
				{Parameter: ParamBaseCapacity, Values: []float64{1, 2, 5, 10}},
				{Parameter: ParamFleetSize, From: 1, To: 199, Step: 1},
			},
		},
	}
}

// Names lists the built-in studies in sorted order.
func Names() []string {
	plans := BuiltIn()
	names := make([]string, 0, len(plans))
	for n := range plans {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the built-in plan called nameOrPath, or loads it from a
// YAML file otherwise.
func Resolve(nameOrPath string) (*Plan, error) {
	if p, ok := BuiltIn()[nameOrPath]; ok {
		return &p, nil
	}
	p, err := Load(nameOrPath)
	if err != nil {
		return nil, fmt.Errorf("plan %q is neither built in nor loadable: %w", nameOrPath, err)
	}
	return p, nil
}
