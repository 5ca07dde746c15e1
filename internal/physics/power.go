// Cruise power and fuel burn model for the firefighting aircraft
package physics

const (
	// Gravity is the gravitational acceleration in m/s².
	Gravity = 9.81

	// InstalledPowerMargin scales the aerodynamic power requirement to the
	// installed power actually drawn from the turbine.
	InstalledPowerMargin = 1.2

	// AuxiliaryLoadKW is the fixed idle/auxiliary load added to every burn
	// rate independent of cruise power.
	AuxiliaryLoadKW = 100.0
)

// RequiredPower returns the cruise power in kW needed to fly at speedKt
// (NM/hour) with the given mass in kg.
//
// The expression order and the explicit float64 conversions are part of the
// numeric contract: they keep the compiler from contracting the products
// into fused multiply-adds, so traces match the reference on every GOARCH.
func RequiredPower(speedKt, massKg float64) float64 {
	a := (massKg * Gravity) / (6.578 * speedKt * speedKt)
	drag := 0.03 + float64(0.0485*a*a)
	power := float64(drag*float64(3.74*speedKt*speedKt*speedKt)) / 1000
	return power * InstalledPowerMargin
}

// FuelBurnRate converts a power draw in kW to a fuel flow in kg/min for a
// turbine with the given specific consumption (kg/kWh).
func FuelBurnRate(powerKW, turbineFuelConsumption float64) float64 {
	return (powerKW + AuxiliaryLoadKW) / 60 * turbineFuelConsumption
}
