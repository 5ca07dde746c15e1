package aircraft

import (
	"math"
	"testing"
)

func testParams() *Params {
	return &Params{
		LegBase:                75,
		LegReservoir:           15,
		TimeAtBase:             10,
		TimeAtReservoir:        2,
		CruiseSpeed:            166.0 / 60,
		DashSpeed:              151.0 / 60,
		EmptyWeight:            2948.4,
		FuelCapacity:           700,
		WaterCapacity:          1500,
		TurbinePower:           (700 + 200.0) / 60,
		TurbineFuelConsumption: 0.27,
	}
}

func TestFreshAircraftDepartsWhenTimerExpired(t *testing.T) {
	p := testParams()
	a := New(0)
	if a.State != AtBase || a.Fuel != 0 || a.Water != 0 {
		t.Fatalf("unexpected spawn state: %+v", a)
	}
	a.Advance(p)
	if a.State != ToReservoir {
		t.Fatalf("expected to_reservoir, got %s", a.State)
	}
	if a.Fuel != p.FuelCapacity {
		t.Fatalf("expected refuel to %v, got %v", p.FuelCapacity, a.Fuel)
	}
	if a.DistToTarget != p.LegBase+p.LegReservoir {
		t.Fatalf("expected dist %v, got %v", p.LegBase+p.LegReservoir, a.DistToTarget)
	}
}

func TestTransitDecreasesByLegSpeed(t *testing.T) {
	p := testParams()
	a := &Aircraft{State: ToReservoir, LastState: AtBase, DistToTarget: 90, Fuel: 700}
	ticks := 0
	for a.State == ToReservoir {
		prevDist, prevFuel := a.DistToTarget, a.Fuel
		speed := a.Speed(p)
		a.Advance(p)
		ticks++
		if want := prevDist - speed; a.DistToTarget != want {
			t.Fatalf("tick %d: distance %v, want %v", ticks, a.DistToTarget, want)
		}
		if a.Fuel >= prevFuel {
			t.Fatalf("tick %d: fuel did not decrease", ticks)
		}
		if ticks > 100 {
			t.Fatalf("never reached reservoir")
		}
	}
	if ticks != 33 {
		t.Fatalf("expected 33 ticks to the reservoir, got %d", ticks)
	}
	if a.State != AtReservoir || a.TimeToTransition != p.TimeAtReservoir {
		t.Fatalf("unexpected arrival state: %+v", a)
	}
}

func TestReservoirDwellUsesOwnTimer(t *testing.T) {
	p := testParams()
	a := &Aircraft{State: AtReservoir, LastState: ToReservoir, TimeToTransition: 2, Fuel: 500}
	a.Advance(p)
	if a.State != AtReservoir || a.TimeToTransition != 1 {
		t.Fatalf("expected to wait at reservoir, got %s ttt=%v", a.State, a.TimeToTransition)
	}
	a.Advance(p)
	if a.State != ToFire {
		t.Fatalf("expected to_fire, got %s", a.State)
	}
	if a.Water != p.WaterCapacity || a.DistToTarget != p.LegReservoir {
		t.Fatalf("unexpected load: water=%v dist=%v", a.Water, a.DistToTarget)
	}
}

func TestSpeedRule(t *testing.T) {
	p := testParams()

	fromFire := &Aircraft{State: AtFire, LastState: ToFire, Fuel: 600, Water: 1500}
	fromFire.Extinguish(p)
	if fromFire.State != ToReservoir {
		t.Fatalf("expected to_reservoir after drop, got %s", fromFire.State)
	}
	if got := fromFire.Speed(p); got != p.DashSpeed {
		t.Fatalf("fire→reservoir leg speed = %v, want dash %v", got, p.DashSpeed)
	}

	fromBase := &Aircraft{State: AtBase, LastState: ToBase}
	fromBase.Advance(p)
	if fromBase.State != ToReservoir {
		t.Fatalf("expected to_reservoir from base, got %s", fromBase.State)
	}
	if got := fromBase.Speed(p); got != p.CruiseSpeed {
		t.Fatalf("base→reservoir leg speed = %v, want cruise %v", got, p.CruiseSpeed)
	}

	toFire := &Aircraft{State: ToFire, LastState: AtReservoir}
	if got := toFire.Speed(p); got != p.DashSpeed {
		t.Fatalf("reservoir→fire leg speed = %v, want dash", got)
	}
	toBase := &Aircraft{State: ToBase, LastState: AtFire}
	if got := toBase.Speed(p); got != p.CruiseSpeed {
		t.Fatalf("fire→base leg speed = %v, want cruise", got)
	}
}

func TestExtinguishChoosesNextLegByFuel(t *testing.T) {
	p := testParams()
	cases := []struct {
		name     string
		fuel     float64
		want     State
		wantDist float64
	}{
		{name: "enough for another shuttle", fuel: p.ReservoirReserve() + 1, want: ToReservoir, wantDist: p.LegReservoir},
		{name: "only enough for base", fuel: p.ReservoirReserve() - 1, want: ToBase, wantDist: p.LegBase},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := &Aircraft{State: AtFire, LastState: ToFire, Fuel: tc.fuel, Water: 1500}
			out := a.Extinguish(p)
			if out.Released != 1500 || a.Water != 0 {
				t.Fatalf("expected full drop, got released=%v water=%v", out.Released, a.Water)
			}
			if a.State != tc.want || a.DistToTarget != tc.wantDist {
				t.Fatalf("got %s dist=%v, want %s dist=%v", a.State, a.DistToTarget, tc.want, tc.wantDist)
			}
			if a.LastState != AtFire {
				t.Fatalf("expected last state at_fire, got %s", a.LastState)
			}
		})
	}
}

func TestExtinguishIgnoredAwayFromFire(t *testing.T) {
	p := testParams()
	for _, s := range []State{ToBase, AtBase, ToReservoir, AtReservoir, ToFire} {
		a := &Aircraft{State: s, LastState: AtBase, Water: 1500, Fuel: 300, DistToTarget: 10}
		before := *a
		if out := a.Extinguish(p); out != (Outcome{}) {
			t.Fatalf("%s: expected empty outcome, got %+v", s, out)
		}
		if *a != before {
			t.Fatalf("%s: aircraft mutated by extinguish", s)
		}
	}
}

func TestAutonomousDivertOnLowFuel(t *testing.T) {
	p := testParams()
	a := &Aircraft{State: AtFire, LastState: ToFire, Fuel: p.DivertReserve() - 1, Water: 1500}
	out := a.Advance(p)
	if out.Released != 1500 {
		t.Fatalf("expected 1500 released, got %v", out.Released)
	}
	if a.State != ToBase || a.DistToTarget != p.LegBase {
		t.Fatalf("expected divert to base, got %s dist=%v", a.State, a.DistToTarget)
	}

	holding := &Aircraft{State: AtFire, LastState: ToFire, Fuel: p.DivertReserve() + 1, Water: 1500}
	if out := holding.Advance(p); out.Released != 0 || holding.State != AtFire {
		t.Fatalf("expected aircraft to hold at fire, got %s released=%v", holding.State, out.Released)
	}
}

func TestFuelDeficitReportedButNotCorrected(t *testing.T) {
	p := testParams()
	a := &Aircraft{State: ToBase, LastState: AtFire, DistToTarget: 1, Fuel: 0.5}
	out := a.Advance(p)
	if !out.FuelDeficit {
		t.Fatalf("expected fuel deficit to be reported")
	}
	if a.Fuel >= 0 {
		t.Fatalf("expected negative fuel, got %v", a.Fuel)
	}
	if !out.ArrivedAtBase || a.State != AtBase {
		t.Fatalf("expected aircraft to keep advancing into at_base, got %s", a.State)
	}
}

func TestPowerComputedInDwellStates(t *testing.T) {
	p := testParams()
	a := &Aircraft{State: AtReservoir, LastState: ToReservoir, TimeToTransition: 5, Fuel: 400}
	out := a.Advance(p)
	if out.Power <= 0 || a.Power != out.Power {
		t.Fatalf("expected power to be computed while dwelling, got %v", out.Power)
	}
	if a.Fuel != 400 {
		t.Fatalf("dwell must not burn fuel, got %v", a.Fuel)
	}
}

func TestPositionContinuousOverCycle(t *testing.T) {
	p := testParams()
	a := New(0)
	maxStep := math.Max(p.CruiseSpeed, p.DashSpeed) + 1e-9
	prev := a.Position(p)
	seen := map[State]bool{}
	for i := 0; i < 600; i++ {
		if a.State == AtBase {
			a.TimeToTransition--
		}
		a.Advance(p)
		if a.State == AtFire {
			if got := a.Position(p); got != p.LegBase {
				t.Fatalf("at_fire position = %v, want %v", got, p.LegBase)
			}
			a.Extinguish(p)
		}
		seen[a.State] = true
		pos := a.Position(p)
		if math.Abs(pos-prev) > maxStep {
			t.Fatalf("tick %d: position jumped from %v to %v in state %s", i, prev, pos, a.State)
		}
		prev = pos
	}
	for _, s := range []State{ToBase, AtBase, ToReservoir, AtReservoir, ToFire} {
		if !seen[s] {
			t.Fatalf("cycle never visited %s", s)
		}
	}
}

func TestPositionAtBoundaries(t *testing.T) {
	p := testParams()
	cases := []struct {
		before Aircraft
		after  Aircraft
	}{
		{Aircraft{State: ToFire, DistToTarget: 1e-9}, Aircraft{State: AtFire}},
		{Aircraft{State: ToReservoir, DistToTarget: 1e-9}, Aircraft{State: AtReservoir}},
		{Aircraft{State: AtReservoir}, Aircraft{State: ToFire, DistToTarget: p.LegReservoir}},
		{Aircraft{State: ToBase, DistToTarget: 1e-9}, Aircraft{State: AtBase}},
		{Aircraft{State: AtBase}, Aircraft{State: ToReservoir, DistToTarget: p.LegReservoir + p.LegBase}},
		{Aircraft{State: AtFire}, Aircraft{State: ToReservoir, DistToTarget: p.LegReservoir}},
		{Aircraft{State: AtFire}, Aircraft{State: ToBase, DistToTarget: p.LegBase}},
	}
	for _, tc := range cases {
		if d := math.Abs(tc.before.Position(p) - tc.after.Position(p)); d > 1e-6 {
			t.Errorf("%s→%s: position gap %v", tc.before.State, tc.after.State, d)
		}
	}
}

func TestStateStringRoundTrip(t *testing.T) {
	for s := ToBase; s <= AtFire; s++ {
		got, err := ParseState(s.String())
		if err != nil || got != s {
			t.Fatalf("ParseState(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseState("bogus"); err == nil {
		t.Fatalf("expected error for unknown state")
	}
}
