package telemetry

import (
	"testing"
	"time"

	"firefleet-sim/internal/aircraft"
)

func TestGenerateTick(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	gen := NewGenerator("run-1", start)
	p := &aircraft.Params{LegBase: 75, LegReservoir: 15}
	fleet := []*aircraft.Aircraft{
		{ID: 0, State: aircraft.ToFire, DistToTarget: 5, Fuel: 400, Water: 1500, Power: 650},
		{ID: 1, State: aircraft.AtBase},
	}

	row := gen.GenerateTick(30, fleet, p)

	if row.RunID != "run-1" || row.Tick != 30 {
		t.Errorf("unexpected identity %+v", row)
	}
	if !row.Timestamp.Equal(start.Add(30 * time.Minute)) {
		t.Errorf("unexpected timestamp %v", row.Timestamp)
	}
	if len(row.Aircraft) != 2 {
		t.Fatalf("expected 2 aircraft rows, got %d", len(row.Aircraft))
	}
	lead, ok := row.Lead()
	if !ok || lead.State != "to_fire" || lead.PositionNM != 80 || lead.Water != 1500 || lead.Power != 650 {
		t.Errorf("unexpected lead row %+v", lead)
	}
	if row.Aircraft[1].PositionNM != 0 {
		t.Errorf("aircraft at base should be at position 0")
	}
}

func TestLeadEmpty(t *testing.T) {
	if _, ok := (TickRow{}).Lead(); ok {
		t.Fatalf("expected no lead aircraft")
	}
}

func TestTableNames(t *testing.T) {
	orig := TickTableName
	TickTableName = "custom"
	defer func() { TickTableName = orig }()
	if (TickRow{}).TableName() != "custom" {
		t.Errorf("expected custom table name, got %s", (TickRow{}).TableName())
	}
	if (SweepRow{}).TableName() != SweepTableName {
		t.Errorf("unexpected sweep table name")
	}
}

func TestSweepRowValue(t *testing.T) {
	r := SweepRow{Point: []AxisValue{{Parameter: "fleet_size", Value: 4}}}
	if v, ok := r.Value("fleet_size"); !ok || v != 4 {
		t.Fatalf("unexpected value %v %v", v, ok)
	}
	if _, ok := r.Value("base_capacity"); ok {
		t.Fatalf("expected missing parameter")
	}
}
