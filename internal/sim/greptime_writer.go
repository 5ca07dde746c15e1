package sim

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"firefleet-sim/internal/telemetry"
)

const defaultGreptimePort = 4001

// greptimeClient is the subset of the ingester client used by the writer.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes tick and sweep rows to GreptimeDB via the ingester
// client. Tables are created on first write by the server.
type GreptimeDBWriter struct {
	client     greptimeClient
	tickTable  string
	sweepTable string
	log        *slog.Logger
}

// NewGreptimeDBWriter connects to endpoint ("host" or "host:port") and
// writes into database.
func NewGreptimeDBWriter(endpoint, database string) (*GreptimeDBWriter, error) {
	host, port, err := splitEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &GreptimeDBWriter{
		client:     client,
		tickTable:  telemetry.TickTableName,
		sweepTable: telemetry.SweepTableName,
	}, nil
}

func splitEndpoint(endpoint string) (string, int, error) {
	if endpoint == "" {
		return "", 0, fmt.Errorf("empty GreptimeDB endpoint")
	}
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		return endpoint, defaultGreptimePort, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid GreptimeDB port %q: %w", portStr, err)
	}
	return host, port, nil
}

func (w *GreptimeDBWriter) logger() *slog.Logger {
	if w.log != nil {
		return w.log
	}
	return slog.Default()
}

// WriteTick inserts the aircraft readings of a single tick.
func (w *GreptimeDBWriter) WriteTick(row telemetry.TickRow) error {
	return w.WriteTicks([]telemetry.TickRow{row})
}

// WriteTicks inserts one row per aircraft per tick.
func (w *GreptimeDBWriter) WriteTicks(rows []telemetry.TickRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.tickTable)
	if err != nil {
		return err
	}
	cols := []struct {
		add  func(string, types.ColumnType) error
		name string
		typ  types.ColumnType
	}{
		{tbl.AddTagColumn, "run_id", types.STRING},
		{tbl.AddTagColumn, "aircraft_id", types.INT64},
		{tbl.AddFieldColumn, "tick", types.INT64},
		{tbl.AddFieldColumn, "state", types.STRING},
		{tbl.AddFieldColumn, "position_nm", types.FLOAT64},
		{tbl.AddFieldColumn, "fuel", types.FLOAT64},
		{tbl.AddFieldColumn, "water", types.FLOAT64},
		{tbl.AddFieldColumn, "power", types.FLOAT64},
		{tbl.AddFieldColumn, "fleet_power", types.FLOAT64},
		{tbl.AddFieldColumn, "base_visits", types.INT64},
		{tbl.AddFieldColumn, "water_released", types.FLOAT64},
		{tbl.AddFieldColumn, "fuel_deficits", types.INT64},
		{tbl.AddFieldColumn, "queue_length", types.INT64},
		{tbl.AddTimestampColumn, "ts", types.TIMESTAMP_MILLISECOND},
	}
	for _, c := range cols {
		if err := c.add(c.name, c.typ); err != nil {
			return err
		}
	}

	n := 0
	for _, r := range rows {
		for _, a := range r.Aircraft {
			err := tbl.AddRow(
				r.RunID, int64(a.AircraftID),
				int64(r.Tick), a.State, a.PositionNM, a.Fuel, a.Water, a.Power,
				r.CurrentPower, int64(r.BaseVisits), r.WaterReleased,
				int64(r.FuelDeficits), int64(r.QueueLength),
				r.Timestamp,
			)
			if err != nil {
				return err
			}
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return w.write(tbl, w.tickTable, n)
}

// WriteSweep inserts a single sweep row.
func (w *GreptimeDBWriter) WriteSweep(row telemetry.SweepRow) error {
	return w.WriteSweeps([]telemetry.SweepRow{row})
}

// WriteSweeps inserts sweep rows. Axis values land in the fixed parameter
// columns; the point itself is not stored.
func (w *GreptimeDBWriter) WriteSweeps(rows []telemetry.SweepRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.sweepTable)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("plan", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTagColumn("run_id", types.STRING); err != nil {
		return err
	}
	fields := []struct {
		name string
		typ  types.ColumnType
	}{
		{"fuel_capacity", types.FLOAT64},
		{"water_capacity", types.FLOAT64},
		{"dash_speed_kt", types.FLOAT64},
		{"fleet_size", types.INT64},
		{"base_capacity", types.INT64},
		{"policy", types.STRING},
		{"base_visits", types.INT64},
		{"water_released", types.FLOAT64},
		{"fuel_deficits", types.INT64},
	}
	for _, f := range fields {
		if err := tbl.AddFieldColumn(f.name, f.typ); err != nil {
			return err
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	for _, r := range rows {
		err := tbl.AddRow(
			r.Plan, r.RunID,
			r.FuelCapacity, r.WaterCapacity, r.DashSpeedKt,
			int64(r.FleetSize), int64(r.BaseCapacity), r.Policy,
			int64(r.BaseVisits), r.WaterReleased, int64(r.FuelDeficits),
			r.Timestamp,
		)
		if err != nil {
			return err
		}
	}
	return w.write(tbl, w.sweepTable, len(rows))
}

func (w *GreptimeDBWriter) write(tbl *table.Table, name string, n int) error {
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		w.logger().Error("greptimedb write failed", "table", name, "rows", n, "err", err)
		return err
	}
	w.logger().Debug("greptimedb write", "table", name, "rows", n)
	return nil
}
