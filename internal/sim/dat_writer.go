package sim

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"firefleet-sim/internal/telemetry"
)

// Column names of the single-aircraft trace table.
var traceColumns = []string{"t", "power", "aircraftFuel", "aircraftWater", "waterReleased"}

// Result columns appended after the axis columns of a sweep table.
var sweepColumns = []string{"fuelCapacity", "waterCapacity", "baseVisits", "waterReleased"}

// DatWriter writes semicolon-delimited tables with a trailing separator on
// every line. The header is taken from the first row written.
type DatWriter struct {
	cw     *csv.Writer
	closer io.Closer
	header bool
}

// NewDatWriter creates a DatWriter on w.
func NewDatWriter(w io.Writer) *DatWriter {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	return &DatWriter{cw: cw}
}

// CreateDatFile creates path and returns a DatWriter owning it.
func CreateDatFile(path string) (*DatWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	dw := NewDatWriter(f)
	dw.closer = f
	return dw, nil
}

func formatDat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func (d *DatWriter) writeLine(fields []string) error {
	// the empty last field produces the trailing separator
	return d.cw.Write(append(fields, ""))
}

// WriteTick appends one trace line for the first spawned aircraft.
func (d *DatWriter) WriteTick(row telemetry.TickRow) error {
	if !d.header {
		if err := d.writeLine(traceColumns); err != nil {
			return err
		}
		d.header = true
	}
	lead, ok := row.Lead()
	if !ok {
		return fmt.Errorf("tick %d: no aircraft to trace", row.Tick)
	}
	err := d.writeLine([]string{
		strconv.Itoa(row.Tick),
		formatDat(row.CurrentPower),
		formatDat(lead.Fuel),
		formatDat(lead.Water),
		formatDat(row.WaterReleased),
	})
	if err != nil {
		return err
	}
	d.cw.Flush()
	return d.cw.Error()
}

// WriteSweep appends one line per sweep point: the axis values followed by
// the result columns.
func (d *DatWriter) WriteSweep(row telemetry.SweepRow) error {
	if !d.header {
		cols := make([]string, 0, len(row.Point)+len(sweepColumns))
		for _, av := range row.Point {
			cols = append(cols, av.Parameter)
		}
		if err := d.writeLine(append(cols, sweepColumns...)); err != nil {
			return err
		}
		d.header = true
	}
	fields := make([]string, 0, len(row.Point)+len(sweepColumns))
	for _, av := range row.Point {
		fields = append(fields, formatDat(av.Value))
	}
	fields = append(fields,
		formatDat(row.FuelCapacity),
		formatDat(row.WaterCapacity),
		strconv.Itoa(row.BaseVisits),
		formatDat(row.WaterReleased),
	)
	if err := d.writeLine(fields); err != nil {
		return err
	}
	d.cw.Flush()
	return d.cw.Error()
}

// WriteSweeps writes rows in order.
func (d *DatWriter) WriteSweeps(rows []telemetry.SweepRow) error {
	for _, r := range rows {
		if err := d.WriteSweep(r); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes pending lines and closes the file if the writer owns one.
func (d *DatWriter) Close() error {
	d.cw.Flush()
	err := d.cw.Error()
	if d.closer != nil {
		if e := d.closer.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
