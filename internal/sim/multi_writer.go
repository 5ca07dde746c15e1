package sim

import "firefleet-sim/internal/telemetry"

// MultiWriter fan-outs tick and sweep rows to multiple writers.
type MultiWriter struct {
	tickWriters  []TickWriter
	sweepWriters []SweepWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(tws []TickWriter, sws []SweepWriter) *MultiWriter {
	return &MultiWriter{tickWriters: tws, sweepWriters: sws}
}

// WriteTick sends a tick row to all writers.
func (mw *MultiWriter) WriteTick(row telemetry.TickRow) error {
	for _, w := range mw.tickWriters {
		if err := w.WriteTick(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteTicks sends multiple tick rows to all writers, using batch if supported.
func (mw *MultiWriter) WriteTicks(rows []telemetry.TickRow) error {
	for _, w := range mw.tickWriters {
		if bw, ok := w.(batchTickWriter); ok {
			if err := bw.WriteTicks(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteTick(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteSweep sends a sweep row to all sweep writers.
func (mw *MultiWriter) WriteSweep(row telemetry.SweepRow) error {
	for _, w := range mw.sweepWriters {
		if err := w.WriteSweep(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteSweeps sends multiple sweep rows to all sweep writers, using batch if supported.
func (mw *MultiWriter) WriteSweeps(rows []telemetry.SweepRow) error {
	for _, w := range mw.sweepWriters {
		if err := WriteSweeps(w, rows); err != nil {
			return err
		}
	}
	return nil
}
