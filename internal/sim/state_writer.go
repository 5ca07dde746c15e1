package sim

import "firefleet-sim/internal/telemetry"

// TickWriter receives the fleet state after every tick of a run.
type TickWriter interface {
	WriteTick(telemetry.TickRow) error
}

// SweepWriter receives the aggregate outcome of each sweep point.
type SweepWriter interface {
	WriteSweep(telemetry.SweepRow) error
}

// Optional: writers may support batch mode for tick rows.
type batchTickWriter interface {
	WriteTicks([]telemetry.TickRow) error
}

// Optional: writers may support batch mode for sweep rows.
type batchSweepWriter interface {
	WriteSweeps([]telemetry.SweepRow) error
}

// WriteSweeps writes rows to w, in one batch if w supports it.
func WriteSweeps(w SweepWriter, rows []telemetry.SweepRow) error {
	if bw, ok := w.(batchSweepWriter); ok {
		return bw.WriteSweeps(rows)
	}
	for _, r := range rows {
		if err := w.WriteSweep(r); err != nil {
			return err
		}
	}
	return nil
}
