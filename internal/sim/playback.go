package sim

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"firefleet-sim/internal/telemetry"
)

// ReplayLog replays tick rows from r to writer, paced by their simulated
// timestamps. A speed >1 accelerates playback. If speed <= 0, no delay is
// inserted and the rows are handed over in one batch when writer supports it.
func ReplayLog(r io.Reader, writer TickWriter, speed float64) error {
	dec := json.NewDecoder(r)
	if speed <= 0 {
		if bw, ok := writer.(batchTickWriter); ok {
			var rows []telemetry.TickRow
			for {
				var row telemetry.TickRow
				if err := dec.Decode(&row); err != nil {
					if err == io.EOF {
						return bw.WriteTicks(rows)
					}
					return err
				}
				rows = append(rows, row)
			}
		}
	}
	var prev time.Time
	for {
		var row telemetry.TickRow
		if err := dec.Decode(&row); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !prev.IsZero() && speed > 0 {
			diff := row.Timestamp.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		if err := writer.WriteTick(row); err != nil {
			return err
		}
		prev = row.Timestamp
	}
}

// ReplayLogFile opens a tick log, decompressing ".zst" files, and replays it.
func ReplayLogFile(path string, writer TickWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if !strings.HasSuffix(path, ".zst") {
		return ReplayLog(f, writer, speed)
	}
	zr, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer zr.Close()
	return ReplayLog(zr, writer, speed)
}
