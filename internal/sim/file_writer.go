package sim

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"firefleet-sim/internal/telemetry"
)

// FileWriter writes tick and sweep rows to JSONL files. Paths ending in
// ".zst" are zstd compressed.
type FileWriter struct {
	tickOut  *jsonlFile
	sweepOut *jsonlFile
}

type jsonlFile struct {
	f   *os.File
	zw  *zstd.Encoder
	enc *json.Encoder
}

func createJSONL(path string) (*jsonlFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	jf := &jsonlFile{f: f}
	var w io.Writer = f
	if strings.HasSuffix(path, ".zst") {
		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		jf.zw = zw
		w = zw
	}
	jf.enc = json.NewEncoder(w)
	return jf, nil
}

func (j *jsonlFile) Close() error {
	var err error
	if j.zw != nil {
		err = j.zw.Close()
	}
	if e := j.f.Close(); e != nil && err == nil {
		err = e
	}
	return err
}

// NewFileWriter creates a FileWriter. tickPath or sweepPath may be empty to
// skip that log.
func NewFileWriter(tickPath, sweepPath string) (*FileWriter, error) {
	fw := &FileWriter{}
	if tickPath != "" {
		tf, err := createJSONL(tickPath)
		if err != nil {
			return nil, err
		}
		fw.tickOut = tf
	}
	if sweepPath != "" {
		sf, err := createJSONL(sweepPath)
		if err != nil {
			fw.Close()
			return nil, err
		}
		fw.sweepOut = sf
	}
	return fw, nil
}

// WriteTick logs a single tick row, if enabled.
func (f *FileWriter) WriteTick(row telemetry.TickRow) error {
	if f.tickOut == nil {
		return nil
	}
	return f.tickOut.enc.Encode(row)
}

// WriteTicks logs multiple tick rows.
func (f *FileWriter) WriteTicks(rows []telemetry.TickRow) error {
	for _, r := range rows {
		if err := f.WriteTick(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteSweep logs a single sweep row, if enabled.
func (f *FileWriter) WriteSweep(row telemetry.SweepRow) error {
	if f.sweepOut == nil {
		return nil
	}
	return f.sweepOut.enc.Encode(row)
}

// WriteSweeps logs multiple sweep rows.
func (f *FileWriter) WriteSweeps(rows []telemetry.SweepRow) error {
	for _, r := range rows {
		if err := f.WriteSweep(r); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.tickOut != nil {
		if e := f.tickOut.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.sweepOut != nil {
		if e := f.sweepOut.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
