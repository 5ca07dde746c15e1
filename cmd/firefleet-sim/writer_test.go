package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"firefleet-sim/internal/config"
	"firefleet-sim/internal/sim"
	"firefleet-sim/internal/telemetry"
)

func TestNewWritersPrintOnly(t *testing.T) {
	tw, sw, cleanup, err := newWriters(config.Default(), writerOptions{PrintOnly: true})
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := tw.(*sim.StdoutWriter); !ok {
		t.Fatalf("expected *sim.StdoutWriter, got %T", tw)
	}
	if _, ok := sw.(*sim.StdoutWriter); !ok {
		t.Fatalf("expected sweep writer *sim.StdoutWriter, got %T", sw)
	}
}

func TestNewWritersGreptimeFallback(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	tw, _, cleanup, err := newWriters(config.Default(), writerOptions{})
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := tw.(*sim.StdoutWriter); !ok {
		t.Fatalf("expected *sim.StdoutWriter, got %T", tw)
	}
}

func TestNewWritersGreptimeBadEndpoint(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "db:notaport")
	if _, _, _, err := newWriters(config.Default(), writerOptions{}); err == nil {
		t.Fatalf("expected error for invalid endpoint")
	}
}

func TestNewWritersLogFiles(t *testing.T) {
	dir := t.TempDir()
	tickPath := filepath.Join(dir, "ticks.jsonl")
	sweepPath := filepath.Join(dir, "sweeps.jsonl")
	tw, sw, cleanup, err := newWriters(config.Default(), writerOptions{
		PrintOnly: true,
		TickFile:  tickPath,
		SweepFile: sweepPath,
	})
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	if _, ok := tw.(*sim.MultiWriter); !ok {
		t.Fatalf("expected *sim.MultiWriter, got %T", tw)
	}
	row := telemetry.TickRow{RunID: "r1", Tick: 1, Timestamp: time.Now()}
	if err := tw.WriteTick(row); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := sw.WriteSweep(telemetry.SweepRow{Plan: "fleet", RunID: "r1", Timestamp: time.Now()}); err != nil {
		t.Fatalf("write sweep failed: %v", err)
	}
	cleanup()

	for _, p := range []string{tickPath, sweepPath} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s failed: %v", p, err)
		}
		if info.Size() == 0 {
			t.Fatalf("expected %s to be non-empty", p)
		}
	}
}

func TestLoadConfigDefault(t *testing.T) {
	cfg, err := loadConfig("", "")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.FleetSize != 1 || cfg.Policy != config.PolicyForced {
		t.Fatalf("unexpected default config %+v", cfg)
	}
}

func TestApplySimulateFlags(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().AddFlagSet(simulateCmd.Flags())
	if err := cmd.Flags().Parse([]string{"--preset", "portugal", "--policy", "mass-attack", "--fleet-size", "4"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	t.Cleanup(func() {
		simPreset, simPolicy, simFleetSize = "", config.PolicyForced, 1
		for _, name := range []string{"preset", "policy", "fleet-size"} {
			simulateCmd.Flags().Lookup(name).Changed = false
		}
	})

	cfg := config.Default()
	if err := applySimulateFlags(cmd, cfg); err != nil {
		t.Fatalf("applySimulateFlags: %v", err)
	}
	if cfg.LegBaseNM != 49 || cfg.LegReservoirNM != 4.9 {
		t.Fatalf("preset not applied: %v/%v", cfg.LegBaseNM, cfg.LegReservoirNM)
	}
	if cfg.Policy != config.PolicyMassAttack || cfg.FleetSize != 4 {
		t.Fatalf("flags not applied: %s %d", cfg.Policy, cfg.FleetSize)
	}
	if cfg.BaseCapacity != 1 {
		t.Fatalf("unset flag changed base capacity to %d", cfg.BaseCapacity)
	}
}

func TestListPresets(t *testing.T) {
	var buf bytes.Buffer
	if err := listPresets(&buf); err != nil {
		t.Fatalf("listPresets: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"portugal", "turkey", "example", "fuel-percentage", "reservoir-speed", "aircraft-time", "fleet"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
