// Writer implementation printing tick and sweep rows to STDOUT
package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"firefleet-sim/internal/config"
	"firefleet-sim/internal/telemetry"
)

// StdoutWriter prints rows as JSON lines, or as colorized summaries when
// the output is a terminal.
type StdoutWriter struct {
	cfg      *config.FleetConfig
	out      io.Writer
	colorize bool
	once     sync.Once
	styles   stdoutStyles
}

type stdoutStyles struct {
	time  lipgloss.Style
	label lipgloss.Style
	power lipgloss.Style
	water lipgloss.Style
	drop  lipgloss.Style
	warn  lipgloss.Style
	sweep lipgloss.Style
}

func newStdoutStyles(out io.Writer) stdoutStyles {
	r := lipgloss.NewRenderer(out)
	return stdoutStyles{
		time:  r.NewStyle().Foreground(lipgloss.Color("8")),
		label: r.NewStyle().Foreground(lipgloss.Color("4")),
		power: r.NewStyle().Foreground(lipgloss.Color("3")),
		water: r.NewStyle().Foreground(lipgloss.Color("6")),
		drop:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		warn:  r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		sweep: r.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
	}
}

// NewStdoutWriter creates a StdoutWriter on os.Stdout. Colors are enabled
// only when stdout is a terminal.
func NewStdoutWriter(cfg *config.FleetConfig) *StdoutWriter {
	return newStdoutWriter(cfg, os.Stdout, term.IsTerminal(int(os.Stdout.Fd())))
}

func newStdoutWriter(cfg *config.FleetConfig, out io.Writer, colorize bool) *StdoutWriter {
	return &StdoutWriter{cfg: cfg, out: out, colorize: colorize, styles: newStdoutStyles(out)}
}

func (w *StdoutWriter) printJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}

func (w *StdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}
	c := w.cfg
	fmt.Fprintln(w.out, "Fleet Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	if c.Preset != "" {
		fmt.Fprintf(tw, "Preset:\t%s\n", c.Preset)
	}
	fmt.Fprintf(tw, "Legs (nm):\tbase %.1f, reservoir %.1f\n", c.LegBaseNM, c.LegReservoirNM)
	fmt.Fprintf(tw, "Turnaround (min):\tbase %.0f, reservoir %.0f\n", c.TimeAtBaseMin, c.TimeAtReservoirMin)
	fmt.Fprintf(tw, "Speeds (kt):\tcruise %.1f, dash %.1f\n", c.CruiseSpeedKt, c.DashSpeedKt)
	fmt.Fprintf(tw, "Weights (kg):\tMTOW %.0f, empty %.1f, fuel %.1f, water %.1f\n",
		c.MTOWKg, c.EmptyWeightKg, c.FuelCapacityKg, c.WaterCapacityKg)
	fmt.Fprintf(tw, "Fleet:\t%d aircraft, base capacity %d\n", c.FleetSize, c.BaseCapacity)
	fmt.Fprintf(tw, "Policy:\t%s (attack %.0f kg)\n", c.Policy, c.ExtinguishingAttackKg)
	tw.Flush()
	fmt.Fprintln(w.out)
}

// WriteTick outputs a single tick row.
func (w *StdoutWriter) WriteTick(row telemetry.TickRow) error {
	if !w.colorize {
		return w.printJSON(row)
	}
	w.once.Do(w.printOverview)
	s := w.styles
	fmt.Fprintf(w.out, "%s %s %s %s %s %s",
		s.time.Render("["+row.Timestamp.Format(time.RFC3339)+"]"),
		s.label.Render(fmt.Sprintf("t=%d", row.Tick)),
		s.power.Render(fmt.Sprintf("power=%.1f", row.CurrentPower)),
		s.label.Render(fmt.Sprintf("visits=%d", row.BaseVisits)),
		s.water.Render(fmt.Sprintf("water=%.0f", row.WaterReleased)),
		s.label.Render(fmt.Sprintf("queue=%d", row.QueueLength)),
	)
	if row.FuelDeficits > 0 {
		fmt.Fprintf(w.out, " %s", s.warn.Render(fmt.Sprintf("deficits=%d", row.FuelDeficits)))
	}
	fmt.Fprintln(w.out)
	for _, d := range row.Drops {
		fmt.Fprintf(w.out, "  %s kind=%s aircraft=%s water=%.0f\n",
			s.drop.Render("DROP"), d.Kind, joinIDs(d.AircraftIDs), d.WaterKg)
	}
	return nil
}

// WriteTicks outputs multiple tick rows.
func (w *StdoutWriter) WriteTicks(rows []telemetry.TickRow) error {
	for _, r := range rows {
		if err := w.WriteTick(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteSweep outputs a single sweep row.
func (w *StdoutWriter) WriteSweep(row telemetry.SweepRow) error {
	if !w.colorize {
		return w.printJSON(row)
	}
	s := w.styles
	parts := make([]string, 0, len(row.Point))
	for _, av := range row.Point {
		parts = append(parts, fmt.Sprintf("%s=%g", av.Parameter, av.Value))
	}
	fmt.Fprintf(w.out, "%s %s %s %s %s\n",
		s.sweep.Render("SWEEP "+row.Plan),
		s.label.Render(strings.Join(parts, " ")),
		s.label.Render(fmt.Sprintf("visits=%d", row.BaseVisits)),
		s.water.Render(fmt.Sprintf("water=%.0f", row.WaterReleased)),
		s.time.Render(row.RunID),
	)
	return nil
}

// WriteSweeps outputs multiple sweep rows.
func (w *StdoutWriter) WriteSweeps(rows []telemetry.SweepRow) error {
	for _, r := range rows {
		if err := w.WriteSweep(r); err != nil {
			return err
		}
	}
	return nil
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ",")
}
