package sim

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"firefleet-sim/internal/config"
	"firefleet-sim/internal/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries a log line for the event viewport.
type logMsg struct{ line string }

// tickMsg carries the fleet state of one tick.
type tickMsg struct{ telemetry.TickRow }

const (
	maxSectionHeightPct = 0.3
	maxLogLines         = 1000
	laneMinWidth        = 20
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	fireStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	waterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	markerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	dropStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	sweepStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
)

// TUIWriter renders the fleet using a bubbletea TUI: one lane per aircraft
// between base and reservoir with the fire in between.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
	frameDelay time.Duration
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter. A
// positive frameDelay slows the simulation down to watchable speed.
func NewTUIWriter(cfg *config.FleetConfig, frameDelay time.Duration) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{}), frameDelay: frameDelay}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(cfg), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// WriteTick implements TickWriter.
func (w *TUIWriter) WriteTick(row telemetry.TickRow) error {
	w.program.Send(tickMsg{row})
	for _, d := range row.Drops {
		w.program.Send(logMsg{line: fmt.Sprintf("%s %s %s aircraft=%s water=%.0f",
			dimStyle.Render(clock(row.Tick)), dropStyle.Render("DROP"), d.Kind, joinIDs(d.AircraftIDs), d.WaterKg)})
	}
	if w.frameDelay > 0 {
		time.Sleep(w.frameDelay)
	}
	return nil
}

// WriteTicks outputs multiple tick rows.
func (w *TUIWriter) WriteTicks(rows []telemetry.TickRow) error {
	for _, r := range rows {
		_ = w.WriteTick(r)
	}
	return nil
}

// WriteSweep implements SweepWriter.
func (w *TUIWriter) WriteSweep(row telemetry.SweepRow) error {
	parts := make([]string, 0, len(row.Point))
	for _, av := range row.Point {
		parts = append(parts, fmt.Sprintf("%s=%g", av.Parameter, av.Value))
	}
	w.program.Send(logMsg{line: fmt.Sprintf("%s %s visits=%d water=%.0f",
		sweepStyle.Render("SWEEP "+row.Plan), strings.Join(parts, " "), row.BaseVisits, row.WaterReleased)})
	return nil
}

// WriteSweeps outputs multiple sweep rows.
func (w *TUIWriter) WriteSweeps(rows []telemetry.SweepRow) error {
	for _, r := range rows {
		_ = w.WriteSweep(r)
	}
	return nil
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

// clock formats a tick as simulated time of day.
func clock(tick int) string {
	return fmt.Sprintf("%02d:%02d", tick/60%24, tick%60)
}

type tuiModel struct {
	cfg          *config.FleetConfig
	vp           viewport.Model
	fuelBar      progress.Model
	logs         []string
	tick         telemetry.TickRow
	haveTick     bool
	wrap         bool
	autoscroll   bool
	help         bool
	header       string
	headerHeight int
	width        int
	height       int
}

func newTUIModel(cfg *config.FleetConfig) tuiModel {
	bar := progress.New(
		progress.WithSolidFill("10"),
		progress.WithoutPercentage(),
		progress.WithWidth(12),
	)
	m := tuiModel{
		cfg:        cfg,
		vp:         viewport.New(0, 0),
		fuelBar:    bar,
		autoscroll: true,
	}
	m.header = m.renderHeader()
	m.headerHeight = lipgloss.Height(m.header)
	return m
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.header = m.renderHeader()
		m.headerHeight = lipgloss.Height(m.header)
		m.updateViewportHeight()
		m.refreshViewport()
	case tea.KeyMsg:
		if m.help {
			switch msg.String() {
			case "?", "h", "esc":
				m.help = false
			case "q", "ctrl+c":
				return m, tea.Quit
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.header = m.renderHeader()
			m.headerHeight = lipgloss.Height(m.header)
			m.updateViewportHeight()
			m.refreshViewport()
			return m, nil
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
			}
			return m, nil
		case "h", "?":
			m.help = true
			return m, nil
		}
		if !m.autoscroll {
			switch msg.String() {
			case "j", "down":
				m.vp.LineDown(1)
			case "k", "up":
				m.vp.LineUp(1)
			case "pgdown", "ctrl+n":
				m.vp.LineDown(10)
			case "pgup", "ctrl+p":
				m.vp.LineUp(10)
			default:
				var cmd tea.Cmd
				m.vp, cmd = m.vp.Update(msg)
				return m, cmd
			}
		}
		return m, nil
	case logMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.refreshViewport()
	case tickMsg:
		m.tick = msg.TickRow
		m.haveTick = true
	}
	return m, nil
}

func (m *tuiModel) updateViewportHeight() {
	h := int(float64(m.height) * maxSectionHeightPct)
	if h < 1 {
		h = 1
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	lines := make([]string, 0, len(m.logs))
	for _, l := range m.logs {
		if m.wrap && m.vp.Width > 0 {
			l = wordwrap.String(l, m.vp.Width)
		}
		lines = append(lines, l)
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

// laneBudget is the number of aircraft lanes that fit on screen.
func (m tuiModel) laneBudget() int {
	if m.height == 0 {
		return len(m.tick.Aircraft)
	}
	// title, axis, three dividers, log title and footer
	n := m.height - m.headerHeight - m.vp.Height - 7
	return max(n, 1)
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	width := max(m.width, laneMinWidth+40)
	divider := strings.Repeat("─", width)
	sections := []string{
		m.header,
		divider,
		m.renderTitle(),
		m.renderAxis(),
		m.renderLanes(),
		divider,
		"Events:",
		m.vp.View(),
		divider,
		m.renderBottom(),
	}
	return strings.Join(sections, "\n")
}

func (m tuiModel) renderHeader() string {
	if m.cfg == nil {
		return ""
	}
	c := m.cfg
	name := c.Preset
	if name == "" {
		name = "custom"
	}
	line := fmt.Sprintf("%s | legs %.1f/%.1f nm | cruise %.0f kt dash %.0f kt | fuel %.0f kg water %.0f kg | fleet %d base %d | %s",
		name, c.LegBaseNM, c.LegReservoirNM, c.CruiseSpeedKt, c.DashSpeedKt,
		c.FuelCapacityKg, c.WaterCapacityKg, c.FleetSize, c.BaseCapacity, c.Policy)
	if m.wrap && m.width > 0 {
		line = wordwrap.String(line, m.width)
	}
	return line
}

func (m tuiModel) renderTitle() string {
	if !m.haveTick {
		return titleStyle.Render("waiting for first tick")
	}
	r := m.tick
	return titleStyle.Render(fmt.Sprintf("t=%d %s", r.Tick, clock(r.Tick))) +
		fmt.Sprintf("  power %.1f kW  visits %d  released %s  queue %d",
			r.CurrentPower, r.BaseVisits, waterStyle.Render(fmt.Sprintf("%.0f kg", r.WaterReleased)), r.QueueLength)
}

func (m tuiModel) laneWidth() int {
	w := m.width - 40
	return max(w, laneMinWidth)
}

// laneColumn maps a position along the route to a lane column.
func laneColumn(pos, total float64, width int) int {
	if total <= 0 || width <= 1 {
		return 0
	}
	col := int(pos / total * float64(width-1))
	return min(max(col, 0), width-1)
}

func (m tuiModel) route() (fire, total float64) {
	if m.cfg == nil {
		return 0, 0
	}
	return m.cfg.LegBaseNM, m.cfg.LegBaseNM + m.cfg.LegReservoirNM
}

func (m tuiModel) renderAxis() string {
	width := m.laneWidth()
	fire, total := m.route()
	axis := []rune(strings.Repeat(" ", width))
	axis[0] = 'B'
	axis[width-1] = 'R'
	axis[laneColumn(fire, total, width)] = '▲'
	return fmt.Sprintf("%-14s%s", "", fireStyle.Render(string(axis)))
}

// renderLane draws one aircraft: its marker along the route, a fuel bar and
// a water flag.
func (m tuiModel) renderLane(a telemetry.AircraftRow) string {
	width := m.laneWidth()
	fire, total := m.route()
	lane := []rune(strings.Repeat("·", width))
	lane[laneColumn(fire, total, width)] = '|'
	col := laneColumn(a.PositionNM, total, width)

	var b strings.Builder
	b.WriteString(string(lane[:col]))
	b.WriteString(markerStyle.Render("✈"))
	b.WriteString(string(lane[col+1:]))

	fuelPct := 0.0
	if m.cfg != nil && m.cfg.FuelCapacityKg > 0 {
		fuelPct = min(max(a.Fuel/m.cfg.FuelCapacityKg, 0), 1)
	}
	flag := dimStyle.Render("○")
	if a.Water > 0 {
		flag = waterStyle.Render("●")
	}
	return fmt.Sprintf("#%-3d %-9s %s %s %s", a.AircraftID, a.State, b.String(), m.fuelBar.ViewAs(fuelPct), flag)
}

func (m tuiModel) renderLanes() string {
	if len(m.tick.Aircraft) == 0 {
		return dimStyle.Render("no aircraft airborne")
	}
	budget := m.laneBudget()
	lines := make([]string, 0, min(budget, len(m.tick.Aircraft))+1)
	for i, a := range m.tick.Aircraft {
		if i == budget {
			lines = append(lines, dimStyle.Render(fmt.Sprintf("+%d more", len(m.tick.Aircraft)-budget)))
			break
		}
		lines = append(lines, m.renderLane(a))
	}
	return strings.Join(lines, "\n")
}

func indicator(on bool) string {
	c := lipgloss.Color("9")
	if on {
		c = lipgloss.Color("10")
	}
	return lipgloss.NewStyle().Foreground(c).Render("●")
}

func (m tuiModel) renderBottom() string {
	deficits := fmt.Sprintf("deficits=%d", m.tick.FuelDeficits)
	if m.tick.FuelDeficits > 0 {
		deficits = dropStyle.Render(deficits)
	}
	return fmt.Sprintf("%s | Wrap %s | Scroll %s | h help | q quit", deficits, indicator(m.wrap), indicator(m.autoscroll))
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" q  quit",
		" w  toggle wrap for header and events",
		" s  toggle auto-scroll",
		" h/? toggle this help view",
		"",
		"When auto-scroll is disabled:",
		" j/k or up/down    scroll one line",
		" pgdown/pgup       scroll a page",
	}
	return strings.Join(lines, "\n")
}
