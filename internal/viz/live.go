package viz

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/fieldlab/internal/config"
	"github.com/san-kum/fieldlab/internal/experiment"
	"github.com/san-kum/fieldlab/internal/integrators"
	"github.com/san-kum/fieldlab/internal/physics"
	"github.com/san-kum/fieldlab/internal/sim"
)

const (
	canvasWidth  = 60
	canvasHeight = 25
	historyLen   = 120

	speedStep   = 0.25
	currentStep = 0.5

	// floor of the smoothed colour scale, so a silent plane stays blank
	minScale = 0.05
)

// smoother channels
const (
	chanScale = iota
	chanEnergy
	numChannels
)

// tickMsg carries the generation it was scheduled under. Stopping the clock
// bumps the generation, which orphans the pending tick.
type tickMsg struct {
	at  time.Time
	gen int64
}

// generations are unique across models so a tick scheduled by a closed
// view never drives a new one.
var generations atomic.Int64

func nextGen() int64 { return generations.Add(1) }

// Model is the live view of one simulator. It owns the simulator for the
// lifetime of the program; every tick and edit runs on the update goroutine.
type Model struct {
	sim      *sim.Simulator
	mode     string
	mag      config.MagneticConfig
	interval time.Duration
	gen      int64

	grid   *physics.Grid
	canvas *Canvas
	smooth *smoother
	theme  Theme
	st     styles

	probe    []float64
	energy   []float64
	status   string
	showHelp bool
}

// NewModel wraps s for display in mode ("wave" or "magnetic") and starts the
// clock. cfg supplies the magnetic parameters that keys edit and the frame
// interval.
func NewModel(s *sim.Simulator, cfg *config.Config) Model {
	interval := cfg.Clock.FrameInterval
	if interval <= 0 {
		interval = config.DefaultFrameInterval
	}
	m := Model{
		sim:      s,
		mode:     cfg.Mode,
		mag:      cfg.Magnetic,
		interval: interval,
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		smooth:   newSmoother(int(time.Second/interval), numChannels),
		theme:    Themes[0],
		st:       newStyles(Themes[0]),
		probe:    make([]float64, 0, historyLen),
		energy:   make([]float64, 0, historyLen),
	}
	if m.mode != experiment.ModeMagnetic {
		m.mode = experiment.ModeWave
	}
	m.smooth.snap(chanScale, max(physics.MaxAmplitude(s.Wave().Sources), minScale))
	m.smooth.snap(chanEnergy, s.KineticEnergy())
	m.grid = s.Grid()
	s.Clock().Start()
	m.gen = nextGen()
	return m
}

func (m Model) Init() tea.Cmd {
	if !m.sim.Clock().Running() {
		return nil
	}
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg{at: t, gen: gen} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		if msg.gen != m.gen || !m.sim.Clock().Running() {
			return m, nil
		}
		if f, ok := m.sim.Tick(msg.at); ok {
			m.record(f)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	clock := m.sim.Clock()
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		clock.Stop()
		m.gen = nextGen()
		return m, tea.Quit
	case " ":
		m.gen = nextGen()
		if clock.Running() {
			clock.Stop()
			return m, nil
		}
		clock.Start()
		return m, m.tick()
	case "+", "=":
		m.status = fmt.Sprintf("speed %.2fx", clock.SetSpeed(clock.Speed()+speedStep))
	case "-", "_":
		m.status = fmt.Sprintf("speed %.2fx", clock.SetSpeed(clock.Speed()-speedStep))
	case "n":
		if sc, err := m.sim.Scenarios().Next(); err == nil {
			m.status = "scenario: " + sc.Name
			m.smooth.snap(chanScale, max(physics.MaxAmplitude(m.sim.Wave().Sources), minScale))
			m.resample()
		}
	case "m":
		m.switchMode()
	case "p":
		opts := m.sim.ParticleOptions()
		m.sim.SetParticlesEnabled(!opts.Enabled)
		m.status = fmt.Sprintf("particles %s", onOff(!opts.Enabled))
	case "c":
		next := (m.sim.ParticleOptions().Mode + 1) % 3
		m.sim.SetChargeMode(next)
		m.status = "charges: " + next.String()
	case "f":
		kind, err := physics.ParseSourceKind(m.mag.Field)
		if err != nil {
			kind = physics.KindWire
		}
		m.mag.Field = ((kind + 1) % 3).String()
		m.applyField()
	case "up", "k":
		m.mag.Current = config.CurrentRange.Clamp(m.mag.Current + currentStep)
		m.applyField()
	case "down", "j":
		m.mag.Current = config.CurrentRange.Clamp(m.mag.Current - currentStep)
		m.applyField()
	case "r":
		clock.Reset()
		m.sim.Respawn()
		m.probe = m.probe[:0]
		m.energy = m.energy[:0]
		m.resample()
		m.status = "reset"
	case "t":
		m.theme = NextTheme(m.theme.Name)
		m.st = newStyles(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) applyField() {
	src, err := m.mag.Source()
	if err != nil {
		m.status = err.Error()
		return
	}
	m.sim.SetField(src)
	m.status = fmt.Sprintf("%s at %.1f A", src.Kind(), m.mag.Current)
}

func (m *Model) switchMode() {
	if m.mode == experiment.ModeWave {
		m.mode = experiment.ModeMagnetic
	} else {
		m.mode = experiment.ModeWave
	}
	m.sim.SetParticlesEnabled(m.mode == experiment.ModeMagnetic)
	m.status = "mode: " + m.mode
}

// record folds one frame into the displayed history.
func (m *Model) record(f sim.Frame) {
	m.probe = pushBounded(m.probe, f.Probe)
	m.energy = pushBounded(m.energy, m.smooth.step(chanEnergy, m.sim.KineticEnergy()))
	m.resample()
	m.smooth.step(chanScale, max(m.grid.Peak, minScale))
}

func (m *Model) resample() {
	if m.grid != nil {
		m.sim.ReleaseGrid(m.grid)
	}
	m.grid = m.sim.Grid()
}

func pushBounded(h []float64, v float64) []float64 {
	if len(h) == historyLen {
		copy(h, h[1:])
		h = h[:historyLen-1]
	}
	return append(h, v)
}

func (m Model) View() string {
	var view string
	if m.mode == experiment.ModeMagnetic {
		view = m.st.value.Render(m.drawField())
	} else {
		px, py := m.sim.Probe()
		view = renderWave(m.grid, m.smooth.value(chanScale), m.sim.Wave().Sources, px, py, m.st)
	}
	main := lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Padding(1, 2).Render(view), m.panel())
	if m.showHelp {
		return m.help() + "\n" + main
	}
	return main
}

func (m Model) drawField() string {
	c, plane := m.canvas, m.sim.Plane()
	c.Clear()
	drawSource(c, plane, m.sim.Field())
	for i, p := range m.sim.Particles() {
		drawTrail(c, plane, m.sim.Trail(i))
		x, y := toDots(c, plane, p.X, p.Y)
		c.DrawBlob(x, y)
	}
	return c.String()
}

func (m Model) panel() string {
	clock, st := m.sim.Clock(), m.st
	var b strings.Builder

	b.WriteString(st.title.Render("FIELDLAB · "+strings.ToUpper(m.mode)) + "\n")
	if clock.Running() {
		b.WriteString(st.running.Render("● RUNNING") + "\n\n")
	} else {
		b.WriteString(st.stopped.Render("■ STOPPED") + "\n\n")
	}

	speed := clock.Speed()
	b.WriteString(st.row("Time", fmt.Sprintf("%.2fs", clock.Elapsed())))
	b.WriteString(st.row("Ticks", fmt.Sprintf("%d", clock.Ticks())))
	b.WriteString(st.row("Speed", fmt.Sprintf("%s %.2fx", ProgressBar((speed-sim.MinSpeed)/(sim.MaxSpeed-sim.MinSpeed), 12), speed)))
	b.WriteString("\n")

	if m.mode == experiment.ModeMagnetic {
		m.magneticRows(&b)
	} else {
		m.waveRows(&b)
	}

	if m.status != "" {
		b.WriteString("\n" + st.warn.Render(m.status) + "\n")
	}
	b.WriteString("\n" + separator(36, st) + "\n")
	b.WriteString(st.hint.Render("SP:Run/Stop +/-:Speed M:Mode Q:Quit\nN:Scenario F:Field ↑↓:Current\nP:Particles C:Charges R:Reset T:Theme ?:Help"))
	return st.panel.Render(b.String())
}

func (m Model) waveRows(b *strings.Builder) {
	st := m.st
	name := "custom"
	if id, ok := m.sim.Scenarios().Active(); ok {
		if sc, found := m.sim.Scenarios().Get(id); found {
			name = sc.Name
		}
	}
	amp, kind := m.sim.ProbeInterference()
	live := m.sim.Wave()

	b.WriteString(st.row("Scenario", name))
	b.WriteString(st.row("Wave speed", fmt.Sprintf("%.2f", live.WaveSpeed)))
	b.WriteString(st.row("Damping", fmt.Sprintf("%.3f", live.Damping)))
	b.WriteString(st.row("Probe", fmt.Sprintf("%+.3f %s", amp, kind)))
	b.WriteString(st.row("Scale", fmt.Sprintf("%.3f", m.smooth.value(chanScale))))

	if len(m.probe) > 1 {
		chart := asciigraph.Plot(m.probe, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("probe amplitude"))
		b.WriteString("\n" + st.graph.Render(chart) + "\n")
	}
}

func (m Model) magneticRows(b *strings.Builder) {
	st := m.st
	opts := m.sim.ParticleOptions()
	ps := m.sim.Particles()
	pos, neg := chargeCounts(ps)

	b.WriteString(st.row("Field", m.sim.Field().Kind().String()))
	b.WriteString(st.row("Current", fmt.Sprintf("%.1f A", m.mag.Current)))
	if m.sim.Field().Kind() == physics.KindCoil {
		b.WriteString(st.row("Turns", fmt.Sprintf("%d", m.mag.Turns)))
	}
	b.WriteString(st.row("Particles", fmt.Sprintf("%s %s %s",
		onOff(opts.Enabled), st.pos.Render(fmt.Sprintf("+%d", pos)), st.neg.Render(fmt.Sprintf("-%d", neg)))))
	b.WriteString(st.row("Charges", opts.Mode.String()))
	b.WriteString(st.row("Max speed", fmt.Sprintf("%.2f", maxParticleSpeed(ps))))
	b.WriteString(st.row("Energy", fmt.Sprintf("%.3f", m.smooth.value(chanEnergy))))
	b.WriteString("\n" + st.graph.Render(Sparkline(m.energy, 30)) + "\n")
}

func maxParticleSpeed(ps []integrators.Particle) float64 {
	top := 0.0
	for _, p := range ps {
		top = max(top, p.Speed())
	}
	return top
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func (m Model) help() string {
	return m.st.hint.Render(`
  Space     start / stop the clock
  + / -     speed multiplier
  M         switch wave / magnetic view
  N         next wave scenario
  F         cycle field (wire, coil, bar)
  Up/Down   field current
  P         toggle particles
  C         cycle charge mode
  R         reset time and particles
  T         cycle theme
  ?         toggle this help
  Q         quit`)
}
