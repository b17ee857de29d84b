package viz

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/fieldlab/internal/config"
	"github.com/san-kum/fieldlab/internal/experiment"
	"github.com/san-kum/fieldlab/internal/physics"
	"github.com/san-kum/fieldlab/internal/scenario"
)

const (
	stateMenu = iota
	stateLive
)

// entry is one menu line: a wave scenario or a magnetic field.
type entry struct {
	mode  string
	key   string
	label string
	info  string
}

// App is the interactive launcher: pick a scenario or field from the menu,
// watch it live, press q to come back.
type App struct {
	state  int
	cursor int
	items  []entry
	base   *config.Config
	logger *slog.Logger
	live   Model
	err    error
}

func NewApp(base *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &App{items: menuEntries(), base: base.Clone(), logger: logger}
}

func menuEntries() []entry {
	var items []entry
	for _, sc := range scenario.DefaultCatalog() {
		items = append(items, entry{mode: experiment.ModeWave, key: sc.ID, label: sc.Name, info: sc.Difficulty.String()})
	}
	for _, kind := range []physics.SourceKind{physics.KindWire, physics.KindCoil, physics.KindBar} {
		items = append(items, entry{mode: experiment.ModeMagnetic, key: kind.String(), label: kind.String() + " field", info: "charged particles"})
	}
	return items
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.state == stateLive {
		if k, ok := msg.(tea.KeyMsg); ok && (k.String() == "q" || k.String() == "esc") {
			a.live.sim.Clock().Stop()
			a.live.gen = nextGen()
			a.state = stateMenu
			return a, nil
		}
		next, cmd := a.live.Update(msg)
		a.live = next.(Model)
		return a, cmd
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch k.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.items)-1 {
			a.cursor++
		}
	case "enter", " ":
		return a, a.launch(a.items[a.cursor])
	}
	return a, nil
}

// launch builds an experiment for e and switches to the live view.
func (a *App) launch(e entry) tea.Cmd {
	cfg := a.base.Clone()
	cfg.Mode = e.mode
	if e.mode == experiment.ModeWave {
		cfg.Wave.Scenario = e.key
	} else {
		cfg.Magnetic.Field = e.key
		cfg.Particles.Enabled = true
	}

	exp := experiment.New(cfg, a.logger)
	if err := exp.Setup(); err != nil {
		a.err = err
		return nil
	}
	a.err = nil
	a.live = NewModel(exp.Simulator(), exp.Config())
	a.state = stateLive
	return a.live.Init()
}

func (a *App) View() string {
	if a.state == stateLive {
		return a.live.View()
	}
	st := a.live.st
	if a.live.sim == nil {
		st = newStyles(Themes[0])
	}

	var b strings.Builder
	b.WriteString("\n  " + st.title.Render("FIELDLAB") + "  " + st.hint.Render("wave interference · magnetic fields") + "\n\n")

	mode := ""
	for i, e := range a.items {
		if e.mode != mode {
			mode = e.mode
			b.WriteString("  " + st.label.Render(strings.ToUpper(mode)) + "\n")
		}
		line := fmt.Sprintf("%-28s %s", e.label, st.hint.Render(e.info))
		if i == a.cursor {
			b.WriteString("  " + st.marker.Render("▸ ") + st.value.Render(line) + "\n")
		} else {
			b.WriteString("    " + line + "\n")
		}
	}
	if a.err != nil {
		b.WriteString("\n  " + st.warn.Render(a.err.Error()) + "\n")
	}
	b.WriteString("\n  " + st.hint.Render("↑↓ select · enter launch · q quit") + "\n")
	return b.String()
}
