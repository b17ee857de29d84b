package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles is the lipgloss set derived from one theme.
type styles struct {
	panel   lipgloss.Style
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	running lipgloss.Style
	stopped lipgloss.Style
	hint    lipgloss.Style
	graph   lipgloss.Style
	crest   lipgloss.Style
	trough  lipgloss.Style
	pos     lipgloss.Style
	neg     lipgloss.Style
	field   lipgloss.Style
	marker  lipgloss.Style
	warn    lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(0, 2).
			Width(44),
		title:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		running: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		stopped: lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		hint:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		graph:   lipgloss.NewStyle().Foreground(t.Accent),
		crest:   lipgloss.NewStyle().Foreground(t.Crest),
		trough:  lipgloss.NewStyle().Foreground(t.Trough),
		pos:     lipgloss.NewStyle().Foreground(t.Positive),
		neg:     lipgloss.NewStyle().Foreground(t.Negative),
		field:   lipgloss.NewStyle().Foreground(t.Field),
		marker:  lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		warn:    lipgloss.NewStyle().Foreground(t.Warning),
	}
}

func (s styles) row(label, value string) string {
	return s.label.Render(label) + s.value.Render(value) + "\n"
}

// ProgressBar renders fraction in [0, 1] as a fixed-width bar.
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders the last width values as block characters scaled to
// their own min and max.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(sparkChars)-1))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteRune(sparkChars[idx])
	}
	return b.String()
}

func separator(width int, s styles) string {
	mid := width / 2
	return s.hint.Render(strings.Repeat("─", mid-2) + " ◆ " + strings.Repeat("─", width-mid-3))
}
