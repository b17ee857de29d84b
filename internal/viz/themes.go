package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the colour scheme of the live view. Crest and Trough colour
// positive and negative wave displacement, Positive and Negative the two
// particle charges.
type Theme struct {
	Name     string
	Primary  lipgloss.Color
	Accent   lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Crest    lipgloss.Color
	Trough   lipgloss.Color
	Positive lipgloss.Color
	Negative lipgloss.Color
	Field    lipgloss.Color
	Warning  lipgloss.Color
}

var (
	ThemeLab = Theme{
		Name:     "lab",
		Primary:  lipgloss.Color("#00d7ff"),
		Accent:   lipgloss.Color("#ffd75f"),
		Text:     lipgloss.Color("#e4e4e4"),
		Muted:    lipgloss.Color("#6c6c6c"),
		Crest:    lipgloss.Color("#5fafff"),
		Trough:   lipgloss.Color("#ff5f87"),
		Positive: lipgloss.Color("#ff875f"),
		Negative: lipgloss.Color("#5fd7ff"),
		Field:    lipgloss.Color("#8787af"),
		Warning:  lipgloss.Color("#ffaf00"),
	}

	ThemePhosphor = Theme{
		Name:     "phosphor",
		Primary:  lipgloss.Color("#00ff00"), // green phosphor
		Accent:   lipgloss.Color("#88ff88"),
		Text:     lipgloss.Color("#00ff00"),
		Muted:    lipgloss.Color("#005500"),
		Crest:    lipgloss.Color("#88ff88"),
		Trough:   lipgloss.Color("#008800"),
		Positive: lipgloss.Color("#ccff00"),
		Negative: lipgloss.Color("#00cc66"),
		Field:    lipgloss.Color("#004400"),
		Warning:  lipgloss.Color("#ffff00"),
	}

	ThemeMono = Theme{
		Name:     "mono",
		Primary:  lipgloss.Color("#ffffff"),
		Accent:   lipgloss.Color("#0088ff"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#888888"),
		Crest:    lipgloss.Color("#ffffff"),
		Trough:   lipgloss.Color("#808080"),
		Positive: lipgloss.Color("#ffffff"),
		Negative: lipgloss.Color("#aaaaaa"),
		Field:    lipgloss.Color("#444444"),
		Warning:  lipgloss.Color("#ffaa00"),
	}

	ThemeOcean = Theme{
		Name:     "ocean",
		Primary:  lipgloss.Color("#0077be"),
		Accent:   lipgloss.Color("#ffd700"),
		Text:     lipgloss.Color("#e0f0ff"),
		Muted:    lipgloss.Color("#4488aa"),
		Crest:    lipgloss.Color("#00a8cc"),
		Trough:   lipgloss.Color("#003366"),
		Positive: lipgloss.Color("#ffd700"),
		Negative: lipgloss.Color("#00ff88"),
		Field:    lipgloss.Color("#224466"),
		Warning:  lipgloss.Color("#ffcc00"),
	}

	ThemeInfrared = Theme{
		Name:     "infrared",
		Primary:  lipgloss.Color("#ff6b6b"),
		Accent:   lipgloss.Color("#feca57"),
		Text:     lipgloss.Color("#fff5f5"),
		Muted:    lipgloss.Color("#8b6b8c"),
		Crest:    lipgloss.Color("#ff9f43"),
		Trough:   lipgloss.Color("#5f27cd"),
		Positive: lipgloss.Color("#ff4757"),
		Negative: lipgloss.Color("#48dbfb"),
		Field:    lipgloss.Color("#2d1b2e"),
		Warning:  lipgloss.Color("#ffc048"),
	}

	Themes = []Theme{
		ThemeLab,
		ThemePhosphor,
		ThemeMono,
		ThemeOcean,
		ThemeInfrared,
	}
)

// GetTheme returns the theme called name, or the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
