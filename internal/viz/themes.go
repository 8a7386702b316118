package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the terminal view.
type Theme struct {
	Name   string
	Ink    lipgloss.Color // canvas dots and lines
	Accent lipgloss.Color // headers, captions
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Good   lipgloss.Color
	Warn   lipgloss.Color
	Bad    lipgloss.Color
}

var (
	ThemeNight = Theme{
		Name:   "night",
		Ink:    lipgloss.Color("#ffffff"),
		Accent: lipgloss.Color("#fa8072"), // salmon
		Text:   lipgloss.Color("#e0e0e0"),
		Muted:  lipgloss.Color("#666666"),
		Good:   lipgloss.Color("#00ff88"),
		Warn:   lipgloss.Color("#ffcc00"),
		Bad:    lipgloss.Color("#ff4444"),
	}

	ThemeTram = Theme{
		Name:   "tram",
		Ink:    lipgloss.Color("#ffd800"),
		Accent: lipgloss.Color("#ffd800"),
		Text:   lipgloss.Color("#fff8d0"),
		Muted:  lipgloss.Color("#806c00"),
		Good:   lipgloss.Color("#ffd800"),
		Warn:   lipgloss.Color("#ff9900"),
		Bad:    lipgloss.Color("#ff4400"),
	}

	ThemeMetro = Theme{
		Name:   "metro",
		Ink:    lipgloss.Color("#00a8cc"),
		Accent: lipgloss.Color("#e41f18"),
		Text:   lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#4488aa"),
		Good:   lipgloss.Color("#4ca22f"),
		Warn:   lipgloss.Color("#ffcc00"),
		Bad:    lipgloss.Color("#e41f18"),
	}

	ThemeRetro = Theme{
		Name:   "retro",
		Ink:    lipgloss.Color("#00ff00"),
		Accent: lipgloss.Color("#88ff88"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Good:   lipgloss.Color("#88ff88"),
		Warn:   lipgloss.Color("#ffff00"),
		Bad:    lipgloss.Color("#ff0000"),
	}

	CurrentTheme = ThemeNight

	Themes = []Theme{ThemeNight, ThemeTram, ThemeMetro, ThemeRetro}
)

// GetTheme looks a theme up by name, defaulting to night.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNight
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = ThemeNight
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
