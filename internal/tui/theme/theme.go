// Package theme defines color themes for the runway TUI dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name         string
	Background   lipgloss.Color // Main app background
	Surface      lipgloss.Color // Card/panel backgrounds
	Border       lipgloss.Color
	BorderAccent lipgloss.Color // Focused cards, loading and help overlays
	TextDim      lipgloss.Color // Hints, axes
	TextMuted    lipgloss.Color // Labels
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color
	AccentBright lipgloss.Color

	// Series colors, one per metric family.
	Users   lipgloss.Color
	Revenue lipgloss.Color
	Cash    lipgloss.Color
	Paid    lipgloss.Color
	Organic lipgloss.Color

	// Forecast rows and bars.
	Forecast lipgloss.Color

	// Health tones.
	Good lipgloss.Color
	Warn lipgloss.Color
	Bad  lipgloss.Color
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Users:        lipgloss.Color("#4385BE"),
	Revenue:      lipgloss.Color("#879A39"),
	Cash:         lipgloss.Color("#D0A215"),
	Paid:         lipgloss.Color("#CE5D97"),
	Organic:      lipgloss.Color("#24837B"),
	Forecast:     lipgloss.Color("#8B7EC8"),
	Good:         lipgloss.Color("#A3B859"),
	Warn:         lipgloss.Color("#DA702C"),
	Bad:          lipgloss.Color("#D14D41"),
}

// CatppuccinMocha is a soft pastel theme.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   lipgloss.Color("#1E1E2E"),
	Surface:      lipgloss.Color("#313244"),
	Border:       lipgloss.Color("#585B70"),
	BorderAccent: lipgloss.Color("#89B4FA"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	AccentBright: lipgloss.Color("#B4D0FB"),
	Users:        lipgloss.Color("#89B4FA"),
	Revenue:      lipgloss.Color("#A6E3A1"),
	Cash:         lipgloss.Color("#F9E2AF"),
	Paid:         lipgloss.Color("#F5C2E7"),
	Organic:      lipgloss.Color("#94E2D5"),
	Forecast:     lipgloss.Color("#CBA6F7"),
	Good:         lipgloss.Color("#A6E3A1"),
	Warn:         lipgloss.Color("#FAB387"),
	Bad:          lipgloss.Color("#F38BA8"),
}

// TokyoNight is a cool blue/purple theme.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   lipgloss.Color("#1A1B26"),
	Surface:      lipgloss.Color("#24283B"),
	Border:       lipgloss.Color("#565F89"),
	BorderAccent: lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	Users:        lipgloss.Color("#7AA2F7"),
	Revenue:      lipgloss.Color("#9ECE6A"),
	Cash:         lipgloss.Color("#E0AF68"),
	Paid:         lipgloss.Color("#BB9AF7"),
	Organic:      lipgloss.Color("#7DCFFF"),
	Forecast:     lipgloss.Color("#9D7CD8"),
	Good:         lipgloss.Color("#9ECE6A"),
	Warn:         lipgloss.Color("#FF9E64"),
	Bad:          lipgloss.Color("#F7768E"),
}

// Terminal uses ANSI 16 colors only.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Users:        lipgloss.Color("4"),
	Revenue:      lipgloss.Color("2"),
	Cash:         lipgloss.Color("3"),
	Paid:         lipgloss.Color("5"),
	Organic:      lipgloss.Color("6"),
	Forecast:     lipgloss.Color("13"),
	Good:         lipgloss.Color("10"),
	Warn:         lipgloss.Color("3"),
	Bad:          lipgloss.Color("1"),
}

// All available themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// Names lists the theme names in menu order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}
