package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/runway/internal/tui/theme"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  rune
}

// Tabs defines all available tabs. Each shortcut is the tab's first letter.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o'},
	{Name: "Acquisition", Key: 'a'},
	{Name: "Health", Key: 'h'},
	{Name: "Table", Key: 't'},
}

func tabStyles() (active, inactive, key lipgloss.Style) {
	t := theme.Active
	active = lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true).
		Padding(0, 1)
	inactive = lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)
	key = lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true).
		Underline(true)
	return active, inactive, key
}

func renderTab(tab Tab, active bool) string {
	activeStyle, inactiveStyle, keyStyle := tabStyles()
	if active {
		return activeStyle.Render(tab.Name)
	}
	// Underline the shortcut letter.
	first, rest := tab.Name[:1], tab.Name[1:]
	return inactiveStyle.Render(" ") +
		keyStyle.Render(first) +
		inactiveStyle.Render(rest+" ")
}

// TabVisualWidth is the rendered width of tab, matching RenderTabBar.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active
	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render("│")

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}

	return lipgloss.NewStyle().
		Background(t.Surface).
		Width(width).
		Render(strings.Join(parts, sep))
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
