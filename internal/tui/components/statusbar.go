package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/runway/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints on the left,
// run information on the right. A non-empty warning replaces the hints.
func RenderStatusBar(width int, info, warning string) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface).Bold(true)

	left := base.Render(" [p]arameters  [?]help  [q]uit")
	if warning != "" {
		left = warnStyle.Render(" " + warning)
	}
	right := ""
	if info != "" {
		right = base.Render(info + " ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return left + base.Render(strings.Repeat(" ", padding)) + right
}
