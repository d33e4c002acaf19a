package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/runway/internal/tui/theme"
)

// ToneForScore colors a 0..1 score where higher is better.
func ToneForScore(score float64) lipgloss.Color {
	t := theme.Active
	switch {
	case score >= 0.7:
		return t.Good
	case score >= 0.4:
		return t.Warn
	default:
		return t.Bad
	}
}

// ToneForLoad colors a 0..1 utilization where higher is worse.
func ToneForLoad(load float64) lipgloss.Color {
	return ToneForScore(1 - load)
}

// GaugeBar renders a labeled bar for a value in [0,1] with its percentage and
// a trailing note.
func GaugeBar(label string, pct float64, tone lipgloss.Color, labelW, barWidth int, note string) string {
	t := theme.Active

	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}

	bar := progress.New(
		progress.WithSolidFill(string(tone)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(tone).Background(t.Surface).Bold(true)
	noteStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(pct) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100)) +
		spaceStyle.Render("  ") +
		noteStyle.Render(note)
}
