package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/tui/components"
	"github.com/theirongolddev/runway/internal/tui/theme"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	s := a.run.Summary
	results := a.run.Results

	var b strings.Builder

	// Row 1: headline metric cards
	b.WriteString(components.MetricCardRow([]components.Metric{
		{
			Label: "Final Users",
			Value: cli.FormatNumber(s.FinalUsers),
			Note:  "peak " + cli.FormatCompact(s.PeakUsers),
			Tone:  t.Users,
		},
		{
			Label: "Final Cash",
			Value: cli.FormatCompactCurrency(s.FinalCash),
			Note:  "low " + cli.FormatCompactCurrency(s.LowestCash),
			Tone:  cashTone(s.FinalCash),
		},
		{
			Label: "LTV:CAC",
			Value: cli.FormatRatio(s.FinalLTVCACRatio, "x"),
			Note:  fmt.Sprintf("PMF %.2f", s.FinalPMFScore),
			Tone:  ltvCACTone(s.FinalLTVCACRatio),
		},
		{
			Label: "Runway",
			Value: cli.FormatRunway(s.FinalRunway),
			Note:  breakEvenNote(s.BreakEvenMonth),
			Tone:  runwayTone(s.FinalRunway),
		},
	}, cw))
	b.WriteString("\n")

	labels := monthLabels(results)
	from := forecastStart(results)
	users := components.Series{
		Values:       series(results, func(r model.MonthlyResult) float64 { return float64(r.Users) }),
		Labels:       labels,
		ForecastFrom: from,
		Color:        t.Users,
	}
	revenue := components.Series{
		Values:       series(results, func(r model.MonthlyResult) float64 { return float64(r.Revenue) }),
		Labels:       labels,
		ForecastFrom: from,
		Color:        t.Revenue,
	}
	cash := components.Series{
		Values:       series(results, func(r model.MonthlyResult) float64 { return float64(r.Cash) }),
		Labels:       labels,
		ForecastFrom: from,
		Color:        t.Cash,
	}

	chartH := 8
	if a.height > 45 {
		chartH = 12
	}

	// Row 2: users chart across the full width
	b.WriteString(components.ContentCard("Users", components.BarChart(users, components.CardInnerWidth(cw), chartH), cw))
	b.WriteString("\n")

	// Row 3: revenue and cash side by side, stacked when compact
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Revenue", components.BarChart(revenue, components.CardInnerWidth(cw), chartH), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Cash", components.BarChart(cash, components.CardInnerWidth(cw), chartH), cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Revenue", components.BarChart(revenue, components.CardInnerWidth(halves[0]), chartH), halves[0]),
			components.ContentCard("Cash", components.BarChart(cash, components.CardInnerWidth(halves[1]), chartH), halves[1]),
		}))
	}

	if s.TotalFunding > 0 {
		b.WriteString("\n")
		note := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background)
		b.WriteString(note.Render(fmt.Sprintf(" Raised %s across %d round(s), %.1f%% total dilution",
			cli.FormatMoney(s.TotalFunding), s.FundingEvents, s.EquityDilution*100)))
	}

	return b.String()
}

func cashTone(cash int64) lipgloss.Color {
	if cash < 0 {
		return theme.Active.Bad
	}
	return theme.Active.Cash
}

func ltvCACTone(r model.Ratio) lipgloss.Color {
	t := theme.Active
	switch {
	case r.IsUnbounded() && r.Value > 0:
		return t.Good
	case !r.IsFinite():
		return t.TextMuted
	case r.Value >= 3:
		return t.Good
	case r.Value >= 1:
		return t.Warn
	default:
		return t.Bad
	}
}

func runwayTone(r model.Ratio) lipgloss.Color {
	t := theme.Active
	switch {
	case r.IsUnbounded() && r.Value > 0:
		return t.Good
	case !r.IsFinite():
		return t.TextMuted
	case r.Value >= 18:
		return t.Good
	case r.Value >= 6:
		return t.Warn
	default:
		return t.Bad
	}
}

func breakEvenNote(month int) string {
	if month == 0 {
		return "never breaks even"
	}
	return fmt.Sprintf("break-even month %d", month)
}
