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

func (a App) renderHealthTab(cw int) string {
	t := theme.Active
	results := a.run.Results
	last := results[len(results)-1]

	innerW := components.CardInnerWidth(cw)
	labelW := 18
	barW := innerW - labelW - 30
	if barW < 10 {
		barW = 10
	}

	var gauges strings.Builder
	gauges.WriteString(components.GaugeBar("Product-market fit", last.PMFScore,
		components.ToneForScore(last.PMFScore), labelW, barW,
		fmt.Sprintf("score %.2f", last.PMFScore)))
	gauges.WriteString("\n")
	// MarketSaturation is the acquisition damping factor: 1 in an empty
	// market, falling to 0.1 as users approach the market size.
	gauges.WriteString(components.GaugeBar("Market headroom", last.MarketSaturation,
		components.ToneForScore(last.MarketSaturation), labelW, barW,
		fmt.Sprintf("%s of %s", cli.FormatCompact(last.Users), cli.FormatCompact(int64(a.run.Initial.MarketSize)))))
	gauges.WriteString("\n")
	gauges.WriteString(components.GaugeBar("Team capacity", float64(last.TeamSize)/float64(a.opts.Sim.Team.MaxTeamSize),
		components.ToneForLoad(float64(last.TeamSize)/float64(a.opts.Sim.Team.MaxTeamSize)), labelW, barW,
		fmt.Sprintf("%d of %d", last.TeamSize, a.opts.Sim.Team.MaxTeamSize)))

	var b strings.Builder
	b.WriteString(components.ContentCard("Final month", gauges.String(), cw))
	b.WriteString("\n")

	// Trend lines for the ratios. Non-finite months plot as zero.
	finite := func(f func(model.MonthlyResult) model.Ratio) []float64 {
		return series(results, func(r model.MonthlyResult) float64 {
			if v := f(r); v.IsFinite() {
				return v.Value
			}
			return 0
		})
	}

	rowStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	trend := func(label string, values []float64, color lipgloss.Color, final string) string {
		return rowStyle.Render(fmt.Sprintf("%-*s ", labelW, label)) +
			components.Sparkline(values, color) +
			rowStyle.Render("  ") + valStyle.Render(final)
	}

	var trends strings.Builder
	trends.WriteString(trend("LTV:CAC", finite(func(r model.MonthlyResult) model.Ratio { return r.LTVCACRatio }),
		ltvCACTone(last.LTVCACRatio), cli.FormatRatio(last.LTVCACRatio, "x")))
	trends.WriteString("\n")
	trends.WriteString(trend("Burn multiple", finite(func(r model.MonthlyResult) model.Ratio { return r.BurnMultiple }),
		t.Warn, cli.FormatRatio(last.BurnMultiple, "x")))
	trends.WriteString("\n")
	trends.WriteString(trend("Runway", finite(func(r model.MonthlyResult) model.Ratio { return r.Runway }),
		runwayTone(last.Runway), cli.FormatRunway(last.Runway)))
	trends.WriteString("\n")
	trends.WriteString(trend("PMF score", series(results, func(r model.MonthlyResult) float64 { return r.PMFScore }),
		components.ToneForScore(last.PMFScore), fmt.Sprintf("%.2f", last.PMFScore)))
	trends.WriteString("\n")
	trends.WriteString(trend("Net cash flow", series(results, func(r model.MonthlyResult) float64 { return float64(r.NetCashFlow) }),
		cashTone(last.NetCashFlow), cli.FormatCompactCurrency(last.NetCashFlow)))

	b.WriteString(components.ContentCard("Trends", trends.String(), cw))
	return b.String()
}
