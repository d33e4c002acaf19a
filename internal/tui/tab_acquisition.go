package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/tui/components"
	"github.com/theirongolddev/runway/internal/tui/theme"
)

func (a App) renderAcquisitionTab(cw int) string {
	t := theme.Active
	results := a.run.Results

	var paid, organic, churned int64
	for _, r := range results {
		paid += r.PaidUsers
		organic += r.OrganicUsers
		churned += r.ChurnedUsers
	}
	total := paid + organic

	share := func(n int64) string {
		if total == 0 {
			return "no new users"
		}
		return fmt.Sprintf("%.0f%% of new", float64(n)/float64(total)*100)
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "New Users", Value: cli.FormatNumber(a.run.Summary.TotalNewUsers), Tone: t.Users},
		{Label: "Paid", Value: cli.FormatNumber(paid), Note: share(paid), Tone: t.Paid},
		{Label: "Organic", Value: cli.FormatNumber(organic), Note: share(organic), Tone: t.Organic},
		{Label: "Churned", Value: cli.FormatNumber(churned), Tone: t.Bad},
	}, cw))
	b.WriteString("\n")

	labels := monthLabels(results)
	from := forecastStart(results)
	chart := func(title string, build func() components.Series, w int) string {
		return components.ContentCard(title, components.BarChart(build(), components.CardInnerWidth(w), 7), w)
	}
	newUsers := func() components.Series {
		return components.Series{
			Values:       series(results, func(r model.MonthlyResult) float64 { return float64(r.NewUsers) }),
			Labels:       labels,
			ForecastFrom: from,
			Color:        t.Users,
		}
	}
	paidUsers := func() components.Series {
		return components.Series{
			Values:       series(results, func(r model.MonthlyResult) float64 { return float64(r.PaidUsers) }),
			Labels:       labels,
			ForecastFrom: from,
			Color:        t.Paid,
		}
	}
	organicUsers := func() components.Series {
		return components.Series{
			Values:       series(results, func(r model.MonthlyResult) float64 { return float64(r.OrganicUsers) }),
			Labels:       labels,
			ForecastFrom: from,
			Color:        t.Organic,
		}
	}

	b.WriteString(chart("New users per month", newUsers, cw))
	b.WriteString("\n")
	if a.isCompactLayout() {
		b.WriteString(chart("Paid", paidUsers, cw))
		b.WriteString("\n")
		b.WriteString(chart("Organic (viral)", organicUsers, cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			chart("Paid", paidUsers, halves[0]),
			chart("Organic (viral)", organicUsers, halves[1]),
		}))
	}

	return b.String()
}
