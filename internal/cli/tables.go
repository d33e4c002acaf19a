package cli

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/runway/internal/model"
)

// MonthlyTable lays out simulation results one row per month. Forecast rows
// carry a trailing "*" on the month label and use the forecast color.
func MonthlyTable(title string, results []model.MonthlyResult) Table {
	t := Table{
		Title: title,
		Headers: []string{
			"Month", "Users", "New", "Churned", "Revenue", "Expenses",
			"Net", "Cash", "LTV:CAC", "Burn x", "Runway", "PMF", "Team",
		},
		Forecast: make(map[int]bool),
	}

	for i, r := range results {
		label := r.MonthName
		if r.IsForecast {
			label += " *"
			t.Forecast[i] = true
		}
		t.Rows = append(t.Rows, []string{
			label,
			FormatNumber(r.Users),
			FormatNumber(r.NewUsers),
			FormatNumber(r.ChurnedUsers),
			FormatCurrency(r.Revenue),
			FormatCurrency(r.Expenses),
			FormatCurrency(r.NetCashFlow),
			FormatCurrency(r.Cash),
			FormatRatio(r.LTVCACRatio, "x"),
			FormatRatio(r.BurnMultiple, ""),
			FormatRunway(r.Runway),
			fmt.Sprintf("%.2f", r.PMFScore),
			strconv.Itoa(r.TeamSize),
		})
	}
	return t
}

// PeriodTable lays out quarterly or yearly aggregates.
func PeriodTable(title string, periods []model.PeriodStats) Table {
	t := Table{
		Title:    title,
		Headers:  []string{"Period", "Months", "Revenue", "Expenses", "Net", "New Users", "End Users", "End Cash"},
		Forecast: make(map[int]bool),
	}
	for i, p := range periods {
		label := p.Label
		if p.Forecast {
			label += " *"
			t.Forecast[i] = true
		}
		t.Rows = append(t.Rows, []string{
			label,
			fmt.Sprintf("%d-%d", p.FirstMonth, p.LastMonth),
			FormatCurrency(p.Revenue),
			FormatCurrency(p.Expenses),
			FormatCurrency(p.NetCashFlow),
			FormatNumber(p.NewUsers),
			FormatNumber(p.EndUsers),
			FormatCurrency(p.EndCash),
		})
	}
	return t
}

// FundingTable lists the rounds a run raised.
func FundingTable(events []model.FundingEvent) Table {
	t := Table{
		Title:   "Funding",
		Headers: []string{"Month", "Round", "Amount", "Dilution"},
	}
	for _, e := range events {
		t.Rows = append(t.Rows, []string{
			e.MonthName,
			e.Round.String(),
			FormatMoney(e.Amount),
			FormatPercent(e.Dilution),
		})
	}
	return t
}

// SummaryTable lists a run's headline metrics.
func SummaryTable(s model.Summary) Table {
	t := Table{
		Title:   "Summary",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Months simulated", fmt.Sprintf("%d (%d historical, %d forecast)", s.Months, s.HistoricalMonths, s.ForecastMonths)},
			{"Final users", FormatNumber(s.FinalUsers)},
			{"Final cash", FormatCurrency(s.FinalCash)},
			{"LTV:CAC", FormatRatio(s.FinalLTVCACRatio, "x")},
			{"Runway", FormatRunway(s.FinalRunway)},
			{"PMF score", fmt.Sprintf("%.2f", s.FinalPMFScore)},
			{"Team size", strconv.Itoa(s.FinalTeamSize)},
			{"Peak users", FormatNumber(s.PeakUsers)},
			{"Lowest cash", FormatCurrency(s.LowestCash)},
			{"Total revenue", FormatCurrency(s.TotalRevenue)},
			{"Total expenses", FormatCurrency(s.TotalExpenses)},
			{"Total funding", FormatMoney(s.TotalFunding)},
			{"Equity dilution", FormatPercent(s.EquityDilution)},
		},
	}
	if s.BreakEvenMonth > 0 {
		t.Rows = append(t.Rows, []string{"First break-even month", strconv.Itoa(s.BreakEvenMonth)})
	}
	return t
}

// RecordTable lays out monthly input records: observed history or generated
// forecast months.
func RecordTable(title string, records []model.MonthlyRecord) Table {
	t := Table{
		Title: title,
		Headers: []string{
			"#", "Month", "Marketing", "Burn", "CAC", "Churn", "ARPU",
			"Team", "Improvements", "Expansion", "Round",
		},
		Forecast: make(map[int]bool),
	}
	for i, r := range records {
		if r.IsForecast() {
			t.Forecast[i] = true
		}
		round := "-"
		if !r.FundingRound.IsNone() {
			round = r.FundingRound.String()
		}
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i + 1),
			r.MonthName,
			FormatMoney(r.MarketingSpend),
			FormatMoney(r.BurnRate),
			fmt.Sprintf("$%.2f", r.CAC),
			FormatPercent(r.ChurnRate),
			fmt.Sprintf("$%.2f", r.ARPU),
			strconv.Itoa(r.TeamSize),
			strconv.Itoa(r.ProductImprovements),
			FormatPercent(r.MarketExpansion),
			round,
		})
	}
	return t
}
