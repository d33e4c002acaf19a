// Package report renders a simulation run as a shareable markdown or HTML
// document.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/pipeline"
)

// Markdown renders the run's key metrics and monthly table.
func Markdown(run *pipeline.RunResult, title string) string {
	if title == "" {
		title = "Growth Simulation"
	}
	s := run.Summary

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Run `%s`", run.RunID)
	if run.StartupID != "" {
		fmt.Fprintf(&b, " for startup `%s`", run.StartupID)
	}
	fmt.Fprintf(&b, ", %s.\n\n", run.CreatedAt.Format("2006-01-02 15:04 UTC"))

	b.WriteString("## Key metrics\n\n")
	b.WriteString("| Metric | Value |\n|---|---:|\n")
	rows := [][2]string{
		{"Final users", cli.FormatNumber(s.FinalUsers)},
		{"Final cash", cli.FormatCurrency(s.FinalCash)},
		{"LTV:CAC", cli.FormatRatio(s.FinalLTVCACRatio, "x")},
		{"Runway", cli.FormatRunway(s.FinalRunway)},
		{"PMF score", fmt.Sprintf("%.2f", s.FinalPMFScore)},
		{"Peak users", cli.FormatNumber(s.PeakUsers)},
		{"Lowest cash", cli.FormatCurrency(s.LowestCash)},
		{"Total revenue", cli.FormatCurrency(s.TotalRevenue)},
		{"Total expenses", cli.FormatCurrency(s.TotalExpenses)},
		{"Total funding", cli.FormatMoney(s.TotalFunding)},
		{"Equity dilution", cli.FormatPercent(s.EquityDilution)},
	}
	if s.BreakEvenMonth > 0 {
		rows = append(rows, [2]string{"First break-even month", fmt.Sprintf("%d", s.BreakEvenMonth)})
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", r[0], r[1])
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Simulated %s (%d historical, %d forecast).",
		cli.FormatMonthCount(s.Months), s.HistoricalMonths, s.ForecastMonths)
	if run.Terminated {
		b.WriteString(" **The run stopped early: cash fell below -$100,000.**")
	}
	b.WriteString("\n\n")

	writeMonths(&b, "Historical months", pipeline.HistoricalRows(run.Results))
	writeMonths(&b, "Forecast months", pipeline.ForecastRows(run.Results))

	periods := pipeline.AggregatePeriods(run.Results, 3)
	if len(periods) > 1 {
		b.WriteString("## Quarters\n\n")
		b.WriteString("| Quarter | Months | Revenue | Expenses | Net | End users | End cash |\n")
		b.WriteString("|---|---|---:|---:|---:|---:|---:|\n")
		for _, p := range periods {
			label := p.Label
			if p.Forecast {
				label += " (forecast)"
			}
			fmt.Fprintf(&b, "| %s | %d-%d | %s | %s | %s | %s | %s |\n",
				label, p.FirstMonth, p.LastMonth,
				cli.FormatCurrency(p.Revenue),
				cli.FormatCurrency(p.Expenses),
				cli.FormatCurrency(p.NetCashFlow),
				cli.FormatNumber(p.EndUsers),
				cli.FormatCurrency(p.EndCash),
			)
		}
	}

	return b.String()
}

func writeMonths(b *strings.Builder, heading string, results []model.MonthlyResult) {
	if len(results) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	b.WriteString("| # | Month | Users | New | Revenue | Expenses | Net | Cash | LTV:CAC | Burn multiple | Runway | PMF | Funding |\n")
	b.WriteString("|---:|---|---:|---:|---:|---:|---:|---:|---:|---:|---:|---:|---:|\n")
	for _, r := range results {
		fmt.Fprintf(b, "| %d | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %.2f | %s |\n",
			r.Month,
			monthLabel(r),
			cli.FormatNumber(r.Users),
			cli.FormatNumber(r.NewUsers),
			cli.FormatCurrency(r.Revenue),
			cli.FormatCurrency(r.Expenses),
			cli.FormatCurrency(r.NetCashFlow),
			cli.FormatCurrency(r.Cash),
			cli.FormatRatio(r.LTVCACRatio, "x"),
			cli.FormatRatio(r.BurnMultiple, ""),
			cli.FormatRunway(r.Runway),
			r.PMFScore,
			fundingCell(r),
		)
	}
	b.WriteString("\n")
}

func monthLabel(r model.MonthlyResult) string {
	if r.IsForecast {
		return "_" + r.MonthName + "_"
	}
	return r.MonthName
}

func fundingCell(r model.MonthlyResult) string {
	if r.FundingInflow <= 0 {
		return ""
	}
	return "+" + cli.FormatMoney(r.FundingInflow)
}

// HTML converts report markdown into a standalone HTML page.
func HTML(markdown, title string) (string, error) {
	var content bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}

	return "<!doctype html><html><head><meta charset='utf-8'><title>" + htmlEscape(title) + "</title>" +
		"<style>" + pageCSS + "</style></head><body><main>" +
		content.String() +
		"</main></body></html>", nil
}

const pageCSS = "body{font-family:system-ui,sans-serif;background:#fffcf0;color:#100f0f;margin:0;padding:1.5rem;} " +
	"main{max-width:1100px;margin:0 auto;} " +
	"table{border-collapse:collapse;width:100%;font-size:0.85rem;margin-bottom:1.5rem;} " +
	"th,td{border:1px solid #cecdc3;padding:0.3rem 0.5rem;} " +
	"thead th{background:#f2f0e5;} " +
	"td em{color:#5e409d;} " +
	"code{background:#f2f0e5;padding:0 0.2rem;}"

func htmlEscape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;").Replace(s)
}

// WriteFile renders run to path: .html/.htm produce HTML, anything else markdown.
func WriteFile(path string, run *pipeline.RunResult, title string) error {
	md := Markdown(run, title)
	out := md

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		html, err := HTML(md, title)
		if err != nil {
			return err
		}
		out = html
	}

	if err := os.WriteFile(path, []byte(out), 0o600); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
