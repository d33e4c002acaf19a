// Package pipeline orchestrates forecasting, simulation and result aggregation.
package pipeline

import (
	"fmt"

	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/model"
)

// Summarize computes the headline numbers of a result series.
func Summarize(results []model.MonthlyResult) model.Summary {
	var s model.Summary
	if len(results) == 0 {
		return s
	}

	s.Months = len(results)
	s.LowestCash = results[0].Cash

	var prevFunding float64
	for _, r := range results {
		if r.IsForecast {
			s.ForecastMonths++
		} else {
			s.HistoricalMonths++
		}

		s.TotalRevenue += r.Revenue
		s.TotalExpenses += r.Expenses
		s.TotalNewUsers += r.NewUsers

		if r.Users > s.PeakUsers {
			s.PeakUsers = r.Users
		}
		if r.Cash < s.LowestCash {
			s.LowestCash = r.Cash
		}
		if r.TotalFunding > prevFunding {
			s.FundingEvents++
		}
		prevFunding = r.TotalFunding

		if s.BreakEvenMonth == 0 && r.NetCashFlow >= 0 {
			s.BreakEvenMonth = r.Month
		}
	}

	last := results[len(results)-1]
	s.FinalUsers = last.Users
	s.FinalCash = last.Cash
	s.FinalLTVCACRatio = last.LTVCACRatio
	s.FinalRunway = last.Runway
	s.FinalPMFScore = last.PMFScore
	s.FinalTeamSize = last.TeamSize
	s.TotalFunding = last.TotalFunding
	s.EquityDilution = last.EquityDilution

	return s
}

// AggregatePeriods groups consecutive months into blocks of size months
// (3 for quarters, 12 for years). A block is marked forecast when any of its
// months is a forecast month.
func AggregatePeriods(results []model.MonthlyResult, size int) []model.PeriodStats {
	if size <= 0 || len(results) == 0 {
		return nil
	}

	prefix := "Q"
	if size == 12 {
		prefix = "Y"
	} else if size != 3 {
		prefix = fmt.Sprintf("%dM-", size)
	}

	periods := make([]model.PeriodStats, 0, (len(results)+size-1)/size)
	for start := 0; start < len(results); start += size {
		end := start + size
		if end > len(results) {
			end = len(results)
		}
		block := results[start:end]

		p := model.PeriodStats{
			Label:      fmt.Sprintf("%s%d", prefix, len(periods)+1),
			FirstMonth: block[0].Month,
			LastMonth:  block[len(block)-1].Month,
			Months:     len(block),
		}
		for _, r := range block {
			p.Revenue += r.Revenue
			p.Expenses += r.Expenses
			p.NetCashFlow += r.NetCashFlow
			p.NewUsers += r.NewUsers
			p.ChurnedUsers += r.ChurnedUsers
			p.Funding += r.FundingInflow
			if r.IsForecast {
				p.Forecast = true
			}
		}
		tail := block[len(block)-1]
		p.EndUsers = tail.Users
		p.EndCash = tail.Cash

		periods = append(periods, p)
	}
	return periods
}

// CashFlow splits a run's totals by source. months must be the series the
// results were simulated from.
func CashFlow(months []model.MonthlyRecord, results []model.MonthlyResult, sim config.Simulation) model.CashFlowBreakdown {
	var b model.CashFlowBreakdown
	for i, r := range results {
		if i >= len(months) {
			break
		}
		marketing := months[i].MarketingSpend * sim.SeasonalityFactor(i)
		b.Revenue += float64(r.Revenue)
		b.MarketingSpend += marketing
		b.OperatingBurn += float64(r.Expenses) - marketing
		b.Funding += r.FundingInflow
		b.NetCashFlow += float64(r.NetCashFlow)
	}
	b.MarketingSpend = model.RoundHalfUp(b.MarketingSpend)
	b.OperatingBurn = model.RoundHalfUp(b.OperatingBurn)
	return b
}

// FundingEvents lists the months in which a funding round was taken.
func FundingEvents(months []model.MonthlyRecord, results []model.MonthlyResult, sim config.Simulation) []model.FundingEvent {
	var events []model.FundingEvent
	for i, r := range results {
		if r.FundingInflow <= 0 || i >= len(months) {
			continue
		}
		round := months[i].FundingRound
		terms, _ := sim.LookupRound(round)
		events = append(events, model.FundingEvent{
			Month:     r.Month,
			MonthName: r.MonthName,
			Round:     round,
			Amount:    r.FundingInflow,
			Dilution:  terms.Dilution,
		})
	}
	return events
}

// HistoricalRows returns the results simulated from observed months.
func HistoricalRows(results []model.MonthlyResult) []model.MonthlyResult {
	var out []model.MonthlyResult
	for _, r := range results {
		if !r.IsForecast {
			out = append(out, r)
		}
	}
	return out
}

// ForecastRows returns the results simulated from generated months.
func ForecastRows(results []model.MonthlyResult) []model.MonthlyResult {
	var out []model.MonthlyResult
	for _, r := range results {
		if r.IsForecast {
			out = append(out, r)
		}
	}
	return out
}

// FilterByMonth returns results whose 1-based month falls within [from, to].
// Zero bounds are open.
func FilterByMonth(results []model.MonthlyResult, from, to int) []model.MonthlyResult {
	if from <= 0 && to <= 0 {
		return results
	}
	var out []model.MonthlyResult
	for _, r := range results {
		if from > 0 && r.Month < from {
			continue
		}
		if to > 0 && r.Month > to {
			continue
		}
		out = append(out, r)
	}
	return out
}
