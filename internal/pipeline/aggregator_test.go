package pipeline

import (
	"testing"

	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/model"
)

func result(month int, net, cash, users int64, funding float64, forecast bool) model.MonthlyResult {
	return model.MonthlyResult{
		Month:        month,
		Users:        users,
		Revenue:      1000,
		Expenses:     1000 - net,
		NetCashFlow:  net,
		Cash:         cash,
		NewUsers:     10,
		ChurnedUsers: 2,
		TotalFunding: funding,
		IsForecast:   forecast,
	}
}

func TestSummarize(t *testing.T) {
	results := []model.MonthlyResult{
		result(1, -500, 9500, 100, 0, false),
		result(2, -800, 508700, 150, 500_000, false),
		result(3, 200, 508900, 140, 500_000, true),
		result(4, 300, 509200, 180, 2_500_000, true),
	}
	results[3].Runway = model.Unbounded(1)
	results[3].EquityDilution = 0.35

	s := Summarize(results)
	if s.Months != 4 || s.HistoricalMonths != 2 || s.ForecastMonths != 2 {
		t.Errorf("counts = %d/%d/%d, want 4/2/2", s.Months, s.HistoricalMonths, s.ForecastMonths)
	}
	if s.PeakUsers != 180 || s.FinalUsers != 180 {
		t.Errorf("PeakUsers = %d FinalUsers = %d, want 180", s.PeakUsers, s.FinalUsers)
	}
	if s.LowestCash != 9500 {
		t.Errorf("LowestCash = %d, want 9500", s.LowestCash)
	}
	if s.BreakEvenMonth != 3 {
		t.Errorf("BreakEvenMonth = %d, want 3", s.BreakEvenMonth)
	}
	if s.FundingEvents != 2 {
		t.Errorf("FundingEvents = %d, want 2", s.FundingEvents)
	}
	if s.TotalRevenue != 4000 {
		t.Errorf("TotalRevenue = %d, want 4000", s.TotalRevenue)
	}
	if !s.FinalRunway.IsUnbounded() || s.EquityDilution != 0.35 {
		t.Errorf("final runway %+v dilution %v", s.FinalRunway, s.EquityDilution)
	}

	if empty := Summarize(nil); empty.Months != 0 {
		t.Errorf("Summarize(nil).Months = %d, want 0", empty.Months)
	}
}

func TestAggregatePeriods(t *testing.T) {
	var results []model.MonthlyResult
	for m := 1; m <= 7; m++ {
		results = append(results, result(m, 100, int64(m*1000), int64(m*10), 0, m > 5))
	}

	q := AggregatePeriods(results, 3)
	if len(q) != 3 {
		t.Fatalf("len = %d, want 3", len(q))
	}
	if q[0].Label != "Q1" || q[0].Months != 3 || q[0].NetCashFlow != 300 || q[0].EndCash != 3000 {
		t.Errorf("q[0] = %+v", q[0])
	}
	if q[0].Forecast || !q[1].Forecast {
		t.Errorf("forecast flags = %v, %v, want false, true", q[0].Forecast, q[1].Forecast)
	}
	if q[2].Months != 1 || q[2].FirstMonth != 7 {
		t.Errorf("q[2] = %+v, want the trailing single month", q[2])
	}

	y := AggregatePeriods(results, 12)
	if len(y) != 1 || y[0].Label != "Y1" || y[0].NewUsers != 70 {
		t.Errorf("years = %+v", y)
	}
	if AggregatePeriods(results, 0) != nil {
		t.Error("size 0 should return nil")
	}
}

func TestCashFlowAndFundingEvents(t *testing.T) {
	sim := config.DefaultSimulation()
	months := []model.MonthlyRecord{
		{MonthName: "Jan", MarketingSpend: 1000},
		{MonthName: "Feb", MarketingSpend: 1000, FundingRound: model.FundingSeed},
	}
	results := []model.MonthlyResult{
		{Month: 1, MonthName: "Jan", Revenue: 500, Expenses: 9000, NetCashFlow: -8500},
		{Month: 2, MonthName: "Feb", Revenue: 600, Expenses: 8850, NetCashFlow: -8250, FundingInflow: 500_000},
	}

	b := CashFlow(months, results, sim)
	// Jan 0.9, Feb 0.85
	if b.MarketingSpend != 1750 {
		t.Errorf("MarketingSpend = %v, want 1750", b.MarketingSpend)
	}
	if b.OperatingBurn != 16100 {
		t.Errorf("OperatingBurn = %v, want 16100", b.OperatingBurn)
	}
	if b.Funding != 500_000 || b.Revenue != 1100 {
		t.Errorf("breakdown = %+v", b)
	}

	events := FundingEvents(months, results, sim)
	if len(events) != 1 || events[0].Round != model.FundingSeed || events[0].Dilution != 0.15 {
		t.Fatalf("FundingEvents() = %+v", events)
	}
}

func TestFilterByMonth(t *testing.T) {
	var results []model.MonthlyResult
	for m := 1; m <= 5; m++ {
		results = append(results, model.MonthlyResult{Month: m})
	}
	if got := FilterByMonth(results, 2, 4); len(got) != 3 || got[0].Month != 2 {
		t.Errorf("FilterByMonth(2,4) = %+v", got)
	}
	if got := FilterByMonth(results, 0, 0); len(got) != 5 {
		t.Errorf("FilterByMonth(0,0) len = %d, want 5", len(got))
	}
	if got := FilterByMonth(results, 4, 0); len(got) != 2 {
		t.Errorf("FilterByMonth(4,0) len = %d, want 2", len(got))
	}
}
