package growth

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/forecast"
	"github.com/theirongolddev/runway/internal/model"
)

func seedMonth(name string) model.MonthlyRecord {
	return model.MonthlyRecord{
		MonthName:      name,
		MarketingSpend: 3000,
		BurnRate:       8000,
		CAC:            30,
		ChurnRate:      0.05,
		ARPU:           20,
		TeamSize:       3,
	}
}

func seedHistory(n int) []model.MonthlyRecord {
	out := make([]model.MonthlyRecord, n)
	for i := range out {
		out[i] = seedMonth(fmt.Sprintf("Month %d", i+1))
	}
	return out
}

var defaultInitial = model.InitialState{Users: 100, Cash: 50000, MarketSize: 100000, TeamSize: 3}

func mustSimulate(t *testing.T, months []model.MonthlyRecord, initial model.InitialState) []model.MonthlyResult {
	t.Helper()
	res, err := Simulate(months, initial, config.DefaultSimulation())
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	return res
}

func TestSimulate_FirstMonth(t *testing.T) {
	res := mustSimulate(t, seedHistory(1), defaultInitial)
	if len(res) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(res))
	}
	r := res[0]

	checks := []struct {
		name      string
		got, want int64
	}{
		{"users", r.Users, 188},
		{"revenue", r.Revenue, 3979},
		{"cash", r.Cash, 43279},
		{"expenses", r.Expenses, 10700},
		{"netCashFlow", r.NetCashFlow, -6721},
		{"newUsers", r.NewUsers, 92},
		{"paidUsers", r.PaidUsers, 90},
		{"organicUsers", r.OrganicUsers, 5},
		{"churnedUsers", r.ChurnedUsers, 9},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}

	if r.Month != 1 || r.MonthName != "Month 1" || r.IsForecast {
		t.Errorf("month header = %d %q forecast=%v", r.Month, r.MonthName, r.IsForecast)
	}
	if r.PMFScore != 0.3 {
		t.Errorf("PMFScore = %v, want 0.3", r.PMFScore)
	}
	if r.MarketSaturation != 0.97 {
		t.Errorf("MarketSaturation = %v, want 0.97", r.MarketSaturation)
	}
	if r.LTVCACRatio != model.Finite(13.33) {
		t.Errorf("LTVCACRatio = %+v, want 13.33", r.LTVCACRatio)
	}
	if r.BurnMultiple != model.Finite(1.69) {
		t.Errorf("BurnMultiple = %+v, want 1.69", r.BurnMultiple)
	}
	if r.Runway != model.Finite(6.4) {
		t.Errorf("Runway = %+v, want 6.4", r.Runway)
	}
}

func TestSimulate_UsersNeverExceedMarket(t *testing.T) {
	months := seedHistory(24)
	for i := range months {
		months[i].MarketingSpend = 1_000_000
		months[i].CAC = 1
		months[i].ChurnRate = 0
	}
	initial := model.InitialState{Users: 900, Cash: 10_000_000, MarketSize: 1000, TeamSize: 3}

	for _, r := range mustSimulate(t, months, initial) {
		if float64(r.Users) > initial.MarketSize {
			t.Fatalf("month %d users = %d > market %v", r.Month, r.Users, initial.MarketSize)
		}
	}
}

func TestSimulate_PMFBounded(t *testing.T) {
	months := seedHistory(6)
	for i := range months {
		months[i].ProductImprovements = 100
	}
	for _, r := range mustSimulate(t, months, defaultInitial) {
		if r.PMFScore < 0 || r.PMFScore > 1 {
			t.Fatalf("month %d pmfScore = %v, want within [0,1]", r.Month, r.PMFScore)
		}
	}
}

func TestSimulate_PMFUsesAbsoluteCounter(t *testing.T) {
	months := seedHistory(2)
	months[0].ProductImprovements = 2
	months[1].ProductImprovements = 2

	res := mustSimulate(t, months, defaultInitial)
	// 0.3 + 0.1, then + 0.1 again even though the counter did not move.
	if res[0].PMFScore != 0.4 || res[1].PMFScore != 0.5 {
		t.Fatalf("pmf = %v, %v, want 0.4, 0.5", res[0].PMFScore, res[1].PMFScore)
	}
}

func TestSimulate_FundingMonotonic(t *testing.T) {
	months := seedHistory(36)
	months[2].FundingRound = model.FundingSeed
	months[10].FundingRound = model.FundingSeriesA
	months[20].FundingRound = model.FundingSeriesB
	for i := range months {
		months[i].BurnRate = 40000
	}
	initial := defaultInitial
	initial.Cash = 20000

	res := mustSimulate(t, months, initial)
	for i := 1; i < len(res); i++ {
		if res[i].TotalFunding < res[i-1].TotalFunding {
			t.Fatalf("totalFunding decreased at month %d", res[i].Month)
		}
		if res[i].EquityDilution < res[i-1].EquityDilution {
			t.Fatalf("equityDilution decreased at month %d", res[i].Month)
		}
	}
	if res[len(res)-1].TotalFunding == 0 {
		t.Fatal("expected at least one funding round to trigger")
	}
}

func TestSimulate_FundingGate(t *testing.T) {
	month := seedMonth("Month 1")
	month.FundingRound = model.FundingSeed

	rich := defaultInitial
	rich.Cash = 60000
	res := mustSimulate(t, []model.MonthlyRecord{month}, rich)
	if res[0].FundingInflow != 0 || res[0].TotalFunding != 0 {
		t.Fatalf("cash 60000: inflow=%v total=%v, want no funding", res[0].FundingInflow, res[0].TotalFunding)
	}

	poor := defaultInitial
	poor.Cash = 10000
	res = mustSimulate(t, []model.MonthlyRecord{month}, poor)
	if res[0].FundingInflow != 500_000 || res[0].TotalFunding != 500_000 {
		t.Fatalf("cash 10000: inflow=%v total=%v, want 500000", res[0].FundingInflow, res[0].TotalFunding)
	}
	if res[0].EquityDilution != 0.15 {
		t.Fatalf("EquityDilution = %v, want 0.15", res[0].EquityDilution)
	}
	// funding lands before the month's net cash flow
	if res[0].Cash != 10000+500_000+res[0].NetCashFlow {
		t.Fatalf("Cash = %d, want 510000 + net %d", res[0].Cash, res[0].NetCashFlow)
	}
}

func TestSimulate_UnconfiguredRoundSkipped(t *testing.T) {
	sim := config.DefaultSimulation()
	delete(sim.FundingRounds, model.FundingSeriesB)

	month := seedMonth("Month 1")
	month.FundingRound = model.FundingSeriesB
	initial := defaultInitial
	initial.Cash = 0

	res, err := Simulate([]model.MonthlyRecord{month}, initial, sim)
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	if res[0].FundingInflow != 0 {
		t.Fatalf("FundingInflow = %v, want 0", res[0].FundingInflow)
	}
}

func TestSimulate_EarlyTermination(t *testing.T) {
	months := seedHistory(6)
	for i := range months {
		months[i].BurnRate = 1_000_000
		months[i].MarketingSpend = 0
		months[i].ARPU = 0
	}
	initial := defaultInitial
	initial.Cash = 0

	out, err := Run(months, initial, config.DefaultSimulation())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(out.Results) > 2 {
		t.Fatalf("len(results) = %d, want <= 2", len(out.Results))
	}
	if !out.Terminated {
		t.Fatal("Terminated = false, want true")
	}
	last := out.Results[len(out.Results)-1]
	if last.Cash >= -100_000 {
		t.Fatalf("last cash = %d, want < -100000", last.Cash)
	}
	if !last.BurnMultiple.IsUndefined() {
		t.Fatalf("BurnMultiple with zero revenue = %+v, want undefined", last.BurnMultiple)
	}
}

func TestSimulate_FullSeriesNotTerminated(t *testing.T) {
	out, err := Run(seedHistory(3), defaultInitial, config.DefaultSimulation())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if out.Terminated || len(out.Results) != 3 {
		t.Fatalf("terminated=%v len=%d, want false 3", out.Terminated, len(out.Results))
	}
}

func TestSimulate_ZeroDivisionSentinels(t *testing.T) {
	zeroCAC := seedMonth("Month 1")
	zeroCAC.CAC = 0
	res := mustSimulate(t, []model.MonthlyRecord{zeroCAC}, defaultInitial)
	if res[0].PaidUsers != 0 {
		t.Fatalf("PaidUsers with cac 0 = %d, want 0", res[0].PaidUsers)
	}
	if !res[0].LTVCACRatio.IsUnbounded() {
		t.Fatalf("LTVCACRatio with cac 0 = %+v, want unbounded", res[0].LTVCACRatio)
	}

	zeroChurn := seedMonth("Month 1")
	zeroChurn.ChurnRate = 0
	res = mustSimulate(t, []model.MonthlyRecord{zeroChurn}, defaultInitial)
	if !res[0].LTVCACRatio.IsUnbounded() {
		t.Fatalf("LTVCACRatio with churn 0 = %+v, want unbounded", res[0].LTVCACRatio)
	}

	flat := model.MonthlyRecord{MonthName: "Month 1", CAC: 30, ChurnRate: 0.05, TeamSize: 3}
	res = mustSimulate(t, []model.MonthlyRecord{flat}, defaultInitial)
	if res[0].NetCashFlow != 0 {
		t.Fatalf("NetCashFlow = %d, want 0", res[0].NetCashFlow)
	}
	if !res[0].Runway.IsUnbounded() {
		t.Fatalf("Runway with zero net cash flow = %+v, want unbounded", res[0].Runway)
	}
	if !res[0].BurnMultiple.IsUndefined() {
		t.Fatalf("BurnMultiple with zero revenue = %+v, want undefined", res[0].BurnMultiple)
	}
}

func TestSimulate_TeamSizeCarriesForward(t *testing.T) {
	months := seedHistory(2)
	months[0].TeamSize = 7
	months[1].TeamSize = 0

	res := mustSimulate(t, months, defaultInitial)
	if res[1].TeamSize != 7 {
		t.Fatalf("TeamSize = %d, want carried 7", res[1].TeamSize)
	}
}

func TestSimulate_ForecastRowsFlagged(t *testing.T) {
	history := seedHistory(3)
	fc, err := forecast.Months(history, 4, config.DefaultSimulation())
	if err != nil {
		t.Fatalf("forecast.Months() error: %v", err)
	}
	res := mustSimulate(t, append(history, fc...), defaultInitial)
	for _, r := range res {
		want := r.Month > 3
		if r.IsForecast != want {
			t.Errorf("month %d IsForecast = %v, want %v", r.Month, r.IsForecast, want)
		}
	}
}

func TestSimulate_Deterministic(t *testing.T) {
	history := seedHistory(3)
	history[1].FundingRound = model.FundingSeed
	fc, err := forecast.Months(history, 24, config.DefaultSimulation())
	if err != nil {
		t.Fatalf("forecast.Months() error: %v", err)
	}
	months := append(history, fc...)

	a, err := json.Marshal(mustSimulate(t, months, defaultInitial))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(mustSimulate(t, months, defaultInitial))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("two identical runs produced different output")
	}
}

func TestSimulate_Preconditions(t *testing.T) {
	sim := config.DefaultSimulation()

	if _, err := Simulate(nil, defaultInitial, sim); !errors.Is(err, ErrNoMonths) {
		t.Fatalf("empty series error = %v, want ErrNoMonths", err)
	}

	noTeam := defaultInitial
	noTeam.TeamSize = 0
	if _, err := Simulate(seedHistory(1), noTeam, sim); !errors.Is(err, ErrZeroTeamSize) {
		t.Fatalf("zero team error = %v, want ErrZeroTeamSize", err)
	}

	noMarket := defaultInitial
	noMarket.MarketSize = 0
	if _, err := Simulate(seedHistory(1), noMarket, sim); !errors.Is(err, ErrInvalidMarketSize) {
		t.Fatalf("zero market error = %v, want ErrInvalidMarketSize", err)
	}

	bad := sim.Clone()
	bad.Team.BurnRatePerEmployee = 0
	if _, err := Simulate(seedHistory(1), defaultInitial, bad); !errors.Is(err, config.ErrInvalidSimulation) {
		t.Fatalf("bad config error = %v, want ErrInvalidSimulation", err)
	}

	nanChurn := seedHistory(2)
	nanChurn[1].ChurnRate = math.NaN()
	if _, err := Simulate(nanChurn, defaultInitial, sim); !errors.Is(err, model.ErrNonFinite) {
		t.Fatalf("NaN churn error = %v, want ErrNonFinite", err)
	}

	infSpend := seedHistory(1)
	infSpend[0].MarketingSpend = math.Inf(1)
	if _, err := Simulate(infSpend, defaultInitial, sim); !errors.Is(err, model.ErrNonFinite) {
		t.Fatalf("+Inf spend error = %v, want ErrNonFinite", err)
	}
}
