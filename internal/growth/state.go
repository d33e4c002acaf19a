package growth

import (
	"math"

	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/model"
)

const (
	initialPMFScore  = 0.3
	pmfStep          = 0.05
	pmfRevenueUplift = 0.2
	// fundingCashGate: a round is only taken while cash is below this.
	fundingCashGate = 50_000
	// cashFloor ends a run once cash drops below it.
	cashFloor = -100_000
)

// state is the mutable business state of a single run.
type state struct {
	users            float64
	cash             float64
	teamSize         int
	totalFunding     float64
	equityDilution   float64
	pmfScore         float64
	marketSaturation float64

	initialTeamSize int
	marketSize      float64
	sim             config.Simulation
}

func newState(initial model.InitialState, sim config.Simulation) *state {
	return &state{
		users:            initial.Users,
		cash:             initial.Cash,
		teamSize:         initial.TeamSize,
		pmfScore:         initialPMFScore,
		marketSaturation: 1,
		initialTeamSize:  initial.TeamSize,
		marketSize:       initial.MarketSize,
		sim:              sim,
	}
}

// step advances the state by one month and returns the rounded snapshot.
func (s *state) step(t int, rec model.MonthlyRecord) model.MonthlyResult {
	pmf := s.sim.PMF
	perEmployee := s.sim.Team.BurnRatePerEmployee

	if rec.TeamSize > 0 {
		s.teamSize = rec.TeamSize
	}
	baseBurn := float64(s.teamSize) * perEmployee
	adjustedBurn := baseBurn * (rec.BurnRate / (float64(s.initialTeamSize) * perEmployee))

	spend := rec.MarketingSpend * s.sim.SeasonalityFactor(t)

	// The absolute counter is added every month, not the month-over-month delta.
	s.pmfScore = math.Min(1, s.pmfScore+pmfStep*float64(rec.ProductImprovements))

	viral := s.users * s.pmfScore * pmf.ViralCoefficient
	s.marketSaturation = config.SaturationCurve(s.users, s.marketSize)

	var paid float64
	if rec.CAC > 0 {
		paid = spend / rec.CAC
	}
	organic := viral * pmf.ReferralMultiplier
	newUsers := (paid + organic) * s.marketSaturation

	retention := 1 - rec.ChurnRate + s.pmfScore*pmf.RetentionImprovement
	s.users = math.Min((s.users+newUsers)*retention, s.marketSize)

	revenue := s.users * rec.ARPU * (1 + pmfRevenueUplift*s.pmfScore)
	expenses := adjustedBurn + spend
	net := revenue - expenses

	var inflow float64
	if !rec.FundingRound.IsNone() && s.cash < fundingCashGate {
		if round, ok := s.sim.LookupRound(rec.FundingRound); ok {
			inflow = round.Amount
			s.totalFunding += round.Amount
			s.equityDilution += round.Dilution
			s.cash += round.Amount
		}
	}
	s.cash += net

	ltv := model.Divide(rec.ARPU, rec.ChurnRate)
	burnMultiple := model.Undefined()
	if revenue != 0 {
		burnMultiple = model.Divide(math.Abs(net), revenue)
	}
	runway := model.Unbounded(1)
	if net != 0 {
		runway = model.Divide(s.cash, math.Abs(net))
	}

	return model.MonthlyResult{
		Month:            t + 1,
		MonthName:        rec.MonthName,
		Users:            roundInt(s.users),
		Revenue:          roundInt(revenue),
		Cash:             roundInt(s.cash),
		Expenses:         roundInt(expenses),
		NetCashFlow:      roundInt(net),
		NewUsers:         roundInt(newUsers),
		PaidUsers:        roundInt(paid),
		OrganicUsers:     roundInt(organic),
		ChurnedUsers:     roundInt(s.users * rec.ChurnRate),
		TeamSize:         s.teamSize,
		PMFScore:         model.RoundTo(s.pmfScore, 2),
		LTVCACRatio:      ltv.DivideBy(rec.CAC).Round(2),
		BurnMultiple:     burnMultiple.Round(2),
		Runway:           runway.Round(1),
		MarketSaturation: model.RoundTo(s.marketSaturation, 2),
		FundingInflow:    inflow,
		TotalFunding:     s.totalFunding,
		EquityDilution:   model.RoundTo(s.equityDilution, 2),
		IsForecast:       rec.IsForecast(),
	}
}

func (s *state) belowFloor() bool {
	return s.cash < cashFloor
}

func roundInt(v float64) int64 {
	return int64(model.RoundHalfUp(v))
}
