// Package forecast extends a historical series of monthly records with
// generated future months.
package forecast

import (
	"errors"
	"fmt"
	"math"

	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/model"
)

var (
	// ErrEmptyHistory is returned when there is no history to extrapolate.
	ErrEmptyHistory = errors.New("forecast: historical series is empty")
	// ErrNegativeHorizon is returned for a negative forecast horizon.
	ErrNegativeHorizon = errors.New("forecast: horizon must be >= 0")
)

// Per-step adjustments applied to the base month. Each is linear in the
// forecast index, not compounded.
const (
	trendStep     = 0.02
	burnStep      = 0.01
	cacDecay      = 0.005
	cacFloor      = 5
	churnDecay    = 0.01
	churnFloor    = 0.01
	arpuStep      = 0.015
	teamStep      = 0.05
	expansionStep = 0.1
	labelFormat   = model.ForecastLabelPrefix + " %d"
)

// Months generates k forecast records from history.
//
// Forecast month i is derived from history[n-1-(i mod n)]: the latest month
// seeds the first forecast, then earlier months in turn, wrapping every n
// steps. Generated months never carry a funding round.
func Months(history []model.MonthlyRecord, k int, sim config.Simulation) ([]model.MonthlyRecord, error) {
	n := len(history)
	if n == 0 {
		return nil, ErrEmptyHistory
	}
	if k < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeHorizon, k)
	}

	out := make([]model.MonthlyRecord, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, project(history[BaseIndex(n, i)], n, i, sim))
	}
	return out, nil
}

// BaseIndex returns the index into a history of length n that seeds forecast
// month i.
func BaseIndex(n, i int) int {
	return n - 1 - (i % n)
}

func project(base model.MonthlyRecord, n, i int, sim config.Simulation) model.MonthlyRecord {
	step := float64(i)
	season := sim.SeasonalityFactor(n + i)
	trend := 1 + trendStep*step

	team := int(model.RoundHalfUp(float64(base.TeamSize) * (1 + teamStep*step)))
	if team > sim.Team.MaxTeamSize {
		team = sim.Team.MaxTeamSize
	}

	return model.MonthlyRecord{
		MonthName:           fmt.Sprintf(labelFormat, i+1),
		MarketingSpend:      model.RoundHalfUp(base.MarketingSpend * trend * season),
		BurnRate:            model.RoundHalfUp(base.BurnRate * (1 + burnStep*step)),
		CAC:                 math.Max(cacFloor, base.CAC*(1-cacDecay*step)),
		ChurnRate:           math.Max(churnFloor, base.ChurnRate*(1-churnDecay*step)),
		ARPU:                model.RoundHalfUp(base.ARPU * (1 + arpuStep*step)),
		TeamSize:            team,
		ProductImprovements: base.ProductImprovements + i,
		MarketExpansion:     base.MarketExpansion + expansionStep*step,
		FundingRound:        model.FundingNone,
	}
}
