// Package growth runs the month-by-month growth simulation over a series of
// historical and forecast records.
package growth

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/model"
)

var (
	// ErrNoMonths is returned for an empty input series.
	ErrNoMonths = errors.New("growth: no months to simulate")
	// ErrZeroTeamSize is returned when the initial team size is not positive.
	// The burn rate of every month is scaled against it.
	ErrZeroTeamSize = errors.New("growth: initial team size must be > 0")
	// ErrInvalidMarketSize is returned when the market size is not positive.
	ErrInvalidMarketSize = errors.New("growth: market size must be > 0")
)

// Simulate walks months in order and returns one result per simulated month.
//
// The run stops early, keeping the breaching month, once cash falls below
// -100000, so the result may be shorter than months. Degenerate ratios (zero
// churn, zero revenue, zero net cash flow) are returned as sentinel Ratio
// values, never as errors.
func Simulate(months []model.MonthlyRecord, initial model.InitialState, sim config.Simulation) ([]model.MonthlyResult, error) {
	out, err := Run(months, initial, sim)
	if err != nil {
		return nil, err
	}
	return out.Results, nil
}

// Outcome is the result series of a run plus how it ended.
type Outcome struct {
	Results []model.MonthlyResult
	// Terminated is set when the run stopped on the cash floor.
	Terminated bool
}

// Run is Simulate, also reporting whether the run ended on the cash floor.
func Run(months []model.MonthlyRecord, initial model.InitialState, sim config.Simulation) (Outcome, error) {
	if err := Validate(months, initial, sim); err != nil {
		return Outcome{}, err
	}

	st := newState(initial, sim)
	out := Outcome{Results: make([]model.MonthlyResult, 0, len(months))}
	for t, rec := range months {
		out.Results = append(out.Results, st.step(t, rec))
		if st.belowFloor() {
			out.Terminated = true
			break
		}
	}
	return out, nil
}

// Validate checks the preconditions of Simulate without running it.
func Validate(months []model.MonthlyRecord, initial model.InitialState, sim config.Simulation) error {
	if len(months) == 0 {
		return ErrNoMonths
	}
	if initial.TeamSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrZeroTeamSize, initial.TeamSize)
	}
	if !(initial.MarketSize > 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidMarketSize, initial.MarketSize)
	}
	if err := sim.Validate(); err != nil {
		return fmt.Errorf("growth: %w", err)
	}
	for i, m := range months {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("growth: month %d (%s): %w", i+1, m.MonthName, err)
		}
	}
	return nil
}
