package config

import "math"

// Preset is a labelled shortcut value for an input.
type Preset struct {
	Label string
	Value float64
}

// Constraint bounds one user-entered simulation input.
type Constraint struct {
	Min     float64
	Max     float64
	Step    float64
	Presets []Preset
}

// Clamp bounds v to [Min, Max]. NaN clamps to Min.
func (c Constraint) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return c.Min
	}
	return math.Min(math.Max(v, c.Min), c.Max)
}

// ClampInt is Clamp for integer inputs.
func (c Constraint) ClampInt(v int) int {
	return int(c.Clamp(float64(v)))
}

// InputConstraints groups the bounds the outer layers apply before a run.
type InputConstraints struct {
	Users      Constraint
	Cash       Constraint
	MarketSize Constraint
	TeamSize   Constraint
	Forecast   Constraint
}

// DefaultConstraints are the bounds and presets of the analytics page.
var DefaultConstraints = InputConstraints{
	Users: Constraint{
		Min: 1, Max: 1_000_000, Step: 1,
		Presets: []Preset{{"Startup", 100}, {"Growth", 1000}, {"Scale", 10_000}},
	},
	Cash: Constraint{
		Min: 0, Max: 10_000_000, Step: 1000,
		Presets: []Preset{{"Seed", 50_000}, {"Series A", 500_000}, {"Series B", 2_000_000}},
	},
	MarketSize: Constraint{
		Min: 1000, Max: 10_000_000, Step: 1000,
		Presets: []Preset{{"Niche", 10_000}, {"Growing", 100_000}, {"Large", 1_000_000}},
	},
	TeamSize: Constraint{
		Min: 1, Max: 50, Step: 1,
		Presets: []Preset{{"2", 2}, {"3", 3}, {"5", 5}, {"10", 10}, {"20", 20}},
	},
	Forecast: Constraint{
		Min: 1, Max: 60, Step: 1,
		Presets: []Preset{{"6", 6}, {"12", 12}, {"24", 24}, {"36", 36}},
	},
}

// ReadyToSimulate mirrors the analytics page's start gate: every initial
// scalar must be positive, history must be present and the horizon non-zero.
func ReadyToSimulate(users, cash, marketSize float64, teamSize, historyLen, forecastMonths int) bool {
	return users > 0 &&
		cash > 0 &&
		marketSize > 0 &&
		teamSize > 0 &&
		historyLen > 0 &&
		forecastMonths > 0
}
