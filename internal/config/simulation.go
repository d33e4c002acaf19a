package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/theirongolddev/runway/internal/model"
)

// TeamScaling holds the fixed operational constants for headcount.
type TeamScaling struct {
	BurnRatePerEmployee     float64
	ProductivityPerEmployee float64
	MaxTeamSize             int
}

// FundingTerms describes what a named funding round brings in.
type FundingTerms struct {
	Amount           float64
	Dilution         float64
	BurnRateIncrease float64
}

// PMFEffects shapes viral growth and retention.
type PMFEffects struct {
	ViralCoefficient     float64
	ReferralMultiplier   float64
	RetentionImprovement float64
}

// Simulation is the static configuration shared by the forecast generator and
// the growth simulator for one run. Treat it as immutable; use Clone before
// changing a copy.
type Simulation struct {
	// Seasonality maps month-of-year (0=Jan..11=Dec) to a spend multiplier.
	// Entries <= 0 are treated as absent (factor 1).
	Seasonality   [12]float64
	Team          TeamScaling
	FundingRounds map[model.FundingRound]FundingTerms
	PMF           PMFEffects
}

// DefaultSeasonality is the reference monthly multiplier table.
var DefaultSeasonality = [12]float64{
	0.9,  // January
	0.85, // February
	0.95, // March
	1.0,  // April
	1.05, // May
	1.1,  // June
	1.15, // July
	1.2,  // August
	1.15, // September
	1.1,  // October
	1.05, // November
	0.95, // December
}

// DefaultFundingRounds maps round identifiers to their terms.
var DefaultFundingRounds = map[model.FundingRound]FundingTerms{
	model.FundingSeed:    {Amount: 500_000, Dilution: 0.15, BurnRateIncrease: 1.5},
	model.FundingSeriesA: {Amount: 2_000_000, Dilution: 0.20, BurnRateIncrease: 2.0},
	model.FundingSeriesB: {Amount: 5_000_000, Dilution: 0.25, BurnRateIncrease: 2.5},
}

// DefaultSimulation returns a fresh copy of the reference configuration.
func DefaultSimulation() Simulation {
	rounds := make(map[model.FundingRound]FundingTerms, len(DefaultFundingRounds))
	for k, v := range DefaultFundingRounds {
		rounds[k] = v
	}
	return Simulation{
		Seasonality: DefaultSeasonality,
		Team: TeamScaling{
			BurnRatePerEmployee:     8000,
			ProductivityPerEmployee: 1.2,
			MaxTeamSize:             50,
		},
		FundingRounds: rounds,
		PMF: PMFEffects{
			ViralCoefficient:     0.1,
			ReferralMultiplier:   1.5,
			RetentionImprovement: 0.1,
		},
	}
}

// Clone returns a deep copy.
func (s Simulation) Clone() Simulation {
	out := s
	out.FundingRounds = make(map[model.FundingRound]FundingTerms, len(s.FundingRounds))
	for k, v := range s.FundingRounds {
		out.FundingRounds[k] = v
	}
	return out
}

// SeasonalityFactor returns the multiplier for a month index; the index is
// reduced mod 12 and absent entries resolve to 1.
func (s Simulation) SeasonalityFactor(monthIndex int) float64 {
	idx := monthIndex % 12
	if idx < 0 {
		idx += 12
	}
	if f := s.Seasonality[idx]; f > 0 {
		return f
	}
	return 1
}

// LookupRound returns the terms of a funding round.
// Returns zero terms and false for FundingNone or an unconfigured round.
func (s Simulation) LookupRound(r model.FundingRound) (FundingTerms, bool) {
	if r.IsNone() {
		return FundingTerms{}, false
	}
	t, ok := s.FundingRounds[r]
	return t, ok
}

// SaturationCurve returns the acquisition damping factor for a user base:
// max(0.1, 1 - sqrt(users/marketSize)). It falls toward 0.1 as users approach
// marketSize.
func SaturationCurve(users, marketSize float64) float64 {
	return math.Max(0.1, 1-math.Sqrt(users/marketSize))
}

// ErrInvalidSimulation wraps every Validate failure.
var ErrInvalidSimulation = errors.New("invalid simulation config")

// Validate checks the constants the model divides by or clamps against.
func (s Simulation) Validate() error {
	if s.Team.BurnRatePerEmployee <= 0 {
		return fmt.Errorf("%w: burn rate per employee must be > 0, got %v", ErrInvalidSimulation, s.Team.BurnRatePerEmployee)
	}
	if s.Team.MaxTeamSize < 1 {
		return fmt.Errorf("%w: max team size must be >= 1, got %d", ErrInvalidSimulation, s.Team.MaxTeamSize)
	}
	for i, f := range s.Seasonality {
		if f < 0 || math.IsNaN(f) {
			return fmt.Errorf("%w: seasonality[%d] must be >= 0, got %v", ErrInvalidSimulation, i, f)
		}
	}
	for r, t := range s.FundingRounds {
		if t.Amount < 0 {
			return fmt.Errorf("%w: %s amount must be >= 0", ErrInvalidSimulation, r)
		}
		if t.Dilution < 0 || t.Dilution > 1 {
			return fmt.Errorf("%w: %s dilution must be in [0,1], got %v", ErrInvalidSimulation, r, t.Dilution)
		}
	}
	return nil
}

// SimulationOverrides lets the TOML config adjust the reference constants.
type SimulationOverrides struct {
	Seasonality             []float64                       `toml:"seasonality,omitempty"`
	BurnRatePerEmployee     *float64                        `toml:"burn_rate_per_employee,omitempty"`
	ProductivityPerEmployee *float64                        `toml:"productivity_per_employee,omitempty"`
	MaxTeamSize             *int                            `toml:"max_team_size,omitempty"`
	ViralCoefficient        *float64                        `toml:"viral_coefficient,omitempty"`
	ReferralMultiplier      *float64                        `toml:"referral_multiplier,omitempty"`
	RetentionImprovement    *float64                        `toml:"retention_improvement,omitempty"`
	FundingRounds           map[string]FundingRoundOverride `toml:"funding_rounds,omitempty"`
}

// FundingRoundOverride holds per-round overrides.
type FundingRoundOverride struct {
	Amount           *float64 `toml:"amount,omitempty"`
	Dilution         *float64 `toml:"dilution,omitempty"`
	BurnRateIncrease *float64 `toml:"burn_rate_increase,omitempty"`
}

// Apply returns base with the overrides applied. base is not modified.
func (o SimulationOverrides) Apply(base Simulation) (Simulation, error) {
	sim := base.Clone()

	if len(o.Seasonality) > 0 {
		if len(o.Seasonality) != 12 {
			return base, fmt.Errorf("%w: seasonality needs 12 entries, got %d", ErrInvalidSimulation, len(o.Seasonality))
		}
		copy(sim.Seasonality[:], o.Seasonality)
	}
	if o.BurnRatePerEmployee != nil {
		sim.Team.BurnRatePerEmployee = *o.BurnRatePerEmployee
	}
	if o.ProductivityPerEmployee != nil {
		sim.Team.ProductivityPerEmployee = *o.ProductivityPerEmployee
	}
	if o.MaxTeamSize != nil {
		sim.Team.MaxTeamSize = *o.MaxTeamSize
	}
	if o.ViralCoefficient != nil {
		sim.PMF.ViralCoefficient = *o.ViralCoefficient
	}
	if o.ReferralMultiplier != nil {
		sim.PMF.ReferralMultiplier = *o.ReferralMultiplier
	}
	if o.RetentionImprovement != nil {
		sim.PMF.RetentionImprovement = *o.RetentionImprovement
	}

	for name, ov := range o.FundingRounds {
		round, err := model.ParseFundingRound(name)
		if err != nil || round.IsNone() {
			return base, fmt.Errorf("%w: funding_rounds.%s: unknown round", ErrInvalidSimulation, name)
		}
		terms := sim.FundingRounds[round]
		if ov.Amount != nil {
			terms.Amount = *ov.Amount
		}
		if ov.Dilution != nil {
			terms.Dilution = *ov.Dilution
		}
		if ov.BurnRateIncrease != nil {
			terms.BurnRateIncrease = *ov.BurnRateIncrease
		}
		sim.FundingRounds[round] = terms
	}

	if err := sim.Validate(); err != nil {
		return base, err
	}
	return sim, nil
}

// SimulationConfig resolves the effective simulation constants for cfg.
func (cfg Config) SimulationConfig() (Simulation, error) {
	return cfg.Simulation.Apply(DefaultSimulation())
}
