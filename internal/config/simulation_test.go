package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/runway/internal/model"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestDefaultSimulation_ReferenceTable(t *testing.T) {
	sim := DefaultSimulation()
	if err := sim.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
	if got := sim.SeasonalityFactor(7); got != 1.2 {
		t.Fatalf("August factor = %v, want 1.2", got)
	}
	if got := sim.SeasonalityFactor(13); got != 0.85 {
		t.Fatalf("index 13 factor = %v, want 0.85 (February)", got)
	}
	seed, ok := sim.LookupRound(model.FundingSeed)
	if !ok || seed.Amount != 500_000 || seed.Dilution != 0.15 {
		t.Fatalf("seed = %+v ok=%v, want 500000/0.15", seed, ok)
	}
	if _, ok := sim.LookupRound(model.FundingNone); ok {
		t.Fatal("LookupRound(none) returned ok")
	}
}

func TestDefaultSimulation_ReturnsFreshMaps(t *testing.T) {
	a := DefaultSimulation()
	a.FundingRounds[model.FundingSeed] = FundingTerms{Amount: 1}

	b := DefaultSimulation()
	if b.FundingRounds[model.FundingSeed].Amount != 500_000 {
		t.Fatalf("default seed amount mutated to %v", b.FundingRounds[model.FundingSeed].Amount)
	}
}

func TestSeasonalityFactor_AbsentEntryIsOne(t *testing.T) {
	sim := DefaultSimulation()
	sim.Seasonality[3] = 0
	if got := sim.SeasonalityFactor(3); got != 1 {
		t.Fatalf("factor = %v, want 1", got)
	}
}

func TestSaturationCurve(t *testing.T) {
	if got := SaturationCurve(0, 1000); got != 1 {
		t.Fatalf("SaturationCurve(0) = %v, want 1", got)
	}
	if got := SaturationCurve(250, 1000); got != 0.5 {
		t.Fatalf("SaturationCurve(250, 1000) = %v, want 0.5", got)
	}
	if got := SaturationCurve(1000, 1000); got != 0.1 {
		t.Fatalf("SaturationCurve(at capacity) = %v, want floor 0.1", got)
	}
	prev := 2.0
	for u := 0.0; u <= 1000; u += 50 {
		f := SaturationCurve(u, 1000)
		if f > prev {
			t.Fatalf("curve increased at users=%v: %v > %v", u, f, prev)
		}
		prev = f
	}
}

func TestSimulationOverrides_Apply(t *testing.T) {
	o := SimulationOverrides{
		BurnRatePerEmployee: floatPtr(9000),
		MaxTeamSize:         intPtr(20),
		ViralCoefficient:    floatPtr(0.2),
		FundingRounds: map[string]FundingRoundOverride{
			"series_a": {Amount: floatPtr(3_000_000)},
		},
	}

	sim, err := o.Apply(DefaultSimulation())
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if sim.Team.BurnRatePerEmployee != 9000 {
		t.Fatalf("BurnRatePerEmployee = %v, want 9000", sim.Team.BurnRatePerEmployee)
	}
	if sim.Team.MaxTeamSize != 20 {
		t.Fatalf("MaxTeamSize = %d, want 20", sim.Team.MaxTeamSize)
	}
	if sim.PMF.ViralCoefficient != 0.2 {
		t.Fatalf("ViralCoefficient = %v, want 0.2", sim.PMF.ViralCoefficient)
	}
	a := sim.FundingRounds[model.FundingSeriesA]
	if a.Amount != 3_000_000 || a.Dilution != 0.20 {
		t.Fatalf("seriesA = %+v, want amount 3000000 with default dilution", a)
	}
	if sim.PMF.ReferralMultiplier != 1.5 {
		t.Fatalf("ReferralMultiplier = %v, want untouched default", sim.PMF.ReferralMultiplier)
	}
}

func TestSimulationOverrides_Rejects(t *testing.T) {
	cases := map[string]SimulationOverrides{
		"short seasonality": {Seasonality: []float64{1, 1, 1}},
		"zero burn":         {BurnRatePerEmployee: floatPtr(0)},
		"unknown round":     {FundingRounds: map[string]FundingRoundOverride{"seriesZ": {}}},
		"dilution over one": {FundingRounds: map[string]FundingRoundOverride{"seed": {Dilution: floatPtr(1.5)}}},
	}
	for name, o := range cases {
		if _, err := o.Apply(DefaultSimulation()); !errors.Is(err, ErrInvalidSimulation) {
			t.Errorf("%s: Apply() error = %v, want ErrInvalidSimulation", name, err)
		}
	}
}

func TestLoadFrom_SimulationSection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := DefaultConfig()
	cfg.General.ForecastMonths = 24
	cfg.Simulation.MaxTeamSize = intPtr(10)
	cfg.Simulation.FundingRounds = map[string]FundingRoundOverride{
		"seed": {Amount: floatPtr(750_000)},
	}
	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if loaded.General.ForecastMonths != 24 {
		t.Fatalf("ForecastMonths = %d, want 24", loaded.General.ForecastMonths)
	}
	sim, err := loaded.SimulationConfig()
	if err != nil {
		t.Fatalf("SimulationConfig() error: %v", err)
	}
	if sim.Team.MaxTeamSize != 10 {
		t.Fatalf("MaxTeamSize = %d, want 10", sim.Team.MaxTeamSize)
	}
	if got := sim.FundingRounds[model.FundingSeed].Amount; got != 750_000 {
		t.Fatalf("seed amount = %v, want 750000", got)
	}
}

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.Defaults.InitialCash != 50000 {
		t.Fatalf("InitialCash = %v, want 50000", cfg.Defaults.InitialCash)
	}
}

func TestGetAPIBaseURL_EnvWins(t *testing.T) {
	t.Setenv("RUNWAY_API_URL", "https://api.example.test/")
	if got := GetAPIBaseURL(DefaultConfig()); got != "https://api.example.test" {
		t.Fatalf("GetAPIBaseURL() = %q, want trimmed env URL", got)
	}
}
