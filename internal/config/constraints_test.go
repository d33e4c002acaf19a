package config

import (
	"math"
	"testing"
)

func TestConstraint_Clamp(t *testing.T) {
	c := DefaultConstraints.Users
	cases := []struct {
		in, want float64
	}{
		{0, 1},
		{-50, 1},
		{500, 500},
		{5_000_000, 1_000_000},
		{math.NaN(), 1},
	}
	for _, tc := range cases {
		if got := c.Clamp(tc.in); got != tc.want {
			t.Errorf("Clamp(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if got := DefaultConstraints.Forecast.ClampInt(120); got != 60 {
		t.Errorf("Forecast.ClampInt(120) = %d, want 60", got)
	}
	if got := DefaultConstraints.TeamSize.ClampInt(0); got != 1 {
		t.Errorf("TeamSize.ClampInt(0) = %d, want 1", got)
	}
}

func TestDefaultConstraints_PresetsWithinBounds(t *testing.T) {
	all := map[string]Constraint{
		"users":    DefaultConstraints.Users,
		"cash":     DefaultConstraints.Cash,
		"market":   DefaultConstraints.MarketSize,
		"team":     DefaultConstraints.TeamSize,
		"forecast": DefaultConstraints.Forecast,
	}
	for name, c := range all {
		for _, p := range c.Presets {
			if p.Value < c.Min || p.Value > c.Max {
				t.Errorf("%s preset %s = %v outside [%v, %v]", name, p.Label, p.Value, c.Min, c.Max)
			}
		}
	}
}

func TestReadyToSimulate(t *testing.T) {
	if !ReadyToSimulate(100, 50000, 100000, 3, 3, 12) {
		t.Fatal("ReadyToSimulate(defaults) = false, want true")
	}
	if ReadyToSimulate(100, 0, 100000, 3, 3, 12) {
		t.Fatal("zero cash should not be ready")
	}
	if ReadyToSimulate(100, 50000, 100000, 3, 0, 12) {
		t.Fatal("empty history should not be ready")
	}
}
