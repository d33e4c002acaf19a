// Package model defines the domain types shared by the forecast, simulation and
// presentation layers of runway.
package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ForecastLabelPrefix marks generated months. It is the only signal used to
// classify a result row as forecast vs historical.
const ForecastLabelPrefix = "Forecast"

// IsForecastLabel reports whether a month label was produced by the forecast
// generator.
func IsForecastLabel(monthName string) bool {
	return strings.HasPrefix(monthName, ForecastLabelPrefix)
}

// FundingRound identifies one of the fixed named funding rounds.
// The zero value means no round is offered that month.
type FundingRound string

// Known funding rounds.
const (
	FundingNone    FundingRound = ""
	FundingSeed    FundingRound = "seed"
	FundingSeriesA FundingRound = "seriesA"
	FundingSeriesB FundingRound = "seriesB"
)

// FundingRounds lists the named rounds in escalation order.
var FundingRounds = []FundingRound{FundingSeed, FundingSeriesA, FundingSeriesB}

// ParseFundingRound normalizes a user-supplied round name.
// "Series A", "series_a", "series-a" and "seriesA" all map to FundingSeriesA.
// An empty string, "none" or "null" map to FundingNone.
func ParseFundingRound(raw string) (FundingRound, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)

	switch key {
	case "", "none", "null":
		return FundingNone, nil
	case "seed":
		return FundingSeed, nil
	case "seriesa":
		return FundingSeriesA, nil
	case "seriesb":
		return FundingSeriesB, nil
	}
	return FundingNone, fmt.Errorf("unknown funding round %q", raw)
}

// IsNone reports whether no round is set.
func (r FundingRound) IsNone() bool { return r == FundingNone }

// String returns the canonical identifier, or "none".
func (r FundingRound) String() string {
	if r == FundingNone {
		return "none"
	}
	return string(r)
}

// UnmarshalText accepts any spelling ParseFundingRound understands.
// JSON null leaves the zero value in place without calling this.
func (r *FundingRound) UnmarshalText(text []byte) error {
	parsed, err := ParseFundingRound(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalText emits the canonical identifier (empty for none).
func (r FundingRound) MarshalText() ([]byte, error) {
	return []byte(r), nil
}

// UnmarshalYAML lets yaml.v2 reuse the text parsing rules.
func (r *FundingRound) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	return r.UnmarshalText([]byte(raw))
}

// MonthlyRecord holds the business metrics for one historical or forecast month.
type MonthlyRecord struct {
	MonthName           string       `json:"monthName" yaml:"monthName" toml:"month_name"`
	MarketingSpend      float64      `json:"marketingSpend" yaml:"marketingSpend" toml:"marketing_spend"`
	BurnRate            float64      `json:"burnRate" yaml:"burnRate" toml:"burn_rate"`
	CAC                 float64      `json:"cac" yaml:"cac" toml:"cac"`
	ChurnRate           float64      `json:"churnRate" yaml:"churnRate" toml:"churn_rate"`
	ARPU                float64      `json:"arpu" yaml:"arpu" toml:"arpu"`
	TeamSize            int          `json:"teamSize" yaml:"teamSize" toml:"team_size"`
	ProductImprovements int          `json:"productImprovements" yaml:"productImprovements" toml:"product_improvements"`
	MarketExpansion     float64      `json:"marketExpansion" yaml:"marketExpansion" toml:"market_expansion"`
	FundingRound        FundingRound `json:"fundingRound" yaml:"fundingRound" toml:"funding_round"`
}

// IsForecast reports whether the record was generated rather than observed.
func (m MonthlyRecord) IsForecast() bool {
	return IsForecastLabel(m.MonthName)
}

// ErrNonFinite is returned for a NaN or infinite record field.
var ErrNonFinite = errors.New("value must be a finite number")

// Validate rejects NaN and infinite numeric fields.
func (m MonthlyRecord) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"marketingSpend", m.MarketingSpend},
		{"burnRate", m.BurnRate},
		{"cac", m.CAC},
		{"churnRate", m.ChurnRate},
		{"arpu", m.ARPU},
		{"marketExpansion", m.MarketExpansion},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s: %w, got %v", f.name, ErrNonFinite, f.v)
		}
	}
	return nil
}

// InitialState is the caller-supplied business state at the start of a run.
type InitialState struct {
	Users      float64 `json:"initialUsers"`
	Cash       float64 `json:"initialCash"`
	MarketSize float64 `json:"marketSize"`
	TeamSize   int     `json:"initialTeamSize"`
}
