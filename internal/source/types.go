package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/runway/internal/model"
)

// Format identifies a history file encoding.
type Format string

// Supported history formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// DiscoveredFile is a history file found while scanning a directory.
type DiscoveredFile struct {
	Path      string
	Format    Format
	StartupID string // file name without extension
}

// flexFloat accepts both JSON numbers and numeric strings, as the user-data
// service is not consistent about which it sends. Empty strings and null
// decode to zero.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := parseNumber(s)
		if err != nil {
			return err
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// rawRecord is the wire shape of one month from the service or a JSON file.
type rawRecord struct {
	MonthName           string             `json:"monthName"`
	MarketingSpend      flexFloat          `json:"marketingSpend"`
	BurnRate            flexFloat          `json:"burnRate"`
	CAC                 flexFloat          `json:"cac"`
	ChurnRate           flexFloat          `json:"churnRate"`
	ARPU                flexFloat          `json:"arpu"`
	TeamSize            flexFloat          `json:"teamSize"`
	ProductImprovements flexFloat          `json:"productImprovements"`
	MarketExpansion     flexFloat          `json:"marketExpansion"`
	FundingRound        model.FundingRound `json:"fundingRound"`
}

func (r rawRecord) record() model.MonthlyRecord {
	return model.MonthlyRecord{
		MonthName:           strings.TrimSpace(r.MonthName),
		MarketingSpend:      float64(r.MarketingSpend),
		BurnRate:            float64(r.BurnRate),
		CAC:                 float64(r.CAC),
		ChurnRate:           float64(r.ChurnRate),
		ARPU:                float64(r.ARPU),
		TeamSize:            int(model.RoundHalfUp(float64(r.TeamSize))),
		ProductImprovements: int(model.RoundHalfUp(float64(r.ProductImprovements))),
		MarketExpansion:     float64(r.MarketExpansion),
		FundingRound:        r.FundingRound,
	}
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}
