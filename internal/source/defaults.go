package source

import (
	"fmt"

	"github.com/theirongolddev/runway/internal/model"
)

// SeedMonths is the length of the fallback history.
const SeedMonths = 3

// DefaultMonth returns the placeholder month used when no history exists.
// i is zero-based; the label is "Month i+1".
func DefaultMonth(i int) model.MonthlyRecord {
	return model.MonthlyRecord{
		MonthName:      fmt.Sprintf("Month %d", i+1),
		MarketingSpend: 3000,
		BurnRate:       8000,
		CAC:            30,
		ChurnRate:      0.05,
		ARPU:           20,
		TeamSize:       3,
	}
}

// DefaultMonths returns n placeholder months.
func DefaultMonths(n int) []model.MonthlyRecord {
	if n <= 0 {
		return nil
	}
	out := make([]model.MonthlyRecord, n)
	for i := range out {
		out[i] = DefaultMonth(i)
	}
	return out
}

// SeedHistory returns the fixed three-month fallback series.
func SeedHistory() []model.MonthlyRecord {
	return DefaultMonths(SeedMonths)
}

// Normalize fills missing month labels with "Month i" and returns records.
func Normalize(records []model.MonthlyRecord) []model.MonthlyRecord {
	for i := range records {
		if records[i].MonthName == "" {
			records[i].MonthName = fmt.Sprintf("Month %d", i+1)
		}
	}
	return records
}

// Check normalizes records and rejects any month with a non-finite field.
func Check(records []model.MonthlyRecord) ([]model.MonthlyRecord, error) {
	records = Normalize(records)
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("month %d (%s): %w", i+1, r.MonthName, err)
		}
	}
	return records, nil
}
