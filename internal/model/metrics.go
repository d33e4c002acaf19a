package model

// PeriodStats aggregates consecutive simulated months (a quarter or a year).
type PeriodStats struct {
	Label        string `json:"label"`
	FirstMonth   int    `json:"firstMonth"`
	LastMonth    int    `json:"lastMonth"`
	Months       int    `json:"months"`
	Revenue      int64  `json:"revenue"`
	Expenses     int64  `json:"expenses"`
	NetCashFlow  int64  `json:"netCashFlow"`
	NewUsers     int64  `json:"newUsers"`
	ChurnedUsers int64  `json:"churnedUsers"`
	EndUsers     int64  `json:"endUsers"`
	EndCash      int64  `json:"endCash"`
	// Funding is the inflow received within the period.
	Funding  float64 `json:"funding"`
	Forecast bool    `json:"forecast"`
}

// CashFlowBreakdown splits a run's totals by source.
type CashFlowBreakdown struct {
	Revenue        float64 `json:"revenue"`
	MarketingSpend float64 `json:"marketingSpend"`
	OperatingBurn  float64 `json:"operatingBurn"`
	Funding        float64 `json:"funding"`
	NetCashFlow    float64 `json:"netCashFlow"`
}

// FundingEvent records one triggered funding round.
type FundingEvent struct {
	Month     int          `json:"month"`
	MonthName string       `json:"monthName"`
	Round     FundingRound `json:"round"`
	Amount    float64      `json:"amount"`
	Dilution  float64      `json:"dilution"`
}
