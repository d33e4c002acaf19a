package model

// MonthlyResult is the derived-metrics snapshot for one simulated month.
type MonthlyResult struct {
	Month            int     `json:"month"`
	MonthName        string  `json:"monthName"`
	Users            int64   `json:"users"`
	Revenue          int64   `json:"revenue"`
	Cash             int64   `json:"cash"`
	Expenses         int64   `json:"expenses"`
	NetCashFlow      int64   `json:"netCashFlow"`
	NewUsers         int64   `json:"newUsers"`
	PaidUsers        int64   `json:"paidUsers"`
	OrganicUsers     int64   `json:"organicUsers"`
	ChurnedUsers     int64   `json:"churnedUsers"`
	TeamSize         int     `json:"teamSize"`
	PMFScore         float64 `json:"pmfScore"`
	LTVCACRatio      Ratio   `json:"ltvCacRatio"`
	BurnMultiple     Ratio   `json:"burnMultiple"`
	Runway           Ratio   `json:"runway"`
	MarketSaturation float64 `json:"marketSaturation"`
	FundingInflow    float64 `json:"fundingInflow"`
	TotalFunding     float64 `json:"totalFunding"`
	EquityDilution   float64 `json:"equityDilution"`
	IsForecast       bool    `json:"isForecast"`
}

// Summary holds the headline numbers of a simulation run.
type Summary struct {
	Months           int `json:"months"`
	HistoricalMonths int `json:"historicalMonths"`
	ForecastMonths   int `json:"forecastMonths"`

	FinalUsers       int64   `json:"finalUsers"`
	FinalCash        int64   `json:"finalCash"`
	FinalLTVCACRatio Ratio   `json:"finalLtvCacRatio"`
	FinalRunway      Ratio   `json:"finalRunway"`
	FinalPMFScore    float64 `json:"finalPmfScore"`
	FinalTeamSize    int     `json:"finalTeamSize"`

	PeakUsers     int64 `json:"peakUsers"`
	LowestCash    int64 `json:"lowestCash"`
	TotalRevenue  int64 `json:"totalRevenue"`
	TotalExpenses int64 `json:"totalExpenses"`
	TotalNewUsers int64 `json:"totalNewUsers"`

	TotalFunding   float64 `json:"totalFunding"`
	EquityDilution float64 `json:"equityDilution"`
	FundingEvents  int     `json:"fundingEvents"`

	// BreakEvenMonth is the 1-based month of the first non-negative net cash
	// flow, or 0 if the run never breaks even.
	BreakEvenMonth int `json:"breakEvenMonth"`

	// Terminated is set when the run stopped early on the cash floor.
	Terminated bool `json:"terminated"`
}
