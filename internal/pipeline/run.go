package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/forecast"
	"github.com/theirongolddev/runway/internal/growth"
	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/store"
)

// Request describes one simulation run.
type Request struct {
	StartupID      string
	History        []model.MonthlyRecord
	Initial        model.InitialState
	ForecastMonths int
	Sim            config.Simulation
}

// RunResult holds everything a run produced.
type RunResult struct {
	RunID      string                `json:"runId"`
	StartupID  string                `json:"startupId,omitempty"`
	CreatedAt  time.Time             `json:"createdAt"`
	Initial    model.InitialState    `json:"initial"`
	Historical []model.MonthlyRecord `json:"historical"`
	Forecast   []model.MonthlyRecord `json:"forecast"`
	Results    []model.MonthlyResult `json:"results"`
	Summary    model.Summary         `json:"summary"`
	Terminated bool                  `json:"terminated"`
}

// Months returns the historical ++ forecast series the run simulated.
func (r *RunResult) Months() []model.MonthlyRecord {
	out := make([]model.MonthlyRecord, 0, len(r.Historical)+len(r.Forecast))
	out = append(out, r.Historical...)
	return append(out, r.Forecast...)
}

// Record converts the run into the row the store keeps for it.
func (r *RunResult) Record() store.RunRecord {
	return store.RunRecord{
		RunID:          r.RunID,
		StartupID:      r.StartupID,
		CreatedAt:      r.CreatedAt,
		Months:         r.Summary.Months,
		ForecastMonths: r.Summary.ForecastMonths,
		Terminated:     r.Terminated,
		Summary:        r.Summary,
	}
}

// Run forecasts req.ForecastMonths beyond the history, simulates the combined
// series and summarizes it.
func Run(req Request) (*RunResult, error) {
	fc, err := forecast.Months(req.History, req.ForecastMonths, req.Sim)
	if err != nil {
		return nil, fmt.Errorf("forecasting: %w", err)
	}

	historical := append([]model.MonthlyRecord(nil), req.History...)
	result := &RunResult{
		RunID:      uuid.NewString(),
		StartupID:  req.StartupID,
		CreatedAt:  time.Now().UTC(),
		Initial:    req.Initial,
		Historical: historical,
		Forecast:   fc,
	}

	out, err := growth.Run(result.Months(), req.Initial, req.Sim)
	if err != nil {
		return nil, fmt.Errorf("simulating: %w", err)
	}
	result.Results = out.Results
	result.Terminated = out.Terminated
	result.Summary = Summarize(out.Results)
	result.Summary.Terminated = out.Terminated

	return result, nil
}
