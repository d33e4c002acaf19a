package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/theirongolddev/runway/internal/model"
)

// RunRecord is a stored run summary.
type RunRecord struct {
	RunID          string
	StartupID      string
	CreatedAt      time.Time
	Months         int
	ForecastMonths int
	Terminated     bool
	Summary        model.Summary
}

// SaveRun stores a run's summary.
func (s *Store) SaveRun(r RunRecord) error {
	summary, err := json.Marshal(r.Summary)
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	created := r.CreatedAt
	if created.IsZero() {
		created = s.now()
	}
	terminated := 0
	if r.Terminated {
		terminated = 1
	}

	_, err = s.db.Exec(`INSERT OR REPLACE INTO runs
		(run_id, startup_id, created_at, months, forecast_months, terminated,
		 final_users, final_cash, summary_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.StartupID, created.UTC().Format(time.RFC3339Nano), r.Months, r.ForecastMonths, terminated,
		r.Summary.FinalUsers, r.Summary.FinalCash, string(summary),
	)
	return err
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`SELECT run_id, COALESCE(startup_id, ''), created_at, months,
		forecast_months, terminated, summary_json
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var created, summary string
		var terminated int
		if err := rows.Scan(&r.RunID, &r.StartupID, &created, &r.Months, &r.ForecastMonths, &terminated, &summary); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		r.Terminated = terminated != 0
		if err := json.Unmarshal([]byte(summary), &r.Summary); err != nil {
			return nil, fmt.Errorf("run %s summary: %w", r.RunID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
