package store

import (
	"database/sql"
	"fmt"

	"github.com/theirongolddev/runway/internal/model"
)

// StartupHistory summarizes the months stored for one startup.
type StartupHistory struct {
	StartupID string
	Months    int
	LastMonth string
	UpdatedAt string
}

// AppendMonth adds a historical month after the startup's existing months and
// returns its 1-based position. Only later runs see it.
func (s *Store) AppendMonth(startupID string, rec model.MonthlyRecord) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	seq, err := appendMonth(tx, startupID, rec, s.timestamp())
	if err != nil {
		return 0, err
	}
	return seq, tx.Commit()
}

func appendMonth(tx *sql.Tx, startupID string, rec model.MonthlyRecord, now string) (int, error) {
	var last int
	if err := tx.QueryRow("SELECT COALESCE(MAX(seq), 0) FROM monthly_records WHERE startup_id = ?", startupID).Scan(&last); err != nil {
		return 0, fmt.Errorf("reading sequence: %w", err)
	}
	seq := last + 1
	if rec.MonthName == "" {
		rec.MonthName = fmt.Sprintf("Month %d", seq)
	}

	_, err := tx.Exec(`INSERT INTO monthly_records
		(startup_id, seq, month_name, marketing_spend, burn_rate, cac, churn_rate, arpu,
		 team_size, product_improvements, market_expansion, funding_round, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		startupID, seq, rec.MonthName, rec.MarketingSpend, rec.BurnRate, rec.CAC, rec.ChurnRate, rec.ARPU,
		rec.TeamSize, rec.ProductImprovements, rec.MarketExpansion, string(rec.FundingRound), now,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting month: %w", err)
	}
	return seq, nil
}

// ReplaceMonths swaps the startup's stored history for records and records
// the source file's tracking info when path is non-empty.
func (s *Store) ReplaceMonths(startupID string, records []model.MonthlyRecord, path string, mtimeNs, sizeBytes int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM monthly_records WHERE startup_id = ?", startupID); err != nil {
		return err
	}
	now := s.timestamp()
	for _, rec := range records {
		if _, err := appendMonth(tx, startupID, rec, now); err != nil {
			return err
		}
	}

	if path != "" {
		_, err = tx.Exec(`INSERT OR REPLACE INTO file_tracker (file_path, startup_id, mtime_ns, size_bytes)
			VALUES (?, ?, ?, ?)`, path, startupID, mtimeNs, sizeBytes)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadMonths returns the startup's stored months in insertion order.
func (s *Store) LoadMonths(startupID string) ([]model.MonthlyRecord, error) {
	rows, err := s.db.Query(`SELECT
		month_name, marketing_spend, burn_rate, cac, churn_rate, arpu,
		team_size, product_improvements, market_expansion, funding_round
		FROM monthly_records WHERE startup_id = ? ORDER BY seq`, startupID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.MonthlyRecord
	for rows.Next() {
		var rec model.MonthlyRecord
		var round string
		err := rows.Scan(&rec.MonthName, &rec.MarketingSpend, &rec.BurnRate, &rec.CAC, &rec.ChurnRate, &rec.ARPU,
			&rec.TeamSize, &rec.ProductImprovements, &rec.MarketExpansion, &round)
		if err != nil {
			return nil, err
		}
		rec.FundingRound = model.FundingRound(round)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ClearMonths deletes the startup's stored months and returns how many were removed.
func (s *Store) ClearMonths(startupID string) (int64, error) {
	res, err := s.db.Exec("DELETE FROM monthly_records WHERE startup_id = ?", startupID)
	if err != nil {
		return 0, err
	}
	if _, err := s.db.Exec("DELETE FROM file_tracker WHERE startup_id = ?", startupID); err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Startups lists every startup with stored months.
func (s *Store) Startups() ([]StartupHistory, error) {
	rows, err := s.db.Query(`SELECT m.startup_id, COUNT(*), MAX(m.added_at),
		(SELECT month_name FROM monthly_records l
		 WHERE l.startup_id = m.startup_id ORDER BY seq DESC LIMIT 1)
		FROM monthly_records m GROUP BY m.startup_id ORDER BY m.startup_id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []StartupHistory
	for rows.Next() {
		var h StartupHistory
		if err := rows.Scan(&h.StartupID, &h.Months, &h.UpdatedAt, &h.LastMonth); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
