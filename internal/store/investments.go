package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/runway/internal/model"
)

// ErrDuplicateTx is returned when a transaction id was already recorded.
var ErrDuplicateTx = errors.New("store: transaction already recorded")

// SaveInvestment records an investment. Each transaction id is stored once.
func (s *Store) SaveInvestment(inv model.Investment) error {
	created := inv.CreatedAt
	if created.IsZero() {
		created = s.now()
	}

	_, err := s.db.Exec(`INSERT INTO investments
		(id, tx_id, wallet, amount_usd, startup_id, investor_id, equity, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.TxID, string(inv.Wallet), inv.AmountUSD.String(), inv.StartupID, inv.InvestorID,
		inv.Equity, string(inv.Status), created.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s", ErrDuplicateTx, inv.TxID)
		}
		return fmt.Errorf("inserting investment: %w", err)
	}
	return nil
}

// ListInvestments returns investments newest first. An empty startupID lists
// every startup.
func (s *Store) ListInvestments(startupID string) ([]model.Investment, error) {
	query := `SELECT id, tx_id, wallet, amount_usd, startup_id, COALESCE(investor_id, ''),
		equity, status, created_at FROM investments`
	var args []any
	if startupID != "" {
		query += " WHERE startup_id = ?"
		args = append(args, startupID)
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Investment
	for rows.Next() {
		var inv model.Investment
		var wallet, amount, status, created string
		err := rows.Scan(&inv.ID, &inv.TxID, &wallet, &amount, &inv.StartupID, &inv.InvestorID,
			&inv.Equity, &status, &created)
		if err != nil {
			return nil, err
		}
		inv.Wallet = model.Wallet(wallet)
		inv.Status = model.InvestmentStatus(status)
		inv.CreatedAt = parseTime(created)
		inv.AmountUSD, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("investment %s amount: %w", inv.ID, err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// TotalInvested sums the recorded amounts for a startup.
func (s *Store) TotalInvested(startupID string) (decimal.Decimal, error) {
	invs, err := s.ListInvestments(startupID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, inv := range invs {
		if inv.Status == model.StatusFailed {
			continue
		}
		total = total.Add(inv.AmountUSD)
	}
	return total, nil
}
