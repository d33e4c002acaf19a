// Package payments turns successful-payment notifications from the wallet
// integrations into investment records. Signing and verifying transactions
// happens in the wallets, never here.
package payments

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/runway/internal/model"
)

var (
	// ErrMissingTxID is returned when a notification carries no transaction id.
	ErrMissingTxID = errors.New("payments: transaction id is required")
	// ErrMissingStartup is returned when a notification names no startup.
	ErrMissingStartup = errors.New("payments: startup id is required")
	// ErrInvalidAmount is returned for non-positive amounts.
	ErrInvalidAmount = errors.New("payments: amount must be > 0")
	// ErrInvalidEquity is returned for equity outside [0,1].
	ErrInvalidEquity = errors.New("payments: equity must be within [0,1]")
)

// Notification is what a wallet integration reports after a payment succeeds.
type Notification struct {
	TxID       string          `json:"txId"`
	Wallet     model.Wallet    `json:"wallet"`
	AmountUSD  decimal.Decimal `json:"amountUsd"`
	StartupID  string          `json:"startupId"`
	InvestorID string          `json:"investorId,omitempty"`
	Equity     float64         `json:"equity"`
}

// UnmarshalJSON normalizes the wallet name while decoding.
func (n *Notification) UnmarshalJSON(data []byte) error {
	type alias Notification
	var raw struct {
		alias
		Wallet string `json:"wallet"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = Notification(raw.alias)
	if raw.Wallet != "" {
		w, err := model.ParseWallet(raw.Wallet)
		if err != nil {
			return fmt.Errorf("payments: %w", err)
		}
		n.Wallet = w
	}
	return nil
}

// Validate checks the fields an investment record needs.
func (n Notification) Validate() error {
	if strings.TrimSpace(n.TxID) == "" {
		return ErrMissingTxID
	}
	if _, err := model.ParseWallet(string(n.Wallet)); err != nil {
		return fmt.Errorf("payments: %w", err)
	}
	if strings.TrimSpace(n.StartupID) == "" {
		return ErrMissingStartup
	}
	if !n.AmountUSD.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrInvalidAmount, n.AmountUSD)
	}
	if n.Equity < 0 || n.Equity > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidEquity, n.Equity)
	}
	return nil
}

// ToInvestment validates n and converts it into a pending investment.
func (n Notification) ToInvestment(now time.Time) (model.Investment, error) {
	if err := n.Validate(); err != nil {
		return model.Investment{}, err
	}
	return model.Investment{
		ID:         uuid.NewString(),
		TxID:       strings.TrimSpace(n.TxID),
		Wallet:     n.Wallet,
		AmountUSD:  n.AmountUSD.Round(2),
		StartupID:  strings.TrimSpace(n.StartupID),
		InvestorID: strings.TrimSpace(n.InvestorID),
		Equity:     n.Equity,
		Status:     model.StatusPending,
		CreatedAt:  now.UTC(),
	}, nil
}
