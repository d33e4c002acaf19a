package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Wallet identifies the wallet integration that signed a payment.
type Wallet string

// Supported wallets.
const (
	WalletMetaMask Wallet = "metamask"
	WalletPera     Wallet = "pera"
)

// ParseWallet normalizes a wallet name.
func ParseWallet(raw string) (Wallet, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "metamask", "meta-mask", "meta mask":
		return WalletMetaMask, nil
	case "pera", "pera wallet", "perawallet":
		return WalletPera, nil
	}
	return "", fmt.Errorf("unknown wallet %q", raw)
}

// InvestmentStatus tracks an investment through confirmation.
type InvestmentStatus string

// Investment statuses.
const (
	StatusPending   InvestmentStatus = "pending"
	StatusConfirmed InvestmentStatus = "confirmed"
	StatusFailed    InvestmentStatus = "failed"
)

// Investment is a recorded investor payment into a startup.
type Investment struct {
	ID         string           `json:"id"`
	TxID       string           `json:"txId"`
	Wallet     Wallet           `json:"wallet"`
	AmountUSD  decimal.Decimal  `json:"amountUsd"`
	StartupID  string           `json:"startupId"`
	InvestorID string           `json:"investorId,omitempty"`
	Equity     float64          `json:"equity"`
	Status     InvestmentStatus `json:"status"`
	CreatedAt  time.Time        `json:"createdAt"`
}
