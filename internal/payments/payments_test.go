package payments

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/runway/internal/model"
)

func validNotification() Notification {
	return Notification{
		TxID:      "0xfeed",
		Wallet:    model.WalletMetaMask,
		AmountUSD: decimal.RequireFromString("250.456"),
		StartupID: "acme",
		Equity:    0.02,
	}
}

func TestNotification_Decode(t *testing.T) {
	var n Notification
	data := `{"txId":"ALGO1","wallet":"Pera Wallet","amountUsd":"100.10","startupId":"acme","equity":0.01}`
	if err := json.Unmarshal([]byte(data), &n); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if n.Wallet != model.WalletPera {
		t.Errorf("Wallet = %q, want pera", n.Wallet)
	}
	if !n.AmountUSD.Equal(decimal.RequireFromString("100.1")) {
		t.Errorf("AmountUSD = %s, want 100.1", n.AmountUSD)
	}

	if err := json.Unmarshal([]byte(`{"wallet":"phantom"}`), &n); err == nil {
		t.Fatal("expected error for unknown wallet")
	}
}

func TestNotification_Validate(t *testing.T) {
	cases := map[string]struct {
		mutate func(*Notification)
		want   error
	}{
		"missing tx":   {func(n *Notification) { n.TxID = " " }, ErrMissingTxID},
		"no startup":   {func(n *Notification) { n.StartupID = "" }, ErrMissingStartup},
		"zero amount":  {func(n *Notification) { n.AmountUSD = decimal.Zero }, ErrInvalidAmount},
		"equity above": {func(n *Notification) { n.Equity = 1.5 }, ErrInvalidEquity},
	}
	for name, tc := range cases {
		n := validNotification()
		tc.mutate(&n)
		if err := n.Validate(); !errors.Is(err, tc.want) {
			t.Errorf("%s: Validate() = %v, want %v", name, err, tc.want)
		}
	}

	n := validNotification()
	n.Wallet = "phantom"
	if err := n.Validate(); err == nil {
		t.Error("unknown wallet should fail validation")
	}
}

func TestNotification_ToInvestment(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 30, 0, 0, time.FixedZone("X", 3600))
	inv, err := validNotification().ToInvestment(now)
	if err != nil {
		t.Fatalf("ToInvestment() error: %v", err)
	}
	if _, err := uuid.Parse(inv.ID); err != nil {
		t.Errorf("ID %q is not a UUID", inv.ID)
	}
	if inv.Status != model.StatusPending {
		t.Errorf("Status = %q, want pending", inv.Status)
	}
	if !inv.AmountUSD.Equal(decimal.RequireFromString("250.46")) {
		t.Errorf("AmountUSD = %s, want 250.46", inv.AmountUSD)
	}
	if inv.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt location = %v, want UTC", inv.CreatedAt.Location())
	}
}
