package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/runway/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runway.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAppendAndLoadMonths(t *testing.T) {
	s := openTestStore(t)

	jan := model.MonthlyRecord{MonthName: "Jan", MarketingSpend: 3000, BurnRate: 8000, CAC: 30, ChurnRate: 0.05, ARPU: 20, TeamSize: 3}
	feb := jan
	feb.MonthName = ""
	feb.FundingRound = model.FundingSeed

	if seq, err := s.AppendMonth("acme", jan); err != nil || seq != 1 {
		t.Fatalf("AppendMonth(jan) = %d, %v, want 1, nil", seq, err)
	}
	if seq, err := s.AppendMonth("acme", feb); err != nil || seq != 2 {
		t.Fatalf("AppendMonth(feb) = %d, %v, want 2, nil", seq, err)
	}
	if _, err := s.AppendMonth("other", jan); err != nil {
		t.Fatalf("AppendMonth(other) error: %v", err)
	}

	got, err := s.LoadMonths("acme")
	if err != nil {
		t.Fatalf("LoadMonths() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != jan {
		t.Errorf("got[0] = %+v, want %+v", got[0], jan)
	}
	if got[1].MonthName != "Month 2" || got[1].FundingRound != model.FundingSeed {
		t.Errorf("got[1] = %+v, want Month 2 with seed", got[1])
	}

	startups, err := s.Startups()
	if err != nil {
		t.Fatalf("Startups() error: %v", err)
	}
	if len(startups) != 2 || startups[0].StartupID != "acme" || startups[0].Months != 2 || startups[0].LastMonth != "Month 2" {
		t.Fatalf("Startups() = %+v", startups)
	}

	n, err := s.ClearMonths("acme")
	if err != nil || n != 2 {
		t.Fatalf("ClearMonths() = %d, %v, want 2, nil", n, err)
	}
	got, _ = s.LoadMonths("acme")
	if len(got) != 0 {
		t.Fatalf("after clear len = %d, want 0", len(got))
	}
}

func TestReplaceMonths_TracksFile(t *testing.T) {
	s := openTestStore(t)
	recs := []model.MonthlyRecord{{MonthName: "A", CAC: 10}, {MonthName: "B", CAC: 12}}

	if err := s.ReplaceMonths("acme", recs, "/data/acme.json", 42, 1024); err != nil {
		t.Fatalf("ReplaceMonths() error: %v", err)
	}
	if err := s.ReplaceMonths("acme", recs[:1], "/data/acme.json", 43, 512); err != nil {
		t.Fatalf("ReplaceMonths() second error: %v", err)
	}

	got, _ := s.LoadMonths("acme")
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 after replace", len(got))
	}
	tracked, err := s.GetTrackedFiles()
	if err != nil {
		t.Fatalf("GetTrackedFiles() error: %v", err)
	}
	fi := tracked["/data/acme.json"]
	if fi.MtimeNs != 43 || fi.SizeBytes != 512 || fi.StartupID != "acme" {
		t.Fatalf("tracked = %+v", fi)
	}
}

func TestInvestments(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := model.Investment{
		ID: "inv-1", TxID: "0xabc", Wallet: model.WalletMetaMask,
		AmountUSD: decimal.RequireFromString("1500.25"), StartupID: "acme",
		Equity: 0.01, Status: model.StatusPending, CreatedAt: base,
	}
	second := first
	second.ID, second.TxID, second.Wallet = "inv-2", "ALGO-TX", model.WalletPera
	second.AmountUSD = decimal.RequireFromString("99.75")
	second.CreatedAt = base.Add(time.Hour)

	for _, inv := range []model.Investment{first, second} {
		if err := s.SaveInvestment(inv); err != nil {
			t.Fatalf("SaveInvestment(%s) error: %v", inv.ID, err)
		}
	}

	dup := first
	dup.ID = "inv-3"
	if err := s.SaveInvestment(dup); !errors.Is(err, ErrDuplicateTx) {
		t.Fatalf("duplicate tx error = %v, want ErrDuplicateTx", err)
	}

	got, err := s.ListInvestments("acme")
	if err != nil {
		t.Fatalf("ListInvestments() error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "inv-2" {
		t.Fatalf("ListInvestments() = %+v, want newest first", got)
	}
	if !got[1].AmountUSD.Equal(first.AmountUSD) {
		t.Errorf("AmountUSD = %s, want %s", got[1].AmountUSD, first.AmountUSD)
	}

	total, err := s.TotalInvested("acme")
	if err != nil {
		t.Fatalf("TotalInvested() error: %v", err)
	}
	if !total.Equal(decimal.RequireFromString("1600")) {
		t.Errorf("TotalInvested() = %s, want 1600", total)
	}
}

func TestRuns(t *testing.T) {
	s := openTestStore(t)
	rec := RunRecord{
		RunID: "run-1", StartupID: "acme", Months: 15, ForecastMonths: 12,
		Summary: model.Summary{FinalUsers: 900, FinalRunway: model.Unbounded(1), FinalLTVCACRatio: model.Finite(3.5)},
	}
	if err := s.SaveRun(rec); err != nil {
		t.Fatalf("SaveRun() error: %v", err)
	}

	runs, err := s.RecentRuns(5)
	if err != nil {
		t.Fatalf("RecentRuns() error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len = %d, want 1", len(runs))
	}
	if runs[0].Summary.FinalUsers != 900 || !runs[0].Summary.FinalRunway.IsUnbounded() {
		t.Fatalf("summary = %+v", runs[0].Summary)
	}
}
