package cmd

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/config"
)

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"serve", "--detach", "--addr", ":9000", "--detach=true"})
	want := []string{"serve", "--addr", ":9000"}
	if len(got) != len(want) {
		t.Fatalf("filterDetachArg = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("filterDetachArg = %v, want %v", got, want)
		}
	}
}

func TestMaskToken(t *testing.T) {
	cases := map[string]string{
		"abcdefghijklmnopqrstuvwxyz": "abcdefgh...wxyz",
		"abcdefg":                    "abcd...",
		"abc":                        "****",
	}
	for in, want := range cases {
		if got := maskToken(in); got != want {
			t.Errorf("maskToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInitialState_FlagsOverrideConfigAndClamp(t *testing.T) {
	cfg = config.DefaultConfig()
	cfg.Defaults.InitialUsers = 250

	c := &cobra.Command{Use: "test"}
	c.Flags().Float64Var(&flagUsers, "users", 0, "")
	c.Flags().Float64Var(&flagCash, "cash", 0, "")
	c.Flags().Float64Var(&flagMarket, "market", 0, "")
	c.Flags().IntVar(&flagTeam, "team", 0, "")
	c.Flags().IntVar(&flagMonths, "months", 0, "")
	if err := c.Flags().Parse([]string{"--cash", "99999999", "--team", "0", "--months", "24"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	in, months := initialState(c)
	if in.Users != 250 {
		t.Errorf("Users = %v, want 250 from config", in.Users)
	}
	if in.Cash != config.DefaultConstraints.Cash.Max {
		t.Errorf("Cash = %v, want clamped to %v", in.Cash, config.DefaultConstraints.Cash.Max)
	}
	if in.TeamSize != 1 {
		t.Errorf("TeamSize = %d, want clamped to 1", in.TeamSize)
	}
	if in.MarketSize != cfg.Defaults.MarketSize {
		t.Errorf("MarketSize = %v, want %v", in.MarketSize, cfg.Defaults.MarketSize)
	}
	if months != 24 {
		t.Errorf("months = %d, want 24", months)
	}
}

func TestStartupID_Fallbacks(t *testing.T) {
	cfg = config.DefaultConfig()
	flagStartup = ""
	if got := startupID(); got != defaultStartupID {
		t.Fatalf("startupID() = %q, want %q", got, defaultStartupID)
	}
	cfg.General.StartupID = "acme"
	if got := startupID(); got != "acme" {
		t.Fatalf("startupID() = %q, want acme", got)
	}
	flagStartup = "globex"
	defer func() { flagStartup = "" }()
	if got := startupID(); got != "globex" {
		t.Fatalf("startupID() = %q, want globex", got)
	}
}

func TestSetupAnswers_Apply(t *testing.T) {
	base := config.DefaultConfig()
	base.API.Token = "keep-me"

	ans := setupAnswers{
		startupID: " acme ",
		users:     "1,000",
		cash:      "$500,000",
		market:    "1000000",
		team:      5,
		months:    24,
		baseURL:   "https://api.example.com/",
		themeName: "tokyo-night",
	}
	out, err := ans.apply(base)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if out.General.StartupID != "acme" {
		t.Errorf("StartupID = %q, want acme", out.General.StartupID)
	}
	if out.Defaults.InitialUsers != 1000 || out.Defaults.InitialCash != 500000 {
		t.Errorf("Defaults = %+v", out.Defaults)
	}
	if out.API.BaseURL != "https://api.example.com" {
		t.Errorf("BaseURL = %q", out.API.BaseURL)
	}
	if out.API.Token != "keep-me" {
		t.Errorf("Token = %q, want the previous token kept", out.API.Token)
	}
	if out.Appearance.Theme != "tokyo-night" || out.General.ForecastMonths != 24 {
		t.Errorf("Theme/Months = %q/%d", out.Appearance.Theme, out.General.ForecastMonths)
	}

	ans.cash = "zero"
	if _, err := ans.apply(base); err == nil {
		t.Fatal("apply with bad cash = nil error")
	}
}
