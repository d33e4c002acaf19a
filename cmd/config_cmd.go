// Package cmd implements the runway CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/model"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Forecast months: %d\n", cfg.General.ForecastMonths)
	fmt.Printf("    Startup id:      %s\n", startupID())
	if cfg.General.HistoryFile != "" {
		fmt.Printf("    History file:    %s\n", cfg.General.HistoryFile)
	}
	fmt.Println()

	fmt.Println("  [Defaults]")
	fmt.Printf("    Initial users: %s\n", cli.FormatNumber(int64(cfg.Defaults.InitialUsers)))
	fmt.Printf("    Initial cash:  %s\n", cli.FormatMoney(cfg.Defaults.InitialCash))
	fmt.Printf("    Market size:   %s\n", cli.FormatNumber(int64(cfg.Defaults.MarketSize)))
	fmt.Printf("    Team size:     %d\n", cfg.Defaults.InitialTeamSize)
	fmt.Println()

	fmt.Println("  [API]")
	fmt.Printf("    Base URL: %s\n", config.GetAPIBaseURL(cfg))
	if tok := config.GetAPIToken(cfg); tok != "" {
		fmt.Printf("    Token:    %s\n", maskToken(tok))
	} else {
		fmt.Println("    Token:    not configured (--remote falls back to default history)")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:       %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Events buffer: %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Simulation]")
	fmt.Printf("    Burn per employee:   %s\n", cli.FormatMoney(simCfg.Team.BurnRatePerEmployee))
	fmt.Printf("    Max team size:       %d\n", simCfg.Team.MaxTeamSize)
	fmt.Printf("    Viral coefficient:   %.2f\n", simCfg.PMF.ViralCoefficient)
	fmt.Printf("    Referral multiplier: %.2f\n", simCfg.PMF.ReferralMultiplier)
	fmt.Printf("    Retention uplift:    %.2f\n", simCfg.PMF.RetentionImprovement)
	for _, r := range []model.FundingRound{model.FundingSeed, model.FundingSeriesA, model.FundingSeriesB} {
		if terms, ok := simCfg.LookupRound(r); ok {
			fmt.Printf("    %-20s %s for %s\n", r.String()+":", cli.FormatMoney(terms.Amount), cli.FormatPercent(terms.Dilution))
		}
	}
	fmt.Println()

	fmt.Println("  Run `runway setup` to reconfigure.")
	return nil
}

func maskToken(tok string) string {
	if len(tok) > 16 {
		return tok[:8] + "..." + tok[len(tok)-4:]
	}
	if len(tok) > 4 {
		return tok[:4] + "..."
	}
	return "****"
}
