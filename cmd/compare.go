package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/pipeline"
)

var flagCompareBy string

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run the same history across the preset starting points",
	Long: "Simulate once per preset (cash: Seed / Series A / Series B, team: 2-20)\n" +
		"and compare the outcomes side by side.",
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&flagCompareBy, "by", "cash", "Preset to vary: cash or team")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, _ []string) error {
	st := openStore()
	if st != nil {
		defer func() { _ = st.Close() }()
	}

	h, err := loadHistory(cmd.Context(), st)
	if err != nil {
		return err
	}
	base := buildRequest(cmd, h)

	var scenarios []pipeline.Scenario
	switch flagCompareBy {
	case "cash":
		scenarios = pipeline.CashScenarios(base, config.DefaultConstraints.Cash.Presets)
	case "team":
		scenarios = pipeline.TeamScenarios(base, config.DefaultConstraints.TeamSize.Presets)
	default:
		return fmt.Errorf("--by must be cash or team, got %q", flagCompareBy)
	}

	results := pipeline.RunBatch(scenarios, func(current, total int) {
		progressf("\r  Simulating %s", cli.RenderProgressBar(current, total, 20))
	})
	progressf("\n")

	t := cli.Table{
		Title:   fmt.Sprintf("Compare by %s  %s forecast", flagCompareBy, cli.FormatMonthCount(base.ForecastMonths)),
		Headers: []string{"Scenario", "Final Users", "Final Cash", "vs First", "Lowest Cash", "LTV:CAC", "Runway", "Break-even", "Note"},
	}
	var (
		baseline int64
		haveBase bool
	)
	for _, r := range results {
		if r.Err != nil {
			t.Rows = append(t.Rows, []string{r.Name, "-", "-", "-", "-", "-", "-", "-", r.Err.Error()})
			continue
		}
		s := r.Result.Summary
		breakEven := "never"
		if s.BreakEvenMonth > 0 {
			breakEven = "month " + strconv.Itoa(s.BreakEvenMonth)
		}
		note := ""
		if s.Terminated {
			note = "out of cash"
		}
		delta := "-"
		if haveBase {
			delta = cli.FormatDelta(s.FinalCash, baseline)
		} else {
			baseline, haveBase = s.FinalCash, true
		}
		t.Rows = append(t.Rows, []string{
			r.Name,
			cli.FormatNumber(s.FinalUsers),
			cli.FormatCurrency(s.FinalCash),
			delta,
			cli.FormatCurrency(s.LowestCash),
			cli.FormatRatio(s.FinalLTVCACRatio, "x"),
			cli.FormatRunway(s.FinalRunway),
			breakEven,
			note,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(t))
	return nil
}
