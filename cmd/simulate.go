package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/pipeline"
	"github.com/theirongolddev/runway/internal/report"
)

var (
	flagJSON     bool
	flagReport   string
	flagTitle    string
	flagQuarters bool
	flagNoSave   bool
	flagFrom     int
	flagTo       int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Forecast and simulate month by month (default command)",
	RunE:  runSimulate,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, simulateCmd} {
		c.Flags().BoolVar(&flagJSON, "json", false, "Print the full run as JSON")
		c.Flags().StringVar(&flagReport, "report", "", "Write a report (.md or .html)")
		c.Flags().StringVar(&flagTitle, "title", "", "Report title")
		c.Flags().BoolVar(&flagQuarters, "quarters", false, "Add quarterly totals")
		c.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the run in the database")
		c.Flags().IntVar(&flagFrom, "from", 0, "First month of the monthly table (1-based)")
		c.Flags().IntVar(&flagTo, "to", 0, "Last month of the monthly table")
	}
	rootCmd.AddCommand(simulateCmd)
}

// simulate resolves the history, runs the pipeline and records the run.
func simulate(cmd *cobra.Command) (*pipeline.RunResult, pipeline.History, error) {
	st := openStore()
	if st != nil {
		defer func() { _ = st.Close() }()
	}

	h, err := loadHistory(cmd.Context(), st)
	if err != nil {
		return nil, h, err
	}

	req := buildRequest(cmd, h)
	start := time.Now()
	run, err := pipeline.Run(req)
	if err != nil {
		return nil, h, err
	}
	logger.Debug("simulated",
		zap.String("run", run.RunID),
		zap.Int("months", run.Summary.Months),
		zap.Duration("took", time.Since(start)),
	)

	if !flagNoSave {
		saveRun(st, run)
	}
	return run, h, nil
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	run, h, err := simulate(cmd)
	if err != nil {
		return err
	}

	if flagReport != "" {
		title := flagTitle
		if title == "" {
			title = remoteStartupName(cmd.Context())
		}
		if err := report.WriteFile(flagReport, run, title); err != nil {
			return err
		}
		progressf("  Report written to %s\n", flagReport)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}

	printRun(run, h)
	return nil
}

func printRun(run *pipeline.RunResult, h pipeline.History) {
	in := run.Initial
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("GROWTH SIMULATION  %s history + %s forecast",
		cli.FormatMonthCount(run.Summary.HistoricalMonths), cli.FormatMonthCount(run.Summary.ForecastMonths))))
	fmt.Println()
	fmt.Printf("  History: %s   Users: %s   Cash: %s   Market: %s   Team: %d\n\n",
		h.Origin,
		cli.FormatNumber(int64(in.Users)),
		cli.FormatMoney(in.Cash),
		cli.FormatNumber(int64(in.MarketSize)),
		in.TeamSize,
	)

	s := run.Summary
	fmt.Printf("  Final cash %s   LTV:CAC %s   Runway %s\n",
		cli.RenderSignedCurrency(s.FinalCash),
		cli.RenderLTVCAC(s.FinalLTVCACRatio),
		cli.RenderRunway(s.FinalRunway),
	)
	fmt.Printf("  Users  %s\n", cli.RenderSparkline(trend(run.Results, func(r model.MonthlyResult) int64 { return r.Users })))
	fmt.Printf("  Cash   %s\n\n", cli.RenderSparkline(trend(run.Results, func(r model.MonthlyResult) int64 { return r.Cash })))

	fmt.Print(cli.RenderTable(cli.SummaryTable(s)))
	fmt.Println()
	rows := pipeline.FilterByMonth(run.Results, flagFrom, flagTo)
	title := "Monthly results"
	if len(rows) != len(run.Results) {
		title = fmt.Sprintf("Monthly results  %d of %d", len(rows), len(run.Results))
	}
	fmt.Print(cli.RenderTable(cli.MonthlyTable(title, rows)))

	printCashFlow(pipeline.CashFlow(run.Months(), run.Results, simCfg))

	if flagQuarters {
		if periods := pipeline.AggregatePeriods(run.Results, 3); len(periods) > 0 {
			fmt.Println()
			fmt.Print(cli.RenderTable(cli.PeriodTable("Quarters", periods)))
		}
	}

	if events := pipeline.FundingEvents(run.Months(), run.Results, simCfg); len(events) > 0 {
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.FundingTable(events)))
	}

	fmt.Println()
	fmt.Println(cli.RenderMuted("  * forecast month"))
	if run.Terminated {
		fmt.Println(cli.RenderWarning(fmt.Sprintf("Stopped after month %d: cash fell below -$100,000", run.Summary.Months)))
	}
}

func trend(results []model.MonthlyResult, field func(model.MonthlyResult) int64) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = float64(field(r))
	}
	return out
}

// printCashFlow draws the run's inflows and outflows as bars on one scale.
func printCashFlow(b model.CashFlowBreakdown) {
	scale := max(b.Revenue, b.MarketingSpend, b.OperatingBurn, b.Funding)
	fmt.Println()
	fmt.Println(cli.RenderMuted("  Cash flow"))
	for _, line := range []struct {
		label string
		value float64
	}{
		{"Revenue", b.Revenue},
		{"Funding", b.Funding},
		{"Marketing", b.MarketingSpend},
		{"Operating", b.OperatingBurn},
	} {
		fmt.Printf("%s %s\n", cli.RenderHorizontalBar(line.label, line.value, scale, 40), cli.FormatMoney(line.value))
	}
	fmt.Printf("  %-12s %s\n", "Net", cli.RenderSignedCurrency(int64(b.NetCashFlow)))
}
