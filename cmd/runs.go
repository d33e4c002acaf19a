package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/cli"
)

var flagRunsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent simulation runs",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&flagRunsLimit, "limit", "l", 20, "Number of runs to show")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(_ *cobra.Command, _ []string) error {
	st, err := requireStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	runs, err := st.RecentRuns(flagRunsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("\n  No runs recorded yet.")
		return nil
	}

	t := cli.Table{
		Title:   "Recent runs",
		Headers: []string{"When", "Run", "Startup", "Months", "Forecast", "Final Users", "Final Cash", "Runway"},
	}
	for _, r := range runs {
		months := strconv.Itoa(r.Months)
		if r.Terminated {
			months += " !"
		}
		t.Rows = append(t.Rows, []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			shortRunID(r.RunID),
			r.StartupID,
			months,
			strconv.Itoa(r.ForecastMonths),
			cli.FormatNumber(r.Summary.FinalUsers),
			cli.FormatCurrency(r.Summary.FinalCash),
			cli.FormatRunway(r.Summary.FinalRunway),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(t))
	fmt.Println(cli.RenderMuted("  ! stopped early: cash fell below -$100,000"))
	return nil
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
