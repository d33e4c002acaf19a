package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/pipeline"
)

var flagForecastInputs bool

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Show only the forecast months",
	Long: "Simulate history plus forecast and print the forecast rows.\n" +
		"With --inputs, print the generated monthly inputs instead of the results.",
	RunE: runForecast,
}

func init() {
	forecastCmd.Flags().BoolVar(&flagForecastInputs, "inputs", false, "Print generated inputs instead of results")
	forecastCmd.Flags().BoolVar(&flagJSON, "json", false, "Print as JSON")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, _ []string) error {
	flagNoSave = true
	run, _, err := simulate(cmd)
	if err != nil {
		return err
	}

	rows := pipeline.ForecastRows(run.Results)

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if flagForecastInputs {
			return enc.Encode(run.Forecast)
		}
		return enc.Encode(rows)
	}

	fmt.Println()
	if flagForecastInputs {
		fmt.Print(cli.RenderTable(cli.RecordTable("Forecast inputs", run.Forecast)))
		return nil
	}
	if len(rows) == 0 {
		fmt.Println(cli.RenderWarning("The run stopped before the first forecast month."))
		return nil
	}
	fmt.Print(cli.RenderTable(cli.MonthlyTable(fmt.Sprintf("Forecast  %s", cli.FormatMonthCount(len(rows))), rows)))
	return nil
}
