package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/pipeline"
)

var (
	flagMonthName    string
	flagMarketing    float64
	flagBurn         float64
	flagCAC          float64
	flagChurn        float64
	flagARPU         float64
	flagMonthTeam    int
	flagImprovements int
	flagExpansion    float64
	flagRound        string
	flagAllStartups  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage stored historical months",
}

var historyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a historical month (affects the next simulation)",
	RunE:  runHistoryAdd,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored months for a startup",
	RunE:  runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete stored months for a startup",
	RunE:  runHistoryClear,
}

var historyImportCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import every history file in a directory, one startup per file",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryImport,
}

func init() {
	f := historyAddCmd.Flags()
	f.StringVar(&flagMonthName, "name", "", `Month label (default "Month N")`)
	f.Float64Var(&flagMarketing, "marketing", 0, "Marketing spend")
	f.Float64Var(&flagBurn, "burn", 0, "Burn rate")
	f.Float64Var(&flagCAC, "cac", 0, "Customer acquisition cost")
	f.Float64Var(&flagChurn, "churn", 0, "Monthly churn rate (0-1)")
	f.Float64Var(&flagARPU, "arpu", 0, "Average revenue per user")
	f.IntVar(&flagMonthTeam, "team-size", 0, "Team size this month (0 keeps the previous)")
	f.IntVar(&flagImprovements, "improvements", 0, "Product improvements counter")
	f.Float64Var(&flagExpansion, "expansion", 0, "Market expansion (0-1)")
	f.StringVar(&flagRound, "round", "", "Funding round closed this month (seed, seriesA, seriesB)")

	historyListCmd.Flags().BoolVar(&flagAllStartups, "all", false, "List every startup with stored months")

	historyCmd.AddCommand(historyAddCmd, historyListCmd, historyClearCmd, historyImportCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryAdd(_ *cobra.Command, _ []string) error {
	round, err := model.ParseFundingRound(flagRound)
	if err != nil {
		return err
	}
	if flagChurn < 0 || flagChurn > 1 {
		return fmt.Errorf("--churn must be within [0,1], got %v", flagChurn)
	}

	st, err := requireStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id := startupID()
	name := flagMonthName
	if name == "" {
		existing, err := st.LoadMonths(id)
		if err != nil {
			return err
		}
		name = "Month " + strconv.Itoa(len(existing)+1)
	}

	rec := model.MonthlyRecord{
		MonthName:           name,
		MarketingSpend:      flagMarketing,
		BurnRate:            flagBurn,
		CAC:                 flagCAC,
		ChurnRate:           flagChurn,
		ARPU:                flagARPU,
		TeamSize:            flagMonthTeam,
		ProductImprovements: flagImprovements,
		MarketExpansion:     flagExpansion,
		FundingRound:        round,
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	pos, err := st.AppendMonth(id, rec)
	if err != nil {
		return fmt.Errorf("storing month: %w", err)
	}

	fmt.Printf("  Added %q as month %d for %s\n", name, pos, id)
	return nil
}

func runHistoryList(_ *cobra.Command, _ []string) error {
	st, err := requireStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if flagAllStartups {
		startups, err := st.Startups()
		if err != nil {
			return err
		}
		if len(startups) == 0 {
			fmt.Println("\n  No stored history. Add months with `runway history add`.")
			return nil
		}
		t := cli.Table{
			Title:   "Stored startups",
			Headers: []string{"Startup", "Months", "Last month", "Updated"},
		}
		for _, s := range startups {
			t.Rows = append(t.Rows, []string{s.StartupID, strconv.Itoa(s.Months), s.LastMonth, s.UpdatedAt})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(t))
		return nil
	}

	id := startupID()
	records, err := st.LoadMonths(id)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Printf("\n  No stored months for %s. Runs use the default history.\n", id)
		return nil
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.RecordTable("History  "+id, records)))
	return nil
}

func runHistoryClear(_ *cobra.Command, _ []string) error {
	st, err := requireStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id := startupID()
	n, err := st.ClearMonths(id)
	if err != nil {
		return err
	}
	fmt.Printf("  Removed %d month(s) for %s\n", n, id)
	return nil
}

func runHistoryImport(_ *cobra.Command, args []string) error {
	st, err := requireStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	progressf("  Scanning %s...\n", args[0])
	res, err := pipeline.ImportDir(args[0], st, func(current, total int) {
		progressf("\r  Importing [%d/%d]", current, total)
	})
	if err != nil {
		return err
	}
	if res.TotalFiles == 0 {
		fmt.Println("\n  No history files (.json, .yaml, .yml, .csv) found.")
		return nil
	}

	progressf("\n")
	fmt.Printf("  Imported %d file(s), %d month(s); %d unchanged\n", res.Imported, res.Months, res.Unchanged)
	for _, id := range res.StartupIDs {
		fmt.Printf("    %s\n", id)
	}
	if res.FileErrors > 0 {
		fmt.Println(cli.RenderWarning(fmt.Sprintf("%d file(s) could not be read", res.FileErrors)))
		for _, e := range res.FirstErrors {
			fmt.Printf("    %v\n", e)
		}
	}
	return nil
}
