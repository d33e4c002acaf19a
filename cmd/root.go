package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/logging"
	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/monthlydata"
	"github.com/theirongolddev/runway/internal/pipeline"
	"github.com/theirongolddev/runway/internal/store"
	"github.com/theirongolddev/runway/internal/tui/theme"
)

var (
	flagHistory   string
	flagStartup   string
	flagUsers     float64
	flagCash      float64
	flagMarket    float64
	flagTeam      int
	flagMonths    int
	flagRemote    bool
	flagDBPath    string
	flagNoStore   bool
	flagQuiet     bool
	flagVerbose   bool
	flagNoEnvFile bool
)

// Loaded by the root PersistentPreRunE.
var (
	cfg    config.Config
	simCfg config.Simulation
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "runway",
	Short: "Startup growth simulator",
	Long: "Forecast a startup's next months from its history and simulate users,\n" +
		"revenue, cash, runway and unit economics month by month.",
	SilenceUsage:      true,
	PersistentPreRunE: initRuntime,
	RunE:              runSimulate,
}

// Execute is the main entry point called from main.go.
func Execute() {
	defer func() { _ = logger.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagHistory, "history", "f", "", "History file (.json, .yaml or .csv)")
	pf.StringVarP(&flagStartup, "startup", "s", "", "Startup id for stored or remote history")
	pf.Float64Var(&flagUsers, "users", 0, "Initial users")
	pf.Float64Var(&flagCash, "cash", 0, "Initial cash in USD")
	pf.Float64Var(&flagMarket, "market", 0, "Total addressable market (users)")
	pf.IntVar(&flagTeam, "team", 0, "Initial team size")
	pf.IntVarP(&flagMonths, "months", "m", 0, "Months to forecast beyond the history")
	pf.BoolVar(&flagRemote, "remote", false, "Fetch history from the user-data service")
	pf.StringVar(&flagDBPath, "db", pipeline.CachePath(), "SQLite database path")
	pf.BoolVar(&flagNoStore, "no-store", false, "Do not read or write the local database")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging to stderr")
	pf.BoolVar(&flagNoEnvFile, "no-env-file", false, "Skip loading .env from the working directory")
}

// initRuntime loads .env and the config file, then builds the logger.
func initRuntime(cmd *cobra.Command, _ []string) error {
	if !flagNoEnvFile {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading .env: %w", err)
		}
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	simCfg, err = cfg.SimulationConfig()
	if err != nil {
		return fmt.Errorf("config %s: %w", config.Path(), err)
	}
	theme.SetActive(cfg.Appearance.Theme)

	logger, err = logging.New(logging.ModeFor(cmd.Name() == serveCmd.Name(), flagVerbose))
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	return nil
}

// progressf prints a progress line unless --quiet.
func progressf(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}

// openStore opens the local database. It returns nil, without an error, when
// the store is disabled or cannot be opened; callers then run stateless.
func openStore() *store.Store {
	if flagNoStore {
		return nil
	}
	st, err := store.Open(flagDBPath)
	if err != nil {
		logger.Warn("store unavailable", zap.String("path", flagDBPath), zap.Error(err))
		progressf("  Database unavailable, running without history storage\n")
		return nil
	}
	return st
}

// requireStore is openStore for commands that cannot work without it.
func requireStore() (*store.Store, error) {
	if flagNoStore {
		return nil, fmt.Errorf("--no-store given but this command needs the database")
	}
	st, err := store.Open(flagDBPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", flagDBPath, err)
	}
	return st, nil
}

// defaultStartupID keys stored history when no startup is named.
const defaultStartupID = "default"

func startupID() string {
	if flagStartup != "" {
		return flagStartup
	}
	if cfg.General.StartupID != "" {
		return cfg.General.StartupID
	}
	return defaultStartupID
}

// loadHistory resolves the history for a run: --history, the config's history
// file, stored months, the user-data service (--remote), then the seed series.
func loadHistory(ctx context.Context, st *store.Store) (pipeline.History, error) {
	opts := pipeline.HistoryOptions{
		File:      flagHistory,
		StartupID: startupID(),
		Remote:    flagRemote,
	}
	if opts.File == "" {
		opts.File = cfg.General.HistoryFile
	}
	if st != nil {
		opts.Store = st
	}
	if flagRemote {
		if c := dataClient(); c != nil {
			opts.Fetcher = c
		}
	}

	h, err := pipeline.LoadHistory(ctx, opts)
	if err != nil {
		return h, err
	}
	logger.Debug("history resolved",
		zap.String("origin", string(h.Origin)),
		zap.Int("months", len(h.Records)),
		zap.String("startup", opts.StartupID),
	)
	if h.Warning != "" {
		progressf("  %s\n", h.Warning)
	}
	return h, nil
}

// initialState merges flags over the [defaults] config section and clamps
// the result to the input constraints.
func initialState(cmd *cobra.Command) (model.InitialState, int) {
	c := config.DefaultConstraints
	flags := cmd.Flags()

	in := model.InitialState{
		Users:      cfg.Defaults.InitialUsers,
		Cash:       cfg.Defaults.InitialCash,
		MarketSize: cfg.Defaults.MarketSize,
		TeamSize:   cfg.Defaults.InitialTeamSize,
	}
	months := cfg.General.ForecastMonths

	if flags.Changed("users") {
		in.Users = flagUsers
	}
	if flags.Changed("cash") {
		in.Cash = flagCash
	}
	if flags.Changed("market") {
		in.MarketSize = flagMarket
	}
	if flags.Changed("team") {
		in.TeamSize = flagTeam
	}
	if flags.Changed("months") {
		months = flagMonths
	}

	return model.InitialState{
		Users:      c.Users.Clamp(in.Users),
		Cash:       c.Cash.Clamp(in.Cash),
		MarketSize: c.MarketSize.Clamp(in.MarketSize),
		TeamSize:   c.TeamSize.ClampInt(in.TeamSize),
	}, c.Forecast.ClampInt(months)
}

// buildRequest assembles a pipeline request from the flags and a history.
func buildRequest(cmd *cobra.Command, h pipeline.History) pipeline.Request {
	initial, months := initialState(cmd)
	return pipeline.Request{
		StartupID:      startupID(),
		History:        h.Records,
		Initial:        initial,
		ForecastMonths: months,
		Sim:            simCfg,
	}
}

// saveRun stores a run summary. Failures only warn.
func saveRun(st *store.Store, run *pipeline.RunResult) {
	if st == nil {
		return
	}
	if err := st.SaveRun(run.Record()); err != nil {
		logger.Warn("saving run", zap.String("run", run.RunID), zap.Error(err))
		fmt.Fprintln(os.Stderr, cli.RenderWarning("run not saved: "+err.Error()))
	}
}

// remoteStartupName looks up the startup's display name on the user-data
// service. It returns "" unless --remote is set and the lookup succeeds.
func remoteStartupName(ctx context.Context) string {
	if !flagRemote {
		return ""
	}
	c := dataClient()
	if c == nil {
		return ""
	}
	s, err := c.FetchStartup(ctx, startupID())
	if err != nil {
		logger.Debug("startup lookup failed", zap.String("startup", startupID()), zap.Error(err))
		return ""
	}
	return s.DisplayName()
}

// dataClient returns the user-data service client, or nil without a token.
// The client bounds each request with its own 10 s timeout.
func dataClient() *monthlydata.Client {
	return monthlydata.NewClient(config.GetAPIBaseURL(cfg), config.GetAPIToken(cfg))
}
