package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// setupAnswers holds the wizard's string-typed fields.
type setupAnswers struct {
	startupID string
	users     string
	cash      string
	market    string
	team      int
	months    int
	baseURL   string
	token     string
	themeName string
}

func runSetup(_ *cobra.Command, _ []string) error {
	c := config.DefaultConstraints
	ans := setupAnswers{
		startupID: cfg.General.StartupID,
		users:     strconv.FormatFloat(cfg.Defaults.InitialUsers, 'f', -1, 64),
		cash:      strconv.FormatFloat(cfg.Defaults.InitialCash, 'f', -1, 64),
		market:    strconv.FormatFloat(cfg.Defaults.MarketSize, 'f', -1, 64),
		team:      cfg.Defaults.InitialTeamSize,
		months:    cfg.General.ForecastMonths,
		baseURL:   config.GetAPIBaseURL(cfg),
		themeName: cfg.Appearance.Theme,
	}

	tokenHint := "Bearer token for --remote. Leave empty to keep the current value."
	if existing := config.GetAPIToken(cfg); existing != "" {
		tokenHint = fmt.Sprintf("Current: %s. Leave empty to keep it.", maskToken(existing))
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Startup id").
				Description("Keys stored history and remote lookups. Empty uses \"default\".").
				Value(&ans.startupID),
			huh.NewInput().
				Title("Initial users").
				Validate(positiveNumber).
				Value(&ans.users),
			huh.NewInput().
				Title("Initial cash (USD)").
				Validate(positiveNumber).
				Value(&ans.cash),
			huh.NewInput().
				Title("Market size (users)").
				Validate(positiveNumber).
				Value(&ans.market),
		).Title("Defaults"),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Initial team size").
				Options(presetIntOptions(c.TeamSize.Presets, ans.team)...).
				Value(&ans.team),
			huh.NewSelect[int]().
				Title("Forecast horizon (months)").
				Options(presetIntOptions(c.Forecast.Presets, ans.months)...).
				Value(&ans.months),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&ans.themeName),
		).Title("Simulation"),
		huh.NewGroup(
			huh.NewInput().
				Title("User-data service URL").
				Value(&ans.baseURL),
			huh.NewInput().
				Title("API token").
				Description(tokenHint).
				EchoMode(huh.EchoModePassword).
				Value(&ans.token),
		).Title("Remote history"),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	next, err := ans.apply(cfg)
	if err != nil {
		return err
	}
	if err := config.Save(next); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `runway setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

// apply writes the answers onto a copy of base.
func (a setupAnswers) apply(base config.Config) (config.Config, error) {
	out := base
	var err error
	if out.Defaults.InitialUsers, err = parsePositive(a.users); err != nil {
		return base, fmt.Errorf("initial users: %w", err)
	}
	if out.Defaults.InitialCash, err = parsePositive(a.cash); err != nil {
		return base, fmt.Errorf("initial cash: %w", err)
	}
	if out.Defaults.MarketSize, err = parsePositive(a.market); err != nil {
		return base, fmt.Errorf("market size: %w", err)
	}
	out.General.StartupID = strings.TrimSpace(a.startupID)
	out.Defaults.InitialTeamSize = a.team
	out.General.ForecastMonths = a.months
	out.Appearance.Theme = a.themeName
	out.API.BaseURL = strings.TrimRight(strings.TrimSpace(a.baseURL), "/")
	if tok := strings.TrimSpace(a.token); tok != "" {
		out.API.Token = tok
	}
	return out, nil
}

func parsePositive(s string) (float64, error) {
	s = strings.NewReplacer(",", "", "$", "", "_", "").Replace(strings.TrimSpace(s))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, errors.New("must be a number greater than 0")
	}
	return f, nil
}

func positiveNumber(s string) error {
	_, err := parsePositive(s)
	return err
}

func presetIntOptions(presets []config.Preset, current int) []huh.Option[int] {
	opts := make([]huh.Option[int], 0, len(presets)+1)
	seen := false
	for _, p := range presets {
		v := int(p.Value)
		seen = seen || v == current
		opts = append(opts, huh.NewOption(strconv.Itoa(v), v))
	}
	if !seen && current > 0 {
		opts = append(opts, huh.NewOption(strconv.Itoa(current)+" (current)", current))
	}
	return opts
}
