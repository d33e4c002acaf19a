package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/pipeline"
	"github.com/theirongolddev/runway/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive growth dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	st := openStore()
	if st != nil {
		defer func() { _ = st.Close() }()
	}

	h, err := loadHistory(cmd.Context(), st)
	if err != nil {
		return err
	}
	initial, months := initialState(cmd)

	opts := tui.Options{
		StartupID:      startupID(),
		History:        h,
		Initial:        initial,
		ForecastMonths: months,
		Sim:            simCfg,
		Constraints:    config.DefaultConstraints,
	}
	if st != nil {
		opts.SaveRun = func(run *pipeline.RunResult) error {
			return st.SaveRun(run.Record())
		}
	}

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	p := tea.NewProgram(tui.NewApp(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
