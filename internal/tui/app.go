// Package tui provides the interactive Bubble Tea dashboard for runway.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/pipeline"
	"github.com/theirongolddev/runway/internal/tui/components"
	"github.com/theirongolddev/runway/internal/tui/theme"
)

// Options configures the dashboard.
type Options struct {
	StartupID      string
	History        pipeline.History
	Initial        model.InitialState
	ForecastMonths int
	Sim            config.Simulation
	Constraints    config.InputConstraints
	// SaveRun, when set, is called with every successful run.
	SaveRun func(*pipeline.RunResult) error
}

// RunFinishedMsg is sent when a simulation run completes.
type RunFinishedMsg struct {
	Run      *pipeline.RunResult
	Err      error
	SaveErr  error
	Duration time.Duration
}

// App is the root Bubble Tea model.
type App struct {
	opts Options

	// Latest successful run. A failed run leaves it in place.
	run      *pipeline.RunResult
	runTime  time.Duration
	running  bool
	lastErr  string
	saveWarn string

	// Simulation controls (huh form)
	form       *huh.Form
	formValues *formValues

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	spinner spinner.Model
	table   viewport.Model
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5

	tabOverview    = 0
	tabAcquisition = 1
	tabHealth      = 2
	tabTable       = 3
)

// NewApp creates a new TUI app model. The parameters form opens first,
// pre-filled with opts.Initial.
func NewApp(opts Options) App {
	if opts.Constraints.TeamSize.Max == 0 {
		opts.Constraints = config.DefaultConstraints
	}
	if opts.Sim.FundingRounds == nil {
		opts.Sim = config.DefaultSimulation()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	vals := newFormValues(opts.Initial, opts.ForecastMonths)
	return App{
		opts:       opts,
		formValues: vals,
		form:       newParamsForm(vals, opts.Constraints),
		spinner:    sp,
		table:      viewport.New(0, 0),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.form.Init(),
		a.spinner.Tick,
	)
}

// runCmd runs the pipeline off the UI goroutine.
func runCmd(req pipeline.Request, save func(*pipeline.RunResult) error) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		run, err := pipeline.Run(req)
		msg := RunFinishedMsg{Run: run, Err: err, Duration: time.Since(start)}
		if err == nil && save != nil {
			msg.SaveErr = save(run)
		}
		return msg
	}
}

// submit reads the form and starts a run, or records why it cannot.
func (a App) submit() (App, tea.Cmd) {
	initial, months, err := a.formValues.parse(a.opts.Constraints)
	if err != nil {
		a.lastErr = err.Error()
		return a, nil
	}
	if !config.ReadyToSimulate(initial.Users, initial.Cash, initial.MarketSize, initial.TeamSize,
		len(a.opts.History.Records), months) {
		a.lastErr = "every input must be positive and history must not be empty"
		return a, nil
	}

	a.opts.Initial = initial
	a.opts.ForecastMonths = months
	a.running = true
	a.lastErr = ""

	req := pipeline.Request{
		StartupID:      a.opts.StartupID,
		History:        a.opts.History.Records,
		Initial:        initial,
		ForecastMonths: months,
		Sim:            a.opts.Sim,
	}
	return a, tea.Batch(runCmd(req, a.opts.SaveRun), a.spinner.Tick)
}

// openForm re-opens the simulation controls with the last used inputs.
func (a App) openForm() (App, tea.Cmd) {
	a.formValues = newFormValues(a.opts.Initial, a.opts.ForecastMonths)
	a.form = newParamsForm(a.formValues, a.opts.Constraints)
	if a.width > 0 {
		a.form = a.form.WithWidth(formWidth(a.width)).WithHeight(a.height)
	}
	return a, a.form.Init()
}

func formWidth(w int) int {
	if w > 72 {
		return 72
	}
	return w
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(formWidth(msg.Width)).WithHeight(msg.Height)
		}
		a.resizeTable()
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.form != nil {
			return a.updateForm(msg)
		}
		return a.updateKeys(msg)

	case tea.MouseMsg:
		if a.form != nil || a.run == nil || a.showHelp {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
			if a.activeTab == tabTable {
				var cmd tea.Cmd
				a.table, cmd = a.table.Update(msg)
				return a, cmd
			}
		}
		return a, nil

	case RunFinishedMsg:
		a.running = false
		if msg.Err != nil {
			a.lastErr = msg.Err.Error()
			return a, nil
		}
		a.run = msg.Run
		a.runTime = msg.Duration
		a.lastErr = ""
		a.saveWarn = ""
		if msg.SaveErr != nil {
			a.saveWarn = "run not saved: " + msg.SaveErr.Error()
		}
		a.refreshTable()
		return a, nil

	case spinner.TickMsg:
		if a.running || a.run == nil {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the form (cursor blinks, etc.)
	if a.form != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		a.form = nil
		return a.submit()
	case huh.StateAborted:
		a.form = nil
		if a.run == nil && !a.running {
			return a, tea.Quit
		}
		return a, nil
	}
	return a, cmd
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "p":
		if a.running {
			return a, nil
		}
		return a.openForm()
	case "r":
		if a.running || a.run == nil {
			return a, nil
		}
		a.formValues = newFormValues(a.opts.Initial, a.opts.ForecastMonths)
		return a.submit()
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	if a.activeTab == tabTable {
		var cmd tea.Cmd
		a.table, cmd = a.table.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// chromeHeight is the header plus status bar height around tab content.
const chromeHeight = 3

func (a App) contentHeight() int {
	h := a.height - chromeHeight
	if h < minContentHeight {
		h = minContentHeight
	}
	return h
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.form != nil {
		return a.viewForm()
	}
	if a.run == nil {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  runway needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewForm() string {
	t := theme.Active
	body := a.form.View()
	if a.lastErr != "" {
		body += "\n" + lipgloss.NewStyle().Foreground(t.Warn).Render(a.lastErr)
	}
	if a.opts.History.Warning != "" {
		body += "\n" + lipgloss.NewStyle().Foreground(t.TextDim).Render(a.opts.History.Warning)
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, body)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ runway"))
	b.WriteString(subtitleStyle.Render(" · Growth Simulator"))
	b.WriteString("\n\n")
	switch {
	case a.running:
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(fmt.Sprintf(" Simulating %s of history + %s forecast",
			cli.FormatMonthCount(len(a.opts.History.Records)), cli.FormatMonthCount(a.opts.ForecastMonths))))
	case a.lastErr != "":
		b.WriteString(lipgloss.NewStyle().Foreground(t.Bad).Background(t.Surface).Render(a.lastErr))
		b.WriteString("\n\n")
		b.WriteString(subtitleStyle.Render("Press p to adjust the inputs, q to quit"))
	default:
		b.WriteString(subtitleStyle.Render("Press p to set the simulation inputs"))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	bindings := []struct{ key, desc string }{
		{"o a h t", "Jump to tab"},
		{"← → tab", "Previous / Next tab"},
		{"j k", "Scroll the monthly table"},
		{"p", "Edit simulation inputs"},
		{"r", "Re-run with the same inputs"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Forecast months are shown in the forecast color and marked *"))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	pill := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	in := a.run.Initial
	info := pill.Render(" ") +
		accent.Render(a.startupLabel()) +
		pill.Render(" │ history: ") + accent.Render(string(a.opts.History.Origin)) +
		pill.Render(" │ ") + accent.Render(cli.FormatNumber(int64(in.Users))) + pill.Render(" users") +
		pill.Render(" │ ") + accent.Render(cli.FormatMoney(in.Cash)) + pill.Render(" cash") +
		pill.Render(" │ market ") + accent.Render(cli.FormatNumber(int64(in.MarketSize))) +
		pill.Render(" │ team ") + accent.Render(fmt.Sprintf("%d", in.TeamSize))
	if a.running {
		info += pill.Render(" │ ") + a.spinner.View()
	}

	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(info)

	statusBar := components.RenderStatusBar(w, a.statusInfo(), a.statusWarning())

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabAcquisition:
		content = a.renderAcquisitionTab(cw)
	case tabHealth:
		content = a.renderHealthTab(cw)
	case tabTable:
		content = a.renderTableTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) startupLabel() string {
	if a.opts.StartupID != "" {
		return a.opts.StartupID
	}
	return "scenario"
}

func (a App) statusInfo() string {
	s := a.run.Summary
	return fmt.Sprintf("%d hist + %d forecast · run %s · %s",
		s.HistoricalMonths, s.ForecastMonths, shortID(a.run.RunID), a.runTime.Round(time.Microsecond))
}

// statusWarning picks the most pressing message for the status bar.
func (a App) statusWarning() string {
	switch {
	case a.lastErr != "":
		return "run failed, showing previous results: " + a.lastErr
	case a.run.Terminated:
		return fmt.Sprintf("stopped after month %d: cash fell below -$100,000", a.run.Summary.Months)
	case a.saveWarn != "":
		return a.saveWarn
	case a.opts.History.Warning != "":
		return a.opts.History.Warning
	}
	return ""
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ─── Helpers ────────────────────────────────────────────────────

// monthLabels builds compact X-axis labels: "M3" for history, "F2" for forecast.
func monthLabels(results []model.MonthlyResult) []string {
	labels := make([]string, len(results))
	hist, fc := 0, 0
	for i, r := range results {
		if r.IsForecast {
			fc++
			labels[i] = fmt.Sprintf("F%d", fc)
		} else {
			hist++
			labels[i] = fmt.Sprintf("M%d", hist)
		}
	}
	return labels
}

// forecastStart returns the index of the first forecast result.
func forecastStart(results []model.MonthlyResult) int {
	for i, r := range results {
		if r.IsForecast {
			return i
		}
	}
	return len(results)
}

func series(results []model.MonthlyResult, f func(model.MonthlyResult) float64) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = f(r)
	}
	return out
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
