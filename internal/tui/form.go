package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/model"
)

// formValues backs the parameters form. The form writes through pointers,
// so App keeps a *formValues that survives its own value copies.
type formValues struct {
	users  string
	cash   string
	market string
	team   int
	months int
}

func newFormValues(initial model.InitialState, months int) *formValues {
	return &formValues{
		users:  strconv.FormatFloat(initial.Users, 'f', -1, 64),
		cash:   strconv.FormatFloat(initial.Cash, 'f', -1, 64),
		market: strconv.FormatFloat(initial.MarketSize, 'f', -1, 64),
		team:   initial.TeamSize,
		months: months,
	}
}

// parse converts the form into clamped simulation inputs.
func (v *formValues) parse(c config.InputConstraints) (model.InitialState, int, error) {
	users, err := parseAmount(v.users)
	if err != nil {
		return model.InitialState{}, 0, fmt.Errorf("initial users: %w", err)
	}
	cash, err := parseAmount(v.cash)
	if err != nil {
		return model.InitialState{}, 0, fmt.Errorf("initial cash: %w", err)
	}
	market, err := parseAmount(v.market)
	if err != nil {
		return model.InitialState{}, 0, fmt.Errorf("market size: %w", err)
	}

	return model.InitialState{
		Users:      c.Users.Clamp(users),
		Cash:       c.Cash.Clamp(cash),
		MarketSize: c.MarketSize.Clamp(market),
		TeamSize:   c.TeamSize.ClampInt(v.team),
	}, c.Forecast.ClampInt(v.months), nil
}

var errNotPositive = errors.New("must be a number greater than 0")

// parseAmount accepts "50000", "50,000" or "$50,000".
func parseAmount(s string) (float64, error) {
	s = strings.NewReplacer(",", "", "$", "", "_", "").Replace(strings.TrimSpace(s))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, errNotPositive
	}
	return f, nil
}

func validateAmount(s string) error {
	_, err := parseAmount(s)
	return err
}

func presetSuggestions(presets []config.Preset) []string {
	out := make([]string, len(presets))
	for i, p := range presets {
		out[i] = strconv.FormatFloat(p.Value, 'f', -1, 64)
	}
	return out
}

func presetHint(c config.Constraint, format func(float64) string) string {
	parts := make([]string, len(c.Presets))
	for i, p := range c.Presets {
		parts[i] = fmt.Sprintf("%s %s", p.Label, format(p.Value))
	}
	return fmt.Sprintf("%s to %s. Presets: %s (tab completes)",
		format(c.Min), format(c.Max), strings.Join(parts, ", "))
}

// intOptions builds select options from presets, adding current when it is
// not one of them.
func intOptions(presets []config.Preset, current int, label func(int) string) []huh.Option[int] {
	opts := make([]huh.Option[int], 0, len(presets)+1)
	seen := false
	for _, p := range presets {
		v := int(p.Value)
		seen = seen || v == current
		opts = append(opts, huh.NewOption(label(v), v))
	}
	if !seen && current > 0 {
		opts = append(opts, huh.NewOption(label(current)+" (current)", current))
	}
	return opts
}

// newParamsForm builds the simulation controls: the three amounts as text
// inputs with preset completion, team size and horizon as selects.
func newParamsForm(v *formValues, c config.InputConstraints) *huh.Form {
	count := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	dollars := func(f float64) string { return "$" + strconv.FormatFloat(f, 'f', -1, 64) }

	keys := huh.NewDefaultKeyMap()
	keys.Quit = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Initial users").
				Description(presetHint(c.Users, count)).
				Suggestions(presetSuggestions(c.Users.Presets)).
				Validate(validateAmount).
				Value(&v.users),
			huh.NewInput().
				Title("Initial cash").
				Description(presetHint(c.Cash, dollars)).
				Suggestions(presetSuggestions(c.Cash.Presets)).
				Validate(validateAmount).
				Value(&v.cash),
			huh.NewInput().
				Title("Market size").
				Description(presetHint(c.MarketSize, count)).
				Suggestions(presetSuggestions(c.MarketSize.Presets)).
				Validate(validateAmount).
				Value(&v.market),
			huh.NewSelect[int]().
				Title("Initial team size").
				Options(intOptions(c.TeamSize.Presets, v.team, func(n int) string {
					return fmt.Sprintf("%d people", n)
				})...).
				Value(&v.team),
			huh.NewSelect[int]().
				Title("Forecast horizon").
				Options(intOptions(c.Forecast.Presets, v.months, func(n int) string {
					return fmt.Sprintf("%d months", n)
				})...).
				Value(&v.months),
		).Title("Simulation controls"),
	).WithKeyMap(keys).WithShowHelp(true)
}
