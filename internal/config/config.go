// Package config loads runway settings and holds the simulation constants.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all runway configuration.
type Config struct {
	General    GeneralConfig       `toml:"general"`
	Defaults   DefaultsConfig      `toml:"defaults"`
	API        APIConfig           `toml:"api"`
	Appearance AppearanceConfig    `toml:"appearance"`
	Daemon     DaemonConfig        `toml:"daemon"`
	Simulation SimulationOverrides `toml:"simulation"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	ForecastMonths int    `toml:"forecast_months"`
	StartupID      string `toml:"startup_id,omitempty"`
	HistoryFile    string `toml:"history_file,omitempty"`
}

// DefaultsConfig holds the initial simulation scalars used when no flag is given.
type DefaultsConfig struct {
	InitialUsers    float64 `toml:"initial_users"`
	InitialCash     float64 `toml:"initial_cash"`
	MarketSize      float64 `toml:"market_size"`
	InitialTeamSize int     `toml:"initial_team_size"`
}

// APIConfig holds the user-data service settings.
type APIConfig struct {
	BaseURL string `toml:"base_url,omitempty"`
	Token   string `toml:"token,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DaemonConfig holds `runway serve` settings.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	EventsBuffer int    `toml:"events_buffer"`
}

// DefaultBaseURL is the user-data service used by the web front-end.
const DefaultBaseURL = "http://localhost:3001"

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			ForecastMonths: 12,
		},
		Defaults: DefaultsConfig{
			InitialUsers:    100,
			InitialCash:     50000,
			MarketSize:      100000,
			InitialTeamSize: 3,
		},
		API: APIConfig{
			BaseURL: DefaultBaseURL,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8788",
			EventsBuffer: 200,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "runway")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "runway")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads a config file at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config file
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to the default path.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path, creating the directory if needed.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// GetAPIToken returns the user-data service token from env var or config, in that order.
func GetAPIToken(cfg Config) string {
	if tok := os.Getenv("RUNWAY_API_TOKEN"); tok != "" {
		return strings.TrimSpace(tok)
	}
	return strings.TrimSpace(cfg.API.Token)
}

// GetAPIBaseURL returns the user-data service URL from env var or config.
func GetAPIBaseURL(cfg Config) string {
	if u := os.Getenv("RUNWAY_API_URL"); u != "" {
		return strings.TrimRight(u, "/")
	}
	if cfg.API.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(cfg.API.BaseURL, "/")
}
