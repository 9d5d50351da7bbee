// Package daemon manages the monitor's lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/halolight/halo/internal/domain"
)

// Config holds all monitor configuration.
type Config struct {
	Monitor   MonitorConfig   `toml:"monitor"`
	Light     LightConfig     `toml:"light"`
	API       APIConfig       `toml:"api"`
	History   HistoryConfig   `toml:"history"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// MonitorConfig controls the polling cadences and idle thresholds.
// All values are in seconds.
type MonitorConfig struct {
	CallCheckInterval int  `toml:"call_check_interval_seconds"`
	IdleCheckInterval int  `toml:"idle_check_interval_seconds"`
	IdleThreshold     int  `toml:"idle_threshold_seconds"`
	AwayThreshold     int  `toml:"away_threshold_seconds"`
	DetectorTimeout   int  `toml:"per_detector_timeout_seconds"`
	MinCallReport     int  `toml:"min_call_report_seconds"`
	Verbose           bool `toml:"verbose"`
}

// LightConfig controls the Luxafor output.
type LightConfig struct {
	Enabled    bool `toml:"enabled"`
	Brightness int  `toml:"brightness"`
}

// APIConfig controls the local HTTP API server.
type APIConfig struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

// HistoryConfig controls call session history storage.
type HistoryConfig struct {
	Enabled       bool `toml:"enabled"`
	RetentionDays int  `toml:"retention_days"`
}

// TelemetryConfig controls metrics exposure.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// DefaultConfig returns the stock configuration: 3s call polls, 30s
// idle polls, 30min/60min thresholds, light at 75% brightness.
func DefaultConfig() Config {
	return Config{
		Monitor: MonitorConfig{
			CallCheckInterval: 3,
			IdleCheckInterval: 30,
			IdleThreshold:     1800,
			AwayThreshold:     3600,
			DetectorTimeout:   5,
			MinCallReport:     60,
		},
		Light: LightConfig{
			Enabled:    true,
			Brightness: 75,
		},
		API: APIConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    9621,
		},
		History: HistoryConfig{
			Enabled:       true,
			RetentionDays: 90,
		},
	}
}

// LoadConfig reads config from ~/.halo/config.toml, falling back to
// defaults, then validates. Invalid configuration is the one fatal
// startup error.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(HaloHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SaveConfig writes the config to ~/.halo/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(HaloHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	m := c.Monitor
	if m.AwayThreshold < m.IdleThreshold {
		return fmt.Errorf("away_threshold_seconds (%d) < idle_threshold_seconds (%d): %w",
			m.AwayThreshold, m.IdleThreshold, domain.ErrThresholdOrder)
	}
	if m.CallCheckInterval < 1 || m.IdleCheckInterval < 1 {
		return fmt.Errorf("check intervals must be at least 1 second: %w", domain.ErrIntervalTooLow)
	}
	if c.Light.Brightness < 0 || c.Light.Brightness > 100 {
		return fmt.Errorf("brightness %d: %w", c.Light.Brightness, domain.ErrBrightnessRange)
	}
	return nil
}

// CallInterval returns the call poll cadence as a duration.
func (m MonitorConfig) CallInterval() time.Duration {
	return time.Duration(m.CallCheckInterval) * time.Second
}

// IdleInterval returns the idle poll cadence as a duration.
func (m MonitorConfig) IdleInterval() time.Duration {
	return time.Duration(m.IdleCheckInterval) * time.Second
}

// HaloHome returns the monitor's data directory, ~/.halo by default.
// HALO_HOME overrides it.
func HaloHome() string {
	if env := os.Getenv("HALO_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".halo")
}
