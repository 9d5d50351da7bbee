package daemon

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/halolight/halo/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Monitor.CallCheckInterval != 3 {
		t.Errorf("CallCheckInterval = %d, want 3", cfg.Monitor.CallCheckInterval)
	}
	if cfg.Monitor.IdleCheckInterval != 30 {
		t.Errorf("IdleCheckInterval = %d, want 30", cfg.Monitor.IdleCheckInterval)
	}
	if cfg.Monitor.IdleThreshold != 1800 {
		t.Errorf("IdleThreshold = %d, want 1800", cfg.Monitor.IdleThreshold)
	}
	if cfg.Monitor.AwayThreshold != 3600 {
		t.Errorf("AwayThreshold = %d, want 3600", cfg.Monitor.AwayThreshold)
	}
	if cfg.Light.Brightness != 75 {
		t.Errorf("Brightness = %d, want 75", cfg.Light.Brightness)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			"away_below_idle",
			func(c *Config) { c.Monitor.AwayThreshold = 900 },
			domain.ErrThresholdOrder,
		},
		{
			"zero_call_interval",
			func(c *Config) { c.Monitor.CallCheckInterval = 0 },
			domain.ErrIntervalTooLow,
		},
		{
			"zero_idle_interval",
			func(c *Config) { c.Monitor.IdleCheckInterval = 0 },
			domain.ErrIntervalTooLow,
		},
		{
			"brightness_too_high",
			func(c *Config) { c.Light.Brightness = 150 },
			domain.ErrBrightnessRange,
		},
		{
			"brightness_negative",
			func(c *Config) { c.Light.Brightness = -1 },
			domain.ErrBrightnessRange,
		},
		{
			"equal_thresholds_ok",
			func(c *Config) { c.Monitor.AwayThreshold = c.Monitor.IdleThreshold },
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HALO_HOME", home)

	content := `
[monitor]
call_check_interval_seconds = 5
idle_threshold_seconds = 600
away_threshold_seconds = 1200

[light]
enabled = false
brightness = 40
`
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Monitor.CallCheckInterval != 5 {
		t.Errorf("CallCheckInterval = %d, want 5", cfg.Monitor.CallCheckInterval)
	}
	if cfg.Monitor.IdleThreshold != 600 || cfg.Monitor.AwayThreshold != 1200 {
		t.Errorf("thresholds = %d/%d, want 600/1200", cfg.Monitor.IdleThreshold, cfg.Monitor.AwayThreshold)
	}
	if cfg.Light.Enabled || cfg.Light.Brightness != 40 {
		t.Errorf("light = %+v, want disabled at 40", cfg.Light)
	}
	// Untouched sections keep defaults.
	if cfg.Monitor.IdleCheckInterval != 30 {
		t.Errorf("IdleCheckInterval = %d, want default 30", cfg.Monitor.IdleCheckInterval)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HALO_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Monitor.CallCheckInterval != 3 {
		t.Errorf("CallCheckInterval = %d, want default 3", cfg.Monitor.CallCheckInterval)
	}
}

func TestLoadConfig_InvalidThresholdsFailFast(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HALO_HOME", home)

	content := `
[monitor]
idle_threshold_seconds = 3600
away_threshold_seconds = 1800
`
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig()
	if !errors.Is(err, domain.ErrThresholdOrder) {
		t.Fatalf("LoadConfig() error = %v, want ErrThresholdOrder", err)
	}
}

func TestMonitorConfig_Intervals(t *testing.T) {
	m := MonitorConfig{CallCheckInterval: 3, IdleCheckInterval: 30}
	if m.CallInterval() != 3*time.Second {
		t.Errorf("CallInterval() = %v, want 3s", m.CallInterval())
	}
	if m.IdleInterval() != 30*time.Second {
		t.Errorf("IdleInterval() = %v, want 30s", m.IdleInterval())
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Setenv("HALO_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Monitor.CallCheckInterval = 7
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if got.Monitor.CallCheckInterval != 7 {
		t.Errorf("CallCheckInterval = %d, want 7", got.Monitor.CallCheckInterval)
	}
}
