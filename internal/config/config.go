// Package config loads server settings from the user's state directory
// and implements working-directory project auto-detection.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// File names inside the state directory. The lock and notification
// files are a shared contract with the desktop process; do not rename
// them without coordinating both sides.
const (
	ConfigFile        = "config.yaml"
	DBFile            = "tasks.db"
	LockFile          = "swarm-tasks.lock"
	NotificationsFile = "notifications.json"
)

// Config holds all tunable server settings.
type Config struct {
	StateDir             string `yaml:"state_dir"`
	TestingDwellSeconds  int    `yaml:"testing_dwell_seconds"`
	SuggestionWindowDays int    `yaml:"suggestion_window_days"`
	SuggestionLimit      int    `yaml:"suggestion_limit"`
	HeartbeatSeconds     int    `yaml:"heartbeat_seconds"`
}

// Default returns the default configuration rooted at
// ~/.codeagentswarm.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		StateDir:             filepath.Join(home, ".codeagentswarm"),
		TestingDwellSeconds:  30,
		SuggestionWindowDays: 30,
		SuggestionLimit:      5,
		HeartbeatSeconds:     60,
	}
}

// Load reads config.yaml from the default state directory. A missing
// file is not an error (defaults apply); a malformed file is.
func Load() (Config, error) {
	cfg := Default()
	return LoadFile(filepath.Join(cfg.StateDir, ConfigFile))
}

// LoadFile reads the given YAML config file over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// DBPath returns the SQLite database location.
func (c Config) DBPath() string {
	return filepath.Join(c.StateDir, DBFile)
}

// LockPath returns the single-instance lock file location.
func (c Config) LockPath() string {
	return filepath.Join(c.StateDir, LockFile)
}

// NotificationsPath returns the notification sink file location.
func (c Config) NotificationsPath() string {
	return filepath.Join(c.StateDir, NotificationsFile)
}

// Dwell returns the minimum testing dwell time.
func (c Config) Dwell() time.Duration {
	return time.Duration(c.TestingDwellSeconds) * time.Second
}

// SuggestionWindow returns the recency window for the suggestion pool.
func (c Config) SuggestionWindow() time.Duration {
	return time.Duration(c.SuggestionWindowDays) * 24 * time.Hour
}

// Heartbeat returns the status heartbeat interval.
func (c Config) Heartbeat() time.Duration {
	return time.Duration(c.HeartbeatSeconds) * time.Second
}
