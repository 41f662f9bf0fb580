package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Sync strategy names accepted in the config file.
const (
	SyncStrategyLive = "live"
	SyncStrategyPoll = "poll"
)

// RemoteConfig describes how to reach the planner backend.
type RemoteConfig struct {
	// BaseURL is the root URL of the planner CRUD service.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// SyncStrategy selects how the local collection is kept fresh:
	// "live" subscribes to the snapshot stream, "poll" fetches after
	// every mutation.
	SyncStrategy string `mapstructure:"sync_strategy" yaml:"sync_strategy"`

	// TimeoutSec bounds a single CRUD round trip.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// DisplayConfig holds UI preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`

	// UpcomingLimit caps the recently-edited list; 0 means no limit.
	UpcomingLimit int `mapstructure:"upcoming_limit" yaml:"upcoming_limit"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Remote  RemoteConfig  `mapstructure:"remote" yaml:"remote"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/calendarbot/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "calendarbot", "config.yaml")
}

// DefaultCachePath returns the default path for the local snapshot cache.
func DefaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "cache.db")
	}
	return filepath.Join(home, ".config", "calendarbot", "cache.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Remote: RemoteConfig{
			BaseURL:      "http://localhost:8080",
			SyncStrategy: SyncStrategyLive,
			TimeoutSec:   30,
		},
		Display: DisplayConfig{
			Theme:         "default",
			UpcomingLimit: 5,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("remote.base_url", "http://localhost:8080")
	v.SetDefault("remote.sync_strategy", SyncStrategyLive)
	v.SetDefault("remote.timeout_sec", 30)
	v.SetDefault("display.theme", "default")
	v.SetDefault("display.upcoming_limit", 5)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	switch cfg.Remote.SyncStrategy {
	case SyncStrategyLive, SyncStrategyPoll:
	default:
		return nil, fmt.Errorf(
			"config %s: remote.sync_strategy must be %q or %q, got %q",
			path, SyncStrategyLive, SyncStrategyPoll, cfg.Remote.SyncStrategy,
		)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("remote", cfg.Remote)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
