package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const defaultBusyTimeout = 5 * time.Second

type Settings struct {
	Move   MoveConfig   `mapstructure:"move"`
	Log    LogConfig    `mapstructure:"log"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
}

type MoveConfig struct {
	Keep     bool `mapstructure:"keep"`
	Ignore   bool `mapstructure:"ignore"`
	Replace  bool `mapstructure:"replace"`
	Progress bool `mapstructure:"progress"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SQLiteConfig struct {
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("move.keep", false)
	v.SetDefault("move.ignore", false)
	v.SetDefault("move.replace", false)
	v.SetDefault("move.progress", false)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("sqlite.busy_timeout", defaultBusyTimeout)
}

// loadSettings resolves every key with viper's precedence:
// flag > env > config file > default.
func loadSettings(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if s.SQLite.BusyTimeout < 0 {
		return nil, fmt.Errorf("sqlite.busy_timeout must not be negative, got %s", s.SQLite.BusyTimeout)
	}
	return &s, nil
}
