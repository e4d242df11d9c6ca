// Package config loads the menu engine settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding settings,
// e.g. RYSEINV_SERVER_VERSION.
const EnvPrefix = "RYSEINV"

// ErrInvalidSettings is returned when loaded settings fail validation.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the engine configuration.
type Settings struct {
	// ServerVersion selects the version adapter, e.g. "1.19.4" or
	// "git-Paper-123 (MC: 1.19.4)".
	ServerVersion string `mapstructure:"server_version"`
	// TickInterval is the wall time of one main-thread tick.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// OpenCooldown is the minimum time between two opens for one player.
	OpenCooldown time.Duration `mapstructure:"open_cooldown"`
	LogLevel     string        `mapstructure:"log_level"`
	// LayoutFile is an optional YAML layout template.
	LayoutFile string `mapstructure:"layout_file"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		ServerVersion: "1.19.4",
		TickInterval:  50 * time.Millisecond,
		LogLevel:      "info",
	}
}

// Load reads settings from path, if set, and from RYSEINV_* environment
// variables on top of the defaults.
func Load(path string) (Settings, error) {
	v := viper.New()

	d := Default()
	v.SetDefault("server_version", d.ServerVersion)
	v.SetDefault("tick_interval", d.TickInterval)
	v.SetDefault("open_cooldown", d.OpenCooldown)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("layout_file", d.LayoutFile)

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Settings{}, fmt.Errorf("config file not found: %w", err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the settings.
func (s Settings) Validate() error {
	var errs []error
	if strings.TrimSpace(s.ServerVersion) == "" {
		errs = append(errs, errors.New("server_version is empty"))
	}
	if s.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick_interval %s must be positive", s.TickInterval))
	}
	if s.OpenCooldown < 0 {
		errs = append(errs, fmt.Errorf("open_cooldown %s is negative", s.OpenCooldown))
	}
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidSettings, errors.Join(errs...))
}

// Level returns the parsed log level, falling back to info.
func (s Settings) Level() log.Level {
	lvl, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
