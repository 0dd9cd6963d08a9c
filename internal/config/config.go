// Package config loads the sd client configuration with Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete client configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	State   StateConfig   `mapstructure:"state"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
}

// APIConfig points at the data service.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"` // 0 means no timeout
}

// SessionConfig holds token lifetime settings.
type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// StateConfig locates persisted client state.
type StateConfig struct {
	Dir string `mapstructure:"dir"` // empty means tokenstore.DefaultDir
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Color string `mapstructure:"color"`
}

// Load reads sd.yaml (or cfgFile) and SD_* environment variables on top of defaults.
// Flag overrides are applied through v, which may be nil.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("sd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$XDG_CONFIG_HOME/staffdesk")
		v.AddConfigPath("$HOME/.config/staffdesk")
	}

	v.SetEnvPrefix("SD")
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// SD_API_BASE_URL maps to api.base_url.
var envReplacer = strings.NewReplacer(".", "_")

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:3000")
	v.SetDefault("api.timeout", time.Duration(0))
	v.SetDefault("session.ttl", 20*time.Minute)
	v.SetDefault("state.dir", "")
	v.SetDefault("logging.level", "warn")
	v.SetDefault("output.color", "auto")
}

func validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if cfg.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative: %s", cfg.API.Timeout)
	}
	if cfg.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive: %s", cfg.Session.TTL)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}
	validColors := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColors[cfg.Output.Color] {
		return fmt.Errorf("invalid output color: %s (must be auto, always, or never)", cfg.Output.Color)
	}
	return nil
}
