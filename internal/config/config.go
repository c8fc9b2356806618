// Package config loads the editor configuration from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the root configuration structure
type Config struct {
	Editor EditorConfig `mapstructure:"editor"`
	Log    LogConfig    `mapstructure:"log"`

	// Keys rebinds editor actions, e.g. quit: [ctrl+x].
	Keys map[string][]string `mapstructure:"keys"`

	// File is the config file that was read, empty when defaults are used.
	File string `mapstructure:"-"`
}

// EditorConfig holds editing and display settings
type EditorConfig struct {
	TabStop        int           `mapstructure:"tab_stop"`
	MessageTimeout time.Duration `mapstructure:"message_timeout"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	SavePrompt     string        `mapstructure:"save_prompt"`
}

// LogConfig holds diagnostic log settings
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

var validLevels = []string{"debug", "info", "warn", "error"}

// Load loads configuration from the default locations.
func Load() (*Config, error) {
	return LoadFromPath("")
}

// LoadFromPath loads configuration from a specific path.
// If configPath is empty, it searches default locations and falls back to
// defaults when no file exists there.
func LoadFromPath(configPath string) (*Config, error) {
	v := viper.New()
	applyDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		if configDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(configDir, "jot"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "jot"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	applyDefaults(v)

	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Editor.TabStop < 1 || c.Editor.TabStop > 32 {
		return fmt.Errorf("editor.tab_stop must be between 1 and 32, got %d", c.Editor.TabStop)
	}
	if c.Editor.MessageTimeout <= 0 {
		return fmt.Errorf("editor.message_timeout must be positive, got %v", c.Editor.MessageTimeout)
	}
	if c.Editor.PollInterval < 10*time.Millisecond || c.Editor.PollInterval > 5*time.Second {
		return fmt.Errorf("editor.poll_interval must be between 10ms and 5s, got %v", c.Editor.PollInterval)
	}
	if strings.Count(c.Editor.SavePrompt, "%") != 1 || !strings.Contains(c.Editor.SavePrompt, "%s") {
		return fmt.Errorf("editor.save_prompt must contain exactly one %%s, got %q", c.Editor.SavePrompt)
	}
	if !slices.Contains(validLevels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of: %v, got %s", validLevels, c.Log.Level)
	}
	for action, keys := range c.Keys {
		if len(keys) == 0 {
			return fmt.Errorf("keys.%s must list at least one key", action)
		}
	}
	return nil
}

// applyDefaults sets default configuration values.
func applyDefaults(v *viper.Viper) {
	// Editor defaults
	v.SetDefault("editor.tab_stop", 8)
	v.SetDefault("editor.message_timeout", "300s")
	v.SetDefault("editor.poll_interval", "500ms")
	v.SetDefault("editor.save_prompt", "Save as: %s (ENTER to save | ESC to cancel)")

	// Log defaults
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}
