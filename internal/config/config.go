// Package config handles application configuration using Viper.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	flowdeckerrors "github.com/flowdeck/flowdeck/internal/errors"
)

// Config holds the application configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Display DisplayConfig `mapstructure:"display"`
}

// APIConfig holds gateway connection settings.
type APIConfig struct {
	URL     string `mapstructure:"url"`
	Timeout int    `mapstructure:"timeout"`
}

// SessionConfig holds session persistence settings.
type SessionConfig struct {
	Path string `mapstructure:"path"`
}

// DisplayConfig holds output-related settings.
type DisplayConfig struct {
	Format string `mapstructure:"format"`
	Colors bool   `mapstructure:"colors"`
}

// Load reads configuration from file and environment. A missing config
// file is not an error, defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir := filepath.Join(home, ".flowdeck")
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("FLOWDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, flowdeckerrors.NewConfigReadError(v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, flowdeckerrors.NewConfigReadError(v.ConfigFileUsed(), err)
	}

	// Expand home directory in the session path
	if strings.HasPrefix(cfg.Session.Path, "~") {
		home, _ := os.UserHomeDir()
		cfg.Session.Path = filepath.Join(home, cfg.Session.Path[1:])
	}

	return &cfg, nil
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	home, _ := os.UserHomeDir()

	v.SetDefault("api.url", "http://localhost:3001")
	v.SetDefault("api.timeout", 30)
	v.SetDefault("session.path", filepath.Join(home, ".flowdeck", "session.json"))
	v.SetDefault("display.format", "text")
	v.SetDefault("display.colors", true)
}

// Save writes the current configuration to file.
func Save(cfg *Config, path string) error {
	v := viper.New()

	v.Set("api.url", cfg.API.URL)
	v.Set("api.timeout", cfg.API.Timeout)
	v.Set("session.path", cfg.Session.Path)
	v.Set("display.format", cfg.Display.Format)
	v.Set("display.colors", cfg.Display.Colors)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	return v.WriteConfigAs(path)
}
