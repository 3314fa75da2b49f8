// Package config holds the client configuration, loaded from a YAML file
// with sensible defaults for anything missing.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level client configuration.
type Config struct {
	// BaseURL is the backend REST base path, including "/api".
	BaseURL string `yaml:"base_url"`

	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// Locale is the calendar display locale.
	Locale string `yaml:"locale"`

	// View is the initial calendar view (dayGridMonth, timeGridWeek,
	// timeGridDay).
	View string `yaml:"view"`

	// TokenPath overrides the token file location ("" means the default
	// under the user config dir).
	TokenPath string `yaml:"token_path"`
}

// Default returns the in-memory default configuration.
func Default() *Config {
	return &Config{
		BaseURL:        "http://localhost:8080/api",
		TimeoutSeconds: 15,
		Locale:         "ro",
		View:           "dayGridMonth",
	}
}

// Normalize fills in missing/zero values so partially filled configs still
// behave correctly.
func (c *Config) Normalize() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8080/api"
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 15
	}
	if c.Locale == "" {
		c.Locale = "ro"
	}
	switch c.View {
	case "dayGridMonth", "timeGridWeek", "timeGridDay":
	default:
		c.View = "dayGridMonth"
	}
}

// DefaultPath resolves the config file location, honoring XDG_CONFIG_HOME.
func DefaultPath() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "traincal", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "traincal", "config.yaml")
}

// Load reads the config at path, writing and returning the defaults on
// first run.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes the config with 0600 permissions, creating the directory.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
