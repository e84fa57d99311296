// Package config loads pgmaint settings from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvDatabaseURL overrides database.url when set
const EnvDatabaseURL = "PGMAINT_DATABASE_URL"

// Config holds the full TOML-driven configuration.
type Config struct {
	Advisor  AdvisorConfig  `toml:"advisor"`
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
}

// AdvisorConfig controls the maintenance advice request.
type AdvisorConfig struct {
	Model     string `toml:"model"`
	APIKeyEnv string `toml:"api_key_env"` // environment variable holding the API key
	Timeout   string `toml:"timeout"`     // Go duration, e.g. "30s"

	timeout time.Duration
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type DatabaseConfig struct {
	URL string `toml:"url"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Advisor: AdvisorConfig{
			Model:     "gemini-3-flash-preview",
			APIKeyEnv: "GEMINI_API_KEY",
			Timeout:   "30s",
			timeout:   30 * time.Second,
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads a TOML config file and returns a Config with defaults and environment overrides applied.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := decode(string(data), cfg); err != nil {
			return nil, err
		}
	}

	if url := os.Getenv(EnvDatabaseURL); url != "" {
		cfg.Database.URL = url
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data string, cfg *Config) error {
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if unknown := md.Undecoded(); len(unknown) > 0 {
		keys := make([]string, len(unknown))
		for i, k := range unknown {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) validate() error {
	c.Advisor.Model = strings.TrimSpace(c.Advisor.Model)
	if c.Advisor.Model == "" {
		return errors.New("advisor.model is required")
	}

	d, err := time.ParseDuration(c.Advisor.Timeout)
	if err != nil {
		return fmt.Errorf("advisor.timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("advisor.timeout must be positive, got %s", c.Advisor.Timeout)
	}
	c.Advisor.timeout = d

	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = ":8080"
	}
	return nil
}

// TimeoutDuration returns the parsed advice timeout
func (a AdvisorConfig) TimeoutDuration() time.Duration {
	return a.timeout
}

// APIKey resolves the advisor API key from the configured environment variable,
// falling back to API_KEY.
func (a AdvisorConfig) APIKey() string {
	if a.APIKeyEnv != "" {
		if key := os.Getenv(a.APIKeyEnv); key != "" {
			return key
		}
	}
	return os.Getenv("API_KEY")
}
