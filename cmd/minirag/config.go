package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the CLI configuration, read from ~/.minirag/config.yaml.
// Every field has a usable default so a missing file is not an error.
type Config struct {
	BaseURL             string `yaml:"base_url"`
	EnterpriseProjectID int    `yaml:"enterprise_project_id"`
	PersonalProjectID   int    `yaml:"personal_project_id"`
	TimeoutSeconds      int    `yaml:"timeout_seconds"`
	SentryDSN           string `yaml:"sentry_dsn"`
	Verbose             bool   `yaml:"verbose"`
}

func defaultConfig() *Config {
	return &Config{
		BaseURL:             "http://localhost:8000",
		EnterpriseProjectID: 1,
		PersonalProjectID:   2,
		TimeoutSeconds:      30,
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".minirag", "config.yaml")
	}
	return filepath.Join(home, ".minirag", "config.yaml")
}

// loadConfig reads the YAML config at path, falling back to defaults
// when the file does not exist. Unset fields keep their defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "failed to read config file")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}

	return cfg, nil
}

// Timeout returns the HTTP client timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
