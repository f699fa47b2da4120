package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from a file and applies environment variable overrides
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	if v := os.Getenv("GONDOTRACK_LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("GONDOTRACK_BASE_URL"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv("GONDOTRACK_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("GONDOTRACK_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("GONDOTRACK_ADMIN_TOKEN"); v != "" {
		cfg.Auth.AdminToken = v
	}
	if v := os.Getenv("GONDOTRACK_SMTP_HOST"); v != "" {
		cfg.SMTP.Host = v
	}
	if v := os.Getenv("GONDOTRACK_SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GONDOTRACK_SMTP_PORT: %w", err)
		}
		cfg.SMTP.Port = port
	}
	if v := os.Getenv("GONDOTRACK_SMTP_USERNAME"); v != "" {
		cfg.SMTP.Username = v
	}
	if v := os.Getenv("GONDOTRACK_SMTP_PASSWORD"); v != "" {
		cfg.SMTP.Password = v
	}
	if v := os.Getenv("GONDOTRACK_SMTP_FROM"); v != "" {
		cfg.SMTP.From = v
	}

	// Validate again after env overrides
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration after env overrides: %w", err)
	}

	return cfg, nil
}

// applyDefaults fills in optional fields before validation
func (c *Config) applyDefaults() {
	if c.Auth.SessionTTL == "" {
		c.Auth.SessionTTL = "7d"
	}
	if c.Auth.RememberTTL == "" {
		c.Auth.RememberTTL = "30d"
	}
	if c.Auth.SignupOTPTTL == "" {
		c.Auth.SignupOTPTTL = "10m"
	}
	if c.Auth.ResetOTPTTL == "" {
		c.Auth.ResetOTPTTL = "1m"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}
