package config

import (
	"fmt"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig contains server configuration
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	BaseURL    string `yaml:"base_url"`
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig contains session and passcode configuration
type AuthConfig struct {
	JWTSecret    string `yaml:"jwt_secret"`
	AdminToken   string `yaml:"admin_token"`
	SessionTTL   string `yaml:"session_ttl"`    // default session lifetime, e.g. "7d"
	RememberTTL  string `yaml:"remember_ttl"`   // remember-me session lifetime, e.g. "30d"
	SignupOTPTTL string `yaml:"signup_otp_ttl"` // e.g. "10m"
	ResetOTPTTL  string `yaml:"reset_otp_ttl"`  // forgot-password and resend, e.g. "1m"
}

// SMTPConfig contains outbound mail configuration
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}

	// Database validation
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	// Auth validation
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.AdminToken == "" {
		return fmt.Errorf("auth.admin_token is required")
	}
	for name, value := range map[string]string{
		"auth.session_ttl":    c.Auth.SessionTTL,
		"auth.remember_ttl":   c.Auth.RememberTTL,
		"auth.signup_otp_ttl": c.Auth.SignupOTPTTL,
		"auth.reset_otp_ttl":  c.Auth.ResetOTPTTL,
	} {
		if _, err := parseDuration(value); err != nil {
			return fmt.Errorf("%s is invalid: %w", name, err)
		}
	}

	// SMTP validation
	if c.SMTP.Host == "" {
		return fmt.Errorf("smtp.host is required")
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("smtp.port must be between 1 and 65535")
	}
	if c.SMTP.From == "" {
		return fmt.Errorf("smtp.from is required")
	}

	// Logging validation
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("logging.format must be 'json' or 'text'")
	}

	return nil
}

// SessionTTL returns the default session lifetime as a time.Duration
func (c *Config) SessionTTL() time.Duration {
	d, _ := parseDuration(c.Auth.SessionTTL)
	return d
}

// RememberTTL returns the remember-me session lifetime as a time.Duration
func (c *Config) RememberTTL() time.Duration {
	d, _ := parseDuration(c.Auth.RememberTTL)
	return d
}

// SignupOTPTTL returns the signup passcode lifetime as a time.Duration
func (c *Config) SignupOTPTTL() time.Duration {
	d, _ := parseDuration(c.Auth.SignupOTPTTL)
	return d
}

// ResetOTPTTL returns the forgot-password/resend passcode lifetime
func (c *Config) ResetOTPTTL() time.Duration {
	d, _ := parseDuration(c.Auth.ResetOTPTTL)
	return d
}

// parseDuration parses duration with support for days (e.g., "30d")
func parseDuration(s string) (time.Duration, error) {
	// Handle "d" suffix for days
	if len(s) > 1 && s[len(s)-1] == 'd' {
		days := s[:len(s)-1]
		var d int
		if _, err := fmt.Sscanf(days, "%d", &d); err != nil {
			return 0, err
		}
		return time.Duration(d) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}
