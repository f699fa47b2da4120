package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const validYAML = `
server:
  listen_addr: ":8080"
  base_url: "http://localhost:8080"
database:
  path: "/var/lib/gondotrack/app.db"
auth:
  jwt_secret: "secret"
  admin_token: "admin"
smtp:
  host: "smtp.example.com"
  port: 587
  from: "noreply@example.com"
logging:
  level: "info"
  format: "text"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Server.ListenAddr)
	require.Equal(t, "/var/lib/gondotrack/app.db", cfg.Database.Path)
	require.Equal(t, "smtp.example.com", cfg.SMTP.Host)
	require.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	// TTLs default when unset
	require.Equal(t, 7*24*time.Hour, cfg.SessionTTL())
	require.Equal(t, 30*24*time.Hour, cfg.RememberTTL())
	require.Equal(t, 10*time.Minute, cfg.SignupOTPTTL())
	require.Equal(t, time.Minute, cfg.ResetOTPTTL())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidConfig(t *testing.T) {
	invalid := `
server:
  listen_addr: ":8080"
database:
  path: "/tmp/app.db"
auth:
  admin_token: "admin"
smtp:
  host: "smtp.example.com"
  port: 587
  from: "noreply@example.com"
`
	_, err := Load(writeConfig(t, invalid))
	require.ErrorContains(t, err, "jwt_secret")
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("GONDOTRACK_LISTEN_ADDR", ":9090")
	t.Setenv("GONDOTRACK_JWT_SECRET", "env-secret")
	t.Setenv("GONDOTRACK_SMTP_PORT", "2525")

	cfg, err := LoadWithEnv(writeConfig(t, validYAML))
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Server.ListenAddr)
	require.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	require.Equal(t, 2525, cfg.SMTP.Port)
}

func TestParseDuration(t *testing.T) {
	t.Parallel()

	d, err := parseDuration("30d")
	require.NoError(t, err)
	require.Equal(t, 30*24*time.Hour, d)

	d, err = parseDuration("90m")
	require.NoError(t, err)
	require.Equal(t, 90*time.Minute, d)

	_, err = parseDuration("oops")
	require.Error(t, err)
}

func TestValidate_BadTTL(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	cfg.Auth.SessionTTL = "sometimes"
	require.ErrorContains(t, cfg.Validate(), "session_ttl")
}
