package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("BLOODBRIDGE_DATABASE_URL", "postgres://bb:bb@localhost:5432/bb?sslmode=disable")
	t.Setenv("BLOODBRIDGE_SESSION_SECRET", testSecret)
	t.Setenv("BLOODBRIDGE_DATABASE_MAX_OPEN_CONNS", "7")
	t.Setenv("BLOODBRIDGE_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "postgres://bb:bb@localhost:5432/bb?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, 7, cfg.Database.MaxOpenConns)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)

	// Untouched defaults survive.
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Session.Duration)
	assert.Equal(t, "bloodbridge", cfg.Session.Issuer)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeFile(t, `
server:
  port: "8080"
  shutdown_timeout: 5s
database:
  driver: mongo
  url: mongodb://localhost:27017
  name: bb
session:
  secret: `+testSecret+`
  duration: 2h
log:
  level: debug
cors:
  allowed_origins:
    - https://app.example
`)
	t.Setenv("BLOODBRIDGE_LOG_LEVEL", "warn")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, "bb", cfg.Database.Name)
	assert.Equal(t, 2*time.Hour, cfg.Session.Duration)
	assert.Equal(t, "warn", cfg.Log.Level, "env overrides file")
	assert.Equal(t, []string{"https://app.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_FileFromEnv(t *testing.T) {
	path := writeFile(t, "database:\n  url: postgres://x\nsession:\n  secret: "+testSecret+"\n")
	t.Setenv(ConfigFileEnv, path)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "postgres://x", cfg.Database.URL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Database.URL = "postgres://x"
		cfg.Session.Secret = testSecret
		return cfg
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"short secret", func(c *Config) { c.Session.Secret = "short" }, "session.secret"},
		{"no secret", func(c *Config) { c.Session.Secret = "" }, "session.secret"},
		{"no url", func(c *Config) { c.Database.URL = "" }, "database.url"},
		{"bad driver", func(c *Config) { c.Database.Driver = "sqlite" }, "database.driver"},
		{"mongo without name", func(c *Config) {
			c.Database.Driver = DriverMongo
			c.Database.Name = ""
		}, "database.name"},
		{"zero session duration", func(c *Config) { c.Session.Duration = 0 }, "session.duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), err.Error())
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "database.url", envKey("BLOODBRIDGE_DATABASE_URL"))
	assert.Equal(t, "server.metrics_port", envKey("BLOODBRIDGE_SERVER_METRICS_PORT"))
	assert.Equal(t, "config", envKey("BLOODBRIDGE_CONFIG"))
}
