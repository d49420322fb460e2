// Package config loads application configuration from defaults, an optional
// YAML file, and BLOODBRIDGE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "BLOODBRIDGE_"

// ConfigFileEnv names the config file when no path is passed to Load.
const ConfigFileEnv = EnvPrefix + "CONFIG"

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// MinSessionSecretLength is the minimum accepted session secret size in bytes.
const MinSessionSecretLength = 32

// Config is the application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	Session  SessionConfig  `koanf:"session"`
	Cookie   CookieConfig   `koanf:"cookie"`
	CORS     CORSConfig     `koanf:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              string        `koanf:"port"`
	MetricsPort       string        `koanf:"metrics_port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds document store settings. Name is only used by the
// mongo driver; postgres takes the database from URL.
type DatabaseConfig struct {
	Driver          string        `koanf:"driver"`
	URL             string        `koanf:"url"`
	Name            string        `koanf:"name"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
	ConnectAttempts int           `koanf:"connect_attempts"`
	Migrate         bool          `koanf:"migrate"`
	MigrationsPath  string        `koanf:"migrations_path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// SessionConfig holds session token settings.
type SessionConfig struct {
	Secret   string        `koanf:"secret"`
	Duration time.Duration `koanf:"duration"`
	Issuer   string        `koanf:"issuer"`
}

// CookieConfig holds session cookie attributes.
type CookieConfig struct {
	Secure bool   `koanf:"secure"`
	Domain string `koanf:"domain"`
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              "5000",
			MetricsPort:       "9090",
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
			ShutdownTimeout:   30 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Name:            "bloodbridge",
			MaxOpenConns:    20,
			MaxIdleConns:    2,
			ConnMaxLifetime: time.Hour,
			ConnectTimeout:  60 * time.Second,
			ConnectAttempts: 5,
			Migrate:         true,
			MigrationsPath:  "file://migrations",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Session: SessionConfig{
			Duration: 24 * time.Hour,
			Issuer:   "bloodbridge",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
		},
	}
}

// Load builds the configuration. path may be empty, in which case the file
// named by BLOODBRIDGE_CONFIG is used, if any.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(ConfigFileEnv)
	}

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	// Comma-separated origins from the environment.
	if raw, ok := k.Get("cors.allowed_origins").(string); ok {
		if err := k.Set("cors.allowed_origins", splitList(raw)); err != nil {
			return nil, fmt.Errorf("parse cors origins: %w", err)
		}
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// envKey maps BLOODBRIDGE_DATABASE_MAX_OPEN_CONNS to database.max_open_conns.
// Only the first underscore separates section from key.
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate reports missing or unusable settings.
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case DriverPostgres, DriverMongo:
	default:
		errs = append(errs, fmt.Errorf("database.driver must be %q or %q, got %q",
			DriverPostgres, DriverMongo, c.Database.Driver))
	}
	if c.Database.URL == "" {
		errs = append(errs, errors.New("database.url is required"))
	}
	if c.Database.Driver == DriverMongo && c.Database.Name == "" {
		errs = append(errs, errors.New("database.name is required for the mongo driver"))
	}
	if len(c.Session.Secret) < MinSessionSecretLength {
		errs = append(errs, fmt.Errorf("session.secret must be at least %d bytes", MinSessionSecretLength))
	}
	if c.Session.Duration <= 0 {
		errs = append(errs, errors.New("session.duration must be positive"))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
