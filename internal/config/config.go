// Package config loads runtime settings for the social service.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// variables from an optional .env file, then the process environment.
// Later layers win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config is the full set of process settings.
type Config struct {
	HTTPAddr          string        `yaml:"http_addr" env:"HTTP_ADDR"`
	ReadTimeout       time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"HTTP_READ_HEADER_TIMEOUT"`
	WriteTimeout      time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`

	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT"`

	// StorageBackend is memory, postgres or sqlite. Empty picks postgres when
	// DatabaseURL is set and memory otherwise.
	StorageBackend string `yaml:"storage_backend" env:"STORAGE_BACKEND"`
	DatabaseURL    string `yaml:"database_url" env:"DATABASE_URL"`
	SQLitePath     string `yaml:"sqlite_path" env:"SQLITE_PATH"`
	// Migrate applies the embedded postgres schema on start. Defaults to on.
	Migrate        bool   `yaml:"migrate" env:"DB_MIGRATE"`
	DevSeed        bool   `yaml:"dev_seed" env:"DEV_SEED"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		HTTPAddr:          ":8080",
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		LogLevel:          "info",
		LogFormat:         "json",
		SQLitePath:        "social.db",
		Migrate:           true,
	}
}

// Load builds a Config. path names a YAML file and envFile a dotenv file;
// either may be empty, and a missing envFile is ignored.
func Load(path, envFile string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if envFile != "" {
		// godotenv never overrides variables already present in the environment.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("failed to decode environment: %w", err)
	}
	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Backend resolves the storage backend, applying the DatabaseURL rule when unset.
func (c Config) Backend() string {
	if c.StorageBackend != "" {
		return c.StorageBackend
	}
	if c.DatabaseURL != "" {
		return BackendPostgres
	}
	return BackendMemory
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return errors.New("config: http_addr is required")
	}
	for name, d := range map[string]time.Duration{
		"read_timeout":        c.ReadTimeout,
		"read_header_timeout": c.ReadHeaderTimeout,
		"write_timeout":       c.WriteTimeout,
		"idle_timeout":        c.IdleTimeout,
		"shutdown_timeout":    c.ShutdownTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("config: %s must be positive", name)
		}
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("config: log_format %q must be json or text", c.LogFormat)
	}
	switch c.Backend() {
	case BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: database_url is required for the postgres backend")
		}
	case BackendSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.New("config: sqlite_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("config: unknown storage_backend %q", c.StorageBackend)
	}
	return nil
}
