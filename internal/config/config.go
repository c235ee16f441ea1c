// Package config loads the site configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	// Server
	Port        string
	Environment string
	LogLevel    string

	// Record log
	StoreBackend string
	MessagesPath string
	SQLitePath   string

	// Content and assets
	AssetsDir    string
	ContentPath  string
	WatchContent bool
	ShowMessages bool

	// Visit tracking
	TrackVisits bool
	VisitSalt   string
}

// Overrides are values given on the command line. Non-empty fields win
// over the environment and feed the environment-dependent defaults.
type Overrides struct {
	Port        string
	Environment string
}

// Load reads the given .env files (missing ones are skipped) and then the
// environment. Variables already set in the environment win over .env.
func Load(envFiles ...string) (*Config, error) {
	return LoadWithOverrides(Overrides{}, envFiles...)
}

// LoadWithOverrides is Load with command-line values applied before any
// default is derived from them.
func LoadWithOverrides(o Overrides, envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	env := strings.ToLower(firstNonEmpty(o.Environment, getEnv("ENVIRONMENT", "development")))
	cfg := &Config{
		Port:        firstNonEmpty(o.Port, getEnv("PORT", "8080")),
		Environment: env,
		LogLevel:    getEnv("LOG_LEVEL", ""),

		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendCSV)),
		MessagesPath: getEnv("MESSAGES_PATH", "contact_messages.csv"),
		SQLitePath:   getEnv("SQLITE_PATH", "portfolio.db"),

		AssetsDir:    getEnv("ASSETS_DIR", "images"),
		ContentPath:  getEnv("CONTENT_PATH", "content.yaml"),
		WatchContent: getEnvBool("WATCH_CONTENT", env == "development"),
		ShowMessages: getEnvBool("SHOW_MESSAGES", env != "production"),

		TrackVisits: getEnvBool("TRACK_VISITS", true),
		VisitSalt:   getEnv("VISIT_SALT", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all settings are usable.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port)
	}
	switch c.StoreBackend {
	case BackendCSV:
		if c.MessagesPath == "" {
			return fmt.Errorf("MESSAGES_PATH is required for the csv backend")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendCSV, BackendSQLite, c.StoreBackend)
	}
	if c.TrackVisits && c.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH is required when TRACK_VISITS is enabled")
	}
	if c.AssetsDir == "" {
		return fmt.Errorf("ASSETS_DIR is required")
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// NeedsSQLite reports whether any component uses the SQLite file.
func (c *Config) NeedsSQLite() bool {
	return c.StoreBackend == BackendSQLite || c.TrackVisits
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}
