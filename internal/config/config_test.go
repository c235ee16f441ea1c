package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configVars = []string{
	"PORT", "ENVIRONMENT", "LOG_LEVEL", "STORE_BACKEND", "MESSAGES_PATH", "SQLITE_PATH",
	"ASSETS_DIR", "CONTENT_PATH", "WATCH_CONTENT", "SHOW_MESSAGES", "TRACK_VISITS", "VISIT_SALT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configVars {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, BackendCSV, cfg.StoreBackend)
	assert.Equal(t, "contact_messages.csv", cfg.MessagesPath)
	assert.Equal(t, "images", cfg.AssetsDir)
	assert.True(t, cfg.WatchContent)
	assert.True(t, cfg.ShowMessages)
	assert.True(t, cfg.TrackVisits)
	assert.True(t, cfg.NeedsSQLite())
}

func TestLoad_ProductionDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "Production")
	t.Setenv("TRACK_VISITS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.WatchContent)
	assert.False(t, cfg.ShowMessages)
	assert.False(t, cfg.NeedsSQLite())
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	for _, k := range configVars {
		os.Unsetenv(k)
	}
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORT=9090\nSTORE_BACKEND=sqlite\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("PORT")
		os.Unsetenv("STORE_BACKEND")
	})

	cfg, err := Load(envFile, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
}

func TestLoadWithOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("PORT", "8080")

	cfg, err := LoadWithOverrides(Overrides{Port: "9000", Environment: "Production"})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr())
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.ShowMessages)
	assert.False(t, cfg.WatchContent)

	_, err = LoadWithOverrides(Overrides{Port: "http"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:         "8080",
			StoreBackend: BackendCSV,
			MessagesPath: "contact_messages.csv",
			SQLitePath:   "portfolio.db",
			AssetsDir:    "images",
			TrackVisits:  true,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Port = "http" }, wantErr: "PORT"},
		{name: "port out of range", mutate: func(c *Config) { c.Port = "70000" }, wantErr: "PORT"},
		{name: "unknown backend", mutate: func(c *Config) { c.StoreBackend = "s3" }, wantErr: "STORE_BACKEND"},
		{name: "csv without path", mutate: func(c *Config) { c.MessagesPath = "" }, wantErr: "MESSAGES_PATH"},
		{name: "visits without sqlite", mutate: func(c *Config) { c.SQLitePath = "" }, wantErr: "SQLITE_PATH"},
		{name: "no assets dir", mutate: func(c *Config) { c.AssetsDir = "" }, wantErr: "ASSETS_DIR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
