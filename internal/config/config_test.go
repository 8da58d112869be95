package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"clinic-archive/internal/model"
)

func validConfig() *Config {
	return &Config{
		ServerPort:        "8080",
		RequestTimeout:    30 * time.Second,
		JWTSecret:         "secret",
		StateBackend:      StateBackendMemory,
		BackendURL:        "http://localhost:3000",
		BackendTimeout:    5 * time.Second,
		StartupPurgeDelay: time.Second,
		LogFormat:         "pretty",
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "memory backend is valid", mutate: func(c *Config) {}},
		{name: "missing jwt secret", mutate: func(c *Config) { c.JWTSecret = " " }, wantErr: "JWT_SECRET"},
		{name: "postgres needs database url", mutate: func(c *Config) { c.StateBackend = StateBackendPostgres }, wantErr: "DATABASE_URL"},
		{name: "redis needs redis url", mutate: func(c *Config) { c.StateBackend = StateBackendRedis }, wantErr: "REDIS_URL"},
		{name: "unknown backend", mutate: func(c *Config) { c.StateBackend = "sqlite" }, wantErr: "STATE_BACKEND"},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "LOG_FORMAT"},
		{
			name: "postgres pool bounds",
			mutate: func(c *Config) {
				c.StateBackend = StateBackendPostgres
				c.DatabaseURL = "postgres://localhost/clinic"
				c.DBMaxConns = 2
				c.DBMinConns = 5
			},
			wantErr: "DB_MIN_CONNS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadArchiveDefaults(t *testing.T) {
	t.Parallel()

	t.Run("empty path uses built-in defaults", func(t *testing.T) {
		defaults, err := LoadArchiveDefaults("")
		require.NoError(t, err)
		require.Equal(t, model.DefaultArchiveSettings(), defaults.For(model.EntityPatients))
		require.Equal(t, model.DefaultArchiveSettings(), defaults.For(model.EntityEmployees))
	})

	t.Run("file overrides one entity type", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "archive.yaml")
		content := "archive:\n  patients:\n    enabled: true\n    months: 12\n    retention_days: 3650\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		defaults, err := LoadArchiveDefaults(path)
		require.NoError(t, err)
		require.Equal(t, model.ArchiveSettings{Enabled: true, Months: 12, RetentionDays: 3650}, defaults.For(model.EntityPatients))
		require.Equal(t, model.DefaultArchiveSettings(), defaults.For(model.EntityEmployees))
	})

	t.Run("rejects retention below one day", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "archive.yaml")
		content := "archive:\n  employees:\n    enabled: true\n    months: 3\n    retention_days: 0\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		_, err := LoadArchiveDefaults(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "retention_days")
	})

	t.Run("rejects unknown entity type", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "archive.yaml")
		content := "archive:\n  invoices:\n    retention_days: 10\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		_, err := LoadArchiveDefaults(path)
		require.Error(t, err)
	})
}

func TestValidateState_IgnoresServerSettings(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.JWTSecret = ""
	cfg.ServerPort = ""

	require.NoError(t, cfg.ValidateState())
	require.Error(t, cfg.Validate())
}
