package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "quotevault", cfg.App.Name)
	assert.Equal(t, "local", cfg.App.Environment)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, int64(DefaultMaxRequestSize), cfg.Server.MaxRequestSize)
	assert.Equal(t, "./data", cfg.Storage.DataDir)
	assert.True(t, cfg.Sync.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Sync.Interval)
	assert.Equal(t, DefaultSyncBatchSize, cfg.Sync.BatchSize)
	assert.Equal(t, "Server", cfg.Sync.CategoryLabel)
	assert.Equal(t, "https://jsonplaceholder.typicode.com", cfg.Services.Feed.BaseURL)
}

func TestLoad_DefaultsAreValid(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9191")
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("APP_SYNC_INTERVAL", "2m")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 2*time.Minute, cfg.Sync.Interval)
}

func TestLoad_ProfilePrecedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "configs"), 0o750))

	base := []byte("log:\n  level: warn\nserver:\n  port: 7000\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "base.yaml"), base, 0o600))

	profile := []byte("server:\n  port: 7100\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "qa.yaml"), profile, 0o600))

	t.Chdir(dir)

	cfg, err := Load("qa")
	require.NoError(t, err)

	// Profile beats base, base beats defaults.
	assert.Equal(t, 7100, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_EnvBeatsProfile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "configs"), 0o750))

	profile := []byte("server:\n  port: 7100\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "qa.yaml"), profile, 0o600))

	t.Chdir(dir)
	t.Setenv("APP_SERVER_PORT", "7200")

	cfg, err := Load("qa")
	require.NoError(t, err)

	assert.Equal(t, 7200, cfg.Server.Port)
}

func TestLoad_MissingProfileIsNotAnError(t *testing.T) {
	cfg, err := Load("nonexistent")

	require.NoError(t, err)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantMsg: "server.port is required",
		},
		{
			name:    "unknown environment",
			mutate:  func(c *Config) { c.App.Environment = "staging" },
			wantMsg: "app.environment must be one of",
		},
		{
			name:    "bad feed URL",
			mutate:  func(c *Config) { c.Services.Feed.BaseURL = "not a url" },
			wantMsg: "services.feed.baseurl must be a valid URL",
		},
		{
			name:    "missing data dir",
			mutate:  func(c *Config) { c.Storage.DataDir = "" },
			wantMsg: "storage.datadir is required",
		},
		{
			name:    "sync batch too large",
			mutate:  func(c *Config) { c.Sync.BatchSize = 500 },
			wantMsg: "sync.batchsize must be at most 100",
		},
		{
			name:    "file logging without path",
			mutate:  func(c *Config) { c.Log.File.Enabled = true; c.Log.File.Path = "" },
			wantMsg: "log.file.path is required when",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)

			tt.mutate(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
