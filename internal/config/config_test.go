package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/user-news-etl/internal/fetch"
	"github.com/jonathan/user-news-etl/internal/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"input": "data/USERS.csv",
		"store": "redis://localhost:6379/0",
		"missing": "report",
		"checkpoint_every": 5,
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "data/USERS.csv", cfg.Input)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Store)
	assert.Equal(t, "report", cfg.MissingPolicy)
	assert.Equal(t, 5, cfg.CheckpointEvery)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
input: ids.csv
column: customer_id
language: pt
max_chars: 80
log_json: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "ids.csv", cfg.Input)
	assert.Equal(t, "customer_id", cfg.Column)
	assert.Equal(t, "pt", cfg.Language)
	assert.Equal(t, 80, cfg.MaxChars)
	assert.True(t, cfg.LogJSON)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{ invalid json }`)

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "config.yml", "input: [unclosed")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty config", cfg: Config{}},
		{name: "defaults", cfg: Defaults()},
		{name: "bad missing policy", cfg: Config{MissingPolicy: "ignore"}, wantErr: "MissingPolicy"},
		{name: "negative checkpoint", cfg: Config{CheckpointEvery: -1}, wantErr: "CheckpointEvery"},
		{name: "negative max chars", cfg: Config{MaxChars: -5}, wantErr: "MaxChars"},
		{name: "bad seed url", cfg: Config{SeedURL: "not a url"}, wantErr: "SeedURL"},
		{name: "bad language", cfg: Config{Language: "fr"}, wantErr: "Language"},
		{name: "bad log level", cfg: Config{LogLevel: "loud"}, wantErr: "LogLevel"},
		{name: "bad tier", cfg: Config{Tier: "advanced"}, wantErr: "Tier"},
		{name: "unsupported store", cfg: Config{Store: "s3://bucket/users.json"}, wantErr: "unsupported store"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config error")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStoreKind(t *testing.T) {
	tests := []struct {
		store    string
		expected StoreKind
		path     string
	}{
		{store: "mock_users.json", expected: StoreFile, path: "mock_users.json"},
		{store: "file:///tmp/users.json", expected: StoreFile, path: "/tmp/users.json"},
		{store: "postgres://etl@localhost/etl", expected: StorePostgres},
		{store: "postgresql://etl@localhost/etl", expected: StorePostgres},
		{store: "redis://localhost:6379/0", expected: StoreRedis},
	}

	for _, tt := range tests {
		t.Run(tt.store, func(t *testing.T) {
			cfg := Config{Store: tt.store}
			kind, err := cfg.StoreKind()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, kind)
			if tt.path != "" {
				assert.Equal(t, tt.path, cfg.StorePath())
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{
		Input:    "custom.csv",
		MaxChars: 60,
	}

	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, "custom.csv", merged.Input)
	assert.Equal(t, 60, merged.MaxChars)
	assert.Equal(t, "UserID", merged.Column)
	assert.Equal(t, records.DefaultCachePath, merged.Store)
	assert.Equal(t, fetch.DefaultSeedURL, merged.SeedURL)
	assert.Equal(t, records.DefaultIcon, merged.Icon)
	assert.Equal(t, "skip", merged.MissingPolicy)
	assert.Equal(t, 30, merged.TimeoutSeconds)
	assert.Equal(t, 0, merged.CheckpointEvery)
	assert.Equal(t, "lite", merged.Tier)
	assert.Equal(t, "info", merged.LogLevel)

	// Original is untouched
	assert.Empty(t, cfg.Column)
}
