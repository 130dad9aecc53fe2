// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/user-news-etl/internal/fetch"
	"github.com/jonathan/user-news-etl/internal/ingestion"
	"github.com/jonathan/user-news-etl/internal/records"
)

// StoreKind names the backend a store location points at
type StoreKind string

// Store kinds, picked from the scheme of Config.Store
const (
	StoreFile     StoreKind = "file"
	StorePostgres StoreKind = "postgres"
	StoreRedis    StoreKind = "redis"
)

// Config represents the CLI configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Input  string `json:"input,omitempty" yaml:"input,omitempty"`   // CSV file with the identifier column
	Column string `json:"column,omitempty" yaml:"column,omitempty"` // Header of the identifier column
	Store  string `json:"store,omitempty" yaml:"store,omitempty"`   // Cache file path, postgres:// or redis:// URL

	// Seed and news entries
	SeedURL        string `json:"seed_url,omitempty" yaml:"seed_url,omitempty" validate:"omitempty,url"`
	Icon           string `json:"icon,omitempty" yaml:"icon,omitempty" validate:"omitempty,url"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" validate:"gte=0"`

	// Generation
	APIKey   string `json:"api_key,omitempty" yaml:"api_key,omitempty"` // Gemini API key
	Tier     string `json:"tier,omitempty" yaml:"tier,omitempty" validate:"omitempty,oneof=lite standard"`
	Model    string `json:"model,omitempty" yaml:"model,omitempty"` // Overrides the model of the selected tier
	Language string `json:"language,omitempty" yaml:"language,omitempty" validate:"omitempty,oneof=en pt"`
	MaxChars int    `json:"max_chars,omitempty" yaml:"max_chars,omitempty" validate:"gte=0"`

	// Behavior
	MissingPolicy   string `json:"missing,omitempty" yaml:"missing,omitempty" validate:"omitempty,oneof=skip report fail"`
	CheckpointEvery int    `json:"checkpoint_every,omitempty" yaml:"checkpoint_every,omitempty" validate:"gte=0"`
	DryRun          bool   `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	DatabaseURL     string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // Run history, optional

	// Output
	MetricsFile string `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty"`
	LogLevel    string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,oneof=panic fatal error warn warning info debug trace"`
	LogJSON     bool   `json:"log_json,omitempty" yaml:"log_json,omitempty"`
	Verbose     bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Defaults returns the values used for anything left unset
func Defaults() Config {
	return Config{
		Input:          "USERS.csv",
		Column:         ingestion.DefaultColumn,
		Store:          records.DefaultCachePath,
		SeedURL:        fetch.DefaultSeedURL,
		Icon:           records.DefaultIcon,
		TimeoutSeconds: int(fetch.DefaultTimeout.Seconds()),
		Tier:           "lite",
		Language:       "en",
		MaxChars:       100,
		MissingPolicy:  string(records.MissingSkip),
		LogLevel:       "info",
	}
}

// LoadConfig loads configuration from a JSON or YAML file (by extension).
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Store != "" {
		if _, err := c.StoreKind(); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}

	return nil
}

// StoreKind classifies Store by its scheme; a plain path is a file store
func (c *Config) StoreKind() (StoreKind, error) {
	store := strings.TrimSpace(c.Store)
	switch {
	case strings.HasPrefix(store, "postgres://"), strings.HasPrefix(store, "postgresql://"):
		return StorePostgres, nil
	case strings.HasPrefix(store, "redis://"), strings.HasPrefix(store, "rediss://"):
		return StoreRedis, nil
	case strings.HasPrefix(store, "file://"):
		return StoreFile, nil
	case strings.Contains(store, "://"):
		return "", fmt.Errorf("unsupported store %q", store)
	default:
		return StoreFile, nil
	}
}

// StorePath returns the file path of a file store
func (c *Config) StorePath() string {
	return strings.TrimPrefix(strings.TrimSpace(c.Store), "file://")
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Input == "" {
		result.Input = defaults.Input
	}
	if result.Column == "" {
		result.Column = defaults.Column
	}
	if result.Store == "" {
		result.Store = defaults.Store
	}
	if result.SeedURL == "" {
		result.SeedURL = defaults.SeedURL
	}
	if result.Icon == "" {
		result.Icon = defaults.Icon
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Tier == "" {
		result.Tier = defaults.Tier
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.Language == "" {
		result.Language = defaults.Language
	}
	if result.MissingPolicy == "" {
		result.MissingPolicy = defaults.MissingPolicy
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.MetricsFile == "" {
		result.MetricsFile = defaults.MetricsFile
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	// Int fields: use default if zero
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if result.MaxChars == 0 {
		result.MaxChars = defaults.MaxChars
	}
	if result.CheckpointEvery == 0 {
		result.CheckpointEvery = defaults.CheckpointEvery
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
