package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides, e.g. VALIBLOX_FUZZY_THRESHOLD.
const EnvPrefix = "VALIBLOX_"

// DefaultLocalPath is the project config file read when --config is not given.
const DefaultLocalPath = ".valiblox.json"

// Configuration holds the settings shared by every valiblox command.
type Configuration struct {
	FuzzyThreshold    float64  `koanf:"fuzzy_threshold" validate:"gt=0,lte=1"`
	Workers           int      `koanf:"workers" validate:"min=0,max=256"`
	IdentifierColumns []string `koanf:"identifier_columns" validate:"dive,required"`
	StrictCodes       bool     `koanf:"strict_codes"`
	Ignore            []string `koanf:"ignore"`
	HistoryDB         string   `koanf:"history_db" validate:"required"`
	RecordHistory     bool     `koanf:"record_history"`
}

// Load builds the configuration from defaults, the global file
// ~/.valiblox/config.json, the local file, and VALIBLOX_ environment
// variables, later sources winning. Missing files are skipped.
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		globalPath := filepath.Join(homeDir, ".valiblox", "config.json")
		if _, err := os.Stat(globalPath); err == nil {
			if err := k.Load(file.Provider(globalPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load global config: %w", err)
			}
		}
	}

	if localConfigPath != "" {
		if _, err := os.Stat(localConfigPath); err == nil {
			if err := k.Load(file.Provider(localConfigPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load local config: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.HistoryDB = expandHomePath(cfg.HistoryDB)
	return &cfg, nil
}

// Validate checks field ranges. Called by Load and again by the CLI after
// flag overrides are applied.
func (c *Configuration) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// envTransform converts environment variable names to config keys.
// Example: VALIBLOX_FUZZY_THRESHOLD -> fuzzy_threshold
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
