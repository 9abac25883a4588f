package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
)

// CurrentSchemaVersion is the current config schema version.
const CurrentSchemaVersion = 1

// Environment variable names for config overrides.
// Priority: Environment > Config File > Default
const (
	EnvPort             = "CODENAMES_PORT"
	EnvDatabasePath     = "CODENAMES_DB_PATH"
	EnvWordList         = "CODENAMES_WORD_LIST"
	EnvCORSOrigins      = "CODENAMES_CORS_ORIGINS"
	EnvRateLimitEnabled = "CODENAMES_RATE_LIMIT_ENABLED"
)

// Config holds application configuration.
type Config struct {
	SchemaVersion int `json:"schema_version"`
	Port          int `json:"port"`

	// DatabasePath overrides the default database location; empty means
	// the file under the user config dir.
	DatabasePath string `json:"database_path"`

	// WordList names the embedded word list to serve grids from.
	WordList string `json:"word_list"`

	// CORSOrigins is the browser origin allowlist; empty disables CORS.
	CORSOrigins []string `json:"cors_origins"`

	RateLimitEnabled bool `json:"rate_limit_enabled"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SchemaVersion:    CurrentSchemaVersion,
		Port:             8080,
		DatabasePath:     "",
		WordList:         "en",
		CORSOrigins:      nil,
		RateLimitEnabled: true,
	}
}

// LoadConfig reads config from disk. If the file doesn't exist or is corrupt,
// it returns DefaultConfig with a warning logged (non-fatal).
func LoadConfig() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}

	return LoadConfigFrom(path)
}

// LoadConfigFrom reads config from the specified path.
func LoadConfigFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// File doesn't exist, use defaults (not an error)
			return cfg, nil
		}
		log.Printf("Warning: failed to read config file: %v, using defaults", err)
		return cfg, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&cfg); err != nil {
		log.Printf("Warning: config file is corrupt: %v, using defaults", err)
		return DefaultConfig(), nil
	}

	if cfg.SchemaVersion != CurrentSchemaVersion {
		log.Printf("Warning: config schema version mismatch (got %d, expected %d), using defaults",
			cfg.SchemaVersion, CurrentSchemaVersion)
		return DefaultConfig(), nil
	}

	return normalizeConfig(cfg), nil
}

// normalizeConfig validates and normalizes config values.
func normalizeConfig(cfg Config) Config {
	defaults := DefaultConfig()

	cfg.SchemaVersion = CurrentSchemaVersion

	if cfg.Port <= 0 || cfg.Port > 65535 {
		cfg.Port = defaults.Port
	}

	if strings.TrimSpace(cfg.WordList) == "" {
		cfg.WordList = defaults.WordList
	}

	var origins []string
	for _, o := range cfg.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.CORSOrigins = origins

	return cfg
}

// SaveConfig writes config to disk atomically.
func SaveConfig(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	return SaveConfigTo(cfg, path)
}

// SaveConfigTo writes config to the specified path atomically.
func SaveConfigTo(cfg Config, path string) error {
	cfg.SchemaVersion = CurrentSchemaVersion

	return writeJSONAtomic(path, cfg)
}

// ApplyEnvOverrides applies environment variable overrides to the config.
// Environment variables take highest priority over config file values.
func ApplyEnvOverrides(cfg Config) Config {
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 && port <= 65535 {
			cfg.Port = port
		}
	}

	if v := os.Getenv(EnvDatabasePath); v != "" {
		cfg.DatabasePath = v
	}

	if v := os.Getenv(EnvWordList); v != "" {
		cfg.WordList = v
	}

	if v := os.Getenv(EnvCORSOrigins); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSOrigins = origins
	}

	if v := os.Getenv(EnvRateLimitEnabled); v != "" {
		cfg.RateLimitEnabled = parseBool(v)
	}

	return cfg
}

// parseBool parses a boolean from various string representations.
// Accepts: "true", "1", "yes", "on" (case-insensitive) as true.
// All other values are treated as false.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
