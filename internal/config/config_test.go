package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFrom_NotExist(t *testing.T) {
	cfg, err := LoadConfigFrom("/nonexistent/path/config.json")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	defaults := DefaultConfig()
	if cfg.Port != defaults.Port {
		t.Errorf("expected port %d, got %d", defaults.Port, cfg.Port)
	}
	if cfg.WordList != defaults.WordList {
		t.Errorf("expected word list %q, got %q", defaults.WordList, cfg.WordList)
	}
}

func TestLoadConfigFrom_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("not valid json{{{"), 0600); err != nil {
		t.Fatal(err)
	}

	// Load should return defaults (with warning logged)
	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if cfg.Port != DefaultConfig().Port {
		t.Errorf("expected default port, got %d", cfg.Port)
	}
}

func TestLoadConfigFrom_SchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"schema_version": 999, "port": 9999}`), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if cfg.Port != DefaultConfig().Port {
		t.Errorf("version mismatch should fall back to defaults, got port %d", cfg.Port)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := DefaultConfig()
	cfg.Port = 9000
	cfg.WordList = "en"
	cfg.CORSOrigins = []string{"https://game.example"}
	cfg.RateLimitEnabled = false

	if err := SaveConfigTo(cfg, path); err != nil {
		t.Fatalf("save config: %v", err)
	}

	got, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if got.Port != 9000 || got.RateLimitEnabled {
		t.Errorf("config did not survive the round trip: %+v", got)
	}
	if len(got.CORSOrigins) != 1 || got.CORSOrigins[0] != "https://game.example" {
		t.Errorf("origins did not survive the round trip: %v", got.CORSOrigins)
	}
}

func TestNormalize(t *testing.T) {
	cfg := Config{SchemaVersion: CurrentSchemaVersion, Port: -1, WordList: "  ", CORSOrigins: []string{" ", "https://a.example "}}
	got := normalizeConfig(cfg)

	if got.Port != DefaultConfig().Port {
		t.Errorf("invalid port should reset to default, got %d", got.Port)
	}
	if got.WordList != DefaultConfig().WordList {
		t.Errorf("blank word list should reset, got %q", got.WordList)
	}
	if len(got.CORSOrigins) != 1 || got.CORSOrigins[0] != "https://a.example" {
		t.Errorf("origins should be trimmed and filtered, got %v", got.CORSOrigins)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv(EnvPort, "9100")
	t.Setenv(EnvWordList, "en")
	t.Setenv(EnvCORSOrigins, "https://a.example, https://b.example")
	t.Setenv(EnvRateLimitEnabled, "off")

	cfg := ApplyEnvOverrides(DefaultConfig())

	if cfg.Port != 9100 {
		t.Errorf("expected port 9100, got %d", cfg.Port)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("expected 2 origins, got %v", cfg.CORSOrigins)
	}
	if cfg.RateLimitEnabled {
		t.Error("rate limiting should be disabled by env override")
	}
}

func TestApplyEnvOverrides_InvalidPort(t *testing.T) {
	t.Setenv(EnvPort, "not-a-port")

	cfg := ApplyEnvOverrides(DefaultConfig())
	if cfg.Port != DefaultConfig().Port {
		t.Errorf("invalid env port should be ignored, got %d", cfg.Port)
	}
}
