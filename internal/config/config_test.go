package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Store.DatabasePath == "" {
		t.Error("expected default database path to be set")
	}
	if cfg.Decision.Mode != "rule" {
		t.Errorf("expected default decision mode 'rule', got %q", cfg.Decision.Mode)
	}
	if cfg.Providers.DefaultLimit <= 0 || cfg.Providers.MaxLimit < cfg.Providers.DefaultLimit {
		t.Errorf("provider limits out of order: default=%d max=%d", cfg.Providers.DefaultLimit, cfg.Providers.MaxLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load should not error on missing file: %v", err)
	}
	if cfg.Store.DatabasePath != DefaultConfig().Store.DatabasePath {
		t.Error("expected defaults when config file is missing")
	}
}

func TestLoadAndSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Store.DatabasePath = "custom/path.db"
	cfg.Providers.DefaultLimit = 75

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Store.DatabasePath != "custom/path.db" {
		t.Errorf("expected custom database path, got %q", loaded.Store.DatabasePath)
	}
	if loaded.Providers.DefaultLimit != 75 {
		t.Errorf("expected default_limit 75, got %d", loaded.Providers.DefaultLimit)
	}
}

func TestEffectiveQueryLimit(t *testing.T) {
	cfg := DefaultConfig()

	cases := []struct {
		requested int
		want      int
	}{
		{requested: 0, want: cfg.Providers.DefaultLimit},
		{requested: -5, want: cfg.Providers.DefaultLimit},
		{requested: 30, want: 30},
		{requested: 10000, want: cfg.Providers.MaxLimit},
	}
	for _, c := range cases {
		if got := cfg.EffectiveQueryLimit(c.requested); got != c.want {
			t.Errorf("EffectiveQueryLimit(%d) = %d, want %d", c.requested, got, c.want)
		}
	}
}

func TestValidateRejectsUnknownDecisionMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Decision.Mode = "telepathy"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown decision mode")
	}
}

func TestValidateRequiresAPIKeyForLLMMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Decision.Mode = "llm"
	cfg.Decision.LLM.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error when llm mode has no API key")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LSSCORE_DB", "/tmp/override.db")
	t.Setenv("LSSCORE_DECISION_MODE", "llm")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	if cfg.Store.DatabasePath != "/tmp/override.db" {
		t.Errorf("expected env override for database path, got %q", cfg.Store.DatabasePath)
	}
	if cfg.Decision.Mode != "llm" {
		t.Errorf("expected env override for decision mode, got %q", cfg.Decision.Mode)
	}
	if cfg.Decision.LLM.APIKey != "test-key" {
		t.Error("expected GEMINI_API_KEY to populate decision LLM api key")
	}
}

func TestValidateResourceLimits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits.MaxConcurrentAnalyses = 0
	if err := cfg.ValidateResourceLimits(); err == nil {
		t.Error("expected error for zero max_concurrent_analyses")
	}

	cfg = DefaultConfig()
	cfg.Limits.MaxQueryLimit = 10
	cfg.Limits.DefaultQueryLimit = 50
	if err := cfg.ValidateResourceLimits(); err == nil {
		t.Error("expected error when max_query_limit < default_query_limit")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	path := filepath.Join(dir, "config.yaml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected config file to exist: %v", err)
	}
}
