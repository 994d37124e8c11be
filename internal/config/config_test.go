package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// unsetEnv removes a variable for the duration of a test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	prev, had := os.LookupEnv(key)
	_ = os.Unsetenv(key)
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, prev)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func clearZaiEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"API_URL", "ZAI_TIMEOUT", "ZAI_STATE_DIR", "ZAI_THEME", "ZAI_LOG_LEVEL", "ZAI_DEBUG"} {
		unsetEnv(t, k)
	}
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "ZAI" {
		t.Errorf("expected Name=ZAI, got %s", cfg.Name)
	}
	if cfg.API.BaseURL != "http://localhost:3001" {
		t.Errorf("expected default base URL, got %s", cfg.API.BaseURL)
	}
	if cfg.Storage.IdentityKey != "chatUserId" {
		t.Errorf("expected IdentityKey=chatUserId, got %s", cfg.Storage.IdentityKey)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	clearZaiEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://chat.example.com"
	cfg.UI.Theme = "dark"
	cfg.Storage.StateDir = tmpDir

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.API.BaseURL != "https://chat.example.com" {
		t.Errorf("expected BaseURL from file, got %s", loaded.API.BaseURL)
	}
	if loaded.UI.Theme != "dark" {
		t.Errorf("expected Theme=dark, got %s", loaded.UI.Theme)
	}
	if loaded.DatabasePath() != filepath.Join(tmpDir, "state.db") {
		t.Errorf("unexpected DatabasePath %s", loaded.DatabasePath())
	}
}

func TestConfig_LoadMissingFileUsesDefaults(t *testing.T) {
	clearZaiEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.BaseURL != DefaultAPIURL {
		t.Errorf("expected default URL, got %s", cfg.API.BaseURL)
	}
}

func TestConfig_LoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("api: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty url", func(c *Config) { c.API.BaseURL = "" }},
		{"no scheme", func(c *Config) { c.API.BaseURL = "localhost:3001" }},
		{"ftp scheme", func(c *Config) { c.API.BaseURL = "ftp://host" }},
		{"bad timeout", func(c *Config) { c.API.Timeout = "soon" }},
		{"empty state dir", func(c *Config) { c.Storage.StateDir = "" }},
		{"empty identity key", func(c *Config) { c.Storage.IdentityKey = "" }},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestConfig_Helpers(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.GetAPITimeout() != 60*time.Second {
		t.Errorf("expected 60s API timeout, got %v", cfg.GetAPITimeout())
	}
	if cfg.GetRefocusDelay() != 100*time.Millisecond {
		t.Errorf("expected 100ms refocus delay, got %v", cfg.GetRefocusDelay())
	}

	cfg.API.Timeout = "garbage"
	cfg.UI.RefocusDelay = "garbage"
	if cfg.GetAPITimeout() != 60*time.Second {
		t.Error("GetAPITimeout should fall back on parse error")
	}
	if cfg.GetRefocusDelay() != 100*time.Millisecond {
		t.Error("GetRefocusDelay should fall back on parse error")
	}

	cfg.Storage.StateDir = "/var/lib/zai"
	if got := cfg.LogsDir(); got != filepath.Join("/var/lib/zai", "logs") {
		t.Errorf("unexpected LogsDir %s", got)
	}
	cfg.Storage.Database = "/tmp/elsewhere.db"
	if got := cfg.DatabasePath(); got != "/tmp/elsewhere.db" {
		t.Errorf("absolute database path should be kept, got %s", got)
	}
}

func TestLoggingConfig_IsCategoryEnabled(t *testing.T) {
	lc := LoggingConfig{}
	if lc.IsCategoryEnabled("api") {
		t.Error("categories are disabled without debug mode")
	}

	lc.DebugMode = true
	if !lc.IsCategoryEnabled("api") {
		t.Error("all categories enabled by default in debug mode")
	}

	lc.Categories = map[string]bool{"api": false}
	if lc.IsCategoryEnabled("api") {
		t.Error("api explicitly disabled")
	}
	if !lc.IsCategoryEnabled("chat") {
		t.Error("unlisted category defaults to enabled")
	}
}
