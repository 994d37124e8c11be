package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is used when neither the config file nor API_URL names a backend.
const DefaultAPIURL = "http://localhost:3001"

// Config holds all zai configuration.
type Config struct {
	// Core settings
	Name string `yaml:"name"`

	// Chat backend
	API APIConfig `yaml:"api"`

	// Local persistent state (identity slot, logs)
	Storage StorageConfig `yaml:"storage"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the chat backend client.
type APIConfig struct {
	BaseURL string `yaml:"base_url" env:"API_URL"`
	Timeout string `yaml:"timeout" env:"ZAI_TIMEOUT"`
}

// StorageConfig configures where local state lives.
type StorageConfig struct {
	StateDir    string `yaml:"state_dir" env:"ZAI_STATE_DIR"`
	Database    string `yaml:"database"`     // file name inside StateDir
	IdentityKey string `yaml:"identity_key"` // slot holding the user identifier
}

// UIConfig configures the interactive client.
type UIConfig struct {
	Theme        string `yaml:"theme" env:"ZAI_THEME"` // auto, light, dark
	RefocusDelay string `yaml:"refocus_delay"`
	WordWrap     int    `yaml:"word_wrap"`
}

// ValidThemes lists the accepted ui.theme values.
var ValidThemes = []string{"auto", "light", "dark"}

// DefaultStateDir returns the per-user state directory (~/.config/zai on Linux).
func DefaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "zai")
	}
	return ".zai"
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	return filepath.Join(DefaultStateDir(), "config.yaml")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name: "ZAI",

		API: APIConfig{
			BaseURL: DefaultAPIURL,
			Timeout: "60s",
		},

		Storage: StorageConfig{
			StateDir:    DefaultStateDir(),
			Database:    "state.db",
			IdentityKey: "chatUserId",
		},

		UI: UIConfig{
			Theme:        "auto",
			RefocusDelay: "100ms",
			WordWrap:     80,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file, then applies environment overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides (unset variables keep file values).
func (c *Config) applyEnvOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// GetAPITimeout returns the per-request backend timeout.
func (c *Config) GetAPITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// GetRefocusDelay returns how long the input waits before regaining focus after a reply.
func (c *Config) GetRefocusDelay() time.Duration {
	d, err := time.ParseDuration(c.UI.RefocusDelay)
	if err != nil || d < 0 {
		return 100 * time.Millisecond
	}
	return d
}

// DatabasePath returns the local state database file.
func (c *Config) DatabasePath() string {
	name := c.Storage.Database
	if name == "" {
		name = "state.db"
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Storage.StateDir, name)
}

// LogsDir returns the directory category log files are written to.
func (c *Config) LogsDir() string {
	return filepath.Join(c.Storage.StateDir, "logs")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api.base_url %q: %w", c.API.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q: want http(s)://host[:port]", c.API.BaseURL)
	}

	if c.API.Timeout != "" {
		if _, err := time.ParseDuration(c.API.Timeout); err != nil {
			return fmt.Errorf("invalid api.timeout %q: %w", c.API.Timeout, err)
		}
	}

	if c.Storage.StateDir == "" {
		return fmt.Errorf("storage.state_dir cannot be empty")
	}
	if c.Storage.IdentityKey == "" {
		return fmt.Errorf("storage.identity_key cannot be empty")
	}

	validTheme := false
	for _, t := range ValidThemes {
		if c.UI.Theme == t {
			validTheme = true
			break
		}
	}
	if !validTheme {
		return fmt.Errorf("invalid ui.theme: %s (valid: %v)", c.UI.Theme, ValidThemes)
	}

	return nil
}
