package main

import (
	"context"
	"fmt"
	"path/filepath"

	"zai/internal/chatapi"
	"zai/internal/config"
	"zai/internal/identity"
	"zai/internal/logging"
	"zai/internal/store"

	"github.com/spf13/cobra"
)

// app wires configuration, local state and the backend client for one run.
type app struct {
	cfg      *config.Config
	store    *store.LocalStore
	resolver *identity.Resolver
	client   *chatapi.Client
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		dir := stateDir
		if dir == "" {
			dir = config.DefaultStateDir()
		}
		path = filepath.Join(dir, "config.yaml")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if stateDir != "" {
		cfg.Storage.StateDir = stateDir
	}
	if timeout > 0 {
		cfg.API.Timeout = timeout.String()
	}
	if verbose {
		cfg.Logging.DebugMode = true
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newApp opens local state and builds the collaborators described by cfg.
func newApp(cfg *config.Config) (*app, error) {
	if err := logging.Initialize(logging.Options{
		Dir:        cfg.LogsDir(),
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		JSONFormat: cfg.Logging.IsJSON(),
		Categories: cfg.Logging.Categories,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	logging.Boot("API base URL: %s", cfg.API.BaseURL)
	logging.Boot("State directory: %s", cfg.Storage.StateDir)
	logging.BootDebug("API timeout: %v, refocus delay: %v", cfg.GetAPITimeout(), cfg.GetRefocusDelay())

	st, err := store.NewLocalStore(cfg.DatabasePath())
	if err != nil {
		logging.BootError("Opening local state failed: %v", err)
		logging.CloseAll()
		return nil, err
	}
	logging.BootDebug("State database: %s", st.Path())

	return &app{
		cfg:      cfg,
		store:    st,
		resolver: identity.NewResolver(st, identity.WithKey(cfg.Storage.IdentityKey)),
		client: chatapi.NewClientWithConfig(chatapi.Config{
			BaseURL: cfg.API.BaseURL,
			Timeout: cfg.GetAPITimeout(),
		}),
	}, nil
}

// setupApp loads configuration and builds the app.
func setupApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newApp(cfg)
}

// Close releases local state and flushes log files.
func (a *app) Close() {
	if a.store != nil {
		_ = a.store.Close()
	}
	logging.CloseAll()
}

// commandContext returns the command's context, or Background outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
