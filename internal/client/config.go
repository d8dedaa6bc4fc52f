// Package client provides the NoteHub API client, the live note store
// adapter, and client-side configuration.
package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const appDirName = ".notehub"

const defaultServerURL = "http://localhost:8080"

// Config holds client preferences persisted between runs.
type Config struct {
	Server ServerConfig `toml:"server"`
	UI     UIConfig     `toml:"ui"`
}

// ServerConfig points the client at a NoteHub server.
type ServerConfig struct {
	URL string `toml:"url"`
}

// UIConfig holds presentation preferences.
type UIConfig struct {
	// Theme is "light" or "dark".
	Theme string `toml:"theme"`
}

// DefaultConfig returns the configuration used when no file exists yet.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{URL: defaultServerURL},
		UI:     UIConfig{Theme: "dark"},
	}
}

// DataDir returns the base data directory for the client.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, appDirName), nil
}

// ConfigPath returns the path to the client config file.
func ConfigPath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "config.toml"), nil
}

// LoadConfig reads the config file, falling back to defaults when it does not
// exist. Missing fields are filled with defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Server.URL == "" {
		cfg.Server.URL = defaultServerURL
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = "dark"
	}
	return cfg, nil
}

// SaveConfig writes the config file, creating the data directory if needed.
// The theme toggle persists through this.
func SaveConfig(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
