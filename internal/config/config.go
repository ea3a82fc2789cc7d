// Package config handles configuration loading and validation for prism
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iiroan/prism/internal/store"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"

	DefaultSubject = "prism.preferences"
)

// Config represents the main configuration for prism
type Config struct {
	UI         UIConfig         `yaml:"ui"`
	Store      StoreConfig      `yaml:"store"`
	Broker     BrokerConfig     `yaml:"broker"`
	Controller ControllerConfig `yaml:"controller"`

	// Preferences seeds the store the first time it is opened.
	Preferences store.Preferences `yaml:"preferences"`
}

// UIConfig holds terminal rendering settings
type UIConfig struct {
	Dense   bool `yaml:"dense"`
	NoColor bool `yaml:"no_color"`
}

// StoreConfig selects where preferences are persisted
type StoreConfig struct {
	Backend string `yaml:"backend"` // file or sqlite
	Path    string `yaml:"path"`
}

// BrokerConfig mirrors preference changes over NATS
type BrokerConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// ControllerConfig tunes the theme controller
type ControllerConfig struct {
	// ColorPolicy is reject, fallback or accept.
	ColorPolicy string `yaml:"color_policy"`
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: BackendFile,
			Path:    filepath.Join(ConfigDir(), "preferences.yaml"),
		},
		Broker: BrokerConfig{
			URL:     "nats://127.0.0.1:4222",
			Subject: DefaultSubject,
		},
		Controller: ControllerConfig{
			ColorPolicy: "reject",
		},
		Preferences: store.DefaultPreferences(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Store.Path = ExpandHome(cfg.Store.Path)

	return cfg, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("store.backend must be %q or %q, got %q", BackendFile, BackendSQLite, c.Store.Backend)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Broker.Enabled {
		if c.Broker.URL == "" {
			return fmt.Errorf("broker.url is required when the broker is enabled")
		}
		if c.Broker.Subject == "" {
			return fmt.Errorf("broker.subject is required when the broker is enabled")
		}
	}
	switch c.Controller.ColorPolicy {
	case "", "reject", "fallback", "accept":
	default:
		return fmt.Errorf("controller.color_policy must be reject, fallback or accept, got %q", c.Controller.ColorPolicy)
	}
	if err := store.Validate(c.Preferences); err != nil {
		return fmt.Errorf("preferences: %w", err)
	}
	return nil
}

// ConfigDir returns the prism config directory, respecting XDG_CONFIG_HOME.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "prism")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "prism")
}

// GetConfigPath returns the path to prism.yaml
func GetConfigPath() string {
	return filepath.Join(ConfigDir(), "prism.yaml")
}

// ExpandHome replaces a leading ~ or ~/ with the user's home directory.
// ~name paths are returned unchanged.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, _ := os.UserHomeDir()
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
