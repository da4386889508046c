// Package config loads and validates the ledgerctl configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the main ledgerctl configuration
type Config struct {
	// Data directory (state database, logs)
	DataDir string `json:"data_dir" mapstructure:"data_dir"`

	// Default network for commands that do not name one
	DefaultNetwork string `json:"default_network" mapstructure:"default_network"`

	// Networks by name
	Networks map[string]NetworkConfig `json:"networks" mapstructure:"networks"`

	// Plugins
	Plugins PluginsConfig `json:"plugins" mapstructure:"plugins"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// NetworkConfig describes one reachable network
type NetworkConfig struct {
	MirrorURL string `json:"mirror_url" mapstructure:"mirror_url"`
}

// PluginsConfig holds plugin loading configuration
type PluginsConfig struct {
	// Directories scanned for plugin bundles
	Dirs []string `json:"dirs" mapstructure:"dirs"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultNetwork: "testnet",
		Networks: map[string]NetworkConfig{
			"testnet": {MirrorURL: "https://testnet.mirrornode.hedera.com"},
			"mainnet": {MirrorURL: "https://mainnet.mirrornode.hedera.com"},
		},
		Logging: LoggingConfig{
			Level:     "info",
			Redaction: true,
		},
	}
}

// Validate checks internal consistency.
func (c *Config) Validate() error {
	if c.DefaultNetwork == "" {
		return fmt.Errorf("default_network cannot be empty")
	}
	if _, ok := c.Networks[c.DefaultNetwork]; !ok {
		return fmt.Errorf("default_network %q is not a configured network", c.DefaultNetwork)
	}
	for name, n := range c.Networks {
		if n.MirrorURL == "" {
			return fmt.Errorf("network %q has no mirror_url", name)
		}
	}
	return nil
}

// StatePath returns the path of the state database.
func (c *Config) StatePath() string {
	return filepath.Join(c.DataDir, "state.db")
}

func defaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".ledgerctl"), nil
}
