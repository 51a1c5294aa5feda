package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./mov2mp4.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "mov2mp4", "config.toml")
}

// Discover finds the config file using the standard search order.
// Search order:
//  1. MOV2MP4_CONFIG environment variable
//  2. ./mov2mp4.toml (current directory)
//  3. $XDG_CONFIG_HOME/mov2mp4/config.toml
//  4. /etc/mov2mp4/config.toml
func Discover() (string, error) {
	if envPath := os.Getenv("MOV2MP4_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("MOV2MP4_CONFIG=%s: %w", envPath, err)
		}
		return envPath, nil
	}

	paths := []string{
		"./mov2mp4.toml",
		DefaultPath(),
		"/etc/mov2mp4/config.toml",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("config not found, checked: %s", strings.Join(paths, ", "))
}
