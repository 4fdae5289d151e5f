// internal/config/discover.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Discover when no config file exists.
var ErrNotFound = errors.New("config not found")

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./config.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "flixcase", "config.toml")
}

// Discover finds the config file using the standard search order.
// Search order:
//  1. FLIXCASE_CONFIG environment variable
//  2. ./config.toml (current directory)
//  3. $XDG_CONFIG_HOME/flixcase/config.toml
//  4. /etc/flixcase/config.toml
func Discover() (string, error) {
	if envPath := os.Getenv("FLIXCASE_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("FLIXCASE_CONFIG=%s: %w", envPath, err)
		}
		return envPath, nil
	}

	paths := []string{
		"./config.toml",
		DefaultPath(),
		"/etc/flixcase/config.toml",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w, checked: %s", ErrNotFound, strings.Join(paths, ", "))
}

// Portable returns the built-in defaults with the library placed next to
// the running executable.
func Portable() *Config {
	cfg := Default()
	if exe, err := os.Executable(); err == nil {
		cfg.Library.Root = filepath.Join(filepath.Dir(exe), "library")
	}
	return cfg
}
