package config

import (
	"os"
	"path/filepath"
)

const appName = "c4puml"

// CacheDir returns $XDG_CACHE_HOME/c4puml, falling back to ~/.cache/c4puml.
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// ConfigDir returns $C4PUML_CONFIG_HOME when set, else
// $XDG_CONFIG_HOME/c4puml, else ~/.config/c4puml.
func ConfigDir() (string, error) {
	if dir := os.Getenv("C4PUML_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Find returns the project file to load: explicit when non-empty, else
// ./c4puml.toml when it exists, else c4puml.toml in ConfigDir. The returned
// path may not exist, in which case Load yields the defaults.
func Find(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	if dir, err := ConfigDir(); err == nil {
		return filepath.Join(dir, FileName)
	}
	return FileName
}
