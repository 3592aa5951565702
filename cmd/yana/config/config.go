// Package config loads studio preferences from .yana/config.json and the
// environment. Environment values win, and the backend credentials are
// only ever read here; the rest of the program receives them as explicit
// values, never via globals.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds user preferences and backend connection settings.
type Config struct {
	APIHost  string `json:"api_host"`
	Username string `json:"username"`
	Password string `json:"password"`
	Theme    string `json:"theme"` // "light" or "dark"
	Debug    bool   `json:"debug"` // enables file logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		APIHost: "http://localhost:8000",
		Theme:   "light",
	}
}

// Dir returns the directory where config, logs, and history live.
func Dir() (string, error) {
	// Prefer a project-local .yana directory if present or creatable.
	if cwd, err := os.Getwd(); err == nil {
		localDir := filepath.Join(cwd, ".yana")
		if stat, err := os.Stat(localDir); (err == nil && stat.IsDir()) || os.IsNotExist(err) {
			return localDir, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".yana"), nil
}

// File returns the full path to the config file.
func File() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the configuration from disk and applies environment
// overrides. A missing file is not an error.
func Load() (Config, error) {
	cfg := DefaultConfig()

	path, err := File()
	if err != nil {
		return applyEnv(cfg), err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return applyEnv(cfg), nil
	}
	if err != nil {
		return applyEnv(cfg), err
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return applyEnv(DefaultConfig()), err
	}
	return applyEnv(cfg), nil
}

// applyEnv layers YANA_* environment variables over the file config.
func applyEnv(cfg Config) Config {
	if v := os.Getenv("YANA_API_HOST"); v != "" {
		cfg.APIHost = v
	}
	if v := os.Getenv("YANA_API_USERNAME"); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv("YANA_API_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv("YANA_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("YANA_DEBUG"); v == "1" || v == "true" {
		cfg.Debug = true
	}
	return cfg
}

// Save writes the configuration to disk.
func Save(cfg Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path, err := File()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
