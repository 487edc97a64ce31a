// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is used when no config file or --server flag is set.
const DefaultBaseURL = "http://localhost:8089"

// Config is the portal CLI configuration, read from
// ~/.meridian/portal.yaml when present.
type Config struct {
	// BaseURL is the careapi backend to talk to.
	BaseURL string `yaml:"base_url"`

	// TokenPath overrides where the session token is stored.
	TokenPath string `yaml:"token_path"`

	// LogDir receives the CLI's debug log. Empty disables file logging.
	LogDir string `yaml:"log_dir"`
}

// configPath returns ~/.meridian/portal.yaml, or the CLI's override
// from MERIDIAN_CONFIG.
func configPath() (string, error) {
	if p := os.Getenv("MERIDIAN_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".meridian", "portal.yaml"), nil
}

// LoadConfig reads the config file, falling back to defaults when it
// does not exist. A malformed file is an error, not a silent default.
func LoadConfig() (*Config, error) {
	cfg := &Config{BaseURL: DefaultBaseURL}

	path, err := configPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return cfg, nil
}
