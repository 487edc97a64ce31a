// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads the careapi service configuration from the
// environment, with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults used when the corresponding variable is unset.
const (
	DefaultListenAddr = ":8089"
	DefaultTokenTTL   = 24 * time.Hour
	DefaultRateLimit  = 20.0
	DefaultRateBurst  = 40
)

// Config is the full careapi runtime configuration.
type Config struct {
	// ListenAddr is the host:port the HTTP server binds.
	ListenAddr string

	// JWTSecret signs and verifies session tokens. Required.
	JWTSecret string

	// TokenTTL is the session token lifetime.
	TokenTTL time.Duration

	// DataDir is the Badger database directory. Empty selects the
	// in-memory store (tests, demos).
	DataDir string

	// RateLimit and RateBurst bound per-client request rates.
	RateLimit float64
	RateBurst int

	// LogDir receives the service log files. Empty logs to stderr only.
	LogDir string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is merged in first when present; real environment
// variables win over file entries.
func Load() (*Config, error) {
	// Missing .env is the normal production case, not an error.
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr: envOr("CAREAPI_LISTEN_ADDR", DefaultListenAddr),
		JWTSecret:  os.Getenv("CAREAPI_JWT_SECRET"),
		TokenTTL:   DefaultTokenTTL,
		DataDir:    os.Getenv("CAREAPI_DATA_DIR"),
		RateLimit:  DefaultRateLimit,
		RateBurst:  DefaultRateBurst,
		LogDir:     os.Getenv("CAREAPI_LOG_DIR"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("CAREAPI_JWT_SECRET is required")
	}

	if v := os.Getenv("CAREAPI_TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("CAREAPI_TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = ttl
	}
	if v := os.Getenv("CAREAPI_RATE_LIMIT"); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("CAREAPI_RATE_LIMIT: %w", err)
		}
		cfg.RateLimit = limit
	}
	if v := os.Getenv("CAREAPI_RATE_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("CAREAPI_RATE_BURST: %w", err)
		}
		cfg.RateBurst = burst
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
