// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for sitegen.
//
// Supports both TOML and JSON configuration formats, with defaults,
// a .env file, environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure
//   - ServerConfig: Backend URL, CSRF token, timeouts and request pacing
//   - UIConfig: Theme, narrow layout threshold, preview mode
//   - LogConfig: Log level and destination
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command line flags (applied by the cli package)
//   - Environment variables (SITEGEN_*), optionally seeded from ./.env
//   - ~/.sitegen/config.toml
//   - ~/.sitegen/config.json
//   - Built-in defaults
//
// SITEGEN_HOME relocates the ~/.sitegen directory.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	base := cfg.Server.BaseURL
package config
