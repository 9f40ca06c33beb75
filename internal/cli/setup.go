// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jeranaias/sitegen-tui/internal/api"
	"github.com/jeranaias/sitegen-tui/internal/config"
	"github.com/jeranaias/sitegen-tui/internal/logging"
)

// =============================================================================
// COMMAND ENVIRONMENT
// =============================================================================

// env is what a command has after setup: the effective config, where it
// lives on disk, and the output streams.
type env struct {
	cfg     *config.Config
	cfgPath string
	out     io.Writer
	errOut  io.Writer
	log     zerolog.Logger
}

// setup loads .env and the config, applies the global flags and starts
// logging.
func setup(cmd *cobra.Command, flags *globalFlags) (*env, error) {
	e := &env{out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}

	if err := config.LoadDotEnv(); err != nil {
		e.warn(err.Error())
	}

	cfg, path, err := flags.loadConfig(e)
	if err != nil {
		return nil, err
	}
	e.cfg, e.cfgPath = cfg, path
	config.SetGlobal(cfg)

	dir, _ := config.ConfigDir()
	if err := logging.Init(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Dir:     dir,
		Console: cfg.Log.Console,
	}); err != nil {
		e.warn("logging disabled: " + err.Error())
	}
	e.log = logging.With("cli")
	e.log.Debug().Str("command", cmd.Name()).Str("config", path).Msg("starting")
	return e, nil
}

// close flushes the log file.
func (e *env) close() {
	logging.Close()
}

func (e *env) warn(msg string) {
	fmt.Fprintln(e.errOut, WarnStyle.Render("Warning:")+" "+msg)
}

// loadConfig reads --config or the default file. A missing --config file
// yields the defaults so "config set" can create it.
func (f *globalFlags) loadConfig(e *env) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		path = f.configPath
		err  error
	)

	if path != "" {
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			cfg = config.Default()
			cfg.ApplyEnvOverrides()
		} else if cfg, err = config.LoadFromPath(path); err != nil {
			return nil, "", err
		}
	} else {
		path, _ = config.ConfigPathTOML()
		cfg, err = config.Load()
		if cfg == nil {
			return nil, "", err
		}
		if err != nil {
			e.warn("using defaults: " + err.Error())
		}
	}

	if f.baseURL != "" {
		cfg.Server.BaseURL = f.baseURL
	}
	if f.csrfToken != "" {
		cfg.Server.CSRFToken = f.csrfToken
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config: %w", err)
	}
	return cfg, path, nil
}

// =============================================================================
// BACKEND CONNECTION
// =============================================================================

// connect creates the API client and loads the index page, which sets the
// session cookie and supplies the CSRF token. A page without a token only
// warns. The client is returned even when the backend is unreachable.
func (e *env) connect(ctx context.Context) (*api.Client, error) {
	s := e.cfg.Server
	client, err := api.NewClient(&api.Config{
		BaseURL:           s.BaseURL,
		CSRFToken:         s.CSRFToken,
		Timeout:           s.Timeout(),
		RequestsPerSecond: s.RequestsPerSecond,
		Burst:             s.Burst,
		UserAgent:         "sitegen/" + Version,
	})
	if err != nil {
		return nil, err
	}

	if err := client.Connect(ctx); err != nil {
		if errors.Is(err, api.ErrCSRFTokenNotFound) {
			e.log.Warn().Str("base_url", s.BaseURL).Msg("no csrf token on index page")
			return client, nil
		}
		e.log.Error().Err(err).Str("base_url", s.BaseURL).Msg("connect failed")
		return client, err
	}
	e.log.Info().Str("base_url", s.BaseURL).Msg("connected")
	return client, nil
}
