// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/jeranaias/sitegen-tui/internal/config"
)

func newConfigCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, flags)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfigShow(cmd, flags)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := flags.filePath()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "keys",
			Short: "List the settable keys",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(config.Keys(), "\n"))
				return nil
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one value of the effective configuration",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				e, err := setup(cmd, flags)
				if err != nil {
					return err
				}
				defer e.close()
				v, err := e.cfg.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(e.out, v)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set one value in the config file",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfigSet(cmd, flags, args[0], args[1])
			},
		},
	)
	return cmd
}

// filePath is --config or the default TOML path.
func (f *globalFlags) filePath() (string, error) {
	if f.configPath != "" {
		return f.configPath, nil
	}
	return config.ConfigPathTOML()
}

func runConfigShow(cmd *cobra.Command, flags *globalFlags) error {
	e, err := setup(cmd, flags)
	if err != nil {
		return err
	}
	defer e.close()

	shown := *e.cfg
	if shown.Server.CSRFToken != "" {
		shown.Server.CSRFToken = "********"
	}
	fmt.Fprintln(e.out, MutedStyle.Render("# "+e.cfgPath))
	return toml.NewEncoder(e.out).Encode(shown)
}

func runConfigSet(cmd *cobra.Command, flags *globalFlags, key, value string) error {
	path, err := flags.filePath()
	if err != nil {
		return err
	}
	if err := updateConfigFile(path, func(cfg *config.Config) error {
		return cfg.Set(key, value)
	}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}

// updateConfigFile applies edit to the file contents alone, so environment
// and flag overrides are never written back. A missing file starts from
// the defaults.
func updateConfigFile(path string, edit func(*config.Config) error) error {
	isJSON := strings.HasSuffix(path, ".json")

	cfg := config.Default()
	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		var err error
		if isJSON {
			err = config.LoadJSON(cfg, path)
		} else {
			err = config.LoadTOML(cfg, path)
		}
		if err != nil {
			return err
		}
	case errors.Is(statErr, os.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
	default:
		return statErr
	}

	if err := edit(cfg); err != nil {
		return err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if isJSON {
		return config.SaveJSON(cfg, path)
	}
	return config.SaveTOML(cfg, path)
}
