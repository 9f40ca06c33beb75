// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/sitegen-tui/internal/config"
	"github.com/jeranaias/sitegen-tui/internal/generate"
	"github.com/jeranaias/sitegen-tui/internal/ui/app"
)

// ErrNotATerminal is returned when the TUI is started without a terminal.
var ErrNotATerminal = errors.New("the TUI needs a terminal; use 'sitegen generate' for scripts")

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the terminal UI (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, flags)
		},
	}
}

// runTUI connects, starts the program and feeds it config file changes.
func runTUI(cmd *cobra.Command, flags *globalFlags) error {
	if !isTerminal(cmd.InOrStdin()) || !isTerminal(cmd.OutOrStdout()) {
		return ErrNotATerminal
	}

	e, err := setup(cmd, flags)
	if err != nil {
		return err
	}
	defer e.close()

	ctx := cmd.Context()
	client, connErr := e.connect(ctx)
	if client == nil {
		return connErr
	}

	opts := app.Options{
		Config:    e.cfg,
		Context:   ctx,
		Generator: generate.ClientBackend{Client: client},
		History:   client,
		SaveConfig: func(c *config.Config) error {
			return updateConfigFile(e.cfgPath, func(file *config.Config) error {
				file.UI.Theme = c.UI.Theme
				return nil
			})
		},
	}
	if connErr != nil {
		opts.StartupWarning = fmt.Sprintf("Could not reach %s: %v", e.cfg.Server.BaseURL, connErr)
	}

	p := tea.NewProgram(app.New(opts), tea.WithAltScreen(), tea.WithContext(ctx))

	if _, statErr := os.Stat(e.cfgPath); statErr == nil {
		watcher, err := config.Watch(ctx, e.cfgPath, func(c *config.Config, err error) {
			p.Send(app.ConfigReloadedMsg{Config: c, Err: err})
		})
		if err != nil {
			e.log.Warn().Err(err).Str("path", e.cfgPath).Msg("config watch disabled")
		} else {
			defer watcher.Close()
		}
	}

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
