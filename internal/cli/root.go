// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information, set via ldflags at build time.
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	baseURL    string
	csrfToken  string
	logLevel   string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "sitegen",
		Short: "Terminal client for the AI site generator",
		Long: `sitegen talks to the site generator backend. Describe a page, watch
the HTML stream into the editor and the preview, refine it prompt by
prompt, and restore any earlier version from the history.`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.sitegen/config.toml)")
	pf.StringVar(&flags.baseURL, "base-url", "", "backend origin, e.g. http://127.0.0.1:5000")
	pf.StringVar(&flags.csrfToken, "csrf-token", "", "CSRF token; scraped from the index page when empty")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newTUICmd(flags),
		newGenerateCmd(flags),
		newReplCmd(flags),
		newSessionsCmd(flags),
		newShowCmd(flags),
		newConfigCmd(flags),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command. Called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:")+" "+err.Error())
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "sitegen %s (%s)\n", Version, GitCommit)
			return nil
		},
	}
}
