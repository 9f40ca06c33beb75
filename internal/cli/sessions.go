// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jeranaias/sitegen-tui/internal/history"
	"github.com/jeranaias/sitegen-tui/internal/ui/styles"
)

type sessionsOptions struct {
	versions bool
	filter   string
}

func newSessionsCmd(flags *globalFlags) *cobra.Command {
	opts := &sessionsOptions{}
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"history"},
		Short:   "List sessions and their versions",
		Long: `List the sessions the backend keeps, newest first. --versions expands
every session. --filter keeps sessions whose title or version count
matches, and versions whose prompt matches.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessions(cmd, flags, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.versions, "versions", "v", false, "list the versions of every session")
	cmd.Flags().StringVarP(&opts.filter, "filter", "f", "", "case-insensitive search term")
	return cmd
}

func runSessions(cmd *cobra.Command, flags *globalFlags, opts *sessionsOptions) error {
	e, err := setup(cmd, flags)
	if err != nil {
		return err
	}
	defer e.close()

	client, err := e.connect(cmd.Context())
	if err != nil {
		return err
	}

	h := newHeadless(cmd.Context(), client)
	if err := h.run(h.store.Open()); err != nil {
		return err
	}
	if msg := h.store.ListError(); msg != "" {
		return errors.New(msg)
	}
	if h.store.Empty() {
		fmt.Fprintln(e.out, history.MsgNoSessions)
		fmt.Fprintln(e.out, MutedStyle.Render(history.MsgNoSessionsHint))
		return nil
	}

	// Prompts only match once the versions are loaded.
	if opts.versions || opts.filter != "" {
		if err := h.expandAll(); err != nil {
			return err
		}
	}
	h.store.SetFilter(opts.filter)

	printSessions(e.out, h.store.Visible(), opts.versions || opts.filter != "")
	return nil
}

func printSessions(w io.Writer, views []history.View, withVersions bool) {
	for _, v := range views {
		s := v.Node.Session
		fmt.Fprintf(w, "%s  %s  %s\n",
			TitleStyle.Render(s.Title()),
			MutedStyle.Render(s.Meta()),
			MutedStyle.Render(s.ShortID()))
		if !withVersions {
			continue
		}

		switch {
		case v.Node.Err != "":
			fmt.Fprintln(w, "  "+ErrorStyle.Render(v.Node.Err))
		case len(v.Node.Versions) == 0:
			fmt.Fprintln(w, "  "+MutedStyle.Render(history.MsgNoVersions))
		}
		for i, ver := range v.Versions {
			branch := styles.RenderTreeLine(i == len(v.Versions)-1)
			fmt.Fprintf(w, "  %s#%d  %s  %s\n", branch, ver.ID, MutedStyle.Render(ver.Label()), ver.ShortPrompt())
		}
	}
}
