// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/sitegen-tui/internal/history"
	"github.com/jeranaias/sitegen-tui/internal/util"
)

type showOptions struct {
	session string
	out     string
}

func newShowCmd(flags *globalFlags) *cobra.Command {
	opts := &showOptions{}
	cmd := &cobra.Command{
		Use:   "show <version-id>",
		Short: "Print the HTML of a saved version",
		Long: `Show switches the backend to the session owning the version and
prints the version's document. Without --session the owning session is
looked up in the history.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, flags, opts, args[0])
		},
	}
	cmd.Flags().StringVarP(&opts.session, "session", "s", "", "id of the session owning the version")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the document to this file")
	return cmd
}

func runShow(cmd *cobra.Command, flags *globalFlags, opts *showOptions, arg string) error {
	versionID, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version id %q", arg)
	}

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
	sessionID := opts.session
	if sessionID == "" {
		if sessionID, err = findOwner(h, versionID); err != nil {
			return err
		}
	}

	if err := h.run(h.store.Select(sessionID, versionID)); err != nil {
		return err
	}
	if msg := h.store.ContentError(); msg != "" {
		return errors.New(history.MsgContentFailedPfx + msg)
	}
	for _, note := range h.errorNotes() {
		e.warn(note)
	}

	doc := h.ws.Document()
	if opts.out != "" {
		if err := util.WriteFileAtomic(opts.out, []byte(doc), 0o644); err != nil {
			return err
		}
		fmt.Fprintln(e.errOut, SuccessStyle.Render("✓")+" wrote "+opts.out)
		return nil
	}
	fmt.Fprint(e.out, doc)
	if !strings.HasSuffix(doc, "\n") {
		fmt.Fprintln(e.out)
	}
	return nil
}

// findOwner loads the whole history and returns the session listing the
// version.
func findOwner(h *headless, versionID int64) (string, error) {
	if err := h.run(h.store.Open()); err != nil {
		return "", err
	}
	if msg := h.store.ListError(); msg != "" {
		return "", errors.New(msg)
	}
	if err := h.expandAll(); err != nil {
		return "", err
	}
	for _, n := range h.store.Nodes() {
		for _, v := range n.Versions {
			if v.ID == versionID {
				return n.Session.ID, nil
			}
		}
	}
	return "", fmt.Errorf("version %d not found in any session", versionID)
}
