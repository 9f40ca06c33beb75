// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/sitegen-tui/internal/config"
	"github.com/jeranaias/sitegen-tui/internal/history"
	"github.com/jeranaias/sitegen-tui/internal/ui/app"
	"github.com/jeranaias/sitegen-tui/internal/util"
)

// replHistoryFile is the line history kept in the config directory.
const replHistoryFile = "repl_history"

func newReplCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Refine one document prompt by prompt",
		Long: `Each prompt is sent together with the current document, so every
generation builds on the previous one within one backend session.

Commands:
  /new            start a new chat and clear the document
  /show           print the current document
  /versions       list the versions of the active session
  /save [path]    write the document (default index.html)
  /help           show this list
  /quit           exit (Ctrl+D also works)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd, flags)
		},
	}
}

func runRepl(cmd *cobra.Command, flags *globalFlags) error {
	e, err := setup(cmd, flags)
	if err != nil {
		return err
	}
	defer e.close()

	client, err := e.connect(cmd.Context())
	if err != nil {
		return err
	}

	r := &repl{h: newHeadless(cmd.Context(), client), out: e.out, errOut: e.errOut}
	r.h.chunks = e.out

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := ""
	if dir, err := config.ConfigDir(); err == nil {
		historyPath = filepath.Join(dir, replHistoryFile)
		if f, err := os.Open(historyPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Fprintln(e.out, TitleStyle.Render("sitegen repl")+" "+MutedStyle.Render("connected to "+client.BaseURL()+", /help for commands"))
	for {
		input, err := line.Prompt("sitegen> ")
		if err != nil {
			// Ctrl+C aborts, Ctrl+D is io.EOF; both end the session.
			if !errors.Is(err, liner.ErrPromptAborted) && !errors.Is(err, io.EOF) {
				e.log.Warn().Err(err).Msg("repl input failed")
			}
			fmt.Fprintln(e.out)
			break
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}

		quit, err := r.handle(input)
		if err != nil {
			fmt.Fprintln(e.errOut, ErrorStyle.Render("Error:")+" "+err.Error())
		}
		if quit {
			break
		}
	}

	if historyPath != "" && config.EnsureConfigDir() == nil {
		if f, err := os.OpenFile(historyPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}
	return nil
}

// =============================================================================
// REPL SESSION
// =============================================================================

// repl handles one input line at a time.
type repl struct {
	h      *headless
	out    io.Writer
	errOut io.Writer
}

// handle runs a slash command or generates from the line. It reports
// whether the session should end.
func (r *repl) handle(input string) (bool, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return false, nil
	}
	if !strings.HasPrefix(input, "/") {
		return false, r.generate(input)
	}

	fields := strings.Fields(input)
	switch fields[0] {
	case "/quit", "/q", "/exit":
		return true, nil

	case "/new", "/n":
		if err := r.h.run(r.h.pipeline.Reset()); err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, SuccessStyle.Render("✓")+" new chat started")
		return false, nil

	case "/show":
		doc := r.h.ws.Document()
		if doc == "" {
			fmt.Fprintln(r.out, MutedStyle.Render("(empty document)"))
			return false, nil
		}
		fmt.Fprintln(r.out, doc)
		return false, nil

	case "/save":
		path := app.DefaultDownloadPath
		if len(fields) > 1 {
			path = fields[1]
		}
		doc := r.h.ws.Document()
		if strings.TrimSpace(doc) == "" {
			return false, errors.New(app.MsgNothingToDownload)
		}
		if err := util.WriteFileAtomic(path, []byte(doc), 0o644); err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, SuccessStyle.Render("✓")+" wrote "+path)
		return false, nil

	case "/versions", "/v":
		return false, r.versions()

	case "/help", "/h", "/?":
		fmt.Fprintln(r.out, "/new  /show  /versions  /save [path]  /help  /quit")
		return false, nil
	}
	return false, fmt.Errorf("unknown command %s (try /help)", fields[0])
}

// versions lists what the active session produced so far, newest first.
func (r *repl) versions() error {
	versions, err := r.h.client.CurrentVersions(r.h.ctx)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		fmt.Fprintln(r.out, MutedStyle.Render(history.MsgNoVersions))
		return nil
	}
	for _, v := range versions {
		fmt.Fprintf(r.out, "#%d  %s  %s\n", v.ID, MutedStyle.Render(v.Label()), v.ShortPrompt())
	}
	return nil
}

func (r *repl) generate(prompt string) error {
	err := r.h.generate(prompt)
	if doc := r.h.ws.Document(); doc != "" && !strings.HasSuffix(doc, "\n") {
		fmt.Fprintln(r.out)
	}
	return err
}
