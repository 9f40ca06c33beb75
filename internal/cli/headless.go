// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/sitegen-tui/internal/api"
	"github.com/jeranaias/sitegen-tui/internal/eventloop"
	"github.com/jeranaias/sitegen-tui/internal/generate"
	"github.com/jeranaias/sitegen-tui/internal/history"
	"github.com/jeranaias/sitegen-tui/internal/notify"
	"github.com/jeranaias/sitegen-tui/internal/workspace"
)

// headless runs the pipeline and the store on in-memory surfaces, pumped
// by the serial event loop instead of a Bubble Tea program.
type headless struct {
	ctx      context.Context
	client   *api.Client
	ws       *workspace.Workspace
	pipeline *generate.Pipeline
	store    *history.Store
	notes    *notify.Recorder

	// chunks receives each stream chunk as it arrives. Nil discards.
	chunks io.Writer
	stream *api.Stream
}

func newHeadless(ctx context.Context, client *api.Client) *headless {
	ws := workspace.NewInMemory()
	notes := &notify.Recorder{}

	pipeline := generate.New(generate.ClientBackend{Client: client}, ws, notes)
	pipeline.SetContext(ctx)
	store := history.New(client, ws, notes)
	store.SetContext(ctx)

	return &headless{ctx: ctx, client: client, ws: ws, pipeline: pipeline, store: store, notes: notes}
}

func (h *headless) handle(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case generate.StreamOpenedMsg:
		if s, ok := msg.Stream.(*api.Stream); ok {
			h.stream = s
		}
	case generate.ChunkMsg:
		if h.chunks != nil {
			io.WriteString(h.chunks, msg.Text)
		}
	}

	if cmd, ok := h.pipeline.Update(msg); ok {
		return cmd
	}
	cmd, _ := h.store.Update(msg)
	return cmd
}

// run pumps cmds and everything they lead to until the loop is idle.
func (h *headless) run(cmds ...tea.Cmd) error {
	return eventloop.Run(h.handle, cmds...)
}

// generate submits the prompt and waits for the stream to end.
func (h *headless) generate(prompt string) error {
	h.ws.Prompt.SetValue(prompt)
	before := h.pipeline.Requests()
	if err := h.run(h.pipeline.Submit()); err != nil {
		return err
	}
	if h.pipeline.Requests() == before {
		return errEmptyPrompt
	}
	return h.pipeline.LastError()
}

// expandAll fetches the versions of every listed session.
func (h *headless) expandAll() error {
	var cmds []tea.Cmd
	for _, n := range h.store.Nodes() {
		if !n.Expanded {
			cmds = append(cmds, h.store.Toggle(n.Session.ID))
		}
	}
	return h.run(cmds...)
}

// errorNotes collects the error notifications, oldest first.
func (h *headless) errorNotes() []string {
	var out []string
	for _, n := range h.notes.All() {
		if n.Kind == notify.Error {
			out = append(out, n.Message)
		}
	}
	return out
}
