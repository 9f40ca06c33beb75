// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package generate

import (
	"context"
	"errors"
	"html"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/sitegen-tui/internal/api"
	"github.com/jeranaias/sitegen-tui/internal/logging"
	"github.com/jeranaias/sitegen-tui/internal/notify"
	"github.com/jeranaias/sitegen-tui/internal/workspace"
)

// =============================================================================
// STATE
// =============================================================================

// State is the pipeline phase.
type State int

const (
	Idle State = iota
	Submitting
	Streaming
)

func (s State) String() string {
	switch s {
	case Submitting:
		return "submitting"
	case Streaming:
		return "streaming"
	default:
		return "idle"
	}
}

// User-facing texts.
const (
	MsgEmptyPrompt = "Please enter a prompt."
	MsgGenerated   = "Code generated successfully!"

	StatusReady      = "Ready"
	StatusGenerating = "Generating..."
)

// =============================================================================
// MESSAGES
// =============================================================================

// StreamOpenedMsg reports that the backend accepted the request. The
// pipeline stays Submitting until the first chunk arrives.
type StreamOpenedMsg struct {
	Run    int
	Stream Stream
}

// ChunkMsg carries one decoded chunk.
type ChunkMsg struct {
	Run  int
	Text string
}

// StreamDoneMsg reports a clean end of stream.
type StreamDoneMsg struct {
	Run int
}

// StreamFailedMsg reports any failure from request to last byte.
type StreamFailedMsg struct {
	Run int
	Err error
}

// ResetDoneMsg reports the outcome of the new-chat request.
type ResetDoneMsg struct {
	Err error
}

// =============================================================================
// PIPELINE
// =============================================================================

// Pipeline owns the single active generation.
type Pipeline struct {
	backend  Backend
	ws       *workspace.Workspace
	notifier notify.Notifier
	ctx      context.Context
	log      zerolog.Logger

	state       State
	run         int
	stream      Stream
	accumulated strings.Builder
	requests    int
	lastErr     error
}

// New creates an idle pipeline.
func New(backend Backend, ws *workspace.Workspace, notifier notify.Notifier) *Pipeline {
	if notifier == nil {
		notifier = notify.Discard
	}
	return &Pipeline{
		backend:  backend,
		ws:       ws,
		notifier: notifier,
		ctx:      context.Background(),
		log:      logging.With("generate"),
	}
}

// SetContext sets the context requests are made with.
func (p *Pipeline) SetContext(ctx context.Context) {
	p.ctx = ctx
}

// State returns the current phase.
func (p *Pipeline) State() State { return p.state }

// Active reports whether a generation is submitting or streaming.
func (p *Pipeline) Active() bool { return p.state != Idle }

// SubmitEnabled reports whether Submit would start a generation.
func (p *Pipeline) SubmitEnabled() bool { return p.state == Idle }

// Requests counts generate requests issued so far.
func (p *Pipeline) Requests() int { return p.requests }

// LastError is the failure of the most recent run, if it failed.
func (p *Pipeline) LastError() error { return p.lastErr }

// Accumulated is everything the current or last stream delivered.
func (p *Pipeline) Accumulated() string { return p.accumulated.String() }

// Status is the status bar text.
func (p *Pipeline) Status() string {
	if p.Active() {
		return StatusGenerating
	}
	return StatusReady
}

// Submit starts a generation from the prompt field. An empty prompt only
// warns. While a generation is active the call does nothing.
func (p *Pipeline) Submit() tea.Cmd {
	prompt := strings.TrimSpace(p.ws.Prompt.Value())
	if prompt == "" {
		return p.notifier.Notify(notify.Warning, MsgEmptyPrompt)
	}
	if p.Active() {
		return nil
	}

	// The request builds on what the editor showed before it is cleared.
	code := p.ws.Document()

	p.run++
	p.requests++
	p.state = Submitting
	p.lastErr = nil
	p.accumulated.Reset()
	p.ws.Clear()

	run, ctx, backend := p.run, p.ctx, p.backend
	req := api.GenerateRequest{Prompt: prompt, Code: code}
	p.log.Info().Int("run", run).Int("prompt_len", len(prompt)).Int("code_len", len(code)).Msg("generation submitted")

	return func() tea.Msg {
		stream, err := backend.Generate(ctx, req)
		if err != nil {
			return StreamFailedMsg{Run: run, Err: err}
		}
		return StreamOpenedMsg{Run: run, Stream: stream}
	}
}

// Update handles pipeline messages. It reports whether msg was one.
func (p *Pipeline) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case StreamOpenedMsg:
		if msg.Run != p.run || p.state != Submitting {
			msg.Stream.Close()
			return nil, true
		}
		p.stream = msg.Stream
		return p.readNext(), true

	case ChunkMsg:
		if msg.Run != p.run || !p.Active() {
			return nil, true
		}
		p.state = Streaming
		p.accumulated.WriteString(msg.Text)
		p.ws.SetDocument(p.accumulated.String())
		return p.readNext(), true

	case StreamDoneMsg:
		if msg.Run != p.run || !p.Active() {
			return nil, true
		}
		p.log.Info().Int("run", msg.Run).Int("bytes", p.accumulated.Len()).Msg("generation complete")
		p.finish()
		return p.notifier.Notify(notify.Success, MsgGenerated), true

	case StreamFailedMsg:
		if msg.Run != p.run || !p.Active() {
			return nil, true
		}
		p.log.Warn().Int("run", msg.Run).Err(msg.Err).Msg("generation failed")
		p.lastErr = msg.Err
		text := errorText(msg.Err)
		p.ws.SetDocuments(EditorErrorText(text), PreviewErrorHTML(text))
		p.finish()
		return p.notifier.Notify(notify.Error, "Error: "+text), true

	case ResetDoneMsg:
		if msg.Err != nil {
			p.log.Error().Err(msg.Err).Msg("new chat request failed")
		}
		return nil, true
	}
	return nil, false
}

// readNext issues the single outstanding read for the current run.
func (p *Pipeline) readNext() tea.Cmd {
	run, stream := p.run, p.stream
	return func() tea.Msg {
		chunk, err := stream.Next()
		switch {
		case err == nil:
			return ChunkMsg{Run: run, Text: chunk}
		case errors.Is(err, io.EOF):
			return StreamDoneMsg{Run: run}
		default:
			return StreamFailedMsg{Run: run, Err: err}
		}
	}
}

func (p *Pipeline) finish() {
	if p.stream != nil {
		p.stream.Close()
		p.stream = nil
	}
	p.state = Idle
}

// Reset starts a new chat: the surfaces clear at once and the backend is
// told in the background. Its failure is only logged.
func (p *Pipeline) Reset() tea.Cmd {
	p.ws.Reset()
	ctx, backend := p.ctx, p.backend
	return func() tea.Msg {
		return ResetDoneMsg{Err: backend.NewChat(ctx)}
	}
}

// =============================================================================
// ERROR RENDERING
// =============================================================================

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// EditorErrorText is the comment block the editor shows after a failure.
func EditorErrorText(message string) string {
	return "/*\n Error: " + message + "\n */"
}

// PreviewErrorHTML is the document the preview shows after a failure.
func PreviewErrorHTML(message string) string {
	return `<p style="color:red; font-family: sans-serif; text-align: center; padding: 2rem;">` +
		html.EscapeString(message) + `</p>`
}
