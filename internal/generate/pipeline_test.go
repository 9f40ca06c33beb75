// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/sitegen-tui/internal/api"
	"github.com/jeranaias/sitegen-tui/internal/eventloop"
	"github.com/jeranaias/sitegen-tui/internal/notify"
	"github.com/jeranaias/sitegen-tui/internal/workspace"
)

// =============================================================================
// FAKES
// =============================================================================

type backendMock struct {
	GenerateFunc func(ctx context.Context, req api.GenerateRequest) (Stream, error)
	NewChatFunc  func(ctx context.Context) error

	requests []api.GenerateRequest
	newChats int
}

func (m *backendMock) Generate(ctx context.Context, req api.GenerateRequest) (Stream, error) {
	m.requests = append(m.requests, req)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return &fakeStream{}, nil
}

func (m *backendMock) NewChat(ctx context.Context) error {
	m.newChats++
	if m.NewChatFunc != nil {
		return m.NewChatFunc(ctx)
	}
	return nil
}

type fakeStream struct {
	chunks []string
	err    error // returned after the chunks; io.EOF when nil
	closed bool
}

func (s *fakeStream) Next() (string, error) {
	if len(s.chunks) > 0 {
		c := s.chunks[0]
		s.chunks = s.chunks[1:]
		return c, nil
	}
	if s.err != nil {
		return "", s.err
	}
	return "", io.EOF
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

func streaming(s *fakeStream) func(context.Context, api.GenerateRequest) (Stream, error) {
	return func(context.Context, api.GenerateRequest) (Stream, error) { return s, nil }
}

type fixture struct {
	backend  *backendMock
	ws       *workspace.Workspace
	notes    *notify.Recorder
	pipeline *Pipeline
}

func newFixture() *fixture {
	f := &fixture{
		backend: &backendMock{},
		ws:      workspace.NewInMemory(),
		notes:   &notify.Recorder{},
	}
	f.pipeline = New(f.backend, f.ws, f.notes)
	return f
}

// run drives cmd to completion, calling observe after every pipeline message.
func (f *fixture) run(t *testing.T, cmd tea.Cmd, observe func(msg tea.Msg)) {
	t.Helper()
	err := eventloop.Run(func(msg tea.Msg) tea.Cmd {
		next, handled := f.pipeline.Update(msg)
		require.True(t, handled, "unexpected message %T", msg)
		if observe != nil {
			observe(msg)
		}
		return next
	}, cmd)
	require.NoError(t, err)
}

// =============================================================================
// TESTS
// =============================================================================

func TestSubmit_EmptyPromptWarns(t *testing.T) {
	for _, prompt := range []string{"", "   ", "\n\t"} {
		f := newFixture()
		f.ws.Prompt.SetValue(prompt)
		f.ws.SetDocument("<p>keep</p>")

		cmd := f.pipeline.Submit()
		assert.Nil(t, cmd)

		assert.Equal(t, []string{MsgEmptyPrompt}, f.notes.Messages())
		last, _ := f.notes.Last()
		assert.Equal(t, notify.Warning, last.Kind)
		assert.Equal(t, Idle, f.pipeline.State())
		assert.Empty(t, f.backend.requests)
		assert.Equal(t, "<p>keep</p>", f.ws.Editor.Text(), "sinks untouched")
	}
}

func TestSubmit_StreamsIntoBothSinks(t *testing.T) {
	f := newFixture()
	stream := &fakeStream{chunks: []string{"<!DOCTYPE html>", "<html><body>", "<h1>Bakery</h1>", "</body></html>"}}
	f.backend.GenerateFunc = streaming(stream)
	f.ws.Prompt.SetValue("  a bakery landing page  ")

	cmd := f.pipeline.Submit()
	require.NotNil(t, cmd)
	assert.Equal(t, Submitting, f.pipeline.State())
	assert.False(t, f.pipeline.SubmitEnabled())
	assert.Equal(t, StatusGenerating, f.pipeline.Status())
	assert.Empty(t, f.ws.Editor.Text(), "sinks cleared on submit")

	var snapshots []string
	f.run(t, cmd, func(msg tea.Msg) {
		if _, ok := msg.(ChunkMsg); ok {
			assert.Equal(t, f.ws.Editor.Text(), f.ws.Preview.Content())
			snapshots = append(snapshots, f.ws.Editor.Text())
		}
	})

	full := "<!DOCTYPE html><html><body><h1>Bakery</h1></body></html>"
	require.Len(t, snapshots, 4)
	for i := 1; i < len(snapshots); i++ {
		assert.True(t, strings.HasPrefix(snapshots[i], snapshots[i-1]))
	}
	assert.Equal(t, full, f.ws.Editor.Text())
	assert.Equal(t, full, f.ws.Preview.Content())
	assert.Equal(t, full, f.pipeline.Accumulated())

	assert.Equal(t, Idle, f.pipeline.State())
	assert.True(t, f.pipeline.SubmitEnabled())
	assert.Equal(t, StatusReady, f.pipeline.Status())
	assert.True(t, stream.closed)
	assert.Equal(t, []string{MsgGenerated}, f.notes.Messages())

	require.Len(t, f.backend.requests, 1)
	assert.Equal(t, "a bakery landing page", f.backend.requests[0].Prompt)
}

func TestSubmit_SendsEditorContentBeforeClearing(t *testing.T) {
	f := newFixture()
	f.ws.SetDocument("<html><body>v1</body></html>")
	f.ws.Prompt.SetValue("make it blue")

	f.run(t, f.pipeline.Submit(), nil)

	require.Len(t, f.backend.requests, 1)
	assert.Equal(t, "<html><body>v1</body></html>", f.backend.requests[0].Code)
}

func TestSubmit_IgnoredWhileActive(t *testing.T) {
	f := newFixture()
	stream := &fakeStream{chunks: []string{"<html>", "</html>"}}
	f.backend.GenerateFunc = streaming(stream)
	f.ws.Prompt.SetValue("first")

	cmd := f.pipeline.Submit()
	require.NotNil(t, cmd)

	f.ws.Prompt.SetValue("second")
	assert.Nil(t, f.pipeline.Submit())
	assert.Empty(t, f.notes.Messages(), "ignored submit is silent")

	f.run(t, cmd, func(tea.Msg) {
		// Still ignored mid-stream.
		if f.pipeline.Active() {
			assert.Nil(t, f.pipeline.Submit())
		}
	})

	assert.Len(t, f.backend.requests, 1)
	assert.Equal(t, 1, f.pipeline.Requests())
	assert.Equal(t, "first", f.backend.requests[0].Prompt)
}

func TestSubmit_OpenFailure(t *testing.T) {
	f := newFixture()
	f.backend.GenerateFunc = func(context.Context, api.GenerateRequest) (Stream, error) {
		return nil, errors.New("Generation failed (HTTP 500): <LLM> not initialized")
	}
	f.ws.Prompt.SetValue("anything")

	f.run(t, f.pipeline.Submit(), nil)

	msg := "Generation failed (HTTP 500): <LLM> not initialized"
	assert.Equal(t, "/*\n Error: "+msg+"\n */", f.ws.Editor.Text())
	assert.Equal(t,
		`<p style="color:red; font-family: sans-serif; text-align: center; padding: 2rem;">Generation failed (HTTP 500): &lt;LLM&gt; not initialized</p>`,
		f.ws.Preview.Content())

	last, ok := f.notes.Last()
	require.True(t, ok)
	assert.Equal(t, notify.Error, last.Kind)
	assert.Equal(t, "Error: "+msg, last.Message)

	assert.Equal(t, Idle, f.pipeline.State())
	assert.True(t, f.pipeline.SubmitEnabled())
	assert.EqualError(t, f.pipeline.LastError(), msg)
}

func TestSubmit_MidStreamFailureReplacesPartialOutput(t *testing.T) {
	f := newFixture()
	stream := &fakeStream{chunks: []string{"<html>", "<body>"}, err: errors.New("Stream interrupted: connection reset")}
	f.backend.GenerateFunc = streaming(stream)
	f.ws.Prompt.SetValue("a portfolio")

	f.run(t, f.pipeline.Submit(), nil)

	assert.Equal(t, EditorErrorText("Stream interrupted: connection reset"), f.ws.Editor.Text())
	assert.Equal(t, PreviewErrorHTML("Stream interrupted: connection reset"), f.ws.Preview.Content())
	assert.True(t, stream.closed)
	assert.Equal(t, []string{"Error: Stream interrupted: connection reset"}, f.notes.Messages())

	// The pipeline accepts a new run afterwards.
	f.backend.GenerateFunc = streaming(&fakeStream{chunks: []string{"ok"}})
	f.run(t, f.pipeline.Submit(), nil)
	assert.Equal(t, "ok", f.ws.Editor.Text())
	assert.Equal(t, 2, f.pipeline.Requests())
}

func TestUpdate_IgnoresStaleRuns(t *testing.T) {
	f := newFixture()
	f.ws.SetDocument("<p>current</p>")

	for _, msg := range []tea.Msg{
		ChunkMsg{Run: 7, Text: "stale"},
		StreamDoneMsg{Run: 7},
		StreamFailedMsg{Run: 7, Err: errors.New("stale")},
	} {
		cmd, handled := f.pipeline.Update(msg)
		assert.True(t, handled)
		assert.Nil(t, cmd)
	}

	stale := &fakeStream{}
	_, handled := f.pipeline.Update(StreamOpenedMsg{Run: 7, Stream: stale})
	assert.True(t, handled)
	assert.True(t, stale.closed)

	assert.Equal(t, "<p>current</p>", f.ws.Editor.Text())
	assert.Empty(t, f.notes.Messages())

	_, handled = f.pipeline.Update("unrelated")
	assert.False(t, handled)
}

func TestSubmit_StreamingBeginsWithFirstChunk(t *testing.T) {
	tests := []struct {
		name   string
		stream *fakeStream
		want   []string
	}{
		{
			name:   "chunks",
			stream: &fakeStream{chunks: []string{"<html>", "</html>"}},
			want:   []string{"StreamOpenedMsg:submitting", "ChunkMsg:streaming", "ChunkMsg:streaming", "StreamDoneMsg:idle"},
		},
		{
			name:   "headers then silence",
			stream: &fakeStream{},
			want:   []string{"StreamOpenedMsg:submitting", "StreamDoneMsg:idle"},
		},
		{
			name:   "failure before any byte",
			stream: &fakeStream{err: errors.New("reset by peer")},
			want:   []string{"StreamOpenedMsg:submitting", "StreamFailedMsg:idle"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.backend.GenerateFunc = streaming(tt.stream)
			f.ws.Prompt.SetValue("a bakery")

			var got []string
			f.run(t, f.pipeline.Submit(), func(msg tea.Msg) {
				name := strings.TrimPrefix(fmt.Sprintf("%T", msg), "generate.")
				got = append(got, name+":"+f.pipeline.State().String())
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReset_ClearsImmediatelyAndLogsFailure(t *testing.T) {
	f := newFixture()
	f.backend.NewChatFunc = func(context.Context) error { return errors.New("offline") }
	f.ws.SetDocument("<p>old</p>")
	f.ws.Prompt.SetValue("old prompt")

	cmd := f.pipeline.Reset()
	assert.Empty(t, f.ws.Editor.Text())
	assert.Empty(t, f.ws.Preview.Content())
	assert.Empty(t, f.ws.Prompt.Value())

	f.run(t, cmd, nil)
	assert.Equal(t, 1, f.backend.newChats)
	assert.Empty(t, f.notes.Messages(), "new chat failures are not surfaced")
}

func TestSubmit_ArbitraryChunkingKeepsPrefixes(t *testing.T) {
	doc := "<!DOCTYPE html><html><head><title>Café ☕</title></head><body><main>" +
		strings.Repeat("<section>naïve façade 日本語</section>", 20) + "</main></body></html>"
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 25; trial++ {
		var chunks []string
		rest := doc
		for len(rest) > 0 {
			n := 1 + rng.Intn(40)
			if n > len(rest) {
				n = len(rest)
			}
			chunks = append(chunks, rest[:n])
			rest = rest[n:]
		}

		f := newFixture()
		f.backend.GenerateFunc = streaming(&fakeStream{chunks: chunks})
		f.ws.Prompt.SetValue("cafe")

		prev := ""
		f.run(t, f.pipeline.Submit(), func(msg tea.Msg) {
			if _, ok := msg.(ChunkMsg); ok {
				cur := f.ws.Editor.Text()
				require.True(t, strings.HasPrefix(doc, cur))
				require.True(t, strings.HasPrefix(cur, prev))
				require.Equal(t, cur, f.ws.Preview.Content())
				prev = cur
			}
		})
		require.Equal(t, doc, f.ws.Editor.Text())
	}
}

// splitReader returns one piece per Read.
type splitReader struct{ parts [][]byte }

func (r *splitReader) Read(p []byte) (int, error) {
	if len(r.parts) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.parts[0])
	r.parts = r.parts[1:]
	return n, nil
}

func TestSubmit_DecodesSplitCharactersFromRealStream(t *testing.T) {
	f := newFixture()
	coffee := []byte("☕")
	f.backend.GenerateFunc = func(context.Context, api.GenerateRequest) (Stream, error) {
		body := io.NopCloser(&splitReader{parts: [][]byte{
			[]byte("<p>"), coffee[:1], coffee[1:2], coffee[2:], []byte("</p>"),
		}})
		return api.NewStream(body), nil
	}
	f.ws.Prompt.SetValue("coffee")

	f.run(t, f.pipeline.Submit(), func(msg tea.Msg) {
		if _, ok := msg.(ChunkMsg); ok {
			assert.NotContains(t, f.ws.Editor.Text(), "�")
		}
	})
	assert.Equal(t, "<p>☕</p>", f.ws.Editor.Text())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "submitting", Submitting.String())
	assert.Equal(t, "streaming", Streaming.String())
}
