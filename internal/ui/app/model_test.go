// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/sitegen-tui/internal/api"
	"github.com/jeranaias/sitegen-tui/internal/config"
	"github.com/jeranaias/sitegen-tui/internal/eventloop"
	"github.com/jeranaias/sitegen-tui/internal/generate"
	"github.com/jeranaias/sitegen-tui/internal/history"
	"github.com/jeranaias/sitegen-tui/internal/model"
	"github.com/jeranaias/sitegen-tui/internal/notify"
	"github.com/jeranaias/sitegen-tui/internal/preview"
)

// =============================================================================
// FAKES
// =============================================================================

type chunkStream struct {
	chunks []string
	onNext func()
}

func (s *chunkStream) Next() (string, error) {
	if s.onNext != nil {
		s.onNext()
	}
	if len(s.chunks) == 0 {
		return "", io.EOF
	}
	c := s.chunks[0]
	s.chunks = s.chunks[1:]
	return c, nil
}

func (s *chunkStream) Close() error { return nil }

type generatorMock struct {
	GenerateFunc func(ctx context.Context, req api.GenerateRequest) (generate.Stream, error)

	requests []api.GenerateRequest
	newChats int
}

func (g *generatorMock) Generate(ctx context.Context, req api.GenerateRequest) (generate.Stream, error) {
	g.requests = append(g.requests, req)
	if g.GenerateFunc != nil {
		return g.GenerateFunc(ctx, req)
	}
	return &chunkStream{}, nil
}

func (g *generatorMock) NewChat(context.Context) error {
	g.newChats++
	return nil
}

type historyMock struct {
	versionErr error
}

func (h *historyMock) ListSessions(context.Context) ([]model.Session, error) {
	return []model.Session{{ID: "s1", VersionCount: 1}}, nil
}

func (h *historyMock) GetSession(_ context.Context, id string) (*model.SessionDetail, error) {
	if id != "s1" {
		return nil, errors.New("not found")
	}
	return &model.SessionDetail{Versions: []model.Version{{ID: 7, Prompt: "a bakery"}}}, nil
}

func (h *historyMock) SwitchSession(context.Context, string) (string, error) {
	return "switched", nil
}

func (h *historyMock) GetVersion(_ context.Context, id int64) (*model.VersionContent, error) {
	if h.versionErr != nil {
		return nil, h.versionErr
	}
	return &model.VersionContent{ID: id, HTMLContent: "<h1>Bakery</h1>", Prompt: "a bakery"}, nil
}

// =============================================================================
// FIXTURE
// =============================================================================

type fixture struct {
	gen    *generatorMock
	hist   *historyMock
	opened []string
	openFn func(path string) error
	saved []*config.Config
	m     *Model
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{gen: &generatorMock{}, hist: &historyMock{}}
	f.m = New(Options{
		Config:    config.Default(),
		Generator: f.gen,
		History:   f.hist,
		SaveConfig: func(c *config.Config) error {
			f.saved = append(f.saved, c)
			return nil
		},
		DownloadPath: filepath.Join(t.TempDir(), "index.html"),
		BrowserDir:   t.TempDir(),
		OpenFile: func(path string) error {
			f.opened = append(f.opened, path)
			if f.openFn != nil {
				return f.openFn(path)
			}
			return nil
		},
		Timing:       &notify.Timing{ShowDelay: time.Millisecond, Display: time.Millisecond, ExitAfter: time.Hour},
	})
	f.m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	return f
}

// run pumps cmds through the model. Cursor blinks, spinner frames and toast
// lifecycles are dropped so the pump ends and toasts stay inspectable.
func (f *fixture) run(t *testing.T, cmds ...tea.Cmd) {
	t.Helper()
	err := eventloop.Run(func(msg tea.Msg) tea.Cmd {
		switch msg.(type) {
		case cursor.BlinkMsg, spinner.TickMsg, notify.ShownMsg, notify.ExpiredMsg:
			return nil
		}
		_, cmd := f.m.Update(msg)
		return cmd
	}, cmds...)
	require.NoError(t, err)
}

func (f *fixture) press(t *testing.T, keys ...tea.KeyMsg) {
	t.Helper()
	for _, k := range keys {
		k := k
		f.run(t, func() tea.Msg { return k })
	}
}

func (f *fixture) notes() []notify.Notification {
	return f.m.Center().Active()
}

func (f *fixture) lastNote(t *testing.T) notify.Notification {
	t.Helper()
	notes := f.notes()
	require.NotEmpty(t, notes)
	return notes[len(notes)-1]
}

func ctrl(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

// =============================================================================
// GENERATION
// =============================================================================

func TestGenerateStreamsIntoEditorAndPreview(t *testing.T) {
	f := newFixture(t)
	ws := f.m.Workspace()

	var statuses []string
	var loading []bool
	stream := &chunkStream{chunks: []string{"<h1>", "Hi</h1>"}}
	stream.onNext = func() {
		statuses = append(statuses, f.m.StatusText())
		loading = append(loading, f.m.PreviewLoading())
	}
	f.gen.GenerateFunc = func(context.Context, api.GenerateRequest) (generate.Stream, error) {
		return stream, nil
	}

	ws.Editor.SetText("<p>old</p>")
	ws.Prompt.SetValue("  a bakery  ")
	f.press(t, ctrl(tea.KeyCtrlG))

	require.Len(t, f.gen.requests, 1)
	assert.Equal(t, api.GenerateRequest{Prompt: "a bakery", Code: "<p>old</p>"}, f.gen.requests[0])
	assert.Equal(t, "<h1>Hi</h1>", ws.Editor.Text())
	assert.Equal(t, "<h1>Hi</h1>", ws.Preview.Content())
	assert.Equal(t, generate.StatusReady, f.m.StatusText())
	assert.False(t, f.m.PreviewLoading())

	for i := range statuses {
		assert.Equal(t, generate.StatusGenerating, statuses[i])
		assert.True(t, loading[i])
	}

	note := f.lastNote(t)
	assert.Equal(t, notify.Success, note.Kind)
	assert.Equal(t, generate.MsgGenerated, note.Message)
}

func TestEnterInPromptSubmits(t *testing.T) {
	f := newFixture(t)
	f.m.Workspace().Prompt.SetValue("portfolio")

	f.press(t, ctrl(tea.KeyEnter))

	require.Len(t, f.gen.requests, 1)
	assert.Equal(t, "portfolio", f.gen.requests[0].Prompt)
}

func TestEmptyPromptWarns(t *testing.T) {
	f := newFixture(t)

	f.press(t, ctrl(tea.KeyCtrlG))

	assert.Empty(t, f.gen.requests)
	note := f.lastNote(t)
	assert.Equal(t, notify.Warning, note.Kind)
	assert.Equal(t, generate.MsgEmptyPrompt, note.Message)
}

func TestSubmitIgnoredWhileGenerating(t *testing.T) {
	f := newFixture(t)
	f.m.Workspace().Prompt.SetValue("first")

	f.m.Update(ctrl(tea.KeyCtrlG))
	require.True(t, f.m.Pipeline().Active())

	f.m.Update(ctrl(tea.KeyCtrlG))
	f.m.Update(ctrl(tea.KeyEnter))
	f.m.Workspace().Prompt.SetValue("")
	f.m.Update(ctrl(tea.KeyCtrlG))

	assert.Equal(t, 1, f.m.Pipeline().Requests())
	assert.Zero(t, f.m.Center().Len(), "no notification while active")
}

func TestNewChatClearsEverything(t *testing.T) {
	f := newFixture(t)
	ws := f.m.Workspace()
	ws.SetDocument("<p>doc</p>")
	ws.Prompt.SetValue("prompt")

	f.press(t, ctrl(tea.KeyCtrlN))

	assert.Empty(t, ws.Editor.Text())
	assert.Empty(t, ws.Preview.Content())
	assert.Empty(t, ws.Prompt.Value())
	assert.Equal(t, 1, f.gen.newChats)
}

// =============================================================================
// HISTORY
// =============================================================================

func TestHistorySelectLoadsVersion(t *testing.T) {
	f := newFixture(t)

	f.press(t, ctrl(tea.KeyCtrlO))
	require.True(t, f.m.Store().IsOpen())
	assert.Equal(t, FocusSidebar, f.m.Focus())
	assert.Equal(t, history.Loaded, f.m.Store().ListState())

	f.press(t, ctrl(tea.KeyEnter), ctrl(tea.KeyDown), ctrl(tea.KeyEnter))

	ws := f.m.Workspace()
	assert.Equal(t, "<h1>Bakery</h1>", ws.Editor.Text())
	assert.Equal(t, "<h1>Bakery</h1>", ws.Preview.Content())
	assert.Equal(t, "a bakery", ws.Prompt.Value())
	assert.True(t, f.m.Store().IsOpen(), "wide layout keeps the sidebar")
	assert.Equal(t, history.MsgVersionLoaded, f.lastNote(t).Message)
}

func TestNarrowLayoutClosesHistoryAfterLoad(t *testing.T) {
	f := newFixture(t)
	f.m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	require.True(t, f.m.Theme().IsNarrow())

	f.press(t, ctrl(tea.KeyCtrlO), ctrl(tea.KeyEnter), ctrl(tea.KeyDown), ctrl(tea.KeyEnter))

	assert.False(t, f.m.Store().IsOpen())
	assert.Equal(t, FocusPrompt, f.m.Focus())
	assert.Equal(t, "<h1>Bakery</h1>", f.m.Workspace().Editor.Text())
}

func TestHistoryContentFailureShownInline(t *testing.T) {
	f := newFixture(t)
	f.hist.versionErr = errors.New("404 lost")
	f.m.Workspace().SetDocument("<p>current</p>")

	f.press(t, ctrl(tea.KeyCtrlO), ctrl(tea.KeyEnter), ctrl(tea.KeyDown), ctrl(tea.KeyEnter))

	assert.Equal(t, "404 lost", f.m.Store().ContentError())
	assert.Equal(t, "<p>current</p>", f.m.Workspace().Editor.Text(), "a failed load keeps the document")
	assert.True(t, f.m.Store().IsOpen())

	// The toast is still entering and not drawn, so the text comes from
	// the sidebar.
	assert.Equal(t, notify.Entering, f.lastNote(t).Phase)
	assert.Contains(t, f.m.View(), history.MsgContentFailedPfx+"404 lost")

	// Reopening starts clean.
	f.press(t, ctrl(tea.KeyEsc), ctrl(tea.KeyCtrlO))
	assert.Empty(t, f.m.Store().ContentError())
	assert.NotContains(t, f.m.View(), "404 lost")
}

func TestEscClosesHistory(t *testing.T) {
	f := newFixture(t)
	f.press(t, ctrl(tea.KeyCtrlO))
	require.True(t, f.m.Store().IsOpen())

	f.m.Update(ctrl(tea.KeyEsc))

	assert.False(t, f.m.Store().IsOpen())
	assert.Equal(t, FocusPrompt, f.m.Focus())
}

// =============================================================================
// SUPPORTING ACTIONS
// =============================================================================

func TestRefreshShowsLoadingUntilLatestTimerFires(t *testing.T) {
	f := newFixture(t)
	ws := f.m.Workspace()
	ws.Editor.SetText("<p>edited</p>")
	require.Empty(t, ws.Preview.Content())

	f.m.Update(ctrl(tea.KeyCtrlR))
	assert.Equal(t, "<p>edited</p>", ws.Preview.Content())
	assert.True(t, f.m.PreviewLoading())

	f.m.Update(ctrl(tea.KeyCtrlR))
	f.m.Update(RefreshDoneMsg{ID: 1})
	assert.True(t, f.m.PreviewLoading(), "an older timer does not end a newer refresh")

	f.m.Update(RefreshDoneMsg{ID: 2})
	assert.False(t, f.m.PreviewLoading())
}

func TestDownload(t *testing.T) {
	f := newFixture(t)

	f.press(t, ctrl(tea.KeyCtrlS))
	assert.Equal(t, MsgNothingToDownload, f.lastNote(t).Message)
	assert.Equal(t, notify.Warning, f.lastNote(t).Kind)

	f.m.Workspace().SetDocument("<h1>Site</h1>")
	f.press(t, ctrl(tea.KeyCtrlS))

	data, err := os.ReadFile(f.m.downloadPath)
	require.NoError(t, err)
	assert.Equal(t, "<h1>Site</h1>", string(data))
	assert.Equal(t, notify.Success, f.lastNote(t).Kind)
}

func TestOpenInBrowser(t *testing.T) {
	f := newFixture(t)

	f.press(t, ctrl(tea.KeyCtrlB))
	assert.Empty(t, f.opened, "an empty document is not opened")
	assert.Equal(t, notify.Warning, f.lastNote(t).Kind)
	assert.Equal(t, MsgNothingToOpen, f.lastNote(t).Message)

	f.m.Workspace().SetDocument("<h1>Site</h1>")
	f.press(t, ctrl(tea.KeyCtrlB))

	require.Len(t, f.opened, 1)
	assert.Equal(t, BrowserFile, filepath.Base(f.opened[0]))
	data, err := os.ReadFile(f.opened[0])
	require.NoError(t, err)
	assert.Equal(t, "<h1>Site</h1>", string(data))
	assert.Equal(t, MsgBrowserOpened, f.lastNote(t).Message)

	f.openFn = func(string) error { return errors.New("no browser") }
	f.press(t, ctrl(tea.KeyCtrlB))

	note := f.lastNote(t)
	assert.Equal(t, notify.Error, note.Kind)
	assert.Equal(t, "Could not open browser: no browser", note.Message)
}

func TestThemeTogglePersists(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, "dark", f.m.Theme().Name)

	f.press(t, ctrl(tea.KeyCtrlT))

	assert.Equal(t, "light", f.m.Theme().Name)
	require.Len(t, f.saved, 1)
	assert.Equal(t, "light", f.saved[0].UI.Theme)
}

func TestPreviewModeToggle(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, preview.ModeRendered, f.m.PreviewMode())

	f.m.Update(ctrl(tea.KeyCtrlP))
	assert.Equal(t, preview.ModeSource, f.m.PreviewMode())

	f.m.Update(ctrl(tea.KeyCtrlP))
	assert.Equal(t, preview.ModeRendered, f.m.PreviewMode())
}

func TestHelpOverlaySwallowsKeys(t *testing.T) {
	f := newFixture(t)
	f.m.Workspace().Prompt.SetValue("ignored")

	f.m.Update(ctrl(tea.KeyF1))
	require.True(t, f.m.ShowingHelp())

	f.m.Update(ctrl(tea.KeyCtrlG))
	assert.Zero(t, f.m.Pipeline().Requests())

	f.m.Update(ctrl(tea.KeyEsc))
	assert.False(t, f.m.ShowingHelp())
}

func TestFocusCycle(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, FocusPrompt, f.m.Focus())

	var seen []Focus
	for i := 0; i < 3; i++ {
		f.m.Update(ctrl(tea.KeyTab))
		seen = append(seen, f.m.Focus())
	}
	assert.Equal(t, []Focus{FocusEditor, FocusPreview, FocusPrompt}, seen)

	f.m.Update(ctrl(tea.KeyShiftTab))
	assert.Equal(t, FocusPreview, f.m.Focus())
}

func TestConfigReload(t *testing.T) {
	f := newFixture(t)

	cfg := config.Default()
	cfg.UI.Theme = "light"
	cfg.UI.NarrowWidth = 200
	cfg.UI.PreviewMode = "source"
	f.m.Update(ConfigReloadedMsg{Config: cfg})

	assert.Equal(t, "light", f.m.Theme().Name)
	assert.True(t, f.m.Theme().IsNarrow())
	assert.Equal(t, preview.ModeSource, f.m.PreviewMode())

	f.m.Update(ConfigReloadedMsg{Err: errors.New("bad toml")})
	assert.Equal(t, notify.Warning, f.lastNote(t).Kind)
	assert.Equal(t, "light", f.m.Theme().Name, "a bad reload keeps the last good config")
}

// =============================================================================
// VIEW
// =============================================================================

func TestViewShowsChrome(t *testing.T) {
	f := newFixture(t)
	f.m.Workspace().SetDocument("<title>Bakery</title><h1>Fresh</h1>")

	view := f.m.View()
	assert.Contains(t, view, "sitegen")
	assert.Contains(t, view, "Bakery")
	assert.Contains(t, view, generate.StatusReady)
}

func TestViewBeforeSize(t *testing.T) {
	m := New(Options{Generator: &generatorMock{}, History: &historyMock{}})
	assert.Equal(t, "Loading...", m.View())
}

func TestOverlayToasts(t *testing.T) {
	base := "aaaa\nbbbb\ncccc\ndddd"

	got := overlayToasts(base, "XY", 6, 4)

	assert.Equal(t, "aaaa\nbbb XY\ncccc\ndddd", got)
}
