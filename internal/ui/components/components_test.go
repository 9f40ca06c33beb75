// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/sitegen-tui/internal/eventloop"
	"github.com/jeranaias/sitegen-tui/internal/history"
	"github.com/jeranaias/sitegen-tui/internal/model"
	"github.com/jeranaias/sitegen-tui/internal/notify"
	"github.com/jeranaias/sitegen-tui/internal/preview"
	"github.com/jeranaias/sitegen-tui/internal/ui/styles"
	"github.com/jeranaias/sitegen-tui/internal/workspace"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTheme() *styles.Theme {
	return styles.NewTheme(styles.ThemeDark)
}

// =============================================================================
// EDITOR / PREVIEW / PROMPT
// =============================================================================

func TestEditor_ProgrammaticWritesAreSilent(t *testing.T) {
	e := NewEditor(newTheme())
	fired := 0
	e.OnChange(func(string) { fired++ })

	doc := "<style>\n\tbody { margin: 0 }\r\n</style>"
	e.SetText(doc)
	assert.Equal(t, doc, e.Text(), "document kept verbatim")
	assert.Equal(t, 0, fired)
	assert.Equal(t, len([]rune(doc)), e.Chars())
}

func TestEditor_UserEditsMirrorIntoPreview(t *testing.T) {
	theme := newTheme()
	e := NewEditor(theme)
	p := NewPreviewPane(theme)
	ws := workspace.New(e, p, NewPrompt(theme, 1000))

	ws.SetDocument("<p>Hi")
	assert.Equal(t, "<p>Hi", p.Content())

	// Blurred editors ignore keys.
	e.Update(runes("!"))
	assert.Equal(t, "<p>Hi", e.Text())

	e.Focus()
	e.Update(runes("!"))
	assert.Equal(t, "<p>Hi!", e.Text())
	assert.Equal(t, "<p>Hi!", p.Content())
	assert.Equal(t, 1, e.CursorPosition().Line)
}

func TestEditor_CursorLine(t *testing.T) {
	e := NewEditor(newTheme())
	e.SetSize(80, 20)
	e.SetText("a\nb\nc")
	assert.Equal(t, 3, e.CursorPosition().Line)
}

func TestPreviewPane(t *testing.T) {
	p := NewPreviewPane(newTheme())
	p.SetSize(60, 20)

	assert.Contains(t, p.Rendered(), PreviewPlaceholder)

	p.SetContent("<h1>Bakery</h1><script>x()</script>")
	assert.Contains(t, p.Rendered(), "Bakery")
	assert.NotContains(t, p.Rendered(), "x()")

	p.SetMode(preview.ModeSource)
	assert.Equal(t, preview.ModeSource, p.Mode())
	assert.Contains(t, p.Rendered(), "script")
	assert.Contains(t, p.View(), "source")

	p.SetLoading(true)
	assert.Contains(t, p.View(), "Loading...")
}

func TestCounterLevelFor(t *testing.T) {
	tests := []struct {
		count, limit int
		want         CounterLevel
	}{
		{0, 1000, CounterNormal},
		{900, 1000, CounterNormal},
		{901, 1000, CounterWarning},
		{950, 1000, CounterWarning},
		{951, 1000, CounterDanger},
		{1000, 1000, CounterDanger},
		{5000, 0, CounterNormal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CounterLevelFor(tt.count, tt.limit), "%d/%d", tt.count, tt.limit)
	}
}

func TestPrompt(t *testing.T) {
	p := NewPrompt(newTheme(), 1000)
	p.SetWidth(80)

	p.SetValue("café ☕")
	assert.Equal(t, "café ☕", p.Value())
	assert.Equal(t, 6, p.Count())
	assert.Contains(t, p.View(), "6/1000")

	p.SetValue(strings.Repeat("a", 1200))
	assert.Equal(t, 1000, p.Count(), "limit enforced")
	assert.Equal(t, CounterDanger, p.Level())

	p.SetValue("")
	p.Focus()
	p.Update(runes("hi"))
	assert.Equal(t, "hi", p.Value())
}

// =============================================================================
// STATUS BAR
// =============================================================================

func TestStatusBar(t *testing.T) {
	s := NewStatusBar(newTheme())
	s.SetWidth(120)
	s.SetLine(3)
	s.SetChars(1234)
	assert.Equal(t, "Line 3 · 1,234 chars", s.Info())
	assert.Contains(t, s.View(), "Ready")

	require.NotNil(t, s.SetStatus("Generating...", true))
	assert.Nil(t, s.SetStatus("Generating...", true), "spinner already running")
	assert.True(t, s.Busy())
	assert.Contains(t, s.View(), "Generating...")

	assert.Nil(t, s.SetStatus("Ready", false))
	assert.Nil(t, s.Update(spinner.TickMsg{}), "idle bar stops ticking")

	s.SetHints([]key.Binding{key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help"))})
	assert.Contains(t, s.View(), "help")
}

func TestFmtNumber(t *testing.T) {
	for in, want := range map[int]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		123456:  "123,456",
		1234567: "1,234,567",
		-4200:   "-4,200",
	} {
		assert.Equal(t, want, fmtNumber(in))
	}
}

// =============================================================================
// HISTORY SIDEBAR
// =============================================================================

type historyBackend struct {
	sessions []model.Session
	details  map[string]*model.SessionDetail
	selected []int64
}

func (b *historyBackend) ListSessions(context.Context) ([]model.Session, error) {
	return b.sessions, nil
}

func (b *historyBackend) GetSession(_ context.Context, id string) (*model.SessionDetail, error) {
	return b.details[id], nil
}

func (b *historyBackend) SwitchSession(_ context.Context, id string) (string, error) {
	return id, nil
}

func (b *historyBackend) GetVersion(_ context.Context, id int64) (*model.VersionContent, error) {
	b.selected = append(b.selected, id)
	return &model.VersionContent{ID: id, HTMLContent: "<p>loaded</p>", Prompt: "again"}, nil
}

func newSidebarFixture(t *testing.T) (*HistorySidebar, *history.Store, *workspace.Workspace, *historyBackend) {
	t.Helper()
	created, err := model.ParseTimestamp("2025-03-02T10:00:00Z")
	require.NoError(t, err)

	backend := &historyBackend{
		sessions: []model.Session{
			{ID: "s1", CreatedAt: created, VersionCount: 2},
			{ID: "s2", CreatedAt: created, VersionCount: 0},
		},
		details: map[string]*model.SessionDetail{
			"s1": {Versions: []model.Version{
				{ID: 2, Prompt: "add a pricing table", CreatedAt: created},
				{ID: 1, Prompt: "bakery landing page", CreatedAt: created},
			}},
			"s2": {Versions: []model.Version{}},
		},
	}
	ws := workspace.NewInMemory()
	store := history.New(backend, ws, nil)
	sb := NewHistorySidebar(newTheme(), store)
	sb.SetSize(50, 30)
	return sb, store, ws, backend
}

func drive(t *testing.T, store *history.Store, cmds ...tea.Cmd) {
	t.Helper()
	require.NoError(t, eventloop.Run(func(msg tea.Msg) tea.Cmd {
		cmd, _ := store.Update(msg)
		return cmd
	}, cmds...))
}

func TestSidebar_StatesAndTree(t *testing.T) {
	sb, store, ws, backend := newSidebarFixture(t)

	open := store.Open()
	assert.Contains(t, sb.View(), history.MsgLoadingSessions)
	drive(t, store, open)

	lines := sb.Lines()
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "▸ Session - "))
	assert.True(t, strings.HasSuffix(lines[0], "· 2 versions"))

	// Expand the first session and walk to its newest version.
	cmd, handled := sb.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, handled)
	assert.Contains(t, sb.Lines()[1], history.MsgLoadingVersions)
	drive(t, store, cmd)

	lines = sb.Lines()
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "▾ "))
	assert.Contains(t, lines[1], "├─ ")
	assert.Contains(t, lines[1], "add a pricing table")
	assert.Contains(t, lines[2], "└─ ")

	sb.Move(1)
	cmd = sb.Activate()
	drive(t, store, cmd)
	assert.Equal(t, []int64{2}, backend.selected)
	assert.Equal(t, "<p>loaded</p>", ws.Editor.Text())
	assert.Equal(t, "again", ws.Prompt.Value())

	// Empty session shows its note.
	sb.Move(10)
	drive(t, store, sb.Activate())
	assert.Equal(t, "    "+history.MsgNoVersions, sb.Lines()[len(sb.Lines())-1])
}

func TestSidebar_Search(t *testing.T) {
	sb, store, _, _ := newSidebarFixture(t)
	drive(t, store, store.Open())
	drive(t, store, store.Toggle("s1"))

	_, handled := sb.Update(runes("/"))
	require.True(t, handled)
	assert.True(t, sb.Searching())

	sb.Update(runes("bakery"))
	assert.Equal(t, "bakery", store.Filter())
	lines := sb.Lines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "bakery landing page")

	sb.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, sb.Searching())
	assert.Equal(t, "bakery", store.Filter(), "term kept after leaving the box")

	sb.Update(runes("/"))
	sb.Update(runes("zzz"))
	assert.Contains(t, sb.View(), MsgNoMatches)
	assert.Equal(t, 0, sb.Cursor())
}

func TestSidebar_EmptyAndError(t *testing.T) {
	sb, store, _, backend := newSidebarFixture(t)
	backend.sessions = []model.Session{}
	drive(t, store, store.Open())
	assert.Contains(t, sb.View(), history.MsgNoSessions)
	assert.Nil(t, sb.Activate())
}

// =============================================================================
// TOASTS / HELP
// =============================================================================

func TestToasts_Phases(t *testing.T) {
	center := notify.NewCenter()
	toasts := NewToasts(newTheme(), center)

	center.Notify(notify.Success, "Code generated successfully!")
	assert.True(t, toasts.Empty(), "entering toasts are not drawn")
	assert.Equal(t, "", toasts.View())

	center.Update(notify.ShownMsg{ID: 1})
	assert.False(t, toasts.Empty())
	assert.Contains(t, toasts.View(), "✓ Code generated successfully!")

	center.Update(notify.ExpiredMsg{ID: 1})
	assert.Contains(t, toasts.View(), "Code generated successfully!")

	center.Update(notify.RemovedMsg{ID: 1})
	assert.True(t, toasts.Empty())
}

func TestHelp_Markdown(t *testing.T) {
	h := NewHelp(newTheme(), []HelpSection{{
		Title: "Generation",
		Bindings: []key.Binding{
			key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "Generate from the prompt")),
			key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hidden"), key.WithDisabled()),
		},
	}})
	md := h.Markdown()
	assert.Contains(t, md, "## Generation")
	assert.Contains(t, md, "- `ctrl+g` Generate from the prompt")
	assert.NotContains(t, md, "hidden")

	h.Style = "notty"
	h.SetWidth(80)
	view := h.View()
	assert.Contains(t, view, "ctrl+g")
	assert.Contains(t, view, "Generate")
}
