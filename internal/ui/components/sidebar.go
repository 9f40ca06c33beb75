// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sitegen-tui/internal/history"
	"github.com/jeranaias/sitegen-tui/internal/model"
	"github.com/jeranaias/sitegen-tui/internal/ui/styles"
)

// Sidebar texts.
const (
	MsgNoMatches      = "No matching sessions"
	MsgLoadingVersion = "Loading version..."
)

// SidebarKeys are the bindings the sidebar handles itself.
type SidebarKeys struct {
	Up       key.Binding
	Down     key.Binding
	Activate key.Binding
	Search   key.Binding
	Done     key.Binding
}

// DefaultSidebarKeys returns the sidebar bindings.
func DefaultSidebarKeys() SidebarKeys {
	return SidebarKeys{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "expand / load"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Done: key.NewBinding(
			key.WithKeys("enter", "esc"),
			key.WithHelp("enter/esc", "finish search"),
		),
	}
}

type rowKind int

const (
	rowSession rowKind = iota
	rowVersion
	rowNote
)

type sidebarRow struct {
	kind    rowKind
	node    *history.Node
	version model.Version
	last    bool
	note    string
	isError bool
}

func (r sidebarRow) selectable() bool {
	return r.kind != rowNote
}

// HistorySidebar draws a history.Store as a session/version tree.
type HistorySidebar struct {
	theme  *styles.Theme
	store  *history.Store
	keys   SidebarKeys
	search textinput.Model
	cursor int
	offset int
	width  int
	height int
}

// NewHistorySidebar creates a sidebar over store.
func NewHistorySidebar(theme *styles.Theme, store *history.Store) *HistorySidebar {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search history..."

	h := &HistorySidebar{theme: theme, store: store, keys: DefaultSidebarKeys(), search: search}
	h.ApplyTheme()
	return h
}

// ApplyTheme restyles the search box.
func (h *HistorySidebar) ApplyTheme() {
	h.search.PromptStyle = h.theme.InputPrompt
	h.search.TextStyle = h.theme.InputText
	h.search.PlaceholderStyle = h.theme.InputPlaceholder
}

// Reset clears the search box and cursor, for a freshly opened surface.
func (h *HistorySidebar) Reset() {
	h.search.SetValue("")
	h.search.Blur()
	h.cursor = 0
	h.offset = 0
}

// Searching reports whether the search box has focus.
func (h *HistorySidebar) Searching() bool {
	return h.search.Focused()
}

// SetSize sets the outer size.
func (h *HistorySidebar) SetSize(width, height int) {
	h.width, h.height = width, height
	h.search.Width = max(width-8, 1)
}

// Cursor returns the index of the selected row among selectable rows.
func (h *HistorySidebar) Cursor() int {
	return h.cursor
}

// Update handles a key. It reports whether the key was consumed.
func (h *HistorySidebar) Update(msg tea.KeyMsg) (tea.Cmd, bool) {
	if h.search.Focused() {
		if key.Matches(msg, h.keys.Done) {
			h.search.Blur()
			return nil, true
		}
		var cmd tea.Cmd
		h.search, cmd = h.search.Update(msg)
		h.store.SetFilter(h.search.Value())
		h.clampCursor()
		return cmd, true
	}

	switch {
	case key.Matches(msg, h.keys.Search):
		return h.search.Focus(), true
	case key.Matches(msg, h.keys.Up):
		h.Move(-1)
		return nil, true
	case key.Matches(msg, h.keys.Down):
		h.Move(1)
		return nil, true
	case key.Matches(msg, h.keys.Activate):
		return h.Activate(), true
	}
	return nil, false
}

// Move shifts the selection by delta selectable rows.
func (h *HistorySidebar) Move(delta int) {
	h.cursor += delta
	h.clampCursor()
}

// Activate toggles the selected session or loads the selected version.
func (h *HistorySidebar) Activate() tea.Cmd {
	row, ok := h.selected()
	if !ok {
		return nil
	}
	switch row.kind {
	case rowSession:
		return h.store.Toggle(row.node.Session.ID)
	case rowVersion:
		return h.store.Select(row.node.Session.ID, row.version.ID)
	}
	return nil
}

func (h *HistorySidebar) selected() (sidebarRow, bool) {
	i := 0
	for _, r := range h.rows() {
		if !r.selectable() {
			continue
		}
		if i == h.cursor {
			return r, true
		}
		i++
	}
	return sidebarRow{}, false
}

func (h *HistorySidebar) clampCursor() {
	n := 0
	for _, r := range h.rows() {
		if r.selectable() {
			n++
		}
	}
	h.cursor = clamp(h.cursor, 0, n-1)
}

func (h *HistorySidebar) rows() []sidebarRow {
	var rows []sidebarRow
	for _, v := range h.store.Visible() {
		rows = append(rows, sidebarRow{kind: rowSession, node: v.Node})
		if !v.Node.Expanded {
			continue
		}
		switch v.Node.State {
		case history.Loading:
			rows = append(rows, sidebarRow{kind: rowNote, node: v.Node, note: history.MsgLoadingVersions})
		case history.Failed:
			rows = append(rows, sidebarRow{kind: rowNote, node: v.Node, note: v.Node.Err, isError: true})
		case history.Loaded:
			if len(v.Node.Versions) == 0 {
				rows = append(rows, sidebarRow{kind: rowNote, node: v.Node, note: history.MsgNoVersions})
				continue
			}
			for i, ver := range v.Versions {
				rows = append(rows, sidebarRow{kind: rowVersion, node: v.Node, version: ver, last: i == len(v.Versions)-1})
			}
		}
	}
	return rows
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the sidebar.
func (h *HistorySidebar) View() string {
	inner := max(h.width-4, 10)

	lines := []string{
		h.theme.SidebarTitle.Render("History"),
		h.theme.SearchBox.Width(inner).Render(h.search.View()),
	}
	reserved := 0
	if status := h.contentStatus(inner); status != "" {
		lines = append(lines, status)
		reserved = lipgloss.Height(status)
	}
	lines = append(lines, h.body(inner, reserved)...)

	style := h.theme.Sidebar
	if h.width > 0 {
		style = style.Width(max(h.width-2, 1))
	}
	if h.height > 0 {
		style = style.Height(max(h.height-2, 1))
	}
	return style.Render(strings.Join(lines, "\n"))
}

// contentStatus reports the version load in flight or the last load
// failure. It stays until the next load or until the surface reopens.
func (h *HistorySidebar) contentStatus(inner int) string {
	if h.store.ContentLoading() {
		return h.theme.Placeholder.Render(MsgLoadingVersion)
	}
	if msg := h.store.ContentError(); msg != "" {
		return h.theme.SidebarError.Width(inner).Render(history.MsgContentFailedPfx + msg)
	}
	return ""
}

func (h *HistorySidebar) body(inner, reserved int) []string {
	switch h.store.ListState() {
	case history.NotLoaded, history.Loading:
		return []string{h.theme.Placeholder.Render(history.MsgLoadingSessions)}
	case history.Failed:
		return []string{h.theme.SidebarError.Render(fit(h.store.ListError(), inner))}
	}
	if h.store.Empty() {
		return []string{
			h.theme.SidebarEmpty.Render(history.MsgNoSessions),
			h.theme.SidebarEmptyTip.Render(fit(history.MsgNoSessionsHint, inner)),
		}
	}

	rows := h.rows()
	if len(rows) == 0 {
		return []string{h.theme.Placeholder.Render(MsgNoMatches)}
	}

	selectedRow := -1
	sel := 0
	rendered := make([]string, 0, len(rows))
	for i, r := range rows {
		isSel := false
		if r.selectable() {
			isSel = sel == h.cursor
			if isSel {
				selectedRow = i
			}
			sel++
		}
		rendered = append(rendered, h.renderRow(r, isSel, inner))
	}

	window := h.height - 6 - reserved
	if window <= 0 || len(rendered) <= window {
		return rendered
	}
	if selectedRow >= 0 {
		if selectedRow < h.offset {
			h.offset = selectedRow
		}
		if selectedRow >= h.offset+window {
			h.offset = selectedRow - window + 1
		}
	}
	h.offset = clamp(h.offset, 0, len(rendered)-window)
	return rendered[h.offset : h.offset+window]
}

func (h *HistorySidebar) renderRow(r sidebarRow, selected bool, inner int) string {
	switch r.kind {
	case rowSession:
		text := fit(styles.Disclosure(r.node.Expanded)+" "+r.node.Session.Title()+" · "+r.node.Session.Meta(), inner)
		if selected {
			return h.theme.RowSelected.Render(text)
		}
		return h.theme.SessionTitle.Render(text)

	case rowVersion:
		prefix := "  " + styles.RenderTreeLine(r.last)
		label := r.version.Label()
		prompt := r.version.ShortPrompt()
		text := fit(prefix+label+"  "+prompt, inner)
		if selected {
			return h.theme.RowSelected.Render(text)
		}
		if !strings.HasPrefix(text, prefix+label) {
			return h.theme.VersionLabel.Render(text)
		}
		return h.theme.VersionLabel.Render(prefix+label) +
			h.theme.VersionPrompt.Render(strings.TrimPrefix(text, prefix+label))

	default:
		text := fit("    "+r.note, inner)
		if r.isError {
			return h.theme.SidebarError.Render(text)
		}
		return h.theme.SessionMeta.Render(text)
	}
}

// Lines returns the sidebar rows as plain text, for tests and headless use.
func (h *HistorySidebar) Lines() []string {
	rows := h.rows()
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		switch r.kind {
		case rowSession:
			out = append(out, styles.Disclosure(r.node.Expanded)+" "+r.node.Session.Title()+" · "+r.node.Session.Meta())
		case rowVersion:
			out = append(out, "  "+styles.RenderTreeLine(r.last)+r.version.Label()+"  "+r.version.ShortPrompt())
		default:
			out = append(out, "    "+r.note)
		}
	}
	return out
}
