// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sitegen-tui/internal/ui/styles"
	"github.com/jeranaias/sitegen-tui/internal/workspace"
)

// EditorPlaceholder is shown while the editor is empty.
const EditorPlaceholder = "Generated HTML appears here. Edit it freely."

// Editor is the code pane. It keeps the document exactly as written: the
// textarea only displays it, so tabs and carriage returns survive a
// round trip through SetText/Text.
type Editor struct {
	theme     *styles.Theme
	area      textarea.Model
	raw       string
	listeners []func(string)
	width     int
	height    int
}

// NewEditor creates an empty, blurred editor.
func NewEditor(theme *styles.Theme) *Editor {
	area := textarea.New()
	area.CharLimit = 0
	area.MaxHeight = 0
	area.ShowLineNumbers = true
	area.Prompt = ""
	area.Placeholder = EditorPlaceholder

	e := &Editor{theme: theme, area: area}
	e.ApplyTheme()
	return e
}

// ApplyTheme copies the theme's styles into the textarea.
func (e *Editor) ApplyTheme() {
	focused, blurred := textarea.DefaultStyles()
	for _, s := range []*textarea.Style{&focused, &blurred} {
		s.LineNumber = e.theme.LineNumber
		s.CursorLineNumber = e.theme.PaneTitleFocused
		s.Placeholder = e.theme.Placeholder
		s.Text = e.theme.InputText
	}
	focused.CursorLine = lipgloss.NewStyle().Background(styles.SelectionBg)
	e.area.FocusedStyle = focused
	e.area.BlurredStyle = blurred
}

// Text returns the document.
func (e *Editor) Text() string {
	return e.raw
}

// SetText replaces the document without firing change listeners.
func (e *Editor) SetText(text string) {
	e.raw = text
	e.area.SetValue(text)
}

// OnChange registers a listener for user edits.
func (e *Editor) OnChange(fn func(string)) {
	e.listeners = append(e.listeners, fn)
}

// CursorPosition returns the 1-based cursor line and column.
func (e *Editor) CursorPosition() workspace.Position {
	info := e.area.LineInfo()
	return workspace.Position{
		Line:   e.area.Line() + 1,
		Column: info.StartColumn + info.ColumnOffset + 1,
	}
}

// Chars returns the document length in characters.
func (e *Editor) Chars() int {
	return utf8.RuneCountInString(e.raw)
}

// Focus focuses the textarea.
func (e *Editor) Focus() tea.Cmd {
	return e.area.Focus()
}

// Blur removes focus.
func (e *Editor) Blur() {
	e.area.Blur()
}

// Focused reports focus.
func (e *Editor) Focused() bool {
	return e.area.Focused()
}

// SetSize sets the outer size of the pane, border and title included.
func (e *Editor) SetSize(width, height int) {
	e.width, e.height = width, height
	e.area.SetWidth(max(width-2, 1))
	e.area.SetHeight(max(height-3, 1))
}

// Update forwards input to the textarea while focused and notifies
// listeners when the user changed the document.
func (e *Editor) Update(msg tea.Msg) tea.Cmd {
	if !e.area.Focused() {
		return nil
	}
	before := e.area.Value()
	var cmd tea.Cmd
	e.area, cmd = e.area.Update(msg)
	if after := e.area.Value(); after != before {
		e.raw = after
		for _, fn := range e.listeners {
			fn(after)
		}
	}
	return cmd
}

// View renders the pane.
func (e *Editor) View() string {
	style := e.theme.Pane
	if e.Focused() {
		style = e.theme.PaneFocused
	}
	title := paneTitle(" Code", e.Focused(), e.theme.PaneTitleFocused, e.theme.PaneTitle)
	body := lipgloss.JoinVertical(lipgloss.Left, title, e.area.View())
	if e.width > 0 {
		style = style.Width(max(e.width-2, 1))
	}
	return style.Render(body)
}
