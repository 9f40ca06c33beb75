// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sitegen-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar shows the generation status, the editor cursor line, the
// document length and key hints.
type StatusBar struct {
	theme  *styles.Theme
	spin   spinner.Model
	help   help.Model
	status string
	busy   bool
	line   int
	chars  int
	width  int
	hints  []key.Binding
}

// NewStatusBar creates a status bar showing "Ready".
func NewStatusBar(theme *styles.Theme) *StatusBar {
	s := &StatusBar{
		theme:  theme,
		spin:   spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		help:   help.New(),
		status: "Ready",
		line:   1,
	}
	s.ApplyTheme()
	return s
}

// ApplyTheme restyles the spinner and hints.
func (s *StatusBar) ApplyTheme() {
	s.spin.Style = s.theme.Spinner
	s.help.Styles.ShortKey = s.theme.ShortcutKey
	s.help.Styles.ShortDesc = s.theme.ShortcutDesc
	s.help.Styles.ShortSeparator = s.theme.ShortcutDesc
}

// SetStatus sets the status text. busy shows the spinner; the returned
// command starts it when it was idle.
func (s *StatusBar) SetStatus(status string, busy bool) tea.Cmd {
	wasBusy := s.busy
	s.status = status
	s.busy = busy
	if busy && !wasBusy {
		return s.spin.Tick
	}
	return nil
}

// Status returns the status text.
func (s *StatusBar) Status() string { return s.status }

// Busy reports whether the spinner runs.
func (s *StatusBar) Busy() bool { return s.busy }

// SetLine sets the editor cursor line.
func (s *StatusBar) SetLine(line int) { s.line = line }

// SetChars sets the document length.
func (s *StatusBar) SetChars(chars int) { s.chars = chars }

// SetWidth sets the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
	s.help.Width = width / 2
}

// SetHints sets the key hints shown on the right.
func (s *StatusBar) SetHints(hints []key.Binding) { s.hints = hints }

// Update advances the spinner. Ticks stop once the bar is idle.
func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(spinner.TickMsg)
	if !ok || !s.busy {
		return nil
	}
	var cmd tea.Cmd
	s.spin, cmd = s.spin.Update(tick)
	return cmd
}

// Info returns the cursor and length text.
func (s *StatusBar) Info() string {
	return fmt.Sprintf("Line %d · %s chars", s.line, fmtNumber(s.chars))
}

// View renders the bar.
func (s *StatusBar) View() string {
	var status string
	if s.busy {
		status = s.spin.View() + " " + s.theme.StatusBusy.Render(s.status)
	} else {
		status = s.theme.StatusReady.Render(s.status)
	}
	left := status + "  " + s.theme.StatusItem.Render(s.Info())

	right := ""
	if len(s.hints) > 0 {
		right = s.help.ShortHelpView(s.hints)
	}

	inner := s.width - 2
	if inner <= 0 {
		return s.theme.StatusBar.Render(left)
	}
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		right = ""
		gap = max(inner-lipgloss.Width(left), 0)
	}
	return s.theme.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}
