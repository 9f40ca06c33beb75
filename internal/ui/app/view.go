// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/jeranaias/sitegen-tui/internal/preview"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the whole screen: header, body, prompt and status bar, with
// toasts drawn over the bottom-right corner.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.help.View())
	}

	base := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderBody(),
		m.prompt.View(),
		m.status.View(),
	)

	if m.toasts.Empty() {
		return base
	}
	return overlayToasts(base, m.toasts.View(), m.width, m.height)
}

func (m *Model) renderHeader() string {
	subtitle := "AI site generator"
	if title := preview.Title(m.ws.Document()); title != "" {
		subtitle = title
	}
	text := m.theme.HeaderTitle.Render("sitegen") + "  " + m.theme.HeaderSubtitle.Render(subtitle)
	return m.theme.Header.Width(m.width).MaxHeight(1).Render(text)
}

func (m *Model) renderBody() string {
	open := m.store.IsOpen()

	if m.theme.IsNarrow() {
		if open {
			return m.sidebar.View()
		}
		return lipgloss.JoinVertical(lipgloss.Left, m.editor.View(), m.preview.View())
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top, m.editor.View(), m.preview.View())
	if open {
		return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), panes)
	}
	return panes
}

// =============================================================================
// TOAST OVERLAY
// =============================================================================

// overlayToasts draws toastView over the bottom-right corner of baseView,
// one row above the status bar.
func overlayToasts(baseView, toastView string, width, height int) string {
	baseLines := strings.Split(baseView, "\n")
	toastLines := strings.Split(toastView, "\n")

	startRow := height - len(toastLines) - 2
	if startRow < 0 {
		startRow = 0
	}

	for i := range baseLines {
		idx := i - startRow
		if idx < 0 || idx >= len(toastLines) {
			continue
		}
		toastLine := toastLines[idx]
		toastWidth := lipgloss.Width(toastLine)
		if toastWidth == 0 {
			continue
		}

		cut := width - toastWidth - 1
		if cut < 0 {
			cut = 0
		}
		line := baseLines[i]
		if w := lipgloss.Width(line); w > cut {
			line = truncate.String(line, uint(cut))
		}
		if w := lipgloss.Width(line); w < cut {
			line += strings.Repeat(" ", cut-w)
		}
		baseLines[i] = line + " " + toastLine
	}
	return strings.Join(baseLines, "\n")
}
