// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sitegen-tui/internal/preview"
	"github.com/jeranaias/sitegen-tui/internal/ui/styles"
)

// PreviewPlaceholder is shown while there is no document.
const PreviewPlaceholder = "Your generated site will appear here."

// PreviewPane shows the current document. The document is rendered into
// text, never executed.
type PreviewPane struct {
	theme    *styles.Theme
	view     viewport.Model
	renderer *preview.Renderer
	doc      string
	mode     preview.Mode
	loading  bool
	focused  bool
	width    int
	height   int
}

// NewPreviewPane creates an empty pane in rendered mode.
func NewPreviewPane(theme *styles.Theme) *PreviewPane {
	p := &PreviewPane{
		theme:    theme,
		view:     viewport.New(0, 0),
		renderer: preview.NewRenderer(),
	}
	p.ApplyTheme()
	return p
}

// ApplyTheme restyles headings and re-renders.
func (p *PreviewPane) ApplyTheme() {
	p.renderer.Styles = preview.Styles{
		Title:   p.theme.HeaderTitle,
		Heading: p.theme.SessionTitle,
		Link:    p.theme.HeaderSubtitle.Underline(true),
		Muted:   p.theme.LineNumber,
	}
	p.refresh()
}

// SetContent replaces the document and re-renders it.
func (p *PreviewPane) SetContent(doc string) {
	p.doc = doc
	p.refresh()
}

// Content returns the document as last written.
func (p *PreviewPane) Content() string {
	return p.doc
}

// Mode returns the display mode.
func (p *PreviewPane) Mode() preview.Mode {
	return p.mode
}

// SetMode switches between rendered text and highlighted source.
func (p *PreviewPane) SetMode(mode preview.Mode) {
	p.mode = mode
	p.refresh()
}

// SetLoading shows or hides the loading indicator.
func (p *PreviewPane) SetLoading(loading bool) {
	p.loading = loading
}

// Loading reports whether the loading indicator is shown.
func (p *PreviewPane) Loading() bool {
	return p.loading
}

// Focus gives the pane scroll keys.
func (p *PreviewPane) Focus() { p.focused = true }

// Blur releases the scroll keys.
func (p *PreviewPane) Blur() { p.focused = false }

// Focused reports focus.
func (p *PreviewPane) Focused() bool { return p.focused }

// SetSize sets the outer size of the pane, border and title included.
func (p *PreviewPane) SetSize(width, height int) {
	p.width, p.height = width, height
	p.view.Width = max(width-2, 1)
	p.view.Height = max(height-3, 1)
	p.renderer.SetWidth(p.view.Width)
	p.refresh()
}

// Rendered returns the text the viewport holds.
func (p *PreviewPane) Rendered() string {
	if p.doc == "" {
		return p.theme.Placeholder.Render(PreviewPlaceholder)
	}
	return p.renderer.Render(p.doc, p.mode)
}

func (p *PreviewPane) refresh() {
	follow := p.view.AtBottom()
	p.view.SetContent(p.Rendered())
	if follow && p.loading {
		p.view.GotoBottom()
	}
}

// Update scrolls the viewport while focused.
func (p *PreviewPane) Update(msg tea.Msg) tea.Cmd {
	if !p.focused {
		return nil
	}
	var cmd tea.Cmd
	p.view, cmd = p.view.Update(msg)
	return cmd
}

// View renders the pane.
func (p *PreviewPane) View() string {
	style := p.theme.Pane
	if p.focused {
		style = p.theme.PaneFocused
	}
	title := paneTitle(" Preview ("+p.mode.String()+")", p.focused, p.theme.PaneTitleFocused, p.theme.PaneTitle)
	if p.loading {
		title += " " + p.theme.Loading.Render("Loading...")
	}
	body := lipgloss.JoinVertical(lipgloss.Left, title, p.view.View())
	if p.width > 0 {
		style = style.Width(max(p.width-2, 1))
	}
	return style.Render(body)
}
