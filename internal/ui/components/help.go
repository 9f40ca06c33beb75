// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/sitegen-tui/internal/ui/styles"
)

// HelpSection is a titled group of bindings.
type HelpSection struct {
	Title    string
	Bindings []key.Binding
}

// Help is the key reference overlay. Its content is markdown rendered by
// glamour in the theme's style.
type Help struct {
	theme    *styles.Theme
	sections []HelpSection
	width    int
	// Style overrides the glamour style. Empty follows the theme.
	Style string
}

// NewHelp creates the overlay.
func NewHelp(theme *styles.Theme, sections []HelpSection) *Help {
	return &Help{theme: theme, sections: sections}
}

// SetWidth sets the overlay width.
func (h *Help) SetWidth(width int) {
	h.width = width
}

// Markdown returns the help text as markdown.
func (h *Help) Markdown() string {
	var b strings.Builder
	b.WriteString("# Keyboard shortcuts\n")
	for _, s := range h.sections {
		b.WriteString("\n## " + s.Title + "\n\n")
		for _, k := range s.Bindings {
			if !k.Enabled() {
				continue
			}
			help := k.Help()
			b.WriteString("- `" + help.Key + "` " + help.Desc + "\n")
		}
	}
	b.WriteString("\nPress `esc` or `f1` to close.\n")
	return b.String()
}

// View renders the overlay. It falls back to the raw markdown when glamour
// fails.
func (h *Help) View() string {
	style := h.Style
	if style == "" {
		style = h.theme.Name
	}
	wrap := h.width - 6
	if wrap < 20 {
		wrap = 60
	}

	md := h.Markdown()
	out := md
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err == nil {
		if rendered, err := r.Render(md); err == nil {
			out = strings.Trim(rendered, "\n")
		}
	}
	return h.theme.HelpBox.Render(out)
}
