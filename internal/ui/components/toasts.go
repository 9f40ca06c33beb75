// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sitegen-tui/internal/notify"
	"github.com/jeranaias/sitegen-tui/internal/ui/styles"
)

// MaxToastWidth caps the width of one toast.
const MaxToastWidth = 48

// Toasts renders the notification center as a stack, oldest on top.
type Toasts struct {
	theme  *styles.Theme
	center *notify.Center
	width  int
}

// NewToasts creates a stack over center.
func NewToasts(theme *styles.Theme, center *notify.Center) *Toasts {
	return &Toasts{theme: theme, center: center}
}

// SetWidth sets the space available to the stack.
func (t *Toasts) SetWidth(width int) {
	t.width = width
}

// Empty reports whether nothing is shown.
func (t *Toasts) Empty() bool {
	for _, n := range t.center.Active() {
		if n.Phase != notify.Entering {
			return false
		}
	}
	return true
}

// View renders the visible toasts. Entering toasts are not drawn yet and
// leaving ones are dimmed.
func (t *Toasts) View() string {
	width := MaxToastWidth
	if t.width > 0 && t.width < width {
		width = t.width
	}

	var blocks []string
	for _, n := range t.center.Active() {
		if n.Phase == notify.Entering {
			continue
		}
		style := t.theme.ToastStyle(n.Kind).MaxWidth(width)
		text := n.Kind.Icon() + " " + n.Message
		if n.Phase == notify.Leaving {
			style = style.Faint(true)
		}
		blocks = append(blocks, style.Render(text))
	}
	if len(blocks) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Right, blocks...)
}
