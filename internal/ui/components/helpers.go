// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sitegen-tui/internal/util"
)

// fmtNumber formats a number with thousand separators.
func fmtNumber(n int) string {
	if n < 0 {
		return "-" + fmtNumber(-n)
	}
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

// fit truncates a single line to width display columns.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return util.TruncateWidth(s, width)
}

// paneTitle renders a pane heading with the focused or blurred style.
func paneTitle(title string, focused bool, focusedStyle, blurredStyle lipgloss.Style) string {
	if focused {
		return focusedStyle.Render(title)
	}
	return blurredStyle.Render(title)
}

// clamp bounds v to [low, high].
func clamp(v, low, high int) int {
	if high < low {
		return low
	}
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
