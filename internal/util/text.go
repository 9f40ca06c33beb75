// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Ellipsis is appended by the truncation helpers.
const Ellipsis = "..."

// TruncateRunes shortens s to at most maxRunes runes and appends Ellipsis
// when anything was cut. Multi-byte characters are never split.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes]) + Ellipsis
}

// TruncateWidth shortens s to fit maxWidth terminal cells, ellipsis
// included. Wide (CJK, emoji) characters count as two cells.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= len(Ellipsis) {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, Ellipsis)
}

// PadRight pads s with spaces up to width cells.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// CountLines returns the number of lines in s. An empty string is one line.
func CountLines(s string) int {
	return strings.Count(s, "\n") + 1
}
