// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

// TreeChars draw the session/version tree.
var TreeChars = struct {
	Tee    string
	Corner string
	Dash   string
}{
	Tee:    "├",
	Corner: "└",
	Dash:   "─",
}

// Disclosure markers for sessions.
const (
	Collapsed = "▸"
	Expanded  = "▾"
)

// RenderTreeLine returns the prefix for a version row.
func RenderTreeLine(isLast bool) string {
	if isLast {
		return TreeChars.Corner + TreeChars.Dash + " "
	}
	return TreeChars.Tee + TreeChars.Dash + " "
}

// Disclosure returns the marker for a session row.
func Disclosure(expanded bool) string {
	if expanded {
		return Expanded
	}
	return Collapsed
}
