// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// init drops colour when stdout is not a terminal or NO_COLOR is set.
func init() {
	if os.Getenv("NO_COLOR") != "" || !IsStdoutTTY() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// TitleStyle is used for command headings.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	// MutedStyle is used for secondary text.
	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	// PromptStyle is the repl prompt.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("135"))

	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)
