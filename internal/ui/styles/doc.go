// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the sitegen TUI.

All colours are Lip Gloss AdaptiveColors. Which half of each pair is used
is decided by the theme, not by terminal detection: the user picks dark or
light and the choice is persisted in the config file.

# Color System (colors.go)

  - Purple - primary accent, focused pane borders, selections
  - Cyan - brand colour, prompt marker, keys in the help bar
  - Emerald - success toasts, ready status
  - Amber - warnings, character counter warning band
  - Rose - errors, counter danger band

Surface and text colours are layered the same way in both themes:
Surface, SurfaceDim, Overlay and TextPrimary, TextSecondary, TextMuted.

# Theme System (theme.go)

	theme := styles.NewTheme(styles.ThemeDark)
	theme.SetSize(width, height)
	if theme.Layout() == styles.LayoutNarrow {
		// stack panes, sidebar takes the whole screen
	}

# Glyphs (glyphs.go)

Tree connectors and disclosure markers used by the history sidebar.
*/
package styles
