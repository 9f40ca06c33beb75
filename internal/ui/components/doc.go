// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the panes of the sitegen TUI.

Each component wraps a Bubbles model, takes a *styles.Theme, and exposes
SetSize/Update/View. None of them issue requests: the app model owns the
generation pipeline and the history store and hands components the state
to draw.

# Panes

  - Editor (editor.go) - textarea holding the generated document. Satisfies
    workspace.Editor; only user edits fire change listeners.
  - PreviewPane (preview_pane.go) - viewport showing the document through
    the preview renderer. Satisfies workspace.Preview.
  - Prompt (prompt.go) - single-line prompt with a character counter.
    Satisfies workspace.PromptField.
  - StatusBar (statusbar.go) - status text, spinner, cursor line, character
    count and key hints.
  - HistorySidebar (sidebar.go) - session/version tree over history.Store
    with a search box.
  - Toasts (toasts.go) - the notification stack.
  - Help (help.go) - key reference rendered with glamour.

# Usage

	theme := styles.NewTheme(styles.ThemeDark)
	editor := components.NewEditor(theme)
	pane := components.NewPreviewPane(theme)
	prompt := components.NewPrompt(theme, 1000)
	ws := workspace.New(editor, pane, prompt)
*/
package components
