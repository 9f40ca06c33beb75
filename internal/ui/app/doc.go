// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app provides the root Bubble Tea model of the sitegen TUI.
//
// The model owns the shared workspace (editor, preview, prompt) and wires
// it to the generation pipeline, the history store and the notification
// center. Every key press and I/O completion arrives as one tea.Msg and is
// handled to completion before the next; network calls and timers run as
// tea.Cmd values.
//
// # Layout
//
// Wide terminals show the editor and the preview side by side, with the
// history sidebar on the left while it is open. Narrow terminals stack the
// editor over the preview and give the whole body to the sidebar.
//
// # Usage
//
//	m := app.New(app.Options{
//	    Config:    cfg,
//	    Generator: generate.ClientBackend{Client: client},
//	    History:   client,
//	})
//	p := tea.NewProgram(m, tea.WithAltScreen())
//	_, err := p.Run()
package app
