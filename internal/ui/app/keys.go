// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/sitegen-tui/internal/ui/components"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the global bindings of the TUI.
type KeyMap struct {
	Submit      key.Binding
	Generate    key.Binding
	NewChat     key.Binding
	History     key.Binding
	Refresh     key.Binding
	Download    key.Binding
	Theme       key.Binding
	PreviewMode key.Binding
	Browser     key.Binding
	NextFocus   key.Binding
	PrevFocus   key.Binding
	Close       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "generate (prompt)"),
		),
		Generate: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("C-g", "generate"),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "new chat"),
		),
		History: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "history"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "refresh preview"),
		),
		Download: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "download"),
		),
		Theme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "toggle theme"),
		),
		PreviewMode: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("C-p", "preview mode"),
		),
		Browser: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("C-b", "open in browser"),
		),
		NextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pane"),
		),
		PrevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "previous pane"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// =============================================================================
// HELP TEXT
// =============================================================================

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Generate, k.NewChat, k.History, k.Help}
}

// FullHelp returns every binding grouped by column.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Generate, k.NewChat, k.Refresh, k.Download},
		{k.History, k.PreviewMode, k.Browser, k.Theme},
		{k.NextFocus, k.PrevFocus, k.Close, k.Help, k.Quit},
	}
}

// HelpSections groups the bindings for the help overlay.
func (k KeyMap) HelpSections(sidebar components.SidebarKeys) []components.HelpSection {
	full := k.FullHelp()
	return []components.HelpSection{
		{Title: "Generate", Bindings: full[0]},
		{Title: "View", Bindings: full[1]},
		{Title: "Navigation", Bindings: full[2]},
		{Title: "History", Bindings: []key.Binding{sidebar.Up, sidebar.Down, sidebar.Activate, sidebar.Search, sidebar.Done}},
	}
}
