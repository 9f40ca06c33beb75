// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/jeranaias/sitegen-tui/internal/config"
)

// RefreshDoneMsg ends the loading indicator of one preview refresh.
type RefreshDoneMsg struct {
	ID int
}

// DownloadDoneMsg reports the outcome of writing the document to disk.
type DownloadDoneMsg struct {
	Path string
	Err  error
}

// BrowserOpenedMsg reports the outcome of opening the document in the
// system browser.
type BrowserOpenedMsg struct {
	Path string
	Err  error
}

// ConfigReloadedMsg carries a config file change picked up by the watcher.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

// configSavedMsg reports a config write after a theme toggle.
type configSavedMsg struct {
	Err error
}
