// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli defines the cobra command tree of the sitegen binary.
//
// Running sitegen without a subcommand starts the TUI. The headless
// commands drive the same generation pipeline and history store through
// the serial event loop, so they behave exactly like the TUI does:
//
//	sitegen                              Start the TUI
//	sitegen generate "a bakery"          Stream a document to stdout
//	sitegen generate -o index.html ...   Write it to a file instead
//	sitegen repl                         Refine one document prompt by prompt
//	sitegen sessions --versions          List sessions and their versions
//	sitegen show 12                      Print the HTML of version 12
//	sitegen config set ui.theme light    Edit the config file
//	sitegen version                      Print the version
//
// Global flags (--config, --base-url, --csrf-token, --log-level) override
// the config file and the SITEGEN_* environment.
package cli
