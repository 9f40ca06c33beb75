// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures exchanged with the site
// generator backend.
//
// # Key Types
//
//   - Session: One chat lineage with its counts and timestamps
//   - SessionDetail: A session plus its versions and chat messages
//   - Version: A saved generation (id, prompt, creation time)
//   - VersionContent: The full HTML document of a version
//   - Timestamp: Backend ISO-8601 times, zone-less values read as UTC
//
// Display helpers (Title, Meta, Label, ShortPrompt) produce the strings the
// history views and the CLI show, so both surfaces agree.
package model
