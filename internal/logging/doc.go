// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging wraps a process-wide zerolog logger.
//
// The full-screen UI owns the terminal, so logs go to ~/.sitegen/sitegen.log
// as JSON lines by default. Console mode writes human-readable lines to
// stderr and is meant for the line-oriented commands.
//
// Until Init is called every event is discarded.
package logging
