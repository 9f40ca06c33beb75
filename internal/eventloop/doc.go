// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package eventloop runs Bubble Tea commands without a terminal.
//
// The interactive program hands commands to the Bubble Tea runtime. The
// line-oriented CLI commands and the tests drive the same state machines
// through Run instead: commands execute one at a time, their messages go
// to a single handler, and every mutation happens on the calling goroutine.
package eventloop
