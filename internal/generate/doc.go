// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package generate implements the generation pipeline.
//
// A Pipeline turns the prompt field into a streamed HTML document:
//
//	Idle --Submit--> Submitting --StreamOpenedMsg--> Streaming --StreamDoneMsg--> Idle
//	                      \                               \
//	                       +------StreamFailedMsg----------+--> Idle
//
// At most one generation runs at a time. While it streams, every chunk
// rewrites the editor and the preview with everything received so far, so
// both always show the same prefix of the document. Exactly one chunk read
// is outstanding at any moment, which keeps chunks in arrival order.
//
// The pipeline is a plain state machine: Submit and Update return
// Bubble Tea commands and never block. The TUI feeds it through the
// Bubble Tea runtime; headless callers use the eventloop package.
package generate
