// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package preview renders a generated HTML document for a terminal pane.
//
// A document is never executed. The rendered mode runs it through a
// bluemonday UGC policy, which drops scripts, styles and event handlers,
// and then flattens the remaining markup into wrapped text with headings,
// bullets and image placeholders. The source mode shows the raw markup
// highlighted by chroma.
//
// Rendering is pure: the same document, width and mode always produce the
// same text, so the pane can re-render on every chunk of a stream.
package preview
