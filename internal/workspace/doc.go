// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package workspace ties together the three surfaces every operation
// writes to: the code editor, the live preview and the prompt field.
//
// The generation pipeline and the history store both write documents here;
// neither knows whether the surfaces are terminal widgets or in-memory
// buffers. Edits typed into the editor are mirrored into the preview.
package workspace
