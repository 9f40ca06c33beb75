// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"

	"github.com/jeranaias/sitegen-tui/internal/util"
)

// ShortPromptRunes is where ShortPrompt cuts long prompts.
const ShortPromptRunes = 100

// Version is a saved generation as listed by the backend. SessionID is
// filled in by the client from the session the list came from.
type Version struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id,omitempty"`
	Prompt    string    `json:"prompt"`
	CreatedAt Timestamp `json:"created_at"`
}

// Label is the creation time in local time, with seconds.
func (v Version) Label() string {
	if v.CreatedAt.IsZero() {
		return fmt.Sprintf("Version %d", v.ID)
	}
	return v.CreatedAt.Local().Format("2006-01-02 15:04:05")
}

// ShortPrompt truncates the prompt for list rows.
func (v Version) ShortPrompt() string {
	return util.TruncateRunes(v.Prompt, ShortPromptRunes)
}

// VersionContent is the body of GET /api/versions/{id}.
type VersionContent struct {
	ID          int64  `json:"id"`
	HTMLContent string `json:"html_content"`
	Prompt      string `json:"prompt"`
}
