// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
)

// =============================================================================
// SESSION
// =============================================================================

// Session is one entry of GET /api/sessions.
type Session struct {
	ID           string    `json:"id"`
	CreatedAt    Timestamp `json:"created_at"`
	UpdatedAt    Timestamp `json:"updated_at"`
	MessageCount int       `json:"message_count"`
	VersionCount int       `json:"version_count"`
}

// Title is the label shown for a session row.
func (s Session) Title() string {
	return "Session - " + s.CreatedAt.Display()
}

// Meta is the secondary line shown under the title. The filter matches
// against it, so the wording is fixed.
func (s Session) Meta() string {
	return fmt.Sprintf("%d versions", s.VersionCount)
}

// ShortID returns the first 8 characters of the session id.
func (s Session) ShortID() string {
	if len(s.ID) <= 8 {
		return s.ID
	}
	return s.ID[:8]
}

// SessionDetail is the body of GET /api/sessions/{id}.
type SessionDetail struct {
	Session
	Versions []Version    `json:"versions"`
	Messages []ChatRecord `json:"messages"`
}

// ChatRecord is one stored chat turn. The backend serialises them as
// {"type": "human"|"ai"|"system", "data": {"content": "..."}}.
type ChatRecord struct {
	Type string `json:"type"`
	Data struct {
		Content string `json:"content"`
	} `json:"data"`
}

// Role maps the record type to a display role.
func (r ChatRecord) Role() string {
	switch strings.ToLower(r.Type) {
	case "human":
		return "user"
	case "ai":
		return "assistant"
	default:
		return r.Type
	}
}

// Content returns the text of the turn.
func (r ChatRecord) Content() string {
	return r.Data.Content
}
