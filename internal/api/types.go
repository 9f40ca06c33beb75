// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

// GenerateRequest is the JSON body of POST /generate. Code is the editor
// text the new generation should build on; empty starts from scratch.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
	Code   string `json:"code"`
}

// switchResponse is the body of POST /api/sessions/{id}/switch. Only
// session_id is guaranteed; success is nil when the backend omits it.
type switchResponse struct {
	Success   *bool  `json:"success"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// Header names used on every request.
const (
	HeaderCSRF      = "X-CSRFToken"
	HeaderRequestID = "X-Request-ID"
)
