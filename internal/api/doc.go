// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the site generator backend.
//
// The backend keeps the active chat session in a cookie, so a Client owns a
// cookie jar and every request made through it shares that session. POSTs
// carry the CSRF token in the X-CSRFToken header; Connect fetches the index
// page once to establish the session cookie and scrape the token from its
// <meta name="csrf-token"> tag.
//
// # Endpoints
//
//   - POST /generate: streamed plain-text HTML (see Stream)
//   - POST /new_chat: start a fresh server-side session
//   - GET  /api/sessions: list sessions
//   - GET  /api/sessions/{id}: session detail with versions
//   - POST /api/sessions/{id}/switch: make a session active
//   - GET  /api/versions/{id}: full HTML of one version
//   - GET  /api/versions: versions of the active session
//
// History GETs are paced by a token-bucket limiter. Generation streams have
// no overall timeout; everything else uses Config.Timeout.
//
// # Errors
//
// Every failure is a *ClientError whose Kind tells connection problems,
// non-success statuses, missing bodies, undecodable payloads and broken
// streams apart.
package api
