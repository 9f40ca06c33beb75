// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history implements the session history browser state.
//
// The Store caches two levels: the session list, fetched every time the
// history surface opens, and each session's versions, fetched the first
// time that session is expanded. Opening or closing the surface starts a
// new epoch; responses from an older epoch are dropped.
//
// Selecting a version first makes its session active on the backend and
// then loads the version's document into the workspace.
//
// Filtering is computed on demand from the cached state and never fetches.
package history
