// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util holds small helpers shared by the sitegen packages: atomic
// file writes for downloads and config saves, and width-aware text
// truncation for the terminal views.
package util
