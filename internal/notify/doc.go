// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify implements transient notifications.
//
// A notification enters after a short delay, stays visible for a fixed
// time, then leaves and is removed. Any number may be on screen at once;
// identical messages are not merged and nothing dismisses one early.
// Timing is driven by Bubble Tea tick commands so the UI never blocks.
package notify
