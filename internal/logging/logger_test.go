// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":    zerolog.DebugLevel,
		"INFO":     zerolog.InfoLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"disabled": zerolog.Disabled,
		"bogus":    zerolog.InfoLevel,
		"":         zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestSetOutput_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "warn")
	t.Cleanup(func() { Close() })

	Info().Msg("hidden")
	Warn().Str("endpoint", "/generate").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "/generate", entry["endpoint"])
	assert.Equal(t, "warn", entry["level"])
}

func TestSetLevel_Runtime(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "info")
	t.Cleanup(func() { Close() })

	Debug().Msg("before")
	SetLevel("debug")
	Debug().Msg("after")

	assert.NotContains(t, buf.String(), "before")
	assert.Contains(t, buf.String(), "after")
}

func TestWith_AddsComponent(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "info")
	t.Cleanup(func() { Close() })

	l := With("history")
	l.Info().Msg("opened")
	assert.Contains(t, buf.String(), `"component":"history"`)
}

func TestInit_WritesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(Options{Level: "info", Dir: dir}))

	Info().Msg("to disk")
	require.NoError(t, Close())

	data, err := os.ReadFile(filepath.Join(dir, DefaultFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "to disk")
}

func TestNopBeforeInit(t *testing.T) {
	require.NoError(t, Close())
	// Must not panic or write anywhere.
	Error().Msg("discarded")
}
