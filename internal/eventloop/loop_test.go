// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package eventloop

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countMsg int

func emit(n int) tea.Cmd {
	return func() tea.Msg { return countMsg(n) }
}

func TestRun_ChainsFollowUps(t *testing.T) {
	var seen []int
	h := func(msg tea.Msg) tea.Cmd {
		n := int(msg.(countMsg))
		seen = append(seen, n)
		if n < 3 {
			return emit(n + 1)
		}
		return nil
	}

	require.NoError(t, Run(h, emit(1)))
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestRun_ExpandsBatchesInOrder(t *testing.T) {
	var seen []int
	h := func(msg tea.Msg) tea.Cmd {
		seen = append(seen, int(msg.(countMsg)))
		return nil
	}

	require.NoError(t, Run(h, tea.Batch(emit(1), nil, emit(2)), emit(3)))
	// Batch members queue behind commands already waiting.
	assert.Equal(t, []int{3, 1, 2}, seen)
}

func TestRun_SkipsNilMessages(t *testing.T) {
	calls := 0
	h := func(tea.Msg) tea.Cmd { calls++; return nil }

	require.NoError(t, Run(h, func() tea.Msg { return nil }, nil))
	assert.Zero(t, calls)
}

func TestRun_QuitStops(t *testing.T) {
	calls := 0
	h := func(tea.Msg) tea.Cmd { calls++; return nil }

	require.NoError(t, Run(h, tea.Quit, emit(1)))
	assert.Zero(t, calls)
}

func TestRun_StepLimit(t *testing.T) {
	forever := func(msg tea.Msg) tea.Cmd { return emit(0) }

	l := New(forever)
	l.MaxSteps = 10
	assert.ErrorIs(t, l.Run(emit(0)), ErrStepLimit)
	assert.Equal(t, 10, l.Steps())
}
