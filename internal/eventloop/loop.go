// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package eventloop

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Handler consumes a message and may return a follow-up command.
type Handler func(msg tea.Msg) tea.Cmd

// ErrStepLimit is returned when a run exceeds its step budget.
var ErrStepLimit = errors.New("eventloop: step limit reached")

// Loop is a serial command pump.
type Loop struct {
	handler Handler
	queue   []tea.Cmd

	// MaxSteps bounds a run; zero means unbounded.
	MaxSteps int
	steps    int
}

// New creates a loop delivering messages to h.
func New(h Handler) *Loop {
	return &Loop{handler: h}
}

// Enqueue schedules commands for the next Run.
func (l *Loop) Enqueue(cmds ...tea.Cmd) {
	for _, c := range cmds {
		if c != nil {
			l.queue = append(l.queue, c)
		}
	}
}

// Run executes queued commands until none remain. Batches are expanded in
// order; nil commands and nil messages are skipped. tea.Quit ends the run.
func (l *Loop) Run(cmds ...tea.Cmd) error {
	l.Enqueue(cmds...)
	for len(l.queue) > 0 {
		if l.MaxSteps > 0 && l.steps >= l.MaxSteps {
			return ErrStepLimit
		}
		l.steps++

		cmd := l.queue[0]
		l.queue = l.queue[1:]

		switch msg := cmd().(type) {
		case nil:
		case tea.BatchMsg:
			l.Enqueue(msg...)
		case tea.QuitMsg:
			l.queue = nil
			return nil
		default:
			l.Enqueue(l.handler(msg))
		}
	}
	return nil
}

// Steps returns how many commands have executed.
func (l *Loop) Steps() int {
	return l.steps
}

// Run is a one-shot helper around New(h).Run(cmds...).
func Run(h Handler, cmds ...tea.Cmd) error {
	return New(h).Run(cmds...)
}
