// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notify

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// KINDS
// =============================================================================

// Kind selects the icon and color of a notification.
type Kind int

const (
	Success Kind = iota
	Warning
	Error
	Info
)

// Icon returns the glyph shown before the message.
func (k Kind) Icon() string {
	switch k {
	case Success:
		return "✓"
	case Warning:
		return "⚠"
	case Error:
		return "✗"
	default:
		return "ℹ"
	}
}

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Phase is where a notification is in its lifecycle.
type Phase int

const (
	Entering Phase = iota
	Visible
	Leaving
)

// Default lifecycle timings.
const (
	ShowDelay = 100 * time.Millisecond
	Display   = 3000 * time.Millisecond
	ExitAfter = 300 * time.Millisecond
)

// Notification is one message on screen.
type Notification struct {
	ID        int
	Kind      Kind
	Message   string
	Phase     Phase
	CreatedAt time.Time
}

// =============================================================================
// NOTIFIER
// =============================================================================

// Notifier accepts notifications. The returned command, if any, must be
// handed to the runtime to drive the notification's timers.
type Notifier interface {
	Notify(kind Kind, message string) tea.Cmd
}

// Func adapts a plain function to Notifier.
type Func func(kind Kind, message string)

// Notify calls f and schedules nothing.
func (f Func) Notify(kind Kind, message string) tea.Cmd {
	f(kind, message)
	return nil
}

// Discard drops every notification.
var Discard Notifier = Func(func(Kind, string) {})

// Recorder keeps every notification it receives, in order.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify records the notification.
func (r *Recorder) Notify(kind Kind, message string) tea.Cmd {
	r.mu.Lock()
	r.items = append(r.items, Notification{ID: len(r.items) + 1, Kind: kind, Message: message, Phase: Visible, CreatedAt: time.Now()})
	r.mu.Unlock()
	return nil
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Messages returns just the recorded message texts.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.items))
	for i, n := range r.items {
		out[i] = n.Message
	}
	return out
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// =============================================================================
// CENTER
// =============================================================================

// Lifecycle messages, keyed by notification id.
type (
	ShownMsg   struct{ ID int }
	ExpiredMsg struct{ ID int }
	RemovedMsg struct{ ID int }
)

// Timing holds the lifecycle durations.
type Timing struct {
	ShowDelay time.Duration
	Display   time.Duration
	ExitAfter time.Duration
}

// DefaultTiming returns the standard durations.
func DefaultTiming() Timing {
	return Timing{ShowDelay: ShowDelay, Display: Display, ExitAfter: ExitAfter}
}

// Center holds the notifications currently on screen.
type Center struct {
	mu     sync.Mutex
	items  []*Notification
	nextID int
	timing Timing
}

// NewCenter creates an empty center with the default timing.
func NewCenter() *Center {
	return &Center{timing: DefaultTiming()}
}

// SetTiming replaces the lifecycle durations.
func (c *Center) SetTiming(t Timing) {
	c.mu.Lock()
	c.timing = t
	c.mu.Unlock()
}

// Notify adds a notification in the Entering phase. The expiry timer starts
// here, so Display is measured from creation rather than from ShownMsg.
func (c *Center) Notify(kind Kind, message string) tea.Cmd {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.items = append(c.items, &Notification{
		ID:        id,
		Kind:      kind,
		Message:   message,
		Phase:     Entering,
		CreatedAt: time.Now(),
	})
	timing := c.timing
	c.mu.Unlock()

	return tea.Batch(
		tea.Tick(timing.ShowDelay, func(time.Time) tea.Msg { return ShownMsg{ID: id} }),
		tea.Tick(timing.Display, func(time.Time) tea.Msg { return ExpiredMsg{ID: id} }),
	)
}

// Update advances lifecycles. It reports whether msg belonged to the center.
func (c *Center) Update(msg tea.Msg) (tea.Cmd, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch msg := msg.(type) {
	case ShownMsg:
		// A late ShownMsg must not pull a leaving toast back.
		if n := c.find(msg.ID); n != nil && n.Phase == Entering {
			n.Phase = Visible
		}
		return nil, true

	case ExpiredMsg:
		if n := c.find(msg.ID); n != nil {
			n.Phase = Leaving
			id := n.ID
			return tea.Tick(c.timing.ExitAfter, func(time.Time) tea.Msg { return RemovedMsg{ID: id} }), true
		}
		return nil, true

	case RemovedMsg:
		for i, n := range c.items {
			if n.ID == msg.ID {
				c.items = append(c.items[:i], c.items[i+1:]...)
				break
			}
		}
		return nil, true
	}
	return nil, false
}

func (c *Center) find(id int) *Notification {
	for _, n := range c.items {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Active returns the notifications on screen, oldest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.items))
	for i, n := range c.items {
		out[i] = *n
	}
	return out
}

// Len returns the number of notifications on screen.
func (c *Center) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
