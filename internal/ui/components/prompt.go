// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sitegen-tui/internal/ui/styles"
)

// PromptPlaceholder is shown while the prompt is empty.
const PromptPlaceholder = "Describe the website you want to create..."

// CounterLevel is the colour band of the character counter.
type CounterLevel int

const (
	CounterNormal CounterLevel = iota
	CounterWarning
	CounterDanger
)

// CounterLevelFor returns the band for count characters out of limit.
// With the default limit of 1000 the bands start above 900 and 950.
func CounterLevelFor(count, limit int) CounterLevel {
	if limit <= 0 {
		return CounterNormal
	}
	switch {
	case count > limit*95/100:
		return CounterDanger
	case count > limit*90/100:
		return CounterWarning
	}
	return CounterNormal
}

// Prompt is the single-line prompt field with a character counter.
type Prompt struct {
	theme *styles.Theme
	input textinput.Model
	limit int
	width int
}

// NewPrompt creates a prompt limited to limit characters. Zero is unlimited.
func NewPrompt(theme *styles.Theme, limit int) *Prompt {
	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = PromptPlaceholder
	input.CharLimit = limit

	p := &Prompt{theme: theme, input: input, limit: limit}
	p.ApplyTheme()
	return p
}

// ApplyTheme copies the theme's styles into the input.
func (p *Prompt) ApplyTheme() {
	p.input.PromptStyle = p.theme.InputPrompt
	p.input.TextStyle = p.theme.InputText
	p.input.PlaceholderStyle = p.theme.InputPlaceholder
}

// Value returns the prompt text.
func (p *Prompt) Value() string {
	return p.input.Value()
}

// SetValue replaces the prompt text.
func (p *Prompt) SetValue(text string) {
	p.input.SetValue(text)
	p.input.CursorEnd()
}

// Count returns the prompt length in characters.
func (p *Prompt) Count() int {
	return utf8.RuneCountInString(p.input.Value())
}

// Level returns the counter band.
func (p *Prompt) Level() CounterLevel {
	return CounterLevelFor(p.Count(), p.limit)
}

// Focus focuses the input.
func (p *Prompt) Focus() tea.Cmd {
	return p.input.Focus()
}

// Blur removes focus.
func (p *Prompt) Blur() {
	p.input.Blur()
}

// Focused reports focus.
func (p *Prompt) Focused() bool {
	return p.input.Focused()
}

// SetWidth sets the total width, counter included.
func (p *Prompt) SetWidth(width int) {
	p.width = width
	p.input.Width = max(width-lipgloss.Width(p.counterText())-4, 1)
}

// Update forwards input while focused.
func (p *Prompt) Update(msg tea.Msg) tea.Cmd {
	if !p.input.Focused() {
		return nil
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *Prompt) counterText() string {
	if p.limit <= 0 {
		return fmt.Sprintf("%d", p.Count())
	}
	return fmt.Sprintf("%d/%d", p.Count(), p.limit)
}

// CounterView renders the character counter in its band colour.
func (p *Prompt) CounterView() string {
	style := p.theme.CharCount
	switch p.Level() {
	case CounterWarning:
		style = p.theme.CharCountWarning
	case CounterDanger:
		style = p.theme.CharCountDanger
	}
	return style.Render(p.counterText())
}

// View renders the input with the counter right-aligned.
func (p *Prompt) View() string {
	left := p.input.View()
	right := p.CounterView()
	gap := p.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
