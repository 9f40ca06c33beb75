// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import "sync"

// Position is a 1-based cursor location.
type Position struct {
	Line   int
	Column int
}

// Editor is the code editing surface.
type Editor interface {
	Text() string
	// SetText replaces the content. It does not fire change listeners.
	SetText(text string)
	// OnChange registers a listener for user edits.
	OnChange(func(text string))
	CursorPosition() Position
}

// Preview renders an HTML document.
type Preview interface {
	SetContent(doc string)
	Content() string
}

// PromptField is the text the user submits for generation.
type PromptField interface {
	Value() string
	SetValue(text string)
}

// Workspace groups the editor, preview and prompt.
type Workspace struct {
	Editor  Editor
	Preview Preview
	Prompt  PromptField
}

// New wires the surfaces and mirrors user edits into the preview.
func New(editor Editor, preview Preview, prompt PromptField) *Workspace {
	ws := &Workspace{Editor: editor, Preview: preview, Prompt: prompt}
	editor.OnChange(func(text string) {
		preview.SetContent(text)
	})
	return ws
}

// NewInMemory returns a workspace backed by plain buffers.
func NewInMemory() *Workspace {
	return New(NewBuffer(), &PreviewBuffer{}, &PromptBuffer{})
}

// SetDocument writes the same document to the editor and the preview.
func (w *Workspace) SetDocument(doc string) {
	w.Editor.SetText(doc)
	w.Preview.SetContent(doc)
}

// SetDocuments writes different text to each surface, used for errors.
func (w *Workspace) SetDocuments(editorText, previewDoc string) {
	w.Editor.SetText(editorText)
	w.Preview.SetContent(previewDoc)
}

// Document returns the editor text.
func (w *Workspace) Document() string {
	return w.Editor.Text()
}

// Clear empties the editor and the preview.
func (w *Workspace) Clear() {
	w.SetDocument("")
}

// Reset clears everything, prompt included.
func (w *Workspace) Reset() {
	w.Clear()
	w.Prompt.SetValue("")
}

// RefreshPreview re-projects the editor text into the preview.
func (w *Workspace) RefreshPreview() {
	w.Preview.SetContent(w.Editor.Text())
}

// =============================================================================
// IN-MEMORY SURFACES
// =============================================================================

// Buffer is an Editor without a terminal.
type Buffer struct {
	mu        sync.Mutex
	text      string
	listeners []func(string)
}

// NewBuffer returns an empty editor buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

func (b *Buffer) SetText(text string) {
	b.mu.Lock()
	b.text = text
	b.mu.Unlock()
}

func (b *Buffer) OnChange(fn func(string)) {
	b.mu.Lock()
	b.listeners = append(b.listeners, fn)
	b.mu.Unlock()
}

// Type simulates a user edit: it replaces the text and notifies listeners.
func (b *Buffer) Type(text string) {
	b.mu.Lock()
	b.text = text
	listeners := append([]func(string){}, b.listeners...)
	b.mu.Unlock()
	for _, fn := range listeners {
		fn(text)
	}
}

// CursorPosition reports the end of the text.
func (b *Buffer) CursorPosition() Position {
	b.mu.Lock()
	defer b.mu.Unlock()
	line, col := 1, 1
	for _, r := range b.text {
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return Position{Line: line, Column: col}
}

// PreviewBuffer records the last document it was given.
type PreviewBuffer struct {
	mu      sync.Mutex
	content string
	writes  int
}

func (p *PreviewBuffer) SetContent(doc string) {
	p.mu.Lock()
	p.content = doc
	p.writes++
	p.mu.Unlock()
}

func (p *PreviewBuffer) Content() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.content
}

// Writes counts SetContent calls.
func (p *PreviewBuffer) Writes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writes
}

// PromptBuffer is a PromptField without a terminal.
type PromptBuffer struct {
	mu    sync.Mutex
	value string
}

func (p *PromptBuffer) Value() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

func (p *PromptBuffer) SetValue(text string) {
	p.mu.Lock()
	p.value = text
	p.mu.Unlock()
}
