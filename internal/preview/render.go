// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package preview

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/microcosm-cc/bluemonday"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// =============================================================================
// MODE
// =============================================================================

// Mode selects how a document is shown.
type Mode int

const (
	// ModeRendered shows the document as formatted text.
	ModeRendered Mode = iota
	// ModeSource shows the highlighted markup.
	ModeSource
)

// String returns the config spelling of the mode.
func (m Mode) String() string {
	if m == ModeSource {
		return "source"
	}
	return "rendered"
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeSource {
		return ModeRendered
	}
	return ModeSource
}

// ParseMode parses "rendered" or "source". Empty means rendered.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rendered":
		return ModeRendered, nil
	case "source":
		return ModeSource, nil
	}
	return ModeRendered, fmt.Errorf("unknown preview mode %q", s)
}

// =============================================================================
// RENDERER
// =============================================================================

// Defaults for source highlighting.
const (
	DefaultStyle     = "monokai"
	DefaultFormatter = "terminal256"
)

// Styles are applied to structural elements of rendered text.
type Styles struct {
	Title   lipgloss.Style
	Heading lipgloss.Style
	Link    lipgloss.Style
	Muted   lipgloss.Style
}

// DefaultStyles returns unstyled defaults, bold for headings.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true),
		Heading: lipgloss.NewStyle().Bold(true),
		Link:    lipgloss.NewStyle().Underline(true),
		Muted:   lipgloss.NewStyle().Faint(true),
	}
}

// Renderer turns documents into pane text.
type Renderer struct {
	// Width wraps rendered text. Zero disables wrapping.
	Width int
	// Style and Formatter name the chroma style and formatter for source mode.
	Style     string
	Formatter string
	Styles    Styles

	policy *bluemonday.Policy
}

// NewRenderer creates a renderer with the default policy and styles.
func NewRenderer() *Renderer {
	return &Renderer{
		Style:     DefaultStyle,
		Formatter: DefaultFormatter,
		Styles:    DefaultStyles(),
		policy:    bluemonday.UGCPolicy(),
	}
}

// SetWidth sets the wrap width.
func (r *Renderer) SetWidth(width int) {
	if width < 0 {
		width = 0
	}
	r.Width = width
}

// Render renders doc in the given mode.
func (r *Renderer) Render(doc string, mode Mode) string {
	if mode == ModeSource {
		return r.Source(doc)
	}
	return r.Text(doc)
}

// Source highlights the raw markup. It returns doc unchanged when
// highlighting fails.
func (r *Renderer) Source(doc string) string {
	if doc == "" {
		return ""
	}
	lexer := lexers.Get("html")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(r.Style)
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get(r.Formatter)

	iterator, err := lexer.Tokenise(nil, doc)
	if err != nil {
		return doc
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return doc
	}
	return buf.String()
}

// Text renders the sanitised document as wrapped text. The document title,
// if any, heads the output.
func (r *Renderer) Text(doc string) string {
	if strings.TrimSpace(doc) == "" {
		return ""
	}

	w := &textWriter{width: r.Width, styles: r.Styles}
	if title := Title(doc); title != "" {
		w.block(r.Styles.Title.Render(title), true)
	}

	z := html.NewTokenizer(strings.NewReader(r.policy.Sanitize(doc)))
	for {
		switch z.Next() {
		case html.ErrorToken:
			w.flush()
			return strings.Join(w.out, "\n")
		case html.TextToken:
			w.write(string(z.Text()))
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			a := atom.Lookup(name)
			attrs := map[string]string{}
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				attrs[string(k)] = string(v)
			}
			w.open(a, attrs)
		case html.EndTagToken:
			name, _ := z.TagName()
			w.close(atom.Lookup(name))
		}
	}
}

// Title returns the text of the document's <title>, whitespace collapsed.
func Title(doc string) string {
	z := html.NewTokenizer(strings.NewReader(doc))
	inTitle := false
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Title:
				inTitle = true
			case atom.Body:
				return strings.Join(strings.Fields(b.String()), " ")
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.Title {
				return strings.Join(strings.Fields(b.String()), " ")
			}
		case html.TextToken:
			if inTitle {
				b.Write(z.Text())
			}
		}
	}
}

// =============================================================================
// TEXT WRITER
// =============================================================================

type textWriter struct {
	width  int
	styles Styles
	out    []string

	cur     strings.Builder
	space   bool
	gap     bool
	heading int
	pre     int
	depth   int
	bullet  bool
	href    string
}

func (w *textWriter) write(s string) {
	if s == "" {
		return
	}
	if w.pre > 0 {
		w.cur.WriteString(s)
		return
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		if w.cur.Len() > 0 {
			w.space = true
		}
		return
	}
	lead := s[0] == ' ' || s[0] == '\n' || s[0] == '\t' || s[0] == '\r'
	if (lead || w.space) && w.cur.Len() > 0 {
		w.cur.WriteByte(' ')
	}
	w.cur.WriteString(strings.Join(words, " "))
	last := s[len(s)-1]
	w.space = last == ' ' || last == '\n' || last == '\t' || last == '\r'
}

func (w *textWriter) open(a atom.Atom, attrs map[string]string) {
	switch a {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		w.flush()
		w.gap = true
		w.heading = int(a.String()[1] - '0')
	case atom.Ul, atom.Ol:
		w.flush()
		w.depth++
	case atom.Li:
		w.flush()
		w.bullet = true
	case atom.Pre:
		w.flush()
		w.gap = true
		w.pre++
	case atom.Br:
		w.flush()
	case atom.Hr:
		w.flush()
		w.block(w.styles.Muted.Render(strings.Repeat("─", w.ruleWidth())), true)
	case atom.Img:
		if alt := strings.TrimSpace(attrs["alt"]); alt != "" {
			w.write(" [image: " + alt + "] ")
		} else {
			w.write(" [image] ")
		}
	case atom.A:
		w.href = attrs["href"]
	case atom.Td, atom.Th:
		if w.cur.Len() > 0 {
			w.cur.WriteString(" | ")
			w.space = false
		}
	case atom.P, atom.Blockquote, atom.Table:
		w.flush()
		w.gap = true
	case atom.Div, atom.Section, atom.Article, atom.Header, atom.Footer,
		atom.Nav, atom.Main, atom.Aside, atom.Tr, atom.Figure, atom.Figcaption,
		atom.Dl, atom.Dt, atom.Dd, atom.Form:
		w.flush()
	}
}

func (w *textWriter) close(a atom.Atom) {
	switch a {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		w.flush()
		w.heading = 0
		w.gap = true
	case atom.Ul, atom.Ol:
		w.flush()
		if w.depth > 0 {
			w.depth--
		}
	case atom.Li:
		w.flush()
		w.bullet = false
	case atom.Pre:
		w.flush()
		if w.pre > 0 {
			w.pre--
		}
		w.gap = true
	case atom.A:
		if w.href != "" && !strings.HasPrefix(w.href, "#") {
			w.write(" (" + w.href + ")")
		}
		w.href = ""
	case atom.P, atom.Blockquote, atom.Table:
		w.flush()
		w.gap = true
	case atom.Div, atom.Section, atom.Article, atom.Header, atom.Footer,
		atom.Nav, atom.Main, atom.Aside, atom.Tr, atom.Figure, atom.Figcaption,
		atom.Dl, atom.Dt, atom.Dd, atom.Form:
		w.flush()
	}
}

// flush turns the pending inline text into a block.
func (w *textWriter) flush() {
	text := w.cur.String()
	w.cur.Reset()
	w.space = false

	if w.pre > 0 {
		text = strings.Trim(text, "\n")
		if strings.TrimSpace(text) == "" {
			return
		}
		w.block(text, false)
		return
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	switch {
	case w.heading > 0:
		w.block(w.renderHeading(text), false)
	case w.depth > 0:
		indent := strings.Repeat("  ", w.depth-1)
		marker := "  "
		if w.bullet {
			marker = "• "
			w.bullet = false
		}
		w.block(hang(w.wrap(text, runewidth.StringWidth(indent+marker)), indent+marker), false)
	default:
		w.block(w.wrap(text, 0), false)
	}
}

func (w *textWriter) renderHeading(text string) string {
	text = w.wrap(text, 0)
	styled := w.styles.Heading.Render(text)
	var rule string
	switch w.heading {
	case 1:
		rule = "="
	case 2:
		rule = "-"
	default:
		return styled
	}
	width := 0
	for _, line := range strings.Split(text, "\n") {
		if lw := runewidth.StringWidth(line); lw > width {
			width = lw
		}
	}
	return styled + "\n" + w.styles.Muted.Render(strings.Repeat(rule, width))
}

// block appends a finished block, honouring a pending blank line.
func (w *textWriter) block(text string, gapAfter bool) {
	if w.gap && len(w.out) > 0 && w.out[len(w.out)-1] != "" {
		w.out = append(w.out, "")
	}
	w.gap = gapAfter
	w.out = append(w.out, text)
}

func (w *textWriter) wrap(text string, reserved int) string {
	limit := w.width - reserved
	if w.width <= 0 || limit <= 0 {
		return text
	}
	return wordwrap.String(text, limit)
}

func (w *textWriter) ruleWidth() int {
	if w.width > 0 && w.width < 40 {
		return w.width
	}
	return 40
}

// hang prefixes the first line with prefix and indents the rest to match.
func hang(text, prefix string) string {
	pad := strings.Repeat(" ", runewidth.StringWidth(prefix))
	lines := strings.Split(text, "\n")
	for i := range lines {
		if i == 0 {
			lines[i] = prefix + lines[i]
		} else {
			lines[i] = pad + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
