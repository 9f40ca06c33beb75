// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package preview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeRendered, false},
		{"rendered", ModeRendered, false},
		{" Source ", ModeSource, false},
		{"raw", ModeRendered, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, ModeSource, ModeRendered.Toggle())
	assert.Equal(t, ModeRendered, ModeSource.Toggle())
	assert.Equal(t, "source", ModeSource.String())
}

func TestText_DropsActiveContent(t *testing.T) {
	doc := `<html><head><title>Bakery</title><style>p{color:red}</style></head>` +
		`<body><h1>Fresh Bread</h1><p>Baked   daily.</p><script>alert('x')</script>` +
		`<p onclick="steal()">Open 7am</p></body></html>`

	got := NewRenderer().Text(doc)
	assert.Equal(t, "Bakery\n\nFresh Bread\n===========\n\nBaked daily.\n\nOpen 7am", got)
	assert.NotContains(t, got, "alert")
	assert.NotContains(t, got, "color:red")
}

func TestText_Lists(t *testing.T) {
	r := NewRenderer()
	assert.Equal(t, "• One\n• Two bold", r.Text(`<ul><li>One</li><li>Two <b>bold</b></li></ul>`))
	assert.Equal(t, "• A\n  • B", r.Text(`<ul><li>A<ul><li>B</li></ul></li></ul>`))
}

func TestText_Wraps(t *testing.T) {
	r := NewRenderer()
	r.SetWidth(10)
	assert.Equal(t, "one two\nthree four", r.Text(`<p>one two three four</p>`))

	r.SetWidth(-3)
	assert.Equal(t, 0, r.Width)
}

func TestText_LinksAndImages(t *testing.T) {
	got := NewRenderer().Text(`<p>See <a href="https://example.com">site</a> <img src="logo.png" alt="Logo"></p>`)
	assert.Equal(t, "See site (https://example.com) [image: Logo]", got)
}

func TestText_PreservesPre(t *testing.T) {
	assert.Equal(t, "a  b\n  c", NewRenderer().Text("<pre>a  b\n  c</pre>"))
}

func TestText_Rule(t *testing.T) {
	got := NewRenderer().Text(`<p>a</p><hr><p>b</p>`)
	assert.Equal(t, "a\n\n"+strings.Repeat("─", 40)+"\n\nb", got)
}

func TestText_PartialDocument(t *testing.T) {
	// Streams deliver documents cut at arbitrary points.
	r := NewRenderer()
	assert.Contains(t, r.Text("<!DOCTYPE html><html><body><h1>Hel"), "Hel")
	assert.NotPanics(t, func() { r.Text("<p class=\"a") })
}

func TestText_Empty(t *testing.T) {
	assert.Equal(t, "", NewRenderer().Text("   \n"))
	assert.Equal(t, "", NewRenderer().Source(""))
}

func TestSource(t *testing.T) {
	doc := `<p class="x">hi</p>`

	r := NewRenderer()
	r.Formatter = "noop"
	assert.Equal(t, doc, r.Source(doc))
	assert.Equal(t, doc, r.Render(doc, ModeSource))

	colored := NewRenderer().Source(doc)
	assert.Contains(t, colored, "\x1b[")
	assert.Contains(t, colored, "hi")
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "My Site", Title("<title>My  Site</title>"))
	assert.Equal(t, "A B", Title("<head><title>\n A\n B </title></head>"))
	assert.Equal(t, "", Title("<body><title>late</title></body>"))
	assert.Equal(t, "", Title("<p>none</p>"))
}
