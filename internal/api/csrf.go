// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// maxIndexBytes bounds how much of the index page is scanned for the token.
const maxIndexBytes = 1 << 20

// Connect loads the index page. The response sets the session cookie the
// backend needs for /generate, and its csrf-token meta tag supplies the
// token when none was configured. A page without the tag yields
// ErrCSRFTokenNotFound but leaves the client usable.
func (c *Client) Connect(ctx context.Context) error {
	const op = "Failed to reach site generator"

	req, err := c.newRequest(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.do(c.httpClient, req, op)
	if err != nil {
		return err
	}
	defer drainAndClose(resp.Body)

	if !success(resp.StatusCode) {
		return statusError(op, resp)
	}

	token, err := ScrapeCSRFToken(io.LimitReader(resp.Body, maxIndexBytes))
	if err != nil {
		if c.CSRFToken() != "" {
			return nil
		}
		return err
	}
	if c.CSRFToken() == "" {
		c.SetCSRFToken(token)
	}
	return nil
}

// ScrapeCSRFToken returns the content of the first
// <meta name="csrf-token" content="..."> tag in an HTML document.
func ScrapeCSRFToken(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return "", ErrCSRFTokenNotFound
			}
			return "", fmt.Errorf("parse index page: %w", z.Err())

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.DataAtom == atom.Body {
				// Meta tags live in the head.
				return "", ErrCSRFTokenNotFound
			}
			if tok.DataAtom != atom.Meta {
				continue
			}
			var name, content string
			for _, a := range tok.Attr {
				switch strings.ToLower(a.Key) {
				case "name":
					name = a.Val
				case "content":
					content = a.Val
				}
			}
			if strings.EqualFold(name, "csrf-token") && content != "" {
				return content, nil
			}
		}
	}
}
