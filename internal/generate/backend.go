// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package generate

import (
	"context"

	"github.com/jeranaias/sitegen-tui/internal/api"
)

// Stream yields decoded text chunks until io.EOF.
type Stream interface {
	Next() (string, error)
	Close() error
}

// Backend is the part of the API the pipeline needs.
type Backend interface {
	Generate(ctx context.Context, req api.GenerateRequest) (Stream, error)
	NewChat(ctx context.Context) error
}

// ClientBackend adapts *api.Client to Backend.
type ClientBackend struct {
	Client *api.Client
}

// Generate opens a generation stream.
func (b ClientBackend) Generate(ctx context.Context, req api.GenerateRequest) (Stream, error) {
	s, err := b.Client.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewChat starts a new backend session.
func (b ClientBackend) NewChat(ctx context.Context) error {
	return b.Client.NewChat(ctx)
}
