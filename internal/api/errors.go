// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorKind categorizes client errors for handling.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConnection
	KindTimeout
	KindCanceled
	KindStatus
	KindMissingBody
	KindDecode
	KindStream
)

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindTimeout:
		return "timeout"
	case KindCanceled:
		return "canceled"
	case KindStatus:
		return "status"
	case KindMissingBody:
		return "missing_body"
	case KindDecode:
		return "decode"
	case KindStream:
		return "stream"
	default:
		return "unknown"
	}
}

// ClientError represents an error from the backend client.
type ClientError struct {
	Kind    ErrorKind
	Message string
	Status  int    // HTTP status for KindStatus
	Detail  string // response body excerpt for KindStatus
	Cause   error
}

func (e *ClientError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.Status)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Sentinel errors for easy checking.
var (
	ErrMissingBody       = &ClientError{Kind: KindMissingBody, Message: "Response body is missing."}
	ErrCSRFTokenNotFound = errors.New("csrf token not found in index page")
)

// maxDetailBytes bounds how much of an error body ends up in a message.
const maxDetailBytes = 512

// transportError classifies an http.Client.Do failure.
func transportError(op string, err error) *ClientError {
	switch {
	case errors.Is(err, context.Canceled):
		return &ClientError{Kind: KindCanceled, Message: op + " canceled", Cause: err}
	case errors.Is(err, context.DeadlineExceeded), isTimeout(err):
		return &ClientError{Kind: KindTimeout, Message: op + " timed out", Cause: err}
	default:
		return &ClientError{Kind: KindConnection, Message: op + " failed: server unreachable", Cause: err}
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// statusError builds a KindStatus error from a non-success response,
// keeping a trimmed excerpt of the body as detail.
func statusError(op string, resp *http.Response) *ClientError {
	excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxDetailBytes))
	detail := strings.TrimSpace(string(excerpt))
	if strings.HasPrefix(strings.ToLower(detail), "<!doctype") || strings.HasPrefix(detail, "<html") {
		// Werkzeug error pages are noise in a status line.
		detail = ""
	}
	return &ClientError{
		Kind:    KindStatus,
		Message: op,
		Status:  resp.StatusCode,
		Detail:  detail,
	}
}

// IsStatus reports whether err is a status error with the given code.
func IsStatus(err error, code int) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Kind == KindStatus && ce.Status == code
}

// IsConnection reports whether err means the backend could not be reached.
func IsConnection(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && (ce.Kind == KindConnection || ce.Kind == KindTimeout)
}

// KindOf returns the kind of a *ClientError, or KindUnknown.
func KindOf(err error) ErrorKind {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}
