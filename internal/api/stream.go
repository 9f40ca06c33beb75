// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// =============================================================================
// STREAM
// =============================================================================

// chunkBufferSize is the most bytes a single Next call returns.
const chunkBufferSize = 4096

// Stream reads a generation response as decoded text chunks.
//
// Bytes are decoded as UTF-8 incrementally: a character split across two
// network reads is held back until it is complete, and invalid sequences
// become U+FFFD. A leading byte order mark is dropped.
type Stream struct {
	// RequestID is the X-Request-ID the stream was opened with.
	RequestID string

	body  io.ReadCloser
	text  io.Reader
	buf   []byte
	err   error
	stats StreamStats
}

// NewStream wraps a response body.
func NewStream(body io.ReadCloser) *Stream {
	return &Stream{
		body:  body,
		text:  transform.NewReader(body, unicode.UTF8BOM.NewDecoder()),
		buf:   make([]byte, chunkBufferSize),
		stats: StreamStats{StartTime: time.Now()},
	}
}

// Next returns the next non-empty chunk of text. It returns io.EOF after
// the last chunk and a *ClientError of KindStream if the body broke off.
// Once an error is returned every later call returns it again.
func (s *Stream) Next() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	for {
		n, err := s.text.Read(s.buf)
		if err != nil {
			s.err = s.wrap(err)
		}
		if n > 0 {
			s.stats.record(n)
			return string(s.buf[:n]), nil
		}
		if s.err != nil {
			if s.err == io.EOF {
				s.stats.finish()
			}
			return "", s.err
		}
	}
}

func (s *Stream) wrap(err error) error {
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	return &ClientError{Kind: KindStream, Message: "Stream interrupted", Cause: err}
}

// Close releases the response body. It is safe to call more than once.
func (s *Stream) Close() error {
	if s.body == nil {
		return nil
	}
	err := s.body.Close()
	s.body = nil
	if s.err == nil {
		s.err = &ClientError{Kind: KindStream, Message: "Stream closed"}
	}
	return err
}

// Stats returns a snapshot of the stream counters.
func (s *Stream) Stats() StreamStats {
	return s.stats
}

// =============================================================================
// STREAM STATISTICS
// =============================================================================

// StreamStats tracks timing and volume of a generation stream.
type StreamStats struct {
	StartTime      time.Time
	FirstChunkTime time.Time
	EndTime        time.Time
	Chunks         int
	Bytes          int
}

func (s *StreamStats) record(n int) {
	if s.Chunks == 0 {
		s.FirstChunkTime = time.Now()
	}
	s.Chunks++
	s.Bytes += n
}

func (s *StreamStats) finish() {
	s.EndTime = time.Now()
}

// TimeToFirstChunk is the latency before the first chunk arrived.
func (s StreamStats) TimeToFirstChunk() time.Duration {
	if s.FirstChunkTime.IsZero() {
		return 0
	}
	return s.FirstChunkTime.Sub(s.StartTime)
}

// Duration is the total stream time, or zero if it has not finished.
func (s StreamStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// Format renders the stats for display.
func (s StreamStats) Format() string {
	return fmt.Sprintf("%d chunks | %s | first chunk %s | total %s",
		s.Chunks,
		formatBytes(s.Bytes),
		formatDuration(s.TimeToFirstChunk()),
		formatDuration(s.Duration()))
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	case d >= time.Second:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}
