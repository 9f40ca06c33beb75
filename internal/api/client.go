// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/jeranaias/sitegen-tui/internal/logging"
	"github.com/jeranaias/sitegen-tui/internal/model"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// Config holds configuration options for the backend client.
type Config struct {
	// BaseURL is the backend origin (default: http://127.0.0.1:5000).
	BaseURL string

	// CSRFToken overrides the token scraped by Connect.
	CSRFToken string

	// Timeout for non-streaming requests (default: 30s).
	Timeout time.Duration

	// RequestsPerSecond and Burst pace history GETs. Zero disables pacing.
	RequestsPerSecond float64
	Burst             int

	// UserAgent is sent on every request.
	UserAgent string

	// Transport replaces the default round tripper. Tests use it.
	Transport http.RoundTripper
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:           "http://127.0.0.1:5000",
		Timeout:           30 * time.Second,
		RequestsPerSecond: 10,
		Burst:             5,
		UserAgent:         "sitegen-tui",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the site generator backend. It is safe for concurrent use;
// all requests share one cookie jar and therefore one server-side session.
//
// Example:
//
//	client, err := api.NewClient(api.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	if err := client.Connect(ctx); err != nil {
//	    return err
//	}
//	stream, err := client.Generate(ctx, api.GenerateRequest{Prompt: "a bakery landing page"})
type Client struct {
	config *Config
	base   *url.URL

	httpClient   *http.Client // bounded by Config.Timeout
	streamClient *http.Client // unbounded, for /generate
	limiter      *rate.Limiter

	mu        sync.RWMutex
	csrfToken string
}

// NewClient creates a client. Zero fields in cfg take their defaults.
func NewClient(cfg *Config) (*Client, error) {
	d := DefaultConfig()
	if cfg == nil {
		cfg = d
	}
	c := *cfg
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = d.Timeout
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}

	base, err := url.Parse(strings.TrimRight(c.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: must be absolute", c.BaseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	transport := c.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	limit := rate.Inf
	if c.RequestsPerSecond > 0 {
		limit = rate.Limit(c.RequestsPerSecond)
	}
	burst := c.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		config:       &c,
		base:         base,
		httpClient:   &http.Client{Timeout: c.Timeout, Jar: jar, Transport: transport},
		streamClient: &http.Client{Jar: jar, Transport: transport},
		limiter:      rate.NewLimiter(limit, burst),
		csrfToken:    c.CSRFToken,
	}, nil
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// CSRFToken returns the token sent on POSTs.
func (c *Client) CSRFToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.csrfToken
}

// SetCSRFToken replaces the token sent on POSTs.
func (c *Client) SetCSRFToken(token string) {
	c.mu.Lock()
	c.csrfToken = token
	c.mu.Unlock()
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

func (c *Client) endpoint(path string) string {
	return c.base.String() + path
}

// newRequest builds a request with the shared headers. POSTs carry the
// CSRF token; a non-nil body is sent as JSON.
func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &ClientError{Kind: KindDecode, Message: "failed to encode request", Cause: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return nil, &ClientError{Kind: KindConnection, Message: "failed to create request", Cause: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost {
		if token := c.CSRFToken(); token != "" {
			req.Header.Set(HeaderCSRF, token)
		}
	}
	req.Header.Set(HeaderRequestID, uuid.NewString())
	req.Header.Set("User-Agent", c.config.UserAgent)
	return req, nil
}

// do sends req, logging the exchange, and maps transport failures.
func (c *Client) do(client *http.Client, req *http.Request, op string) (*http.Response, error) {
	start := time.Now()
	resp, err := client.Do(req)
	event := logging.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("request_id", req.Header.Get(HeaderRequestID)).
		Dur("elapsed", time.Since(start))
	if err != nil {
		event.Err(err).Msg("request failed")
		return nil, transportError(op, err)
	}
	event.Int("status", resp.StatusCode).Msg("request done")
	return resp, nil
}

// getJSON performs a paced GET and decodes a JSON body into out.
func (c *Client) getJSON(ctx context.Context, path, op string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return transportError(op, err)
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return c.exchangeJSON(c.httpClient, req, op, out)
}

func (c *Client) exchangeJSON(client *http.Client, req *http.Request, op string, out interface{}) error {
	resp, err := c.do(client, req, op)
	if err != nil {
		return err
	}
	defer drainAndClose(resp.Body)

	if !success(resp.StatusCode) {
		return statusError(op, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Kind: KindDecode, Message: op + ": invalid response", Cause: err}
	}
	return nil
}

func success(code int) bool {
	return code >= 200 && code < 300
}

// drainAndClose reads any remaining body so the connection can be reused.
func drainAndClose(r io.ReadCloser) {
	io.Copy(io.Discard, io.LimitReader(r, 64<<10))
	r.Close()
}

// =============================================================================
// GENERATION
// =============================================================================

// Generate starts a generation and returns the open response stream. The
// caller must Close it. ctx governs the whole stream, not just the headers.
func (c *Client) Generate(ctx context.Context, genReq GenerateRequest) (*Stream, error) {
	const op = "Generation failed"

	req, err := c.newRequest(ctx, http.MethodPost, "/generate", genReq)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := c.do(c.streamClient, req, op)
	if err != nil {
		return nil, err
	}
	if !success(resp.StatusCode) {
		defer drainAndClose(resp.Body)
		return nil, statusError(op, resp)
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		if resp.Body != nil {
			resp.Body.Close()
		}
		return nil, ErrMissingBody
	}

	s := NewStream(resp.Body)
	s.RequestID = req.Header.Get(HeaderRequestID)
	return s, nil
}

// NewChat asks the backend to start a fresh session.
func (c *Client) NewChat(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/new_chat", nil)
	if err != nil {
		return err
	}
	return c.exchangeJSON(c.httpClient, req, "Failed to start a new chat", nil)
}

// =============================================================================
// HISTORY
// =============================================================================

// ListSessions returns every session, newest first as the backend orders them.
func (c *Client) ListSessions(ctx context.Context) ([]model.Session, error) {
	var sessions []model.Session
	if err := c.getJSON(ctx, "/api/sessions", "Failed to load sessions", &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetSession returns one session with its versions.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*model.SessionDetail, error) {
	var detail model.SessionDetail
	path := "/api/sessions/" + url.PathEscape(sessionID)
	if err := c.getJSON(ctx, path, "Failed to load session details", &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// SwitchSession makes sessionID the active session for this client's
// cookie and returns the id the backend confirmed.
func (c *Client) SwitchSession(ctx context.Context, sessionID string) (string, error) {
	const op = "Failed to switch session"

	path := "/api/sessions/" + url.PathEscape(sessionID) + "/switch"
	req, err := c.newRequest(ctx, http.MethodPost, path, struct{}{})
	if err != nil {
		return "", err
	}

	var out switchResponse
	if err := c.exchangeJSON(c.httpClient, req, op, &out); err != nil {
		return "", err
	}
	if out.Success != nil && !*out.Success {
		return "", &ClientError{Kind: KindDecode, Message: op, Detail: out.Message}
	}
	if out.SessionID == "" {
		return sessionID, nil
	}
	return out.SessionID, nil
}

// GetVersion returns the full document of a version. The backend only
// serves versions of the active session, so switch first.
func (c *Client) GetVersion(ctx context.Context, versionID int64) (*model.VersionContent, error) {
	var content model.VersionContent
	path := "/api/versions/" + strconv.FormatInt(versionID, 10)
	if err := c.getJSON(ctx, path, "Failed to load version content", &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// CurrentVersions lists the versions of the active session.
func (c *Client) CurrentVersions(ctx context.Context) ([]model.Version, error) {
	var versions []model.Version
	if err := c.getJSON(ctx, "/api/versions", "Failed to load versions", &versions); err != nil {
		return nil, err
	}
	return versions, nil
}
