// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/sitegen-tui/internal/logging"
	"github.com/jeranaias/sitegen-tui/internal/model"
	"github.com/jeranaias/sitegen-tui/internal/notify"
	"github.com/jeranaias/sitegen-tui/internal/workspace"
)

// Backend is the part of the API the store needs.
type Backend interface {
	ListSessions(ctx context.Context) ([]model.Session, error)
	GetSession(ctx context.Context, sessionID string) (*model.SessionDetail, error)
	SwitchSession(ctx context.Context, sessionID string) (string, error)
	GetVersion(ctx context.Context, versionID int64) (*model.VersionContent, error)
}

// LoadState tracks one fetch.
type LoadState int

const (
	NotLoaded LoadState = iota
	Loading
	Loaded
	Failed
)

// User-facing texts.
const (
	MsgNoSessions       = "No sessions found"
	MsgNoSessionsHint   = "Start a new chat to create your first session"
	MsgNoVersions       = "No versions in this session"
	MsgLoadingSessions  = "Loading sessions..."
	MsgLoadingVersions  = "Loading versions..."
	MsgVersionLoaded    = "Version loaded successfully"
	MsgSwitchFailedPfx  = "Error switching session: "
	MsgContentFailedPfx = "Error loading version: "
)

// Node is one session in the cache.
type Node struct {
	Session  model.Session
	Expanded bool
	State    LoadState
	Versions []model.Version
	Err      string
}

// Fetched reports whether the versions were ever requested. Failed
// counts: a failed session is not retried until the surface reopens.
func (n *Node) Fetched() bool {
	return n.State != NotLoaded
}

// Fetches counts backend calls per endpoint.
type Fetches struct {
	Sessions int
	Versions int
	Switches int
	Contents int
}

// =============================================================================
// MESSAGES
// =============================================================================

// SessionsLoadedMsg carries the session list of one epoch.
type SessionsLoadedMsg struct {
	Epoch    int
	Sessions []model.Session
	Err      error
}

// VersionsLoadedMsg carries one session's versions.
type VersionsLoadedMsg struct {
	Epoch     int
	SessionID string
	Versions  []model.Version
	Err       error
}

// VersionSelectedMsg carries the outcome of a switch-then-load.
type VersionSelectedMsg struct {
	SessionID string
	VersionID int64
	SwitchErr error
	Content   *model.VersionContent
	Err       error
}

// =============================================================================
// STORE
// =============================================================================

// Store is the history cache and selection logic.
type Store struct {
	backend  Backend
	ws       *workspace.Workspace
	notifier notify.Notifier
	ctx      context.Context
	log      zerolog.Logger

	open      bool
	narrow    bool
	epoch     int
	listState LoadState
	listErr   string
	nodes     []*Node
	index     map[string]*Node
	term      string

	contentLoading int
	contentErr     string
	fetches        Fetches
}

// New creates a closed store.
func New(backend Backend, ws *workspace.Workspace, notifier notify.Notifier) *Store {
	if notifier == nil {
		notifier = notify.Discard
	}
	return &Store{
		backend:  backend,
		ws:       ws,
		notifier: notifier,
		ctx:      context.Background(),
		log:      logging.With("history"),
		index:    make(map[string]*Node),
	}
}

// SetContext sets the context requests are made with.
func (s *Store) SetContext(ctx context.Context) {
	s.ctx = ctx
}

// SetNarrow records whether the layout is narrow. A narrow layout closes
// the surface after a version loads.
func (s *Store) SetNarrow(narrow bool) {
	s.narrow = narrow
}

// IsOpen reports whether the history surface is shown.
func (s *Store) IsOpen() bool { return s.open }

// ListState is the state of the session list fetch.
func (s *Store) ListState() LoadState { return s.listState }

// ListError is the list-scoped error text, if any.
func (s *Store) ListError() string { return s.listErr }

// Empty reports a loaded, empty session list.
func (s *Store) Empty() bool { return s.listState == Loaded && len(s.nodes) == 0 }

// Nodes returns the cached sessions in backend order.
func (s *Store) Nodes() []*Node { return s.nodes }

// Node looks up a cached session.
func (s *Store) Node(sessionID string) *Node { return s.index[sessionID] }

// ContentLoading reports a version load in flight.
func (s *Store) ContentLoading() bool { return s.contentLoading > 0 }

// ContentError is the error of the last version load, if it failed.
func (s *Store) ContentError() string { return s.contentErr }

// Fetches returns the backend call counters.
func (s *Store) Fetches() Fetches { return s.fetches }

// Filter returns the current search term.
func (s *Store) Filter() string { return s.term }

// Open shows the surface, discards the cache and fetches the list.
func (s *Store) Open() tea.Cmd {
	s.reset()
	s.open = true
	s.listState = Loading
	s.fetches.Sessions++

	epoch, ctx, backend := s.epoch, s.ctx, s.backend
	return func() tea.Msg {
		sessions, err := backend.ListSessions(ctx)
		return SessionsLoadedMsg{Epoch: epoch, Sessions: sessions, Err: err}
	}
}

// Close hides the surface and drops the cache.
func (s *Store) Close() {
	s.reset()
	s.open = false
}

func (s *Store) reset() {
	s.epoch++
	s.listState = NotLoaded
	s.listErr = ""
	s.nodes = nil
	s.index = make(map[string]*Node)
	s.term = ""
	s.contentErr = ""
}

// Toggle expands or collapses a session. Only the first expansion fetches.
func (s *Store) Toggle(sessionID string) tea.Cmd {
	n := s.index[sessionID]
	if n == nil {
		return nil
	}
	n.Expanded = !n.Expanded
	if !n.Expanded || n.Fetched() {
		return nil
	}

	n.State = Loading
	s.fetches.Versions++

	epoch, ctx, backend := s.epoch, s.ctx, s.backend
	return func() tea.Msg {
		detail, err := backend.GetSession(ctx, sessionID)
		msg := VersionsLoadedMsg{Epoch: epoch, SessionID: sessionID, Err: err}
		if err == nil && detail != nil {
			msg.Versions = detail.Versions
		}
		return msg
	}
}

// Select switches to the version's session and loads its document. Both
// requests run in one command so the switch lands before the load.
func (s *Store) Select(sessionID string, versionID int64) tea.Cmd {
	s.contentLoading++
	s.contentErr = ""
	s.fetches.Switches++
	s.fetches.Contents++

	ctx, backend := s.ctx, s.backend
	return func() tea.Msg {
		msg := VersionSelectedMsg{SessionID: sessionID, VersionID: versionID}
		_, msg.SwitchErr = backend.SwitchSession(ctx, sessionID)
		msg.Content, msg.Err = backend.GetVersion(ctx, versionID)
		return msg
	}
}

// Update handles store messages. It reports whether msg was one.
func (s *Store) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case SessionsLoadedMsg:
		if msg.Epoch != s.epoch {
			return nil, true
		}
		if msg.Err != nil {
			s.log.Warn().Err(msg.Err).Msg("session list failed")
			s.listState = Failed
			s.listErr = "Error: " + msg.Err.Error()
			return nil, true
		}
		s.listState = Loaded
		s.nodes = make([]*Node, 0, len(msg.Sessions))
		s.index = make(map[string]*Node, len(msg.Sessions))
		for _, sess := range msg.Sessions {
			n := &Node{Session: sess}
			s.nodes = append(s.nodes, n)
			s.index[sess.ID] = n
		}
		return nil, true

	case VersionsLoadedMsg:
		if msg.Epoch != s.epoch {
			return nil, true
		}
		n := s.index[msg.SessionID]
		if n == nil {
			return nil, true
		}
		if msg.Err != nil {
			s.log.Warn().Err(msg.Err).Str("session", msg.SessionID).Msg("version list failed")
			n.State = Failed
			n.Err = "Error: " + msg.Err.Error()
			return nil, true
		}
		n.State = Loaded
		n.Versions = make([]model.Version, len(msg.Versions))
		for i, v := range msg.Versions {
			v.SessionID = msg.SessionID
			n.Versions[i] = v
		}
		return nil, true

	case VersionSelectedMsg:
		return s.applySelection(msg), true
	}
	return nil, false
}

func (s *Store) applySelection(msg VersionSelectedMsg) tea.Cmd {
	if s.contentLoading > 0 {
		s.contentLoading--
	}

	var cmds []tea.Cmd
	if msg.SwitchErr != nil {
		s.log.Warn().Err(msg.SwitchErr).Str("session", msg.SessionID).Msg("session switch failed")
		cmds = append(cmds, s.notifier.Notify(notify.Error, MsgSwitchFailedPfx+msg.SwitchErr.Error()))
	}

	if msg.Err != nil || msg.Content == nil {
		text := "empty response"
		if msg.Err != nil {
			text = msg.Err.Error()
		}
		s.log.Warn().Str("error", text).Int64("version", msg.VersionID).Msg("version load failed")
		s.contentErr = text
		cmds = append(cmds, s.notifier.Notify(notify.Error, MsgContentFailedPfx+text))
		return tea.Batch(cmds...)
	}

	s.ws.SetDocument(msg.Content.HTMLContent)
	s.ws.Prompt.SetValue(msg.Content.Prompt)
	if s.narrow && s.open {
		s.Close()
	}
	cmds = append(cmds, s.notifier.Notify(notify.Success, MsgVersionLoaded))
	return tea.Batch(cmds...)
}

// =============================================================================
// FILTER
// =============================================================================

// View is a visible session with its visible versions.
type View struct {
	Node     *Node
	Versions []model.Version
}

// SetFilter replaces the search term. It never fetches.
func (s *Store) SetFilter(term string) {
	s.term = term
}

// Visible applies the current filter to the cached state.
func (s *Store) Visible() []View {
	term := strings.ToLower(s.term)
	out := make([]View, 0, len(s.nodes))
	for _, n := range s.nodes {
		versions := matchingVersions(n.Versions, term)
		if term != "" && !sessionMatches(n, term) && len(versions) == 0 {
			continue
		}
		out = append(out, View{Node: n, Versions: versions})
	}
	return out
}

func sessionMatches(n *Node, term string) bool {
	return strings.Contains(strings.ToLower(n.Session.Title()), term) ||
		strings.Contains(strings.ToLower(n.Session.Meta()), term)
}

func matchingVersions(versions []model.Version, term string) []model.Version {
	if term == "" {
		return versions
	}
	var out []model.Version
	for _, v := range versions {
		if strings.Contains(strings.ToLower(v.Prompt), term) {
			out = append(out, v)
		}
	}
	return out
}
