// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"
	"github.com/rs/zerolog"

	"github.com/jeranaias/sitegen-tui/internal/config"
	"github.com/jeranaias/sitegen-tui/internal/generate"
	"github.com/jeranaias/sitegen-tui/internal/history"
	"github.com/jeranaias/sitegen-tui/internal/logging"
	"github.com/jeranaias/sitegen-tui/internal/notify"
	"github.com/jeranaias/sitegen-tui/internal/preview"
	"github.com/jeranaias/sitegen-tui/internal/ui/components"
	"github.com/jeranaias/sitegen-tui/internal/ui/styles"
	"github.com/jeranaias/sitegen-tui/internal/util"
	"github.com/jeranaias/sitegen-tui/internal/workspace"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// RefreshDelay is how long the preview shows its loading indicator
	// after a manual refresh.
	RefreshDelay = 500 * time.Millisecond

	// DefaultDownloadPath is where the download action writes the document.
	DefaultDownloadPath = "index.html"

	// MsgNothingToDownload warns about an empty editor.
	MsgNothingToDownload = "Nothing to download."

	// BrowserFile is the file the document is written to before it is
	// opened in the browser. Each open overwrites it.
	BrowserFile = "sitegen-preview.html"

	// MsgNothingToOpen warns about opening an empty editor.
	MsgNothingToOpen = "Nothing to preview."

	// MsgBrowserOpened confirms the browser was started.
	MsgBrowserOpened = "Preview opened in browser"

	// sidebarWidth is the width of the history sidebar in the wide layout.
	sidebarWidth = 38

	// chromeHeight is the header, prompt and status bar.
	chromeHeight = 3
)

// Focus names the pane receiving keys.
type Focus int

const (
	FocusPrompt Focus = iota
	FocusEditor
	FocusPreview
	FocusSidebar
)

// String returns the pane name.
func (f Focus) String() string {
	switch f {
	case FocusPrompt:
		return "prompt"
	case FocusEditor:
		return "editor"
	case FocusPreview:
		return "preview"
	case FocusSidebar:
		return "sidebar"
	}
	return "unknown"
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Model.
type Options struct {
	Config    *config.Config
	Context   context.Context
	Generator generate.Backend
	History   history.Backend

	// SaveConfig persists the config after a theme toggle. Nil uses
	// config.Save.
	SaveConfig func(*config.Config) error

	// DownloadPath overrides DefaultDownloadPath.
	DownloadPath string

	// BrowserDir is where BrowserFile is written. Empty uses os.TempDir.
	BrowserDir string

	// OpenFile shows a local HTML file in the system browser. Nil uses
	// OpenInBrowser.
	OpenFile func(path string) error

	// Timing overrides the notification lifecycle durations.
	Timing *notify.Timing

	// StartupWarning is shown as a toast once the program starts.
	StartupWarning string
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the root TUI model.
type Model struct {
	ctx  context.Context
	cfg  *config.Config
	log  zerolog.Logger
	keys KeyMap

	theme   *styles.Theme
	editor  *components.Editor
	preview *components.PreviewPane
	prompt  *components.Prompt
	status  *components.StatusBar
	sidebar *components.HistorySidebar
	toasts  *components.Toasts
	help    *components.Help

	center   *notify.Center
	ws       *workspace.Workspace
	pipeline *generate.Pipeline
	store    *history.Store

	focus      Focus
	showHelp   bool
	refreshID  int
	refreshing bool
	width      int
	height     int
	laidOut    layoutState

	saveConfig   func(*config.Config) error
	downloadPath string
	browserPath  string
	openFile     func(string) error
	startupWarn  string
}

type layoutState struct {
	width, height int
	narrow, open  bool
}

// New builds the model and wires every surface to the shared workspace.
func New(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	theme := styles.NewTheme(cfg.UI.Theme)
	theme.SetNarrowWidth(cfg.UI.NarrowWidth)

	center := notify.NewCenter()
	if opts.Timing != nil {
		center.SetTiming(*opts.Timing)
	}

	editor := components.NewEditor(theme)
	pane := components.NewPreviewPane(theme)
	if mode, err := preview.ParseMode(cfg.UI.PreviewMode); err == nil {
		pane.SetMode(mode)
	}
	prompt := components.NewPrompt(theme, cfg.UI.PromptLimit)
	ws := workspace.New(editor, pane, prompt)

	pipeline := generate.New(opts.Generator, ws, center)
	pipeline.SetContext(ctx)
	store := history.New(opts.History, ws, center)
	store.SetContext(ctx)

	keys := DefaultKeyMap()
	m := &Model{
		ctx:          ctx,
		cfg:          cfg,
		log:          logging.With("tui"),
		keys:         keys,
		theme:        theme,
		editor:       editor,
		preview:      pane,
		prompt:       prompt,
		status:       components.NewStatusBar(theme),
		sidebar:      components.NewHistorySidebar(theme, store),
		toasts:       components.NewToasts(theme, center),
		help:         components.NewHelp(theme, keys.HelpSections(components.DefaultSidebarKeys())),
		center:       center,
		ws:           ws,
		pipeline:     pipeline,
		store:        store,
		saveConfig:   opts.SaveConfig,
		downloadPath: opts.DownloadPath,
		openFile:     opts.OpenFile,
		startupWarn:  opts.StartupWarning,
	}
	if m.saveConfig == nil {
		m.saveConfig = config.Save
	}
	if m.downloadPath == "" {
		m.downloadPath = DefaultDownloadPath
	}
	if m.openFile == nil {
		m.openFile = OpenInBrowser
	}
	dir := opts.BrowserDir
	if dir == "" {
		dir = os.TempDir()
	}
	m.browserPath = filepath.Join(dir, BrowserFile)
	m.status.SetHints(keys.ShortHelp())
	m.setFocus(FocusPrompt)
	return m
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Workspace returns the shared editor, preview and prompt.
func (m *Model) Workspace() *workspace.Workspace { return m.ws }

// Pipeline returns the generation pipeline.
func (m *Model) Pipeline() *generate.Pipeline { return m.pipeline }

// Store returns the history store.
func (m *Model) Store() *history.Store { return m.store }

// Center returns the notification center.
func (m *Model) Center() *notify.Center { return m.center }

// Theme returns the active theme.
func (m *Model) Theme() *styles.Theme { return m.theme }

// Focus returns the focused pane.
func (m *Model) Focus() Focus { return m.focus }

// ShowingHelp reports whether the help overlay is shown.
func (m *Model) ShowingHelp() bool { return m.showHelp }

// PreviewLoading reports whether the preview shows its loading indicator.
func (m *Model) PreviewLoading() bool { return m.preview.Loading() }

// StatusText returns the status bar text.
func (m *Model) StatusText() string { return m.status.Status() }

// PreviewMode returns the preview rendering mode.
func (m *Model) PreviewMode() preview.Mode { return m.preview.Mode() }

// Sidebar returns the history sidebar.
func (m *Model) Sidebar() *components.HistorySidebar { return m.sidebar }

// =============================================================================
// INIT / UPDATE
// =============================================================================

// Init starts the cursor blink and shows the startup warning, if any.
func (m *Model) Init() tea.Cmd {
	if m.startupWarn == "" {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, m.center.Notify(notify.Warning, m.startupWarn))
}

// Update handles one message to completion.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	case spinner.TickMsg:
		return m, m.status.Update(msg)

	case RefreshDoneMsg:
		if msg.ID == m.refreshID {
			m.refreshing = false
		}

	case DownloadDoneMsg:
		cmds = append(cmds, m.downloadDone(msg))

	case BrowserOpenedMsg:
		cmds = append(cmds, m.browserOpened(msg))

	case ConfigReloadedMsg:
		cmds = append(cmds, m.applyConfig(msg))

	case configSavedMsg:
		if msg.Err != nil {
			m.log.Warn().Err(msg.Err).Msg("config save failed")
		}

	default:
		if cmd, ok := m.center.Update(msg); ok {
			cmds = append(cmds, cmd)
		} else if cmd, ok := m.pipeline.Update(msg); ok {
			cmds = append(cmds, cmd)
		} else if cmd, ok := m.store.Update(msg); ok {
			cmds = append(cmds, cmd)
		} else {
			cmds = append(cmds, m.forward(msg))
		}
	}

	cmds = append(cmds, m.sync())
	return m, tea.Batch(cmds...)
}

// forward hands an unclaimed message, such as a cursor blink, to the
// focused pane.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	switch m.focus {
	case FocusPrompt:
		return m.prompt.Update(msg)
	case FocusEditor:
		return m.editor.Update(msg)
	case FocusPreview:
		return m.preview.Update(msg)
	}
	return nil
}

// sync derives the indicators from component state after every message.
func (m *Model) sync() tea.Cmd {
	enabled := m.pipeline.SubmitEnabled()
	m.keys.Submit.SetEnabled(enabled)
	m.keys.Generate.SetEnabled(enabled)
	m.status.SetHints(m.keys.ShortHelp())

	cmd := m.status.SetStatus(m.pipeline.Status(), m.pipeline.Active())
	m.preview.SetLoading(m.pipeline.Active() || m.store.ContentLoading() || m.refreshing)

	pos := m.editor.CursorPosition()
	m.status.SetLine(pos.Line)
	m.status.SetChars(m.editor.Chars())

	// A narrow layout closes the sidebar on its own after a load.
	if m.focus == FocusSidebar && !m.store.IsOpen() {
		cmd = tea.Batch(cmd, m.setFocus(FocusPrompt))
	}
	m.layout()
	return cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		return tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Close, m.keys.Help) {
			m.showHelp = false
		}
		return nil
	}

	// The search box takes every key while it has focus.
	if m.focus == FocusSidebar && m.sidebar.Searching() {
		cmd, _ := m.sidebar.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return nil
	case key.Matches(msg, m.keys.Generate):
		return m.pipeline.Submit()
	case key.Matches(msg, m.keys.NewChat):
		return m.newChat()
	case key.Matches(msg, m.keys.History):
		return m.toggleHistory()
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()
	case key.Matches(msg, m.keys.Download):
		return m.download()
	case key.Matches(msg, m.keys.Theme):
		return m.toggleTheme()
	case key.Matches(msg, m.keys.PreviewMode):
		m.preview.SetMode(m.preview.Mode().Toggle())
		return nil
	case key.Matches(msg, m.keys.Browser):
		return m.openInBrowser()
	case key.Matches(msg, m.keys.NextFocus):
		return m.cycleFocus(1)
	case key.Matches(msg, m.keys.PrevFocus):
		return m.cycleFocus(-1)
	case key.Matches(msg, m.keys.Close):
		if m.store.IsOpen() {
			m.closeHistory()
		}
		return nil
	}

	switch m.focus {
	case FocusPrompt:
		if key.Matches(msg, m.keys.Submit) {
			return m.pipeline.Submit()
		}
		return m.prompt.Update(msg)
	case FocusEditor:
		return m.editor.Update(msg)
	case FocusPreview:
		return m.preview.Update(msg)
	case FocusSidebar:
		cmd, _ := m.sidebar.Update(msg)
		return cmd
	}
	return nil
}

// =============================================================================
// ACTIONS
// =============================================================================

// newChat clears the workspace at once and tells the backend. An open
// history list is refetched so the new session can show up.
func (m *Model) newChat() tea.Cmd {
	cmd := m.pipeline.Reset()
	if m.store.IsOpen() {
		m.sidebar.Reset()
		return tea.Batch(cmd, m.store.Open())
	}
	return cmd
}

func (m *Model) toggleHistory() tea.Cmd {
	if m.store.IsOpen() {
		m.closeHistory()
		return nil
	}
	m.sidebar.Reset()
	return tea.Batch(m.store.Open(), m.setFocus(FocusSidebar))
}

func (m *Model) closeHistory() {
	m.store.Close()
	m.sidebar.Reset()
}

// refresh re-projects the editor into the preview and shows the loading
// indicator for RefreshDelay.
func (m *Model) refresh() tea.Cmd {
	m.ws.RefreshPreview()
	m.refreshID++
	m.refreshing = true
	id := m.refreshID
	return tea.Tick(RefreshDelay, func(time.Time) tea.Msg {
		return RefreshDoneMsg{ID: id}
	})
}

func (m *Model) download() tea.Cmd {
	doc := m.ws.Document()
	if strings.TrimSpace(doc) == "" {
		return m.center.Notify(notify.Warning, MsgNothingToDownload)
	}
	path := m.downloadPath
	return func() tea.Msg {
		err := util.WriteFileAtomic(path, []byte(doc), 0o644)
		return DownloadDoneMsg{Path: path, Err: err}
	}
}

func (m *Model) downloadDone(msg DownloadDoneMsg) tea.Cmd {
	if msg.Err != nil {
		m.log.Warn().Err(msg.Err).Str("path", msg.Path).Msg("download failed")
		return m.center.Notify(notify.Error, "Error: "+msg.Err.Error())
	}
	m.log.Info().Str("path", msg.Path).Msg("document saved")
	return m.center.Notify(notify.Success, "Saved "+msg.Path)
}

// OpenInBrowser opens a local file in the default browser. The launcher's
// output is discarded so it cannot draw over the TUI.
func OpenInBrowser(path string) error {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return browser.OpenFile(path)
}

// openInBrowser writes the editor document to the browser file and opens
// it, showing the page the terminal preview can only approximate.
func (m *Model) openInBrowser() tea.Cmd {
	doc := m.ws.Document()
	if strings.TrimSpace(doc) == "" {
		return m.center.Notify(notify.Warning, MsgNothingToOpen)
	}
	path, open := m.browserPath, m.openFile
	return func() tea.Msg {
		if err := util.WriteFileAtomic(path, []byte(doc), 0o644); err != nil {
			return BrowserOpenedMsg{Path: path, Err: err}
		}
		return BrowserOpenedMsg{Path: path, Err: open(path)}
	}
}

func (m *Model) browserOpened(msg BrowserOpenedMsg) tea.Cmd {
	if msg.Err != nil {
		m.log.Warn().Err(msg.Err).Str("path", msg.Path).Msg("open in browser failed")
		return m.center.Notify(notify.Error, "Could not open browser: "+msg.Err.Error())
	}
	m.log.Info().Str("path", msg.Path).Msg("opened in browser")
	return m.center.Notify(notify.Info, MsgBrowserOpened)
}

// toggleTheme flips the theme and persists the choice.
func (m *Model) toggleTheme() tea.Cmd {
	name := m.theme.Toggle()
	m.applyTheme()
	m.cfg.UI.Theme = name

	cfg, save := *m.cfg, m.saveConfig
	return func() tea.Msg {
		return configSavedMsg{Err: save(&cfg)}
	}
}

func (m *Model) applyTheme() {
	m.editor.ApplyTheme()
	m.preview.ApplyTheme()
	m.prompt.ApplyTheme()
	m.status.ApplyTheme()
	m.sidebar.ApplyTheme()
}

// applyConfig takes the UI settings of a reloaded config. Server settings
// apply on the next start.
func (m *Model) applyConfig(msg ConfigReloadedMsg) tea.Cmd {
	if msg.Err != nil {
		m.log.Warn().Err(msg.Err).Msg("config reload failed")
		return m.center.Notify(notify.Warning, "Config not reloaded: "+msg.Err.Error())
	}
	if msg.Config == nil {
		return nil
	}
	ui := msg.Config.UI
	if ui.Theme != m.theme.Name {
		m.theme.SetName(ui.Theme)
		m.applyTheme()
	}
	m.theme.SetNarrowWidth(ui.NarrowWidth)
	if mode, err := preview.ParseMode(ui.PreviewMode); err == nil {
		m.preview.SetMode(mode)
	}
	m.cfg.UI = ui
	m.store.SetNarrow(m.theme.IsNarrow())
	m.log.Info().Str("theme", m.theme.Name).Int("narrow_width", m.theme.NarrowWidth).Msg("config reloaded")
	return nil
}

// =============================================================================
// FOCUS
// =============================================================================

func (m *Model) setFocus(f Focus) tea.Cmd {
	m.prompt.Blur()
	m.editor.Blur()
	m.preview.Blur()
	m.focus = f

	switch f {
	case FocusPrompt:
		return m.prompt.Focus()
	case FocusEditor:
		return m.editor.Focus()
	case FocusPreview:
		m.preview.Focus()
	}
	return nil
}

// cycleFocus moves through the panes on screen. The sidebar joins the
// cycle while it is open.
func (m *Model) cycleFocus(delta int) tea.Cmd {
	order := []Focus{FocusPrompt, FocusEditor, FocusPreview}
	if m.store.IsOpen() {
		order = append(order, FocusSidebar)
	}
	idx := 0
	for i, f := range order {
		if f == m.focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(order)) % len(order)
	return m.setFocus(order[idx])
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.theme.SetSize(width, height)
	m.store.SetNarrow(m.theme.IsNarrow())
	m.layout()
}

// layout sizes the panes. It only does work when the size, the layout
// mode or the sidebar visibility changed.
func (m *Model) layout() {
	state := layoutState{
		width:  m.width,
		height: m.height,
		narrow: m.theme.IsNarrow(),
		open:   m.store.IsOpen(),
	}
	if state == m.laidOut || m.width == 0 || m.height == 0 {
		return
	}
	m.laidOut = state

	w := m.width
	body := max(m.height-chromeHeight, 4)

	if state.narrow {
		if state.open {
			m.sidebar.SetSize(w, body)
		}
		top := body / 2
		m.editor.SetSize(w, top)
		m.preview.SetSize(w, body-top)
	} else {
		main := w
		if state.open {
			sw := min(sidebarWidth, w/3)
			m.sidebar.SetSize(sw, body)
			main -= sw
		}
		left := main / 2
		m.editor.SetSize(left, body)
		m.preview.SetSize(main-left, body)
	}

	m.prompt.SetWidth(w)
	m.status.SetWidth(w)
	m.toasts.SetWidth(w - 2)
	m.help.SetWidth(w)
}
