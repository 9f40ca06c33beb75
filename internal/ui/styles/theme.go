// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/sitegen-tui/internal/notify"
)

// Theme names as spelled in the config file.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// DefaultNarrowWidth is the column count below which the layout is narrow.
const DefaultNarrowWidth = 100

// ParseTheme validates a theme name. Empty means dark.
func ParseTheme(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	}
	return "", fmt.Errorf("unknown theme %q", name)
}

// Theme holds all the styled components for the application.
type Theme struct {
	Name         string
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width       int
	Height      int
	NarrowWidth int

	// ==========================================================================
	// HEADER
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// PANES
	// ==========================================================================

	Pane             lipgloss.Style
	PaneFocused      lipgloss.Style
	PaneTitle        lipgloss.Style
	PaneTitleFocused lipgloss.Style
	LineNumber       lipgloss.Style
	Placeholder      lipgloss.Style
	Loading          lipgloss.Style

	// ==========================================================================
	// PROMPT
	// ==========================================================================

	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style
	CharCount        lipgloss.Style
	CharCountWarning lipgloss.Style
	CharCountDanger  lipgloss.Style

	// ==========================================================================
	// STATUS BAR
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusReady  lipgloss.Style
	StatusBusy   lipgloss.Style
	StatusItem   lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Spinner      lipgloss.Style

	// ==========================================================================
	// HISTORY SIDEBAR
	// ==========================================================================

	Sidebar         lipgloss.Style
	SidebarTitle    lipgloss.Style
	SearchBox       lipgloss.Style
	SessionTitle    lipgloss.Style
	SessionMeta     lipgloss.Style
	VersionLabel    lipgloss.Style
	VersionPrompt   lipgloss.Style
	RowSelected     lipgloss.Style
	SidebarEmpty    lipgloss.Style
	SidebarEmptyTip lipgloss.Style
	SidebarError    lipgloss.Style

	// ==========================================================================
	// TOASTS AND OVERLAYS
	// ==========================================================================

	Toast        lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style
	ToastInfo    lipgloss.Style
	HelpBox      lipgloss.Style
}

// NewTheme creates a theme by name. Unknown names fall back to dark.
func NewTheme(name string) *Theme {
	t := &Theme{
		ColorProfile: termenv.ColorProfile(),
		NarrowWidth:  DefaultNarrowWidth,
	}
	t.SetName(name)
	return t
}

// SetName switches between dark and light and rebuilds every style.
func (t *Theme) SetName(name string) {
	parsed, err := ParseTheme(name)
	if err != nil {
		parsed = ThemeDark
	}
	t.Name = parsed
	t.IsDark = parsed == ThemeDark
	lipgloss.SetHasDarkBackground(t.IsDark)
	t.initStyles()
}

// Toggle flips the theme and returns the new name.
func (t *Theme) Toggle() string {
	if t.IsDark {
		t.SetName(ThemeLight)
	} else {
		t.SetName(ThemeDark)
	}
	return t.Name
}

func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Panes
	t.Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay)

	t.PaneFocused = t.Pane.
		BorderForeground(FocusRing)

	t.PaneTitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	t.PaneTitleFocused = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.LineNumber = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Placeholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Loading = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	// Prompt
	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.CharCount = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.CharCountWarning = lipgloss.NewStyle().
		Foreground(Amber)

	t.CharCountDanger = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusReady = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.StatusBusy = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.StatusItem = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	// History sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)

	t.SidebarTitle = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.SearchBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay)

	t.SessionTitle = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.SessionMeta = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.VersionLabel = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.VersionPrompt = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.RowSelected = lipgloss.NewStyle().
		Background(SelectionBg).
		Bold(true)

	t.SidebarEmpty = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	t.SidebarEmptyTip = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.SidebarError = lipgloss.NewStyle().
		Foreground(Rose)

	// Toasts
	t.Toast = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, 1)

	t.ToastSuccess = t.Toast.
		Background(ToastSuccessBg).
		BorderForeground(Emerald)

	t.ToastWarning = t.Toast.
		Background(ToastWarningBg).
		BorderForeground(Amber)

	t.ToastError = t.Toast.
		Background(ToastErrorBg).
		BorderForeground(Rose)

	t.ToastInfo = t.Toast.
		Background(ToastInfoBg).
		BorderForeground(Blue)

	t.HelpBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)
}

// ToastStyle returns the style for a notification kind.
func (t *Theme) ToastStyle(kind notify.Kind) lipgloss.Style {
	switch kind {
	case notify.Success:
		return t.ToastSuccess
	case notify.Warning:
		return t.ToastWarning
	case notify.Error:
		return t.ToastError
	default:
		return t.ToastInfo
	}
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// SetNarrowWidth sets the narrow layout threshold. Non-positive values
// restore the default.
func (t *Theme) SetNarrowWidth(cols int) {
	if cols <= 0 {
		cols = DefaultNarrowWidth
	}
	t.NarrowWidth = cols
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // panes stacked, sidebar fills the screen
	LayoutWide                     // panes side by side, sidebar docked left
)

// Layout returns the current layout mode based on width.
func (t *Theme) Layout() LayoutMode {
	if t.Width < t.NarrowWidth {
		return LayoutNarrow
	}
	return LayoutWide
}

// IsNarrow reports a narrow layout.
func (t *Theme) IsNarrow() bool {
	return t.Layout() == LayoutNarrow
}
