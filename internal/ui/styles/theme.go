// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jeranaias/promptpad/internal/model"
)

// Theme names accepted by ApplyThemeName.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderBrand lipgloss.Style
	HeaderModel lipgloss.Style
	HeaderWarn  lipgloss.Style

	// ==========================================================================
	// TURN ROW STYLES
	// ==========================================================================

	RowFocused lipgloss.Style
	RowBlurred lipgloss.Style
	RowIndex   lipgloss.Style
	RowPreview lipgloss.Style
	RowEmpty   lipgloss.Style

	// ==========================================================================
	// STATUS STYLES
	// ==========================================================================

	StatusBar     lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	CopiedBadge   lipgloss.Style
	BusyIndicator lipgloss.Style

	// ==========================================================================
	// PANE STYLES
	// ==========================================================================

	Pane      lipgloss.Style
	PaneTitle lipgloss.Style
	PaneLabel lipgloss.Style

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	titler cases.Caser
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()
	t := &Theme{
		IsDark:       lipgloss.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
		titler:       cases.Title(language.English),
	}

	t.initStyles()
	return t
}

// queryDarkBackground asks the terminal for its background color.
var queryDarkBackground = termenv.HasDarkBackground

var (
	detectOnce   sync.Once
	detectedDark bool
)

// detectDarkBackground queries the terminal on first use only; later calls,
// such as a config reload inside a running program, reuse the answer.
func detectDarkBackground() bool {
	detectOnce.Do(func() {
		detectedDark = queryDarkBackground()
	})
	return detectedDark
}

// ApplyThemeName forces the light or dark palette, or uses the detected
// terminal background for "auto" and the empty string.
func ApplyThemeName(name string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ThemeAuto:
		lipgloss.SetHasDarkBackground(detectDarkBackground())
	case ThemeDark:
		lipgloss.SetHasDarkBackground(true)
	case ThemeLight:
		lipgloss.SetHasDarkBackground(false)
	default:
		return fmt.Errorf("unknown theme %q (want auto, dark or light)", name)
	}
	return nil
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.HeaderModel = lipgloss.NewStyle().
		Foreground(Purple)

	t.HeaderWarn = lipgloss.NewStyle().
		Foreground(Amber)

	// Turn rows
	t.RowFocused = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)

	t.RowBlurred = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 1)

	t.RowIndex = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.RowPreview = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.RowEmpty = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.StatusInfo = lipgloss.NewStyle().
		Foreground(InfoHighContrast)

	t.StatusError = lipgloss.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true)

	t.CopiedBadge = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Emerald).
		Bold(true).
		Padding(0, 1)

	t.BusyIndicator = lipgloss.NewStyle().
		Foreground(Purple)

	// Panes
	t.Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Cyan).
		Padding(1, 2)

	t.PaneTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		MarginBottom(1)

	t.PaneLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.HelpKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.HelpDesc = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// RoleBadge renders the role as a title-cased badge in the role's colors.
func (t *Theme) RoleBadge(r model.Role) string {
	c := ColorsFor(r)
	return lipgloss.NewStyle().
		Foreground(c.Fg).
		Background(c.Bg).
		Bold(true).
		Padding(0, 1).
		Render(t.RoleLabel(r))
}

// RoleLabel returns the display label for a role, e.g. "Assistant".
func (t *Theme) RoleLabel(r model.Role) string {
	return t.titler.String(r.String())
}

// Help renders one key hint.
func (t *Theme) Help(key, desc string) string {
	return t.HelpKey.Render(key) + " " + t.HelpDesc.Render(desc)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// ContentWidth is the width available inside a turn row.
func (t *Theme) ContentWidth() int {
	w := t.Width - t.RowFocused.GetHorizontalFrameSize()
	if w < 10 {
		return 10
	}
	return w
}
