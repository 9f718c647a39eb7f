// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the promptpad TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/promptpad/internal/model"
)

// =============================================================================
// ACCENT COLORS
// =============================================================================

// Purple - Primary accent, assistant turns, focus
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Cyan - Brand color, user turns, key hints
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - Success states, the copied badge
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - Errors and failed actions
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - System turns, missing credentials
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// SurfaceDim - Header and status bar background
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}

// Overlay - Borders and separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// OverlayDim - Blurred row borders
var OverlayDim = lipgloss.AdaptiveColor{Light: "#D4D4D4", Dark: "#45475A"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - Labels, less prominent text
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - Hints and placeholders
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// =============================================================================
// ROLE COLORS
// =============================================================================

// RoleColors pairs a badge foreground with its background.
type RoleColors struct {
	Fg lipgloss.AdaptiveColor
	Bg lipgloss.AdaptiveColor
}

var (
	systemColors = RoleColors{
		Fg: lipgloss.AdaptiveColor{Light: "#92400E", Dark: "#FEF3C7"},
		Bg: lipgloss.AdaptiveColor{Light: "#FEF3C7", Dark: "#78350F"},
	}
	userColors = RoleColors{
		Fg: lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#E0F2FE"},
		Bg: lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1D4ED8"},
	}
	assistantColors = RoleColors{
		Fg: lipgloss.AdaptiveColor{Light: "#5B4B8A", Dark: "#E9E4F5"},
		Bg: lipgloss.AdaptiveColor{Light: "#F5F3FF", Dark: "#3B3655"},
	}
)

// ColorsFor returns the badge colors for a role. Unknown roles use the
// muted text color on the overlay background.
func ColorsFor(r model.Role) RoleColors {
	switch r {
	case model.RoleSystem:
		return systemColors
	case model.RoleUser:
		return userColors
	case model.RoleAssistant:
		return assistantColors
	default:
		return RoleColors{Fg: TextMuted, Bg: Overlay}
	}
}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet contains text indicators for status states.
// They give a cue beyond color for colorblind users.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Info    string
	Busy    string
}

// StatusIndicators are ASCII-only for maximum terminal compatibility.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Info:    "[i]",
	Busy:    "[*]",
}

// High contrast variants used by the Render helpers.
var (
	SuccessHighContrast = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#22C55E"}
	ErrorHighContrast   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}
	InfoHighContrast    = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#3B82F6"}
)

// RenderSuccess renders a success message with the [OK] indicator.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().
		Foreground(SuccessHighContrast).
		Bold(true).
		Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error message with the [X] indicator.
func RenderError(message string) string {
	return lipgloss.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true).
		Render(StatusIndicators.Error + " " + message)
}

// RenderInfo renders an informational message with the [i] indicator.
func RenderInfo(message string) string {
	return lipgloss.NewStyle().
		Foreground(InfoHighContrast).
		Render(StatusIndicators.Info + " " + message)
}

// RenderStatus picks RenderSuccess or RenderError.
func RenderStatus(success bool, message string) string {
	if success {
		return RenderSuccess(message)
	}
	return RenderError(message)
}
