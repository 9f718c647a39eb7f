// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the promptpad TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection. ApplyThemeName lets the ui.theme setting pin either palette.

# Color System (colors.go)

  - Purple - Focus ring and the assistant accent
  - Cyan - Brand color and key hints
  - Emerald - The "Copied to clipboard!" badge
  - Amber - System turns and missing credentials
  - Rose - Errors

Each role has a badge color pair returned by ColorsFor.

# Theme (theme.go)

Theme groups the header, turn row, status and pane styles:

	theme := styles.NewTheme()
	theme.SetSize(width, height)
	row := theme.RowFocused.Width(theme.ContentWidth()).Render(body)
	badge := theme.RoleBadge(model.RoleAssistant) // " Assistant "

# Animations (animations.go)

SpinnerConfig values convert to bubbles spinners:

	s := spinner.New(spinner.WithSpinner(styles.LineSpinner.Spinner()))
*/
package styles
