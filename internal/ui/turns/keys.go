// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package turns

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the turn editor.
type KeyMap struct {
	Next        key.Binding
	Prev        key.Binding
	CycleRole   key.Binding
	AddTurn     key.Binding
	Copy        key.Binding
	Paste       key.Binding
	Generate    key.Binding
	CycleModel  key.Binding
	Credentials key.Binding
	Preview     key.Binding
	Submit      key.Binding
	Cancel      key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev"),
		),
		CycleRole: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "role"),
		),
		AddTurn: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "add"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy"),
		),
		Paste: key.NewBinding(
			key.WithKeys("ctrl+v"),
			key.WithHelp("C-v", "paste"),
		),
		Generate: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("C-g", "generate"),
		),
		CycleModel: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "model"),
		),
		Credentials: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("C-k", "keys"),
		),
		Preview: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("C-p", "preview"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the status line of the editor.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.CycleRole, k.AddTurn, k.Copy, k.Paste, k.Generate, k.CycleModel, k.Credentials, k.Preview, k.Quit}
}
