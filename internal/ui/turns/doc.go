// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package turns provides the Bubble Tea view over an editor.Editor.

Every turn is one row: a role badge and the content. The focused row is
edited in a textarea whose height follows the number of lines; the other
rows show a one-line preview. All state lives in the editor, so the view
re-reads the turn list after every operation.

# Key Bindings

	tab/shift+tab  move focus between turns
	ctrl+r         cycle the focused turn's role
	ctrl+n         add a turn
	ctrl+y         copy all turns to the clipboard
	ctrl+v         replace all turns with the clipboard contents
	ctrl+g         generate a reply with the selected model
	ctrl+o         cycle the selected model
	ctrl+k         edit API keys
	ctrl+p         toggle the markdown preview of the focused turn
	ctrl+c         quit

Paste and generate run as commands so the view stays interactive while they
are in flight.

# Usage

	m := turns.New(sess, toasts, styles.NewTheme())
	p := tea.NewProgram(m, tea.WithAltScreen())
	bridge.Indicator().OnChange(func(on bool) { p.Send(turns.CopiedMsg{On: on}) })
	_, err := p.Run()
*/
package turns
