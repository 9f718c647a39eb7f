// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package turns

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/promptpad/internal/model"
	"github.com/jeranaias/promptpad/internal/ui/components"
	"github.com/jeranaias/promptpad/internal/util"
)

// CopiedText is shown while the copied indicator is on.
const CopiedText = "Copied to clipboard!"

// View renders the current mode.
func (m Model) View() string {
	var body string
	switch m.mode {
	case ModeCredentials:
		body = m.viewCredentials()
	case ModePreview:
		body = m.viewPreview()
	default:
		body = m.viewTurns()
	}

	header := m.viewHeader()
	status := m.viewStatus()
	if m.height > 0 {
		avail := m.height - lipgloss.Height(header) - lipgloss.Height(status)
		body = clipLines(body, avail)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

// =============================================================================
// HEADER
// =============================================================================

func (m Model) viewHeader() string {
	creds := m.editor.Credentials()

	name := creds.Model
	if info, ok := model.GetModelInfo(creds.Model); ok {
		name = info.Name
	}
	provider := model.ProviderFor(creds.Model).DisplayName()

	parts := []string{
		m.theme.HeaderBrand.Render("promptpad"),
		m.theme.HeaderModel.Render(name + " (" + provider + ")"),
	}
	if !creds.Complete() {
		parts = append(parts, m.theme.HeaderWarn.Render("API keys not set"))
	}
	if m.Busy() {
		parts = append(parts, m.spinner.View()+" generating")
	}
	if m.copied {
		parts = append(parts, m.theme.CopiedBadge.Render(CopiedText))
	}
	return m.theme.Header.Render(strings.Join(parts, "  "))
}

// =============================================================================
// TURN ROWS
// =============================================================================

func (m Model) viewTurns() string {
	if len(m.turns) == 0 {
		return m.theme.RowEmpty.Render("No turns. Press ctrl+n to add one or ctrl+v to paste.")
	}

	width := m.theme.ContentWidth()
	rows := make([]string, 0, len(m.turns))
	focusTop, focusBottom := 0, 0
	lines := 0
	for i, turn := range m.turns {
		row := m.viewRow(i, turn, width)
		h := lipgloss.Height(row)
		if i == m.focus {
			focusTop, focusBottom = lines, lines+h
		}
		lines += h
		rows = append(rows, row)
	}

	out := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return scrollTo(out, focusTop, focusBottom, m.bodyHeight())
}

func (m Model) viewRow(i int, turn model.Turn, width int) string {
	badge := m.theme.RoleBadge(turn.Role)
	index := m.theme.RowIndex.Render("#" + turn.ID)

	if i == m.focus && m.mode == ModeEdit {
		body := badge + " " + index + "\n" + m.textarea.View()
		return m.theme.RowFocused.Render(body)
	}

	avail := width - lipgloss.Width(badge) - lipgloss.Width(index) - 2
	var preview string
	if turn.Content == "" {
		preview = m.theme.RowEmpty.Render("(empty)")
	} else {
		preview = m.theme.RowPreview.Render(util.Preview(turn.Content, avail))
	}
	style := m.theme.RowBlurred
	if i == m.focus {
		style = m.theme.RowFocused
	}
	return style.Render(badge + " " + index + " " + preview)
}

// bodyHeight is the number of lines between header and status line.
func (m Model) bodyHeight() int {
	if m.height <= 0 {
		return 0
	}
	return m.height - 2
}

// =============================================================================
// CREDENTIALS PANE
// =============================================================================

func (m Model) viewCredentials() string {
	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render("API keys"))
	b.WriteString("\n")
	b.WriteString(m.theme.PaneLabel.Render("OpenAI"))
	b.WriteString("\n")
	b.WriteString(m.inputs[inputOpenAI].View())
	b.WriteString("\n\n")
	b.WriteString(m.theme.PaneLabel.Render("Anthropic"))
	b.WriteString("\n")
	b.WriteString(m.inputs[inputAnthropic].View())
	b.WriteString("\n\n")
	b.WriteString(m.theme.Help("enter", "save") + "  " + m.theme.Help("tab", "switch") + "  " + m.theme.Help("esc", "cancel"))
	return m.theme.Pane.Render(b.String())
}

// =============================================================================
// MARKDOWN PREVIEW
// =============================================================================

func (m Model) viewPreview() string {
	if len(m.turns) == 0 {
		return m.theme.RowEmpty.Render("Nothing to preview.")
	}
	turn := m.turns[m.focus]
	title := m.theme.RoleBadge(turn.Role) + " " + m.theme.RowIndex.Render("#"+turn.ID)
	return title + "\n" + m.markdown.render(turn.Content, m.theme.ContentWidth(), lipgloss.HasDarkBackground())
}

// markdownRenderer holds one glamour renderer, rebuilt only when the wrap
// width or the background changes.
type markdownRenderer struct {
	width int
	dark  bool
	r     *glamour.TermRenderer
}

// render renders content, falling back to the raw text.
func (c *markdownRenderer) render(content string, width int, dark bool) string {
	if c.r == nil || c.width != width || c.dark != dark {
		style := "light"
		if dark {
			style = "dark"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return content
		}
		c.r, c.width, c.dark = r, width, dark
	}
	out, err := c.r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

// =============================================================================
// STATUS LINE
// =============================================================================

func (m Model) viewStatus() string {
	width := m.width
	if toast, ok := m.toasts.Current(); ok {
		return components.RenderToast(toast, width)
	}

	hints := make([]string, 0, len(m.keys.ShortHelp()))
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		hints = append(hints, m.theme.Help(h.Key, h.Desc))
	}
	line := strings.Join(hints, " ")
	if width > 0 && lipgloss.Width(line) > width {
		// Styled text cannot be cut safely; fall back to plain hints.
		plain := make([]string, 0, len(hints))
		for _, b := range m.keys.ShortHelp() {
			plain = append(plain, b.Help().Key+" "+b.Help().Desc)
		}
		return m.theme.HelpDesc.Render(util.TruncateWidth(strings.Join(plain, " "), width))
	}
	return line
}

// =============================================================================
// LAYOUT HELPERS
// =============================================================================

// scrollTo returns the window of at most height lines of s that contains the
// lines [top, bottom). A non-positive height returns s unchanged.
func scrollTo(s string, top, bottom, height int) string {
	if height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= height {
		return s
	}
	start := 0
	if bottom > height {
		start = bottom - height
	}
	if top < start {
		start = top
	}
	end := start + height
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}

// clipLines keeps the first n lines of s.
func clipLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}
