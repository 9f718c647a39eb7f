// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package turns

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/promptpad/internal/model"
	"github.com/jeranaias/promptpad/internal/ui/components"
	"github.com/jeranaias/promptpad/internal/ui/styles"
)

// Status messages shown after successful actions.
const (
	MsgKeysSaved      = "API keys saved."
	MsgConfigReloaded = "Configuration reloaded."
	MsgConfigFailed   = "Failed to reload configuration."
)

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.resizeEditor()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		switch m.mode {
		case ModeCredentials:
			return m.updateCredentials(msg)
		case ModePreview:
			return m.updatePreview(msg)
		}
		return m.updateEdit(msg)

	case CopiedMsg:
		m.copied = msg.On
		return m, nil

	case PastedMsg:
		m.refresh()
		return m, nil

	case GeneratedMsg:
		if m.pending > 0 {
			m.pending--
		}
		m.refresh()
		return m, nil

	case ConfigReloadedMsg:
		return m.applyConfig(msg), nil

	case spinner.TickMsg:
		if !m.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case components.ToastTickMsg:
		m.toasts.TickToasts()
		return m, components.ToastTickCmd()
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// =============================================================================
// EDIT MODE
// =============================================================================

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Next):
		cmd := m.setFocus(m.focus + 1)
		return m, cmd

	case key.Matches(msg, m.keys.Prev):
		cmd := m.setFocus(m.focus - 1)
		return m, cmd

	case key.Matches(msg, m.keys.CycleRole):
		if m.focus < len(m.turns) {
			_ = m.editor.SetRole(m.focus, m.turns[m.focus].Role.Next())
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.AddTurn):
		// A failed save still leaves the new turn in the store.
		_ = m.editor.AddTurn()
		m.turns = m.editor.Turns()
		cmd := m.setFocus(len(m.turns) - 1)
		return m, cmd

	case key.Matches(msg, m.keys.Copy):
		_, _ = m.editor.Copy()
		return m, nil

	case key.Matches(msg, m.keys.Paste):
		return m, m.pasteCmd()

	case key.Matches(msg, m.keys.Generate):
		m.pending++
		return m, tea.Batch(m.generateCmd(), m.spinner.Tick)

	case key.Matches(msg, m.keys.CycleModel):
		next := model.NextModel(m.editor.Credentials().Model)
		_ = m.editor.SetModel(next)
		return m, nil

	case key.Matches(msg, m.keys.Credentials):
		cmd := m.openCredentials()
		return m, cmd

	case key.Matches(msg, m.keys.Preview):
		m.mode = ModePreview
		m.textarea.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.toasts.Dismiss()
		return m, nil
	}

	if len(m.turns) == 0 {
		return m, nil
	}

	var cmd tea.Cmd
	before := m.textarea.Value()
	m.textarea, cmd = m.textarea.Update(msg)
	if after := m.textarea.Value(); after != before {
		_ = m.editor.SetContent(m.focus, after)
		m.turns = m.editor.Turns()
		m.resizeEditor()
	}
	return m, cmd
}

func (m Model) pasteCmd() tea.Cmd {
	ed := m.editor
	return func() tea.Msg {
		return PastedMsg{Err: ed.Paste()}
	}
}

func (m Model) generateCmd() tea.Cmd {
	ed, ctx := m.editor, m.ctx
	return func() tea.Msg {
		return GeneratedMsg{Err: ed.Generate(ctx)}
	}
}

// =============================================================================
// CREDENTIALS MODE
// =============================================================================

func (m *Model) openCredentials() tea.Cmd {
	creds := m.editor.Credentials()
	m.inputs[inputOpenAI].SetValue("")
	m.inputs[inputAnthropic].SetValue("")
	if creds.HasOpenAIKey() {
		m.inputs[inputOpenAI].SetValue(creds.OpenAIKey)
	}
	if creds.HasAnthropicKey() {
		m.inputs[inputAnthropic].SetValue(creds.AnthropicKey)
	}
	m.mode = ModeCredentials
	m.textarea.Blur()
	m.inputIdx = inputOpenAI
	m.inputs[inputAnthropic].Blur()
	return m.inputs[inputOpenAI].Focus()
}

func (m Model) updateCredentials(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Credentials):
		cmd := m.closePane()
		return m, cmd

	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Prev):
		m.inputs[m.inputIdx].Blur()
		m.inputIdx = 1 - m.inputIdx
		cmd := m.inputs[m.inputIdx].Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Submit):
		m.saveCredentials()
		cmd := m.closePane()
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.inputIdx], cmd = m.inputs[m.inputIdx].Update(msg)
	return m, cmd
}

// saveCredentials stores every key that was changed. Failures are reported
// by the editor.
func (m *Model) saveCredentials() {
	creds := m.editor.Credentials()
	ok := true
	if v := m.inputs[inputOpenAI].Value(); v != "" && v != creds.OpenAIKey {
		ok = m.editor.SetOpenAIKey(v) == nil && ok
	}
	if v := m.inputs[inputAnthropic].Value(); v != "" && v != creds.AnthropicKey {
		ok = m.editor.SetAnthropicKey(v) == nil && ok
	}
	if ok {
		m.toasts.AddSuccess(MsgKeysSaved)
	}
}

func (m *Model) closePane() tea.Cmd {
	m.inputs[inputOpenAI].Blur()
	m.inputs[inputAnthropic].Blur()
	m.mode = ModeEdit
	return m.textarea.Focus()
}

// =============================================================================
// PREVIEW MODE
// =============================================================================

func (m Model) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Preview), key.Matches(msg, m.keys.Cancel):
		cmd := m.closePane()
		return m, cmd
	case key.Matches(msg, m.keys.Next):
		m.setFocus(m.focus + 1)
		m.textarea.Blur()
	case key.Matches(msg, m.keys.Prev):
		m.setFocus(m.focus - 1)
		m.textarea.Blur()
	}
	return m, nil
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

func (m Model) applyConfig(msg ConfigReloadedMsg) Model {
	if msg.Err != nil || msg.Config == nil {
		m.toasts.AddError(MsgConfigFailed)
		return m
	}
	if setter, ok := m.editor.(clientSetter); ok {
		setter.SetClient(msg.Config.NewClient().WithLogger(m.logger))
	}
	if setter, ok := m.editor.(defaultModelSetter); ok {
		if err := setter.SetDefaultModel(msg.Config.DefaultModel); err != nil {
			m.logger.Warn().Err(err).Msg("default model not applied")
		}
	}
	if err := styles.ApplyThemeName(msg.Config.UI.Theme); err != nil {
		m.toasts.AddError(MsgConfigFailed)
		return m
	}
	m.toasts.AddStatus(MsgConfigReloaded)
	return m
}
