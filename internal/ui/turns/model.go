// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package turns

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/promptpad/internal/editor"
	"github.com/jeranaias/promptpad/internal/model"
	"github.com/jeranaias/promptpad/internal/ui/components"
	"github.com/jeranaias/promptpad/internal/ui/styles"
	"github.com/jeranaias/promptpad/internal/util"
)

// =============================================================================
// MODE
// =============================================================================

// Mode selects what the view is showing.
type Mode int

const (
	ModeEdit        Mode = iota // Editing turns
	ModeCredentials             // Editing API keys
	ModePreview                 // Rendered markdown of the focused turn
)

// maxEditorHeight caps the visible height of the focused textarea so the
// other rows stay on screen. Longer content scrolls inside it.
const maxEditorHeight = 20

// Credential inputs.
const (
	inputOpenAI = iota
	inputAnthropic
)

// clientSetter is implemented by editors whose completion client can be
// replaced at runtime.
type clientSetter interface {
	SetClient(client editor.Completer)
}

// defaultModelSetter is implemented by editors that track a configured
// fallback model.
type defaultModelSetter interface {
	SetDefaultModel(id string) error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the turn editor.
type Model struct {
	editor editor.Editor
	toasts *components.ToastManager
	theme  *styles.Theme
	keys   KeyMap

	mode   Mode
	width  int
	height int

	// Snapshot of the editor's turn list, refreshed after every operation.
	turns []model.Turn
	focus int

	textarea textarea.Model
	spinner  spinner.Model
	inputs   [2]textinput.Model
	inputIdx int

	markdown *markdownRenderer

	// Requests started by this view that have not returned yet.
	pending int
	copied  bool

	ctx    context.Context
	logger zerolog.Logger
}

// New creates the turn editor view. Notifications from the editor must be
// routed to toasts for them to show up in the status line.
func New(ed editor.Editor, toasts *components.ToastManager, theme *styles.Theme) Model {
	if toasts == nil {
		toasts = components.NewToastManager()
	}
	if theme == nil {
		theme = styles.NewTheme()
	}

	ta := textarea.New()
	ta.Prompt = ""
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Placeholder = "Enter text..."
	ta.Cursor.BlinkSpeed = styles.CursorBlinkRate
	ta.Focus()

	sp := spinner.New(
		spinner.WithSpinner(styles.LineSpinner.Spinner()),
		spinner.WithStyle(theme.BusyIndicator),
	)

	m := Model{
		editor:   ed,
		toasts:   toasts,
		theme:    theme,
		keys:     DefaultKeyMap(),
		textarea: ta,
		spinner:  sp,
		markdown: &markdownRenderer{},
		inputs:   [2]textinput.Model{newKeyInput(model.OpenAIKeyPlaceholder), newKeyInput(model.AnthropicKeyPlaceholder)},
		ctx:      context.Background(),
		logger:   zerolog.Nop(),
	}
	m.refresh()
	return m
}

// WithContext sets the context passed to Generate.
func (m Model) WithContext(ctx context.Context) Model {
	m.ctx = ctx
	return m
}

// WithLogger sets the logger handed to completion clients built on reload.
func (m Model) WithLogger(logger zerolog.Logger) Model {
	m.logger = logger
	return m
}

// WithPreview starts the view in markdown preview mode.
func (m Model) WithPreview(on bool) Model {
	if on {
		m.mode = ModePreview
	}
	return m
}

func newKeyInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 0
	return ti
}

// Init starts the toast ticker and the cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, components.ToastTickCmd())
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Focus returns the index of the focused turn.
func (m Model) Focus() int {
	return m.focus
}

// Mode returns the current mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Busy reports whether a generate request is in flight.
func (m Model) Busy() bool {
	return m.pending > 0 || m.editor.Busy()
}

// =============================================================================
// STATE SYNC
// =============================================================================

// refresh re-reads the turn list and loads the focused turn into the
// textarea when its content changed underneath the view.
func (m *Model) refresh() {
	m.turns = m.editor.Turns()
	if m.focus >= len(m.turns) {
		m.focus = len(m.turns) - 1
	}
	if m.focus < 0 {
		m.focus = 0
	}
	if len(m.turns) == 0 {
		m.textarea.SetValue("")
	} else if m.textarea.Value() != m.turns[m.focus].Content {
		m.textarea.SetValue(m.turns[m.focus].Content)
	}
	m.resizeEditor()
}

// resizeEditor makes the textarea as tall as its content.
func (m *Model) resizeEditor() {
	h := util.LineCount(m.textarea.Value())
	if h > maxEditorHeight {
		h = maxEditorHeight
	}
	m.textarea.SetHeight(h)
	if m.width > 0 {
		m.textarea.SetWidth(m.theme.ContentWidth())
	}
}

// setFocus moves focus to index i, wrapping around.
func (m *Model) setFocus(i int) tea.Cmd {
	n := len(m.turns)
	if n == 0 {
		return nil
	}
	m.focus = ((i % n) + n) % n
	m.textarea.SetValue(m.turns[m.focus].Content)
	m.resizeEditor()
	return m.textarea.Focus()
}
