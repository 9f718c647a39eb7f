// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/panics"

	"github.com/jeranaias/promptpad/internal/clipboard"
	"github.com/jeranaias/promptpad/internal/model"
	"github.com/jeranaias/promptpad/internal/storage"
	"github.com/jeranaias/promptpad/internal/store"
)

// ErrCredentialsMissing is returned by Generate when either API key is unset.
var ErrCredentialsMissing = errors.New("both API keys must be set")

// Completer sends turns to a completion API and returns the generated text.
type Completer interface {
	Complete(ctx context.Context, modelID string, turns []model.Turn, creds model.Credentials) (string, error)
}

// Editor is the set of operations a view may call.
type Editor interface {
	Turns() []model.Turn
	AddTurn() error
	SetRole(index int, role model.Role) error
	SetContent(index int, content string) error

	Copy() (string, error)
	Paste() error
	Generate(ctx context.Context) error

	Busy() bool
	Copied() bool

	Credentials() model.Credentials
	SetOpenAIKey(key string) error
	SetAnthropicKey(key string) error
	SetModel(id string) error
}

var _ Editor = (*Session)(nil)

// =============================================================================
// OPTIONS
// =============================================================================

// Option configures a Session.
type Option func(*Session)

// WithNotifier sets the notification receiver.
func WithNotifier(n Notifier) Option {
	return func(s *Session) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger.With().Str("component", "editor").Logger()
	}
}

// WithKeyFallback supplies keys used when the stored credential is unset,
// typically from the environment. Fallbacks are never persisted.
func WithKeyFallback(openAIKey, anthropicKey string) Option {
	return func(s *Session) {
		s.fallbackOpenAI = openAIKey
		s.fallbackAnthropic = anthropicKey
	}
}

// =============================================================================
// SESSION
// =============================================================================

// Session implements Editor over a turn store, persistence, a clipboard
// bridge and a completion client.
type Session struct {
	store    *store.Store
	persist  *storage.Persistence
	bridge   *clipboard.Bridge
	notifier Notifier
	logger   zerolog.Logger

	mu     sync.RWMutex
	client Completer
	creds  model.Credentials

	fallbackOpenAI    string
	fallbackAnthropic string

	busy atomic.Int32
}

// NewSession loads the saved turns and credentials and returns a session
// whose every turn change is written back through persist.
func NewSession(persist *storage.Persistence, bridge *clipboard.Bridge, client Completer, opts ...Option) (*Session, error) {
	s := &Session{
		persist:  persist,
		bridge:   bridge,
		client:   client,
		notifier: discard{},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	turns, err := persist.LoadTurns()
	if err != nil {
		return nil, fmt.Errorf("failed to load turns: %w", err)
	}
	creds, err := persist.LoadCredentials()
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	s.creds = creds

	s.store = store.New(turns)
	s.store.OnCommit(persist.SaveTurns)

	s.logger.Debug().Int("turns", len(turns)).Str("model", creds.Model).Msg("session opened")
	return s, nil
}

// Store returns the underlying turn store.
func (s *Session) Store() *store.Store {
	return s.store
}

// SetClient replaces the completion client, e.g. after a config reload.
func (s *Session) SetClient(client Completer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = client
}

// Turns returns a snapshot of the turn list.
func (s *Session) Turns() []model.Turn {
	return s.store.Turns()
}

// =============================================================================
// TURN OPERATIONS
// =============================================================================

// AddTurn appends an empty turn with the alternating role.
func (s *Session) AddTurn() error {
	_, err := s.store.AddTurn()
	return s.saved("add turn", err)
}

// SetRole changes the role of the turn at index. An out-of-range index is ignored.
func (s *Session) SetRole(index int, role model.Role) error {
	if _, err := model.ParseRole(string(role)); err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	_, err := s.store.SetRole(index, role)
	return s.saved("set role", err)
}

// SetContent changes the content of the turn at index. An out-of-range index is ignored.
func (s *Session) SetContent(index int, content string) error {
	_, err := s.store.SetContent(index, content)
	return s.saved("edit content", err)
}

// saved reports a persistence failure of a committed change. The change
// itself stays in the store.
func (s *Session) saved(action string, err error) error {
	if err == nil {
		return nil
	}
	s.fail(action, MsgSaveFailed, err)
	return fmt.Errorf("%s: %w", action, err)
}

// =============================================================================
// CLIPBOARD OPERATIONS
// =============================================================================

// Copy writes the turn list to the clipboard and returns the text written.
func (s *Session) Copy() (string, error) {
	text, err := s.bridge.Copy(s.store.Turns())
	if err != nil {
		s.fail("copy", MsgCopyFailed, err)
		return "", fmt.Errorf("copy: %w", err)
	}
	s.logger.Debug().Int("bytes", len(text)).Msg("copied turns")
	return text, nil
}

// Paste replaces the turn list with the clipboard contents. On any failure
// the turn list is unchanged.
func (s *Session) Paste() error {
	turns, err := s.bridge.Paste()
	if err != nil {
		s.fail("paste", MsgPasteFailed, err)
		return fmt.Errorf("paste: %w", err)
	}
	s.logger.Debug().Int("turns", len(turns)).Msg("pasted turns")
	return s.saved("paste", s.store.ReplaceAll(turns))
}

// Copied reports whether the copied indicator is on.
func (s *Session) Copied() bool {
	return s.bridge.Indicator().On()
}

// =============================================================================
// GENERATION
// =============================================================================

// Generate sends the turn list to the selected model and appends the reply
// as an assistant turn. Both API keys must be set; otherwise no request is
// made. The busy flag is held for the duration of the call.
func (s *Session) Generate(ctx context.Context) error {
	creds := s.Credentials()
	if !creds.Complete() {
		s.notify(Notification{Level: LevelError, Action: "generate", Message: MsgMissingKeys, Err: ErrCredentialsMissing})
		return ErrCredentialsMissing
	}

	s.busy.Add(1)
	defer s.busy.Add(-1)

	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()

	var (
		text string
		err  error
		pc   panics.Catcher
	)
	pc.Try(func() {
		text, err = client.Complete(ctx, creds.Model, s.store.Turns(), creds)
	})
	if r := pc.Recovered(); r != nil {
		err = r.AsError()
	}
	if err != nil {
		s.fail("generate", MsgGenerateFailed, err)
		return fmt.Errorf("generate: %w", err)
	}

	s.logger.Info().Str("model", creds.Model).Int("chars", len(text)).Msg("reply generated")
	_, err = s.store.AppendGenerated(text)
	return s.saved("generate", err)
}

// Busy reports whether a Generate call is in flight.
func (s *Session) Busy() bool {
	return s.busy.Load() > 0
}

// =============================================================================
// CREDENTIALS
// =============================================================================

// Credentials returns the effective credentials: stored values, with unset
// keys replaced by the configured fallbacks.
func (s *Session) Credentials() model.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	creds := s.creds
	if !creds.HasOpenAIKey() && s.fallbackOpenAI != "" {
		creds.OpenAIKey = s.fallbackOpenAI
	}
	if !creds.HasAnthropicKey() && s.fallbackAnthropic != "" {
		creds.AnthropicKey = s.fallbackAnthropic
	}
	return creds
}

// SetOpenAIKey stores the OpenAI key.
func (s *Session) SetOpenAIKey(key string) error {
	return s.setCredential("set OpenAI key", func(c *model.Credentials) { c.OpenAIKey = key }, s.persist.SaveOpenAIKey, key)
}

// SetAnthropicKey stores the Anthropic key.
func (s *Session) SetAnthropicKey(key string) error {
	return s.setCredential("set Anthropic key", func(c *model.Credentials) { c.AnthropicKey = key }, s.persist.SaveAnthropicKey, key)
}

// SetModel stores the selected model. Identifiers outside the catalog are
// accepted and routed by name.
func (s *Session) SetModel(id string) error {
	return s.setCredential("select model", func(c *model.Credentials) { c.Model = id }, s.persist.SaveModel, id)
}

// SetDefaultModel changes the fallback model, e.g. after a config reload. The
// current model follows it only while the user has not saved a selection.
func (s *Session) SetDefaultModel(id string) error {
	s.persist.DefaultModel = id
	_, saved, err := s.persist.SavedModel()
	if err != nil {
		return fmt.Errorf("set default model: %w", err)
	}
	if saved {
		return nil
	}
	s.mu.Lock()
	s.creds.Model = id
	s.mu.Unlock()
	return nil
}

func (s *Session) setCredential(action string, apply func(*model.Credentials), save func(string) error, value string) error {
	s.mu.Lock()
	apply(&s.creds)
	s.mu.Unlock()

	if err := save(value); err != nil {
		s.fail(action, MsgCredentialFailed, err)
		return fmt.Errorf("%s: %w", action, err)
	}
	return nil
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

func (s *Session) fail(action, message string, err error) {
	s.logger.Error().Err(err).Str("action", action).Msg("operation failed")
	s.notify(Notification{Level: LevelError, Action: action, Message: message, Err: err})
}

func (s *Session) notify(n Notification) {
	s.notifier.Notify(n)
}
