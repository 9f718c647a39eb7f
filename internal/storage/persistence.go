// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides durable local persistence for promptpad.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/jeranaias/promptpad/internal/model"
)

// Fixed storage keys.
const (
	KeyTurns        = "savedData"
	KeyOpenAIKey    = "openai-key"
	KeyAnthropicKey = "anthropic-key"
	KeyModel        = "selected-model"
)

// =============================================================================
// PERSISTENCE ADAPTER
// =============================================================================

// Persistence maps the editor state onto a KV under fixed keys.
type Persistence struct {
	kv KV

	// DefaultModel is returned by LoadCredentials when no model was saved.
	DefaultModel string
}

// NewPersistence creates a persistence adapter over kv.
func NewPersistence(kv KV) *Persistence {
	return &Persistence{kv: kv, DefaultModel: model.DefaultModel}
}

// SaveTurns writes the full list, ids included, overwriting the previous value.
// It has the store.CommitHook signature.
func (p *Persistence) SaveTurns(turns []model.Turn) error {
	if turns == nil {
		turns = []model.Turn{}
	}
	data, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("failed to encode turns: %w", err)
	}
	return p.kv.Set(KeyTurns, string(data))
}

// LoadTurns returns the saved list, or the default conversation when nothing
// is saved. Malformed saved JSON is returned as an error, not replaced.
func (p *Persistence) LoadTurns() ([]model.Turn, error) {
	raw, ok, err := p.kv.Get(KeyTurns)
	if err != nil {
		return nil, err
	}
	if !ok {
		return model.DefaultTurns(), nil
	}

	var turns []model.Turn
	if err := json.Unmarshal([]byte(raw), &turns); err != nil {
		return nil, fmt.Errorf("failed to parse saved turns: %w", err)
	}

	// Ids follow position; keys are session-local and assigned here.
	return model.Renumber(turns), nil
}

// Reset deletes the saved list so the next load yields the default conversation.
func (p *Persistence) Reset() error {
	return p.kv.Delete(KeyTurns)
}

// =============================================================================
// CREDENTIALS
// =============================================================================

// LoadCredentials reads both keys and the selected model. Unset keys come back
// as their placeholder values.
func (p *Persistence) LoadCredentials() (model.Credentials, error) {
	creds := model.NewCredentials()
	if p.DefaultModel != "" {
		creds.Model = p.DefaultModel
	}

	fields := []struct {
		key string
		dst *string
	}{
		{KeyOpenAIKey, &creds.OpenAIKey},
		{KeyAnthropicKey, &creds.AnthropicKey},
		{KeyModel, &creds.Model},
	}
	for _, f := range fields {
		v, ok, err := p.getString(f.key)
		if err != nil {
			return model.Credentials{}, err
		}
		if ok {
			*f.dst = v
		}
	}
	return creds, nil
}

// SaveOpenAIKey persists the OpenAI key.
func (p *Persistence) SaveOpenAIKey(key string) error {
	return p.setString(KeyOpenAIKey, key)
}

// SaveAnthropicKey persists the Anthropic key.
func (p *Persistence) SaveAnthropicKey(key string) error {
	return p.setString(KeyAnthropicKey, key)
}

// SaveModel persists the selected model identifier.
func (p *Persistence) SaveModel(id string) error {
	return p.setString(KeyModel, id)
}

// SavedModel returns the model stored by SaveModel, if any.
func (p *Persistence) SavedModel() (string, bool, error) {
	return p.getString(KeyModel)
}

func (p *Persistence) getString(key string) (string, bool, error) {
	raw, ok, err := p.kv.Get(key)
	if err != nil || !ok {
		return "", ok, err
	}
	var v string
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return "", false, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return v, true, nil
}

func (p *Persistence) setString(key, value string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return p.kv.Set(key, string(data))
}
