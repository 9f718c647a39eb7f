// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for prompt turns and models.
package model

import (
	"sort"
	"strings"
)

// =============================================================================
// PROVIDER TYPE
// =============================================================================

// Provider identifies which completion API serves a model.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// DisplayName returns a human-readable name for the provider.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderAnthropic:
		return "Anthropic"
	default:
		return string(p)
	}
}

// =============================================================================
// MODEL INFO TYPE
// =============================================================================

// ModelInfo is a catalog entry for a selectable model.
type ModelInfo struct {
	// ID is the model identifier used in API calls
	ID string `json:"id"`

	// Name is the human-readable display name
	Name string `json:"name"`

	Provider Provider `json:"provider"`
}

// DefaultModel is selected until the user picks another one.
const DefaultModel = "gpt-4-turbo-preview"

// Models is the closed set of models offered by the model selector, keyed by ID.
var Models = map[string]ModelInfo{
	"gpt-4-turbo-preview": {
		ID:       "gpt-4-turbo-preview",
		Name:     "GPT-4 Turbo (preview)",
		Provider: ProviderOpenAI,
	},
	"gpt-4": {
		ID:       "gpt-4",
		Name:     "GPT-4",
		Provider: ProviderOpenAI,
	},
	"gpt-3.5-turbo": {
		ID:       "gpt-3.5-turbo",
		Name:     "GPT-3.5 Turbo",
		Provider: ProviderOpenAI,
	},
	"claude-3-opus-20240229": {
		ID:       "claude-3-opus-20240229",
		Name:     "Claude 3 Opus",
		Provider: ProviderAnthropic,
	},
	"claude-3-sonnet-20240229": {
		ID:       "claude-3-sonnet-20240229",
		Name:     "Claude 3 Sonnet",
		Provider: ProviderAnthropic,
	},
	"claude-3-haiku-20240307": {
		ID:       "claude-3-haiku-20240307",
		Name:     "Claude 3 Haiku",
		Provider: ProviderAnthropic,
	},
}

// =============================================================================
// MODEL LOOKUP FUNCTIONS
// =============================================================================

// GetModelInfo looks up a catalog model by ID.
func GetModelInfo(id string) (ModelInfo, bool) {
	info, ok := Models[id]
	return info, ok
}

// ProviderFor returns the provider that serves id.
// Catalog models use the table; any other identifier is routed to Anthropic
// when it names the claude family and to OpenAI otherwise.
func ProviderFor(id string) Provider {
	if info, ok := Models[id]; ok {
		return info.Provider
	}
	if strings.Contains(strings.ToLower(id), "claude") {
		return ProviderAnthropic
	}
	return ProviderOpenAI
}

// ModelIDs returns the catalog IDs grouped by provider (OpenAI first), then by name.
func ModelIDs() []string {
	ids := make([]string, 0, len(Models))
	for id := range Models {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		pi, pj := Models[ids[i]].Provider, Models[ids[j]].Provider
		if pi != pj {
			return pi == ProviderOpenAI
		}
		return ids[i] < ids[j]
	})
	return ids
}

// NextModel returns the catalog model after id in ModelIDs order, wrapping around.
// An unknown id yields the first catalog model.
func NextModel(id string) string {
	ids := ModelIDs()
	for i, candidate := range ids {
		if candidate == id {
			return ids[(i+1)%len(ids)]
		}
	}
	return ids[0]
}

// =============================================================================
// CREDENTIALS
// =============================================================================

// Placeholder values stand in for a credential that has not been configured.
const (
	OpenAIKeyPlaceholder    = "OpenAI API key"
	AnthropicKeyPlaceholder = "Anthropic API key"
)

// Credentials holds both provider keys and the selected model.
type Credentials struct {
	OpenAIKey    string
	AnthropicKey string
	Model        string
}

// NewCredentials returns credentials with both keys unset.
func NewCredentials() Credentials {
	return Credentials{
		OpenAIKey:    OpenAIKeyPlaceholder,
		AnthropicKey: AnthropicKeyPlaceholder,
		Model:        DefaultModel,
	}
}

// HasOpenAIKey reports whether the OpenAI key is set to a real value.
func (c Credentials) HasOpenAIKey() bool {
	return c.OpenAIKey != "" && c.OpenAIKey != OpenAIKeyPlaceholder
}

// HasAnthropicKey reports whether the Anthropic key is set to a real value.
func (c Credentials) HasAnthropicKey() bool {
	return c.AnthropicKey != "" && c.AnthropicKey != AnthropicKeyPlaceholder
}

// Complete reports whether both keys are set. Generation requires both even
// though a single request only uses one of them.
func (c Credentials) Complete() bool {
	return c.HasOpenAIKey() && c.HasAnthropicKey()
}

// KeyFor returns the key used to authenticate against p, or "" when that
// key is unset.
func (c Credentials) KeyFor(p Provider) string {
	if p == ProviderAnthropic {
		if c.HasAnthropicKey() {
			return c.AnthropicKey
		}
		return ""
	}
	if c.HasOpenAIKey() {
		return c.OpenAIKey
	}
	return ""
}
