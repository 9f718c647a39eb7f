// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package clipboard

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/promptpad/internal/model"
)

func sampleTurns() []model.Turn {
	return model.Renumber([]model.Turn{
		model.NewTurn(model.RoleSystem, "be terse"),
		model.NewTurn(model.RoleUser, "hello\nworld"),
		model.NewTurn(model.RoleAssistant, "hi"),
	})
}

// =============================================================================
// CODEC TESTS
// =============================================================================

func TestEncodeCopy(t *testing.T) {
	turns := model.Renumber([]model.Turn{
		{Role: model.RoleUser, Content: "q"},
		{Role: model.RoleAssistant, Content: ""},
	})

	text, err := EncodeCopy(turns)
	require.NoError(t, err)

	want := "[\n  {\n    \"role\": \"user\",\n    \"content\": \"q\"\n  },\n  {\n    \"role\": \"assistant\",\n    \"content\": \"\"\n  }\n]"
	assert.Equal(t, want, text)
	assert.NotContains(t, text, `"id"`)
}

func TestCopyPasteRoundTrip(t *testing.T) {
	turns := sampleTurns()

	text, err := EncodeCopy(turns)
	require.NoError(t, err)

	pasted, err := DecodePaste(text)
	require.NoError(t, err)

	assert.Equal(t, model.CopyTransform(turns), model.CopyTransform(pasted))
	for i, turn := range pasted {
		assert.Equal(t, model.PositionID(i), turn.ID)
	}
}

func TestDecodePaste_DiscardsIDsAndExtraFields(t *testing.T) {
	turns, err := DecodePaste(`[
		{"id": "42", "role": "user", "content": "a", "name": "x"},
		{"id": "7", "role": "assistant", "content": ""}
	]`)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "1", turns[0].ID)
	assert.Equal(t, "2", turns[1].ID)
	assert.Equal(t, model.RoleAssistant, turns[1].Role)
	assert.NotEmpty(t, turns[0].Key)
}

func TestDecodePaste_Invalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"not json", "not json"},
		{"missing fields", `[{"foo":"bar"}]`},
		{"missing content", `[{"role":"user"}]`},
		{"unknown role", `[{"role":"tool","content":"x"}]`},
		{"content not string", `[{"role":"user","content":3}]`},
		{"object", `{"role":"user","content":"x"}`},
		{"array of strings", `["a"]`},
		{"empty", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			turns, err := DecodePaste(tc.text)
			assert.Nil(t, turns)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestDecodePaste_EmptyArray(t *testing.T) {
	turns, err := DecodePaste("[]")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"array"`)
	assert.Contains(t, string(data), `"enum":["system","user","assistant"]`)
	assert.NotContains(t, string(data), `$schema`)
}

// =============================================================================
// BRIDGE TESTS
// =============================================================================

func TestBridge_CopyThenPaste(t *testing.T) {
	clip := NewMemory("")
	b := NewBridge(clip)

	text, err := b.Copy(sampleTurns())
	require.NoError(t, err)
	assert.True(t, b.Indicator().On())

	stored, _ := clip.ReadAll()
	assert.Equal(t, text, stored)

	turns, err := b.Paste()
	require.NoError(t, err)
	assert.Len(t, turns, 3)
}

func TestBridge_ClipboardFailure(t *testing.T) {
	clip := NewMemory("")
	clip.Err = errors.New("no display")
	b := NewBridge(clip)

	_, err := b.Copy(sampleTurns())
	assert.ErrorIs(t, err, ErrClipboardUnavailable)
	assert.False(t, b.Indicator().On())

	turns, err := b.Paste()
	assert.Nil(t, turns)
	assert.ErrorIs(t, err, ErrClipboardUnavailable)
}

// =============================================================================
// INDICATOR TESTS
// =============================================================================

func TestIndicator_ClearsAfterDuration(t *testing.T) {
	ind := NewIndicator(20 * time.Millisecond)

	var changes atomic.Int32
	ind.OnChange(func(bool) { changes.Add(1) })

	ind.Set()
	assert.True(t, ind.On())

	assert.Eventually(t, func() bool { return !ind.On() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(2), changes.Load())
}

func TestCopiedDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, CopiedDuration)
}
