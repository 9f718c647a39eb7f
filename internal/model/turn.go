// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for prompt turns and models.
package model

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Roles lists the selectable roles in display order.
var Roles = []Role{RoleSystem, RoleAssistant, RoleUser}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// Next returns the role after r in Roles, wrapping around.
func (r Role) Next() Role {
	for i, role := range Roles {
		if role == r {
			return Roles[(i+1)%len(Roles)]
		}
	}
	return Roles[0]
}

// ParseRole converts a string to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q (want system, user or assistant)", s)
	}
	return r, nil
}

// =============================================================================
// TURN TYPE
// =============================================================================

// Turn is one message of the prompt being edited.
type Turn struct {
	// ID is the 1-based position rendered as a string. Derived, not identity.
	ID string `json:"id"`

	Role    Role   `json:"role"`
	Content string `json:"content"`

	// Key is stable across element-wise edits; never persisted.
	Key string `json:"-"`
}

// NewTurn creates a turn with a fresh key and no position id.
func NewTurn(role Role, content string) Turn {
	return Turn{
		Role:    role,
		Content: content,
		Key:     uuid.NewString(),
	}
}

// IsEmpty returns true if the turn has no content.
func (t Turn) IsEmpty() bool {
	return t.Content == ""
}

// PositionID returns the id for the turn at the given 0-based index.
func PositionID(index int) string {
	return strconv.Itoa(index + 1)
}

// =============================================================================
// TURN LIST TRANSFORMS
// =============================================================================

// Message is a turn as it appears on the clipboard and on the wire.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Renumber returns a copy of turns with ids reassigned by position.
// Turns without a key get one.
func Renumber(turns []Turn) []Turn {
	out := make([]Turn, len(turns))
	for i, t := range turns {
		t.ID = PositionID(i)
		if t.Key == "" {
			t.Key = uuid.NewString()
		}
		out[i] = t
	}
	return out
}

// CopyTransform strips ids. Order and empty turns are preserved.
func CopyTransform(turns []Turn) []Message {
	out := make([]Message, 0, len(turns))
	for _, t := range turns {
		out = append(out, Message{Role: t.Role, Content: t.Content})
	}
	return out
}

// SendTransform strips ids and drops turns with empty content.
func SendTransform(turns []Turn) []Message {
	out := make([]Message, 0, len(turns))
	for _, t := range turns {
		if t.IsEmpty() {
			continue
		}
		out = append(out, Message{Role: t.Role, Content: t.Content})
	}
	return out
}

// NextRole returns the role for a turn appended after turns.
// An assistant turn is followed by a user turn; anything else, including an
// empty list, is followed by an assistant turn.
func NextRole(turns []Turn) Role {
	last := RoleSystem
	if len(turns) > 0 {
		last = turns[len(turns)-1].Role
	}
	if last == RoleAssistant {
		return RoleUser
	}
	return RoleAssistant
}

// DefaultTurns returns the conversation used when nothing has been saved yet.
func DefaultTurns() []Turn {
	return Renumber([]Turn{
		NewTurn(RoleSystem, "some text"),
		NewTurn(RoleUser, "some more text\ntext continued"),
		NewTurn(RoleAssistant, "some other text"),
	})
}

// Clone returns a shallow copy of turns.
func Clone(turns []Turn) []Turn {
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}
