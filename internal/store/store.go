// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the ordered list of prompt turns.
package store

import (
	"errors"
	"sync"

	"github.com/jeranaias/promptpad/internal/model"
)

// CommitHook observes the full turn list after a mutation.
type CommitHook func(turns []model.Turn) error

// Store is the ordered turn list. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	turns []model.Turn
	hooks []CommitHook
}

// New creates a store seeded with turns, renumbered by position.
func New(turns []model.Turn) *Store {
	return &Store{turns: model.Renumber(turns)}
}

// OnCommit registers a hook run after every mutation.
func (s *Store) OnCommit(hook CommitHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Turns returns a snapshot of the list.
func (s *Store) Turns() []model.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Clone(s.turns)
}

// Len returns the number of turns.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// =============================================================================
// MUTATIONS
// =============================================================================

// AddTurn appends an empty turn whose role alternates from the last one.
func (s *Store) AddTurn() (model.Turn, error) {
	s.mu.Lock()
	turn := model.NewTurn(model.NextRole(s.turns), "")
	turn.ID = model.PositionID(len(s.turns))
	s.turns = append(s.turns, turn)
	return turn, s.commitLocked()
}

// SetRole changes the role of the turn at index. Ids are untouched.
// Returns false without committing when index is out of range.
func (s *Store) SetRole(index int, role model.Role) (bool, error) {
	s.mu.Lock()
	if index < 0 || index >= len(s.turns) {
		s.mu.Unlock()
		return false, nil
	}
	updated := s.turns[index]
	updated.Role = role
	s.replaceLocked(index, updated)
	return true, s.commitLocked()
}

// SetContent changes the content of the turn at index. Ids are untouched.
// Returns false without committing when index is out of range.
func (s *Store) SetContent(index int, content string) (bool, error) {
	s.mu.Lock()
	if index < 0 || index >= len(s.turns) {
		s.mu.Unlock()
		return false, nil
	}
	updated := s.turns[index]
	updated.Content = content
	s.replaceLocked(index, updated)
	return true, s.commitLocked()
}

// ReplaceAll discards the list and stores turns renumbered by position.
func (s *Store) ReplaceAll(turns []model.Turn) error {
	s.mu.Lock()
	s.turns = model.Renumber(turns)
	return s.commitLocked()
}

// AppendGenerated appends an assistant turn holding text.
func (s *Store) AppendGenerated(text string) (model.Turn, error) {
	s.mu.Lock()
	turn := model.NewTurn(model.RoleAssistant, text)
	turn.ID = model.PositionID(len(s.turns))
	s.turns = append(s.turns, turn)
	return turn, s.commitLocked()
}

// replaceLocked swaps in a new slice so snapshots handed out earlier never change.
func (s *Store) replaceLocked(index int, turn model.Turn) {
	next := model.Clone(s.turns)
	next[index] = turn
	s.turns = next
}

// commitLocked runs the hooks with a snapshot, then releases the lock.
// Hooks run under the lock so persisted snapshots land in mutation order.
// Must be called with s.mu held.
func (s *Store) commitLocked() error {
	defer s.mu.Unlock()
	snapshot := model.Clone(s.turns)

	var errs []error
	for _, hook := range s.hooks {
		if err := hook(snapshot); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
