// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the ordered list of prompt turns.
//
// Store is the single source of truth for the turn list. Every mutation is
// followed by the registered commit hooks, which is how persistence observes
// changes without the store knowing about storage.
//
// # Usage
//
//	s := store.New(model.DefaultTurns())
//	s.OnCommit(persistence.SaveTurns)
//	s.AddTurn()
//	s.SetContent(0, "You are terse.")
package store
