// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides durable local persistence for promptpad.
//
// This package mirrors the turn list, both provider credentials and the
// selected model into a small key-value store, and seeds the editor from it
// at startup.
//
// # Key Types
//
//   - KV: Minimal durable key-value interface
//   - SQLiteKV: KV backed by a pure Go SQLite database
//   - MemoryKV: Mapping-backed KV for tests and ephemeral sessions
//   - Persistence: Reads and writes turns and credentials under fixed keys
//
// # Usage
//
//	kv, err := storage.OpenSQLite(filepath.Join(dataDir, "promptpad.db"))
//	p := storage.NewPersistence(kv)
//	turns, err := p.LoadTurns() // default conversation when nothing is saved
//	st.OnCommit(p.SaveTurns)
//
// # Storage Keys
//
// Values are JSON encoded: savedData holds the turn list (with ids),
// openai-key, anthropic-key and selected-model hold strings.
package storage
