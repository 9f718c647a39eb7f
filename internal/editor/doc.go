// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package editor is the state holder behind every promptpad front end.
//
// A Session owns the turn store, wires it to persistence through a commit
// hook, and exposes the store, clipboard and completion operations behind the
// Editor interface. Front ends depend only on Editor, so every operation can
// be driven headless in tests.
//
// # Key Types
//
//   - Editor: the operations a view may call
//   - Session: the Editor implementation
//   - Notifier: receives user-facing notifications
//   - Completer: sends a prompt to a completion API
//
// # Usage
//
//	sess, err := editor.NewSession(persist, bridge, client,
//	    editor.WithNotifier(notifier),
//	    editor.WithLogger(logger),
//	)
//	sess.AddTurn()
//	err = sess.Generate(ctx)
//
// # Errors
//
// Recoverable failures produce exactly one error notification and one
// diagnostic log entry, and are also returned to the caller.
package editor
