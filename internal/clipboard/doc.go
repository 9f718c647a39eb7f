// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package clipboard moves turn lists between promptpad and the system clipboard.
//
// Copy serializes the list as indented JSON with ids removed. Paste parses the
// clipboard text, checks its shape against a JSON schema reflected from Entry,
// and renumbers the result. Paste is all-or-nothing: on any failure no turns
// are returned.
//
// # Key Types
//
//   - Clipboard: read/write access to a clipboard (System, Memory)
//   - Bridge: copy and paste over a Clipboard
//   - Indicator: the transient "copied" flag
//
// # Usage
//
//	bridge := clipboard.NewBridge(clipboard.System{})
//	text, err := bridge.Copy(store.Turns())
//	turns, err := bridge.Paste()
//	if err == nil {
//	    store.ReplaceAll(turns)
//	}
package clipboard
