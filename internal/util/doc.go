// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the promptpad packages.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth: display-width truncation with ellipsis
//   - Preview: one-line preview of multi-line text
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	row := util.Preview(turn.Content, 60)
//	err := util.AtomicWriteFile(path, data, 0644)
package util
