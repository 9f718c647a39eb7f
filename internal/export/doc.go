// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders the turn list as a document.
//
// # Key Types
//
//   - Exporter: Converts turns to one format
//   - Options: Metadata header, model name, theme and output directory
//
// # Supported Formats
//
//   - JSON: The clipboard format; an export can be pasted back
//   - Markdown: One "## Role" section per turn
//   - HTML: Standalone page with embedded CSS
//
// # Usage
//
//	exporter, err := export.ForFormat("markdown", opts)
//	data, err := exporter.Export(session.Turns())
//
// Export into a directory under a timestamped name:
//
//	path, err := export.ExportToFile(turns, exporter, opts)
package export
