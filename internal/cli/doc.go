// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the promptpad command line.
//
// Running promptpad with no subcommand opens the interactive turn editor.
// The subcommands drive the same editor headless, so a conversation can be
// built and sent from scripts.
//
// # Commands Overview
//
//   - show: print the turn list (--json for the clipboard format)
//   - add, set-role, set-content: edit turns
//   - copy, paste: move turns through the clipboard or a file
//   - generate: send the turns to the selected model
//   - keys set, keys show: manage API keys
//   - model, models: select a model
//   - export: write the turns as JSON, Markdown or HTML
//   - reset: restore the default conversation
//   - config init, config show: manage the config file
//
// # Global Flags
//
//	--config     config file (default ~/.promptpad/config.toml)
//	--data-dir   directory for the database and the diagnostics log
//	--ephemeral  keep everything in memory, including the clipboard
//	--log-level  diagnostics level (debug, info, warn, error)
//
// # Usage
//
//	os.Exit(cli.Execute())
package cli
