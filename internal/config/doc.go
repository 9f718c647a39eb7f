// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for promptpad.
//
// # Key Types
//
//   - Config: main configuration structure
//   - OpenAIConfig, AnthropicConfig: completion endpoints
//   - UIConfig: editor appearance
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (PROMPTPAD_*, OPENAI_API_KEY, ANTHROPIC_API_KEY)
//   - ~/.promptpad/config.toml
//   - Built-in defaults
//
// # Usage
//
//	path, err := config.ConfigPath()
//	cfg, err := config.LoadFromPath(path)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := cfg.NewClient()
//
// Watch reloads the file on change so endpoint edits apply without a restart.
package config
