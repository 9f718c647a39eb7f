// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for prompt turns and models.
//
// This package defines the core domain types used throughout the application
// for representing an editable chat prompt and the models it can be sent to.
//
// # Key Types
//
//   - Turn: One message of the prompt with a role and content
//   - Role: Turn role enumeration (system, user, assistant)
//   - Message: A turn as it is copied or sent, without its position id
//   - ModelInfo: Catalog entry mapping a model identifier to its provider
//   - Credentials: The two provider API keys and the selected model
//
// # Position IDs
//
// Turn.ID is a display index ("1".."n") recomputed from position whenever a
// list is rebuilt. It is not identity: adding or replacing turns renumbers the
// list. Turn.Key is the internal stable key and is never serialized.
//
// # Usage
//
//	turns := model.DefaultTurns()
//	msgs := model.SendTransform(turns) // ids stripped, empty turns dropped
//	provider := model.ProviderFor("claude-3-haiku-20240307")
package model
