// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud sends prompts to hosted chat-completion APIs.
//
// Requests go to an OpenAI-compatible chat completions endpoint or an
// Anthropic-compatible messages endpoint, chosen by model.ProviderFor.
// There are no retries and no streaming; one call yields one reply.
//
// # Key Types
//
//   - Client: HTTP client for both providers
//   - ChatRequest: request body shared by both providers
//   - APIError: non-2xx response with provider error details
//
// # Usage
//
//	client := cloud.NewClient().WithLogger(logger)
//	text, err := client.Complete(ctx, "gpt-4-turbo-preview", turns, creds)
//
// # Security
//
// API keys travel only in request headers. Request logging records method,
// path, model and status, never headers or bodies.
package cloud
