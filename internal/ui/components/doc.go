// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI pieces for the promptpad TUI.
//
// ToastManager collects editor notifications and renders the newest one in
// the status line until it expires. It implements editor.Notifier, so a
// session can report failures from any goroutine.
//
//	toasts := components.NewToastManager()
//	sess, _ := editor.NewSession(persist, bridge, client, editor.WithNotifier(toasts))
package components
