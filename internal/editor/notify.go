// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import "sync"

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// String returns the level name.
func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "info"
}

// User-facing notification texts.
const (
	MsgPasteFailed      = "Failed to paste data from clipboard. Please make sure the copied data is a valid JSON."
	MsgCopyFailed       = "Failed to copy to clipboard."
	MsgMissingKeys      = "Please set both API keys before generating."
	MsgGenerateFailed   = "Failed to generate a reply. Check the diagnostics log for details."
	MsgSaveFailed       = "Failed to save changes to local storage."
	MsgCredentialFailed = "Failed to save settings to local storage."
)

// Notification is a message for the user.
type Notification struct {
	Level   Level
	Action  string
	Message string
	Err     error
}

// Notifier receives notifications.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// Recorder is a Notifier that keeps every notification.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify implements Notifier.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns the notifications received so far.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Errors returns the error-level notifications received so far.
func (r *Recorder) Errors() []Notification {
	var out []Notification
	for _, n := range r.All() {
		if n.Level == LevelError {
			out = append(out, n)
		}
	}
	return out
}

type discard struct{}

func (discard) Notify(Notification) {}
