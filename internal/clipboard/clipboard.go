// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package clipboard

import (
	"errors"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when the clipboard cannot be read or written.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// Clipboard is a text clipboard.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// System is the operating system clipboard.
type System struct{}

// ReadAll implements Clipboard.
func (System) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return "", ErrClipboardUnavailable
	}
	return clipboard.ReadAll()
}

// WriteAll implements Clipboard.
func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}

// Memory is an in-process clipboard, used by tests and headless sessions.
type Memory struct {
	mu   sync.Mutex
	text string

	// Err, when non-nil, fails every read and write.
	Err error
}

// NewMemory creates a memory clipboard holding text.
func NewMemory(text string) *Memory {
	return &Memory{text: text}
}

// ReadAll implements Clipboard.
func (m *Memory) ReadAll() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.text, nil
}

// WriteAll implements Clipboard.
func (m *Memory) WriteAll(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.text = text
	return nil
}
