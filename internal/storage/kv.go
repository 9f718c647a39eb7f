// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides durable local persistence for promptpad.
package storage

import (
	"errors"
	"sort"
	"sync"
)

// =============================================================================
// KEY-VALUE INTERFACE
// =============================================================================

// KV is a durable string key-value store.
type KV interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key, overwriting any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Close releases resources.
	Close() error
}

// ErrStorage wraps failures of the underlying storage backend.
// Use errors.Is(err, ErrStorage) to check for this error.
var ErrStorage = errors.New("storage unavailable")

// =============================================================================
// MEMORY KV
// =============================================================================

// MemoryKV is a mapping-backed KV. It records every Set so tests can assert
// persistence calls, and can be told to fail.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string
	writes []string

	// SetErr, when non-nil, is returned by Set and Delete.
	SetErr error
	// GetErr, when non-nil, is returned by Get.
	GetErr error
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

// Get implements KV.
func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements KV.
func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = value
	m.writes = append(m.writes, key)
	return nil
}

// Delete implements KV.
func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	delete(m.values, key)
	return nil
}

// Close implements KV.
func (m *MemoryKV) Close() error {
	return nil
}

// Writes returns the keys passed to Set, in call order.
func (m *MemoryKV) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.writes))
	copy(out, m.writes)
	return out
}

// Keys returns the stored keys in sorted order.
func (m *MemoryKV) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
