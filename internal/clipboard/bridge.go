// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package clipboard

import (
	"fmt"
	"sync"
	"time"

	"github.com/jeranaias/promptpad/internal/model"
)

// CopiedDuration is how long the copied indicator stays on.
const CopiedDuration = 1500 * time.Millisecond

// =============================================================================
// BRIDGE
// =============================================================================

// Bridge performs copy and paste against a Clipboard.
type Bridge struct {
	clip      Clipboard
	indicator *Indicator
}

// NewBridge creates a bridge over clip.
func NewBridge(clip Clipboard) *Bridge {
	return &Bridge{clip: clip, indicator: NewIndicator(CopiedDuration)}
}

// Indicator returns the copied indicator.
func (b *Bridge) Indicator() *Indicator {
	return b.indicator
}

// Copy writes turns to the clipboard and turns the copied indicator on.
// It returns the text written.
func (b *Bridge) Copy(turns []model.Turn) (string, error) {
	text, err := EncodeCopy(turns)
	if err != nil {
		return "", err
	}
	if err := b.clip.WriteAll(text); err != nil {
		return "", fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
	}
	b.indicator.Set()
	return text, nil
}

// Paste reads and decodes the clipboard. No turns are returned on error.
func (b *Bridge) Paste() ([]model.Turn, error) {
	text, err := b.clip.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
	}
	return DecodePaste(text)
}

// =============================================================================
// INDICATOR
// =============================================================================

// Indicator is a flag that clears itself a fixed time after being set.
// Each Set schedules its own clear; later sets do not extend earlier windows.
type Indicator struct {
	mu       sync.Mutex
	on       bool
	duration time.Duration
	onChange func(on bool)
}

// NewIndicator creates an indicator that clears after d.
func NewIndicator(d time.Duration) *Indicator {
	return &Indicator{duration: d}
}

// OnChange registers fn to be called whenever the flag changes.
// fn is called without the indicator lock held.
func (i *Indicator) OnChange(fn func(on bool)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.onChange = fn
}

// Set turns the flag on and schedules it off.
func (i *Indicator) Set() {
	i.set(true)
	time.AfterFunc(i.duration, func() { i.set(false) })
}

// On reports whether the flag is on.
func (i *Indicator) On() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.on
}

func (i *Indicator) set(on bool) {
	i.mu.Lock()
	changed := i.on != on
	i.on = on
	fn := i.onChange
	i.mu.Unlock()

	if changed && fn != nil {
		fn(on)
	}
}
