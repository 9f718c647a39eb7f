// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/promptpad/internal/editor"
	"github.com/jeranaias/promptpad/internal/ui/styles"
	"github.com/jeranaias/promptpad/internal/util"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	// ToastKindStatus is an informational toast (cyan color)
	ToastKindStatus ToastKind = iota
	// ToastKindError is an error toast (rose color)
	ToastKindError
	// ToastKindSuccess is a success toast (emerald color)
	ToastKindSuccess
)

// DefaultToastDuration is the auto-dismiss duration for status toasts.
const DefaultToastDuration = 4 * time.Second

// ErrorToastDuration is the auto-dismiss duration for error toasts (longer to read).
const ErrorToastDuration = 8 * time.Second

// Toast is one notification shown in the status line.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// NewToast creates a toast with the default duration for its kind.
func NewToast(kind ToastKind, message string) Toast {
	d := DefaultToastDuration
	if kind == ToastKindError {
		d = ErrorToastDuration
	}
	return Toast{
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
		Duration:  d,
	}
}

// FromNotification converts an editor notification to a toast.
func FromNotification(n editor.Notification) Toast {
	if n.Level == editor.LevelError {
		return NewToast(ToastKindError, n.Message)
	}
	return NewToast(ToastKindStatus, n.Message)
}

// IsExpired returns true if the toast should be dismissed.
func (t Toast) IsExpired() bool {
	return time.Since(t.CreatedAt) >= t.Duration
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager holds the active toasts, newest first. It is safe for
// concurrent use.
type ToastManager struct {
	mu        sync.Mutex
	toasts    []Toast
	nextID    int
	maxToasts int
}

// NewToastManager creates a new toast manager.
func NewToastManager() *ToastManager {
	return &ToastManager{
		nextID:    1,
		maxToasts: 5,
	}
}

// AddToast adds a toast and returns its ID.
func (m *ToastManager) AddToast(toast Toast) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	toast.ID = m.nextID
	m.nextID++

	m.toasts = append([]Toast{toast}, m.toasts...)
	if len(m.toasts) > m.maxToasts {
		m.toasts = m.toasts[:m.maxToasts]
	}
	return toast.ID
}

// AddError adds an error toast.
func (m *ToastManager) AddError(message string) int {
	return m.AddToast(NewToast(ToastKindError, message))
}

// AddStatus adds a status toast.
func (m *ToastManager) AddStatus(message string) int {
	return m.AddToast(NewToast(ToastKindStatus, message))
}

// AddSuccess adds a success toast.
func (m *ToastManager) AddSuccess(message string) int {
	return m.AddToast(NewToast(ToastKindSuccess, message))
}

// Notify implements editor.Notifier.
func (m *ToastManager) Notify(n editor.Notification) {
	m.AddToast(FromNotification(n))
}

// Dismiss removes the newest toast.
func (m *ToastManager) Dismiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.toasts) > 0 {
		m.toasts = m.toasts[1:]
	}
}

// TickToasts removes expired toasts and returns the remaining ones.
func (m *ToastManager) TickToasts() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()

	active := m.toasts[:0]
	for _, toast := range m.toasts {
		if !toast.IsExpired() {
			active = append(active, toast)
		}
	}
	m.toasts = active
	return append([]Toast(nil), m.toasts...)
}

// Current returns the newest toast.
func (m *ToastManager) Current() (Toast, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.toasts) == 0 {
		return Toast{}, false
	}
	return m.toasts[0], true
}

// Len returns the number of active toasts.
func (m *ToastManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts)
}

// =============================================================================
// TOAST MESSAGES
// =============================================================================

// ToastTickMsg is sent periodically to expire toasts.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd returns a command that ticks toasts every 100ms.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// TOAST RENDERING
// =============================================================================

// RenderToast renders a toast as a single status line no wider than width.
func RenderToast(toast Toast, width int) string {
	icon := styles.StatusIndicators.Info
	switch toast.Kind {
	case ToastKindError:
		icon = styles.StatusIndicators.Error
	case ToastKindSuccess:
		icon = styles.StatusIndicators.Success
	}

	message := toast.Message
	if width > 0 {
		avail := width - util.StringWidth(icon) - 1
		if avail < 1 {
			avail = 1
		}
		message = util.TruncateWidth(message, avail)
	}

	switch toast.Kind {
	case ToastKindError:
		return styles.RenderStatus(false, message)
	case ToastKindSuccess:
		return styles.RenderStatus(true, message)
	default:
		return styles.RenderInfo(message)
	}
}
