// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection and output helpers for the promptpad CLI.
//
// Colors and highlighting are used only when the target stream is a
// terminal and NO_COLOR is unset.

package cli

import (
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// isTerminal reports whether v is an *os.File attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// colorsEnabled reports whether colored output should be written to w.
// NO_COLOR (https://no-color.org/) always wins; FORCE_COLOR overrides
// TTY detection.
func colorsEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return isTerminal(w)
}

// =============================================================================
// TERMINAL WIDTH DETECTION
// =============================================================================

const (
	// DefaultTerminalWidth is the fallback width when detection fails
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the minimum width we'll use for previews
	MinTerminalWidth = 40
)

// terminalWidth returns the width of w, or DefaultTerminalWidth when w is
// not a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return DefaultTerminalWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	return width
}

// =============================================================================
// COLORED OUTPUT
// =============================================================================

// printer writes colored status lines when its stream allows it.
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer) printer {
	return printer{w: w, color: colorsEnabled(w)}
}

func (p printer) paint(attr color.Attribute, format string, args ...any) string {
	c := color.New(attr)
	if p.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprintf(format, args...)
}

// Success prints "[OK] message" in green.
func (p printer) Success(format string, args ...any) {
	io.WriteString(p.w, p.paint(color.FgGreen, "[OK] "+format, args...)+"\n")
}

// Error prints "[X] message" in red.
func (p printer) Error(format string, args ...any) {
	io.WriteString(p.w, p.paint(color.FgRed, "[X] "+format, args...)+"\n")
}

// Warn prints "[!] message" in yellow.
func (p printer) Warn(format string, args ...any) {
	io.WriteString(p.w, p.paint(color.FgYellow, "[!] "+format, args...)+"\n")
}

// Label returns s in cyan.
func (p printer) Label(s string) string {
	return p.paint(color.FgCyan, "%s", s)
}

// Muted returns s in faint text.
func (p printer) Muted(s string) string {
	return p.paint(color.Faint, "%s", s)
}

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// highlightJSON applies terminal syntax highlighting to JSON text. Any
// failure returns the text unchanged.
func highlightJSON(code string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		return code
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}

// writeJSON writes text to w, highlighted when w is a color terminal.
func writeJSON(w io.Writer, text string) error {
	if colorsEnabled(w) {
		text = highlightJSON(text)
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(w, text)
	return err
}

// =============================================================================
// INTERACTIVE INPUT HELPERS
// =============================================================================

// TTYRequiredError is returned when an operation requires a TTY but none is available.
type TTYRequiredError struct {
	Operation string
}

func (e *TTYRequiredError) Error() string {
	if e.Operation != "" {
		return "stdin is not a terminal; cannot " + e.Operation + " interactively"
	}
	return "stdin is not a terminal; interactive input not available"
}
