// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Ellipsis is appended to truncated text.
const Ellipsis = "…"

// TruncateWidth truncates s to at most maxWidth terminal columns, ending with
// an ellipsis when anything was cut. Wide (CJK) characters count as two.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, Ellipsis)
}

// StringWidth returns the display width of s in terminal columns.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// PadRight pads s with spaces to width columns.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// Preview returns the first line of s truncated to maxWidth. When s has more
// lines, the result is marked with the number of hidden lines.
func Preview(s string, maxWidth int) string {
	first, rest, multi := strings.Cut(s, "\n")
	if !multi {
		return TruncateWidth(first, maxWidth)
	}
	more := strings.Count(rest, "\n") + 1
	suffix := " (+" + pluralLines(more) + ")"
	if maxWidth <= StringWidth(suffix) {
		return TruncateWidth(first+suffix, maxWidth)
	}
	return TruncateWidth(first, maxWidth-StringWidth(suffix)) + suffix
}

func pluralLines(n int) string {
	if n == 1 {
		return "1 line"
	}
	return strconv.Itoa(n) + " lines"
}

// LineCount returns the number of lines in s; the empty string has one.
func LineCount(s string) int {
	return strings.Count(s, "\n") + 1
}
