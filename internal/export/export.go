// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/promptpad/internal/model"
	"github.com/jeranaias/promptpad/internal/util"
)

// ErrUnknownFormat is returned by ForFormat for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown export format")

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for turn list exporters.
type Exporter interface {
	// Export converts the turns to the target format and returns the content.
	Export(turns []model.Turn) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".md", ".html").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// Format names accepted by ForFormat.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Formats lists the supported format names.
var Formats = []string{FormatJSON, FormatMarkdown, FormatHTML}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory ExportToFile writes into.
	// Default: current working directory
	OutputDir string

	// IncludeMetadata adds a header with the model and turn count.
	IncludeMetadata bool

	// Model is the model id shown in the metadata header.
	Model string

	// Theme for HTML export ("light" or "dark").
	// Default: "dark"
	Theme string

	// Now returns the export time. Default: time.Now
	Now func() time.Time
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:       ".",
		IncludeMetadata: true,
		Theme:           "dark",
		Now:             time.Now,
	}
}

func (o *Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// ForFormat returns the exporter for a format name. "md" is accepted for
// Markdown.
func ForFormat(name string, opts *Options) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FormatJSON:
		return NewJSONExporter(opts), nil
	case FormatMarkdown, "md":
		return NewMarkdownExporter(opts), nil
	case FormatHTML, "htm":
		return NewHTMLExporter(opts), nil
	default:
		return nil, fmt.Errorf("%w %q (want %s)", ErrUnknownFormat, name, strings.Join(Formats, ", "))
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile writes the turns into opts.OutputDir under a timestamped name
// and returns the path.
func ExportToFile(turns []model.Turn, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(turns)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	filename := fmt.Sprintf("prompt_%s%s", opts.now().Format("20060102_150405"), exporter.FileExtension())
	outputPath := filepath.Join(opts.OutputDir, filename)
	if err := util.AtomicWriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return outputPath, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// roleLabel returns the display label for a role.
func roleLabel(role model.Role) string {
	switch role {
	case model.RoleSystem:
		return "System"
	case model.RoleUser:
		return "User"
	case model.RoleAssistant:
		return "Assistant"
	case "":
		return "Unknown"
	default:
		s := string(role)
		return strings.ToUpper(s[:1]) + s[1:]
	}
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
