// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/jeranaias/promptpad/internal/model"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports turns to a standalone HTML page with embedded CSS.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts the turns to HTML. All content is escaped.
func (e *HTMLExporter) Export(turns []model.Turn) ([]byte, error) {
	theme := e.options.Theme
	if theme != "light" {
		theme = "dark"
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString("    <title>promptpad</title>\n")
	sb.WriteString("    <meta name=\"generator\" content=\"promptpad\">\n")
	sb.WriteString(css)
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", theme))
	sb.WriteString("    <div class=\"container\">\n")

	if e.options.IncludeMetadata {
		sb.WriteString("        <header class=\"header\">\n")
		if e.options.Model != "" {
			sb.WriteString(fmt.Sprintf("            <span class=\"meta-item\"><strong>Model:</strong> %s</span>\n", html.EscapeString(e.options.Model)))
		}
		sb.WriteString(fmt.Sprintf("            <span class=\"meta-item\"><strong>Turns:</strong> %d</span>\n", len(turns)))
		sb.WriteString(fmt.Sprintf("            <span class=\"meta-item\"><strong>Exported:</strong> %s</span>\n", formatTimestamp(e.options.now())))
		sb.WriteString("        </header>\n")
	}

	sb.WriteString("        <main class=\"turns\">\n")
	for _, turn := range turns {
		sb.WriteString(e.renderTurn(turn))
	}
	sb.WriteString("        </main>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

func (e *HTMLExporter) renderTurn(turn model.Turn) string {
	class := "turn-" + html.EscapeString(string(turn.Role))
	content := html.EscapeString(turn.Content)
	if strings.TrimSpace(turn.Content) == "" {
		content = "<em>(empty)</em>"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("            <section class=\"turn %s\">\n", class))
	sb.WriteString(fmt.Sprintf("                <div class=\"role\">%s</div>\n", html.EscapeString(roleLabel(turn.Role))))
	sb.WriteString(fmt.Sprintf("                <pre class=\"content\">%s</pre>\n", content))
	sb.WriteString("            </section>\n")
	return sb.String()
}

const css = `    <style>
        body { margin: 0; font-family: -apple-system, "Segoe UI", sans-serif; }
        .dark-theme { background: #1e1e2e; color: #e4e4e7; }
        .light-theme { background: #fafafa; color: #18181b; }
        .container { max-width: 860px; margin: 0 auto; padding: 24px; }
        .header { display: flex; gap: 16px; opacity: 0.7; margin-bottom: 24px; }
        .turn { border-left: 4px solid #71717a; padding: 8px 16px; margin-bottom: 16px; }
        .turn-system { border-color: #a78bfa; }
        .turn-user { border-color: #22d3ee; }
        .turn-assistant { border-color: #34d399; }
        .role { font-weight: bold; margin-bottom: 8px; }
        .content { white-space: pre-wrap; word-wrap: break-word; font-family: inherit; margin: 0; }
    </style>
`
