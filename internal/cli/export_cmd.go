// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/promptpad/internal/export"
	"github.com/jeranaias/promptpad/internal/util"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format     string
		output     string
		dir        string
		noMetadata bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the turns as JSON, Markdown or HTML",
		Long: `Write the turns as a document. JSON is the clipboard format and can be
pasted back; Markdown and HTML are for reading.

The document goes to standard output unless -o names a file or --dir names
a directory, where it is saved under a timestamped name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}

			opts := export.DefaultOptions()
			opts.IncludeMetadata = !noMetadata
			opts.Model = sess.Credentials().Model
			if lightTheme(a.cfg.UI.Theme) {
				opts.Theme = "light"
			}

			exporter, err := export.ForFormat(format, opts)
			if err != nil {
				return err
			}
			turns := sess.Turns()

			switch {
			case dir != "":
				opts.OutputDir = dir
				path, err := export.ExportToFile(turns, exporter, opts)
				if err != nil {
					return err
				}
				newPrinter(a.out).Success("Exported %d turns to %s", len(turns), path)
			case output != "":
				data, err := exporter.Export(turns)
				if err != nil {
					return err
				}
				if err := util.AtomicWriteFile(output, data, 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
				newPrinter(a.out).Success("Exported %d turns to %s", len(turns), output)
			default:
				data, err := exporter.Export(turns)
				if err != nil {
					return err
				}
				if exporter.MimeType() == "application/json" {
					return writeJSON(a.out, string(data))
				}
				_, err = a.out.Write(data)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", export.FormatMarkdown, "document format ("+strings.Join(export.Formats, ", ")+")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file")
	cmd.Flags().StringVar(&dir, "dir", "", "write into this directory under a timestamped name")
	cmd.Flags().BoolVar(&noMetadata, "no-metadata", false, "omit the model and turn count header")
	cmd.MarkFlagsMutuallyExclusive("output", "dir")
	return cmd
}

// lightTheme reports whether the configured theme asks for a light page.
func lightTheme(name string) bool {
	return strings.EqualFold(name, "light")
}
