// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeranaias/promptpad/internal/clipboard"
	"github.com/jeranaias/promptpad/internal/util"
)

func newCopyCmd(a *app) *cobra.Command {
	var (
		printJSON bool
		output    string
	)
	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy the turns to the clipboard as JSON",
		Long: `Copy the turns to the clipboard as a JSON array of {role, content}
objects. Turn ids are not included.

--print writes the JSON to standard output and -o writes it to a file; either
one replaces the clipboard, which is useful where no clipboard is available.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}

			if printJSON || output != "" {
				text, err := clipboard.EncodeCopy(sess.Turns())
				if err != nil {
					return err
				}
				if output != "" {
					if err := util.AtomicWriteFile(output, []byte(text+"\n"), 0644); err != nil {
						return fmt.Errorf("failed to write %s: %w", output, err)
					}
					newPrinter(a.errOut).Success("Wrote %d turns to %s", len(sess.Turns()), output)
				}
				if printJSON {
					return writeJSON(a.out, text)
				}
				return nil
			}

			if _, err := sess.Copy(); err != nil {
				return err
			}
			newPrinter(a.out).Success("Copied to clipboard!")
			return nil
		},
	}
	cmd.Flags().BoolVar(&printJSON, "print", false, "print the JSON instead of copying it")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the JSON to a file instead of copying it")
	return cmd
}

func newPasteCmd(a *app) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "paste",
		Short: "Replace the turns with JSON from the clipboard",
		Long: `Replace the turns with a JSON array of {role, content} objects read
from the clipboard, or from a file with --from ("-" for standard input).
Invalid input leaves the turns unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from != "" {
				text, err := readSource(a.in, from)
				if err != nil {
					return err
				}
				a.clip = clipboard.NewMemory(text)
			}
			sess, err := a.session()
			if err != nil {
				return err
			}
			if err := sess.Paste(); err != nil {
				return err
			}
			newPrinter(a.out).Success("Pasted %d turns", len(sess.Turns()))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", `read the JSON from a file ("-" for standard input)`)
	return cmd
}

// readSource reads a file, or stdin when path is "-".
func readSource(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
