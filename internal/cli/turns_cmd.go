// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jeranaias/promptpad/internal/clipboard"
	"github.com/jeranaias/promptpad/internal/model"
	"github.com/jeranaias/promptpad/internal/util"
)

var titler = cases.Title(language.English)

// parsePosition converts a 1-based turn position to an index into n turns.
func parsePosition(arg string, n int) (int, error) {
	pos, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid turn position %q: want a number", arg)
	}
	if pos < 1 || pos > n {
		return 0, fmt.Errorf("turn %d does not exist (have %d)", pos, n)
	}
	return pos - 1, nil
}

// =============================================================================
// SHOW
// =============================================================================

func newShowCmd(a *app) *cobra.Command {
	var asJSON, full bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the turn list",
		Long: `Print the turn list, one turn per line.

With --json the turns are printed in the clipboard format: a JSON array of
{role, content} objects.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			turns := sess.Turns()
			if asJSON {
				text, err := clipboard.EncodeCopy(turns)
				if err != nil {
					return err
				}
				return writeJSON(a.out, text)
			}
			printTurns(a.out, turns, full)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the clipboard JSON format")
	cmd.Flags().BoolVar(&full, "full", false, "print every line of each turn")
	return cmd
}

func printTurns(w io.Writer, turns []model.Turn, full bool) {
	p := newPrinter(w)
	if len(turns) == 0 {
		fmt.Fprintln(w, p.Muted("No turns."))
		return
	}

	width := terminalWidth(w)
	for i, turn := range turns {
		label := util.PadRight(titler.String(turn.Role.String()), len("assistant"))
		prefix := fmt.Sprintf("%3d  %s  ", i+1, label)
		if full {
			indent := strings.Repeat(" ", util.StringWidth(prefix))
			body := strings.ReplaceAll(turn.Content, "\n", "\n"+indent)
			fmt.Fprintf(w, "%3d  %s  %s\n", i+1, p.Label(label), body)
			continue
		}
		preview := util.Preview(turn.Content, width-util.StringWidth(prefix))
		if turn.Content == "" {
			preview = p.Muted("(empty)")
		}
		fmt.Fprintf(w, "%3d  %s  %s\n", i+1, p.Label(label), preview)
	}
}

// =============================================================================
// EDIT COMMANDS
// =============================================================================

func newAddCmd(a *app) *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "add [content...]",
		Short: "Append a turn",
		Long: `Append a turn. The role alternates with the last turn unless --role
is given; the content is the joined arguments.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var r model.Role
			if role != "" {
				var err error
				if r, err = model.ParseRole(role); err != nil {
					return err
				}
			}
			sess, err := a.session()
			if err != nil {
				return err
			}
			if err := sess.AddTurn(); err != nil {
				return err
			}
			last := len(sess.Turns()) - 1
			if r != "" {
				if err := sess.SetRole(last, r); err != nil {
					return err
				}
			}
			if len(args) > 0 {
				if err := sess.SetContent(last, strings.Join(args, " ")); err != nil {
					return err
				}
			}
			turn := sess.Turns()[last]
			newPrinter(a.out).Success("Added turn %d (%s)", last+1, turn.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "role of the new turn (system, user, assistant)")
	return cmd
}

func newSetRoleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <n> <role>",
		Short: "Change the role of turn n",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := model.ParseRole(args[1])
			if err != nil {
				return err
			}
			sess, err := a.session()
			if err != nil {
				return err
			}
			i, err := parsePosition(args[0], len(sess.Turns()))
			if err != nil {
				return err
			}
			return sess.SetRole(i, role)
		},
	}
}

func newSetContentCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-content <n> [text|-]",
		Short: "Replace the content of turn n",
		Long: `Replace the content of turn n. With no text, or "-", the content is
read from standard input.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			i, err := parsePosition(args[0], len(sess.Turns()))
			if err != nil {
				return err
			}
			var content string
			if len(args) == 2 && args[1] != "-" {
				content = args[1]
			} else {
				data, err := io.ReadAll(a.in)
				if err != nil {
					return fmt.Errorf("failed to read content: %w", err)
				}
				content = strings.TrimSuffix(string(data), "\n")
			}
			return sess.SetContent(i, content)
		},
	}
}

// =============================================================================
// RESET
// =============================================================================

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard the saved turns and restore the default conversation",
		Long: `Discard the saved turns. The next run starts with the default
conversation. API keys and the selected model are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.persist.Reset(); err != nil {
				return err
			}
			newPrinter(a.out).Success("Turns reset to the default conversation")
			return nil
		},
	}
}
