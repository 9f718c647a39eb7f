// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func newGenerateCmd(a *app) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Send the turns to the selected model and append the reply",
		Long: `Send the non-empty turns to the selected model and append the reply
as an assistant turn. Both API keys must be set (see "promptpad keys set").
Ctrl+C cancels the request; the turns are left unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if err := sess.Generate(ctx); err != nil {
				return err
			}
			if !quiet {
				turns := sess.Turns()
				fmt.Fprintln(a.out, turns[len(turns)-1].Content)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the reply")
	return cmd
}
