// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeranaias/promptpad/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		// The file may be missing or invalid here; only resolve its path.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.opts.configPath != "" {
				a.configPath = a.opts.configPath
				return nil
			}
			path, err := config.ConfigPath()
			a.configPath = path
			return err
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(a.out, a.configPath)
				return nil
			},
		},
		newConfigInitCmd(a),
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Long:  `Print the effective configuration: the file, then environment overrides.`,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.LoadFromPath(a.configPath)
				if err != nil {
					return err
				}
				fmt.Fprint(a.out, cfg.String())
				return nil
			},
		},
	)
	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", a.configPath)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.SaveTOML(config.Default(), a.configPath); err != nil {
				return err
			}
			newPrinter(a.out).Success("Wrote %s", a.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
