// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/promptpad/internal/config"
	"github.com/jeranaias/promptpad/internal/ui/components"
	"github.com/jeranaias/promptpad/internal/ui/styles"
	"github.com/jeranaias/promptpad/internal/ui/turns"
)

// runTUI opens the interactive editor and blocks until the user quits.
func runTUI(ctx context.Context, a *app) error {
	if !isTerminal(a.in) || !isTerminal(a.out) {
		return &TTYRequiredError{Operation: "open the editor"}
	}
	if err := styles.ApplyThemeName(a.cfg.UI.Theme); err != nil {
		return err
	}

	// The editor owns the terminal; console diagnostics would corrupt it.
	if a.opts.ephemeral {
		a.logger = zerolog.New(io.Discard)
	}

	toasts := components.NewToastManager()
	a.notifier = toasts
	sess, err := a.session()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := turns.New(sess, toasts, styles.NewTheme()).
		WithContext(ctx).
		WithLogger(a.logger).
		WithPreview(a.cfg.UI.MarkdownPreview)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	a.bridge.Indicator().OnChange(func(on bool) {
		p.Send(turns.CopiedMsg{On: on})
	})

	if !a.opts.ephemeral {
		go func() {
			err := config.Watch(ctx, a.configPath, func(cfg *config.Config, err error) {
				if err == nil && a.opts.dataDir != "" {
					cfg.DataDir = a.opts.dataDir
				}
				p.Send(turns.ConfigReloadedMsg{Config: cfg, Err: err})
			})
			if err != nil && ctx.Err() == nil {
				a.logger.Warn().Err(err).Str("path", a.configPath).Msg("config watch stopped")
			}
		}()
	}

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("editor: %w", err)
	}
	return nil
}
