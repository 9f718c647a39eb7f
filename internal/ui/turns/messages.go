// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package turns

import (
	"github.com/jeranaias/promptpad/internal/config"
)

// CopiedMsg reports a change of the copied indicator.
type CopiedMsg struct {
	On bool
}

// PastedMsg is returned by the paste command.
type PastedMsg struct {
	Err error
}

// GeneratedMsg is returned by the generate command.
type GeneratedMsg struct {
	Err error
}

// ConfigReloadedMsg carries a reloaded configuration file.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}
