// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jeranaias/promptpad/internal/clipboard"
	"github.com/jeranaias/promptpad/internal/config"
	"github.com/jeranaias/promptpad/internal/editor"
	"github.com/jeranaias/promptpad/internal/logging"
	"github.com/jeranaias/promptpad/internal/storage"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// =============================================================================
// APPLICATION STATE
// =============================================================================

// rootOptions are the global flags.
type rootOptions struct {
	configPath string
	dataDir    string
	ephemeral  bool
	logLevel   string
}

// app holds everything a command needs. The session is built on first use
// so that a command can adjust the clipboard or notifier before that.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	opts rootOptions

	cfg        *config.Config
	configPath string
	logger     zerolog.Logger
	closers    []io.Closer

	kv      storage.KV
	persist *storage.Persistence
	clip    clipboard.Clipboard
	bridge  *clipboard.Bridge
	sess    *editor.Session

	notifier editor.Notifier
	notified bool
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{in: in, out: out, errOut: errOut, logger: zerolog.Nop()}
}

// setup loads the configuration, opens the diagnostics log and the store.
func (a *app) setup() error {
	var err error
	a.configPath = a.opts.configPath
	if a.configPath == "" {
		if a.configPath, err = config.ConfigPath(); err != nil {
			return err
		}
	}
	if a.cfg, err = config.LoadFromPath(a.configPath); err != nil {
		return err
	}
	if a.opts.dataDir != "" {
		a.cfg.DataDir = a.opts.dataDir
	}

	level, err := logging.ParseLevel(a.opts.logLevel)
	if err != nil {
		return err
	}

	if a.opts.ephemeral {
		// Nothing is written to disk; only warnings and errors reach stderr.
		if level < zerolog.WarnLevel {
			level = zerolog.WarnLevel
		}
		a.logger = logging.NewConsole(a.errOut, level)
		a.kv = storage.NewMemoryKV()
		if a.clip == nil {
			a.clip = clipboard.NewMemory("")
		}
	} else {
		logPath, err := a.cfg.LogPath()
		if err != nil {
			return err
		}
		logger, f, err := logging.OpenFile(logPath, level)
		if err != nil {
			return err
		}
		a.logger = logger
		a.closers = append(a.closers, f)

		dbPath, err := a.cfg.DatabasePath()
		if err != nil {
			return err
		}
		db, err := storage.OpenSQLite(dbPath)
		if err != nil {
			return err
		}
		a.kv = db
		if a.clip == nil {
			a.clip = clipboard.System{}
		}
	}
	a.closers = append(a.closers, a.kv)

	a.persist = storage.NewPersistence(a.kv)
	a.persist.DefaultModel = a.cfg.DefaultModel
	a.logger.Debug().Str("config", a.configPath).Bool("ephemeral", a.opts.ephemeral).Msg("promptpad started")
	return nil
}

// session returns the editor session, creating it on first use.
func (a *app) session() (*editor.Session, error) {
	if a.sess != nil {
		return a.sess, nil
	}
	notifier := a.notifier
	if notifier == nil {
		p := newPrinter(a.errOut)
		notifier = editor.NotifierFunc(func(n editor.Notification) {
			a.notified = true
			if n.Level == editor.LevelError {
				p.Error("%s", n.Message)
				return
			}
			p.Success("%s", n.Message)
		})
	}

	a.bridge = clipboard.NewBridge(a.clip)
	sess, err := editor.NewSession(a.persist, a.bridge, a.cfg.NewClient().WithLogger(a.logger),
		editor.WithNotifier(notifier),
		editor.WithLogger(a.logger),
		editor.WithKeyFallback(a.cfg.OpenAIKey, a.cfg.AnthropicKey),
	)
	if err != nil {
		return nil, err
	}
	a.sess = sess
	return sess, nil
}

// close releases the log file and the store.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn().Err(err).Msg("close failed")
		}
	}
	a.closers = nil
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// newRootCmd builds the command tree around a.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "promptpad",
		Short: "Edit chat prompts turn by turn and send them to a model",
		Long: `promptpad edits a conversation as a list of turns, each with a role
(system, user or assistant) and free-form content. The turns are saved
automatically, can be copied to and pasted from the clipboard as JSON, and can
be sent to an OpenAI or Anthropic model to generate the next assistant turn.

Run without a subcommand to open the interactive editor.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), a)
		},
	}
	root.SetVersionTemplate("promptpad version {{.Version}} (" + GitCommit + ")\n")
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.opts.configPath, "config", "", "config file (default ~/.promptpad/config.toml)")
	flags.StringVar(&a.opts.dataDir, "data-dir", "", "directory for the database and the diagnostics log")
	flags.BoolVar(&a.opts.ephemeral, "ephemeral", false, "keep turns, keys and the clipboard in memory only")
	flags.StringVar(&a.opts.logLevel, "log-level", logging.DefaultLevel, "diagnostics level (debug, info, warn, error)")

	root.AddCommand(
		newShowCmd(a),
		newAddCmd(a),
		newSetRoleCmd(a),
		newSetContentCmd(a),
		newCopyCmd(a),
		newPasteCmd(a),
		newGenerateCmd(a),
		newKeysCmd(a),
		newModelCmd(a),
		newModelsCmd(a),
		newExportCmd(a),
		newResetCmd(a),
		newConfigCmd(a),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	return run(a, os.Args[1:])
}

func run(a *app, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return 0
	}
	// Failures the editor already reported are not printed twice.
	if !a.notified {
		var ttyErr *TTYRequiredError
		p := newPrinter(a.errOut)
		if errors.As(err, &ttyErr) {
			p.Warn("%v", err)
		} else {
			p.Error("%v", err)
		}
	}
	a.close()
	return 1
}
