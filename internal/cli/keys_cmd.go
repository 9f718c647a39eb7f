// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/promptpad/internal/model"
)

// =============================================================================
// KEYS
// =============================================================================

func newKeysCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the OpenAI and Anthropic API keys",
	}
	cmd.AddCommand(newKeysSetCmd(a), newKeysShowCmd(a))
	return cmd
}

func newKeysSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "set <openai|anthropic> [key]",
		Short:     "Store an API key",
		Long:      `Store an API key. Without a key argument it is prompted for without echo.`,
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{string(model.ProviderOpenAI), string(model.ProviderAnthropic)},
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := model.Provider(strings.ToLower(args[0]))
			if provider != model.ProviderOpenAI && provider != model.ProviderAnthropic {
				return fmt.Errorf("unknown provider %q (want openai or anthropic)", args[0])
			}

			var key string
			if len(args) == 2 {
				key = args[1]
			} else {
				var err error
				if key, err = a.promptSecret(provider.DisplayName() + " API key: "); err != nil {
					return err
				}
			}
			key = strings.TrimSpace(key)
			if key == "" {
				return errors.New("empty key")
			}

			sess, err := a.session()
			if err != nil {
				return err
			}
			if provider == model.ProviderAnthropic {
				err = sess.SetAnthropicKey(key)
			} else {
				err = sess.SetOpenAIKey(key)
			}
			if err != nil {
				return err
			}
			newPrinter(a.out).Success("%s key saved", provider.DisplayName())
			return nil
		},
	}
}

// promptSecret reads a secret without echo on a terminal, or one line from
// a non-terminal stdin.
func (a *app) promptSecret(prompt string) (string, error) {
	if !isTerminal(a.in) {
		line, err := bufio.NewReader(a.in).ReadString('\n')
		if err != nil && line == "" {
			return "", &TTYRequiredError{Operation: "prompt for the key"}
		}
		return line, nil
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	secret, err := line.PasswordPrompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", errors.New("aborted")
	}
	return secret, err
}

func newKeysShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show which API keys are set (masked)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			creds := sess.Credentials()
			p := newPrinter(a.out)
			fmt.Fprintf(a.out, "%s  %s\n", p.Label("OpenAI   "), maskKey(creds.OpenAIKey, creds.HasOpenAIKey()))
			fmt.Fprintf(a.out, "%s  %s\n", p.Label("Anthropic"), maskKey(creds.AnthropicKey, creds.HasAnthropicKey()))
			if !creds.Complete() {
				p.Warn("Both keys are needed to generate")
			}
			return nil
		},
	}
}

// maskKey shows at most the last four characters of a key.
func maskKey(key string, set bool) string {
	if !set {
		return "(not set)"
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}

// =============================================================================
// MODELS
// =============================================================================

func newModelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "model [id]",
		Short: "Show or select the model used by generate",
		Long: `Show or select the model used by generate. Ids outside the catalog
are accepted: names containing "claude" are sent to Anthropic, all others to
OpenAI.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			p := newPrinter(a.out)
			if len(args) == 0 {
				id := sess.Credentials().Model
				fmt.Fprintf(a.out, "%s (%s)\n", id, model.ProviderFor(id).DisplayName())
				return nil
			}

			id := strings.TrimSpace(args[0])
			if id == "" {
				return errors.New("empty model id")
			}
			if err := sess.SetModel(id); err != nil {
				return err
			}
			if _, ok := model.GetModelInfo(id); !ok {
				p.Warn("%s is not in the catalog; it will be sent to %s", id, model.ProviderFor(id).DisplayName())
			}
			p.Success("Selected %s", id)
			return nil
		},
	}
}

func newModelsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the selectable models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			current := sess.Credentials().Model
			p := newPrinter(a.out)
			for _, id := range model.ModelIDs() {
				info := model.Models[id]
				marker := " "
				if id == current {
					marker = "*"
				}
				fmt.Fprintf(a.out, "%s %-26s %-10s %s\n", marker, id, info.Provider.DisplayName(), p.Muted(info.Name))
			}
			return nil
		},
	}
}
