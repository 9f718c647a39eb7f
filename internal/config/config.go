// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for promptpad.
//
// Configuration file location (in order of precedence):
//   - Environment variables (PROMPTPAD_*)
//   - ~/.promptpad/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/promptpad/internal/cloud"
	"github.com/jeranaias/promptpad/internal/model"
	"github.com/jeranaias/promptpad/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete promptpad configuration.
type Config struct {
	// DataDir holds the database and the diagnostics log. "~" is expanded.
	DataDir string `toml:"data_dir"`

	// DefaultModel is selected until the user picks another model.
	DefaultModel string `toml:"default_model"`

	OpenAI    OpenAIConfig    `toml:"openai"`
	Anthropic AnthropicConfig `toml:"anthropic"`
	HTTP      HTTPConfig      `toml:"http"`
	UI        UIConfig        `toml:"ui"`

	// Keys from the environment. Never written to the config file.
	OpenAIKey    string `toml:"-"`
	AnthropicKey string `toml:"-"`
}

// OpenAIConfig configures the OpenAI-compatible endpoint.
type OpenAIConfig struct {
	BaseURL string `toml:"base_url"`
}

// AnthropicConfig configures the Anthropic-compatible endpoint.
type AnthropicConfig struct {
	BaseURL   string `toml:"base_url"`
	Version   string `toml:"version"`
	MaxTokens int    `toml:"max_tokens"`
}

// HTTPConfig contains HTTP client settings.
type HTTPConfig struct {
	// RequestTimeoutSecs bounds a completion request; 0 means no timeout.
	RequestTimeoutSecs int `toml:"request_timeout_secs"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// MarkdownPreview starts the editor with the rendered preview shown
	MarkdownPreview bool `toml:"markdown_preview"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		DataDir:      "~/.promptpad",
		DefaultModel: model.DefaultModel,

		OpenAI: OpenAIConfig{
			BaseURL: cloud.DefaultOpenAIURL,
		},

		Anthropic: AnthropicConfig{
			BaseURL:   cloud.DefaultAnthropicURL,
			Version:   cloud.DefaultAnthropicVersion,
			MaxTokens: cloud.DefaultMaxTokens,
		},

		HTTP: HTTPConfig{
			RequestTimeoutSecs: 0,
		},

		UI: UIConfig{
			Theme:           "auto",
			MarkdownPreview: false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the promptpad configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".promptpad"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ExpandPath replaces a leading "~" with the home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// DataPath returns the expanded data directory.
func (c *Config) DataPath() (string, error) {
	return ExpandPath(c.DataDir)
}

// DatabasePath returns the path of the SQLite database.
func (c *Config) DatabasePath() (string, error) {
	dir, err := c.DataPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "promptpad.db"), nil
}

// LogPath returns the path of the diagnostics log.
func (c *Config) LogPath() (string, error) {
	dir, err := c.DataPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "promptpad.log"), nil
}

// RequestTimeout returns the completion request timeout; 0 means none.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.HTTP.RequestTimeoutSecs) * time.Second
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadFromPath loads configuration from a specific file path with full
// validation. A missing file yields the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		cfg = &Config{}
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
		fillDefaults(cfg)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.DataDir == "" {
		cfg.DataDir = defaults.DataDir
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = defaults.DefaultModel
	}

	// Endpoints
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = defaults.OpenAI.BaseURL
	}
	if cfg.Anthropic.BaseURL == "" {
		cfg.Anthropic.BaseURL = defaults.Anthropic.BaseURL
	}
	if cfg.Anthropic.Version == "" {
		cfg.Anthropic.Version = defaults.Anthropic.Version
	}
	if cfg.Anthropic.MaxTokens == 0 {
		cfg.Anthropic.MaxTokens = defaults.Anthropic.MaxTokens
	}

	// UI
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - PROMPTPAD_DATA_DIR: overrides data_dir
//   - PROMPTPAD_MODEL: overrides default_model
//   - PROMPTPAD_OPENAI_URL: overrides openai.base_url
//   - PROMPTPAD_ANTHROPIC_URL: overrides anthropic.base_url
//   - PROMPTPAD_TIMEOUT: overrides http.request_timeout_secs
//   - OPENAI_API_KEY, ANTHROPIC_API_KEY: fallback keys when none is stored
func (c *Config) ApplyEnvOverrides() {
	if dir := os.Getenv("PROMPTPAD_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}

	if m := os.Getenv("PROMPTPAD_MODEL"); m != "" {
		c.DefaultModel = m
	}

	if u := os.Getenv("PROMPTPAD_OPENAI_URL"); u != "" {
		c.OpenAI.BaseURL = u
	}

	if u := os.Getenv("PROMPTPAD_ANTHROPIC_URL"); u != "" {
		c.Anthropic.BaseURL = u
	}

	if timeout := os.Getenv("PROMPTPAD_TIMEOUT"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil {
			c.HTTP.RequestTimeoutSecs = secs
		}
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.OpenAIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		c.AnthropicKey = key
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
// Environment keys are never written.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer

	// Write header comment
	fmt.Fprintln(&buf, "# promptpad configuration file")
	fmt.Fprintln(&buf, "# Generated by promptpad - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFileWithDir(path, buf.Bytes(), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, ValidationError{Field: "data_dir", Message: "must not be empty"})
	}

	if strings.TrimSpace(c.DefaultModel) == "" {
		errs = append(errs, ValidationError{Field: "default_model", Message: "must not be empty"})
	}

	for field, raw := range map[string]string{
		"openai.base_url":    c.OpenAI.BaseURL,
		"anthropic.base_url": c.Anthropic.BaseURL,
	} {
		if msg := validateURL(raw); msg != "" {
			errs = append(errs, ValidationError{Field: field, Message: msg})
		}
	}

	if c.Anthropic.MaxTokens < 1 {
		errs = append(errs, ValidationError{
			Field:   "anthropic.max_tokens",
			Message: fmt.Sprintf("must be positive, got %d", c.Anthropic.MaxTokens),
		})
	}

	if c.HTTP.RequestTimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "http.request_timeout_secs",
			Message: fmt.Sprintf("must not be negative, got %d", c.HTTP.RequestTimeoutSecs),
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Sprintf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Sprintf("URL scheme must be http or https, got '%s'", u.Scheme)
	}
	if u.Host == "" {
		return "URL must include a host"
	}
	return ""
}

// =============================================================================
// HELPERS
// =============================================================================

// NewClient builds a completion client for the configured endpoints.
func (c *Config) NewClient() *cloud.Client {
	return cloud.NewClient().
		WithOpenAIBaseURL(c.OpenAI.BaseURL).
		WithAnthropicBaseURL(c.Anthropic.BaseURL).
		WithAnthropicVersion(c.Anthropic.Version).
		WithMaxTokens(c.Anthropic.MaxTokens).
		WithTimeout(c.RequestTimeout())
}

// String returns the TOML rendering of the config. Keys are never included.
func (c *Config) String() string {
	var buf bytes.Buffer
	_ = toml.NewEncoder(&buf).Encode(c)
	return buf.String()
}
