// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for rigchat.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/rigchat/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete rigchat configuration.
type Config struct {
	Ollama OllamaConfig `toml:"ollama"`
	Chat   ChatConfig   `toml:"chat"`
	Log    LogConfig    `toml:"log"`
}

// OllamaConfig describes how to reach the inference server.
type OllamaConfig struct {
	URL                string `toml:"url"`
	Model              string `toml:"model"`
	TimeoutSecs        int    `toml:"timeout_secs"`
	ConnectTimeoutSecs int    `toml:"connect_timeout_secs"`

	// Options are model parameters sent with every request. Unset values
	// leave the server's defaults in place.
	Options ModelOptions `toml:"options"`
}

// ModelOptions is the [ollama.options] table.
type ModelOptions struct {
	Temperature *float64 `toml:"temperature,omitempty"`
	TopP        float64  `toml:"top_p,omitempty"`
	NumCtx      int      `toml:"num_ctx,omitempty"`
	Seed        int      `toml:"seed,omitempty"`
}

// IsZero reports whether no option is set.
func (o ModelOptions) IsZero() bool {
	return o == ModelOptions{}
}

// ChatConfig controls the interactive session.
type ChatConfig struct {
	// Stream prints replies as they are generated.
	Stream bool `toml:"stream"`

	// Markdown renders whole (non-streamed) replies on a terminal.
	Markdown bool `toml:"markdown"`

	// SystemPrompt is sent ahead of every request; it is never part of
	// the transcript.
	SystemPrompt string `toml:"system_prompt"`

	// HistoryFile keeps prompt history between runs. Empty means the
	// default under the config directory; "-" disables it.
	HistoryFile string `toml:"history_file"`
}

// LogConfig controls the structured log.
type LogConfig struct {
	Level string `toml:"level"`

	// File is the log destination. Empty means the default under the
	// config directory; "-" means stderr.
	File string `toml:"file"`
}

// Built-in defaults.
const (
	DefaultURL                = "http://127.0.0.1:11434"
	DefaultModel              = "gemma3:4b"
	DefaultTimeoutSecs        = 120
	DefaultConnectTimeoutSecs = 5
	DefaultLogLevel           = "info"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Ollama: OllamaConfig{
			URL:                DefaultURL,
			Model:              DefaultModel,
			TimeoutSecs:        DefaultTimeoutSecs,
			ConnectTimeoutSecs: DefaultConnectTimeoutSecs,
		},
		Chat: ChatConfig{
			Stream:   true,
			Markdown: true,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Timeout returns the non-streaming request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Ollama.TimeoutSecs) * time.Second
}

// ConnectTimeout returns the dial timeout.
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.Ollama.ConnectTimeoutSecs) * time.Second
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the rigchat configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".rigchat"), nil
}

// Path returns the default config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// HistoryPath resolves the prompt history file; "" means history is off.
func (c *Config) HistoryPath() string {
	return resolveInDir(c.Chat.HistoryFile, "history")
}

// LogPath resolves the log file; "-" means stderr.
func (c *Config) LogPath() string {
	if c.Log.File == "-" {
		return "-"
	}
	if p := resolveInDir(c.Log.File, "rigchat.log"); p != "" {
		return p
	}
	return "-"
}

func resolveInDir(value, fallback string) string {
	switch value {
	case "-":
		return ""
	case "":
		dir, err := Dir()
		if err != nil {
			return ""
		}
		return filepath.Join(dir, fallback)
	default:
		return value
	}
}

// =============================================================================
// LOAD
// =============================================================================

// Load reads the config file at path (the default path when empty), applies
// environment overrides and validates the result.
// A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	if err := LoadFile(cfg, path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFile decodes the TOML file at path over cfg. Keys absent from the
// file keep their current values.
func LoadFile(cfg *Config, path string) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	fillDefaults(cfg)
	return nil
}

// fillDefaults restores defaults for values a file blanked out.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Ollama.URL == "" {
		cfg.Ollama.URL = defaults.Ollama.URL
	}
	if cfg.Ollama.Model == "" {
		cfg.Ollama.Model = defaults.Ollama.Model
	}
	if cfg.Ollama.TimeoutSecs == 0 {
		cfg.Ollama.TimeoutSecs = defaults.Ollama.TimeoutSecs
	}
	if cfg.Ollama.ConnectTimeoutSecs == 0 {
		cfg.Ollama.ConnectTimeoutSecs = defaults.Ollama.ConnectTimeoutSecs
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
}

// =============================================================================
// SAVE
// =============================================================================

const fileHeader = `# rigchat configuration file
#
# Environment overrides: RIGCHAT_OLLAMA_URL (or OLLAMA_HOST), RIGCHAT_MODEL,
# RIGCHAT_LOG_LEVEL, RIGCHAT_NO_STREAM.

`

// Encode renders cfg as TOML with a short header.
func Encode(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes cfg to path atomically with owner-only permissions.
func Save(cfg *Config, path string) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(path, data, 0600, 0700); err != nil {
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
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks the configuration and returns ValidateErrors listing
// every problem, or nil.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.Ollama.URL); err != nil {
		errs = append(errs, ValidationError{"ollama.url", err.Error()})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{"ollama.url", fmt.Sprintf("scheme must be http or https, got %q", u.Scheme)})
	} else if u.Host == "" {
		errs = append(errs, ValidationError{"ollama.url", "missing host"})
	}

	if strings.TrimSpace(c.Ollama.Model) == "" {
		errs = append(errs, ValidationError{"ollama.model", "must not be empty"})
	}
	if c.Ollama.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{"ollama.timeout_secs", "must not be negative"})
	}
	if c.Ollama.ConnectTimeoutSecs < 0 {
		errs = append(errs, ValidationError{"ollama.connect_timeout_secs", "must not be negative"})
	}
	if t := c.Ollama.Options.Temperature; t != nil && (*t < 0 || *t > 2) {
		errs = append(errs, ValidationError{"ollama.options.temperature", fmt.Sprintf("must be between 0 and 2, got %g", *t)})
	}
	if p := c.Ollama.Options.TopP; p < 0 || p > 1 {
		errs = append(errs, ValidationError{"ollama.options.top_p", fmt.Sprintf("must be between 0 and 1, got %g", p)})
	}
	if c.Ollama.Options.NumCtx < 0 {
		errs = append(errs, ValidationError{"ollama.options.num_ctx", "must not be negative"})
	}
	if !validLogLevels[c.Log.Level] {
		errs = append(errs, ValidationError{"log.level", fmt.Sprintf("must be one of debug, info, warn, error; got %q", c.Log.Level)})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported variables:
//   - RIGCHAT_OLLAMA_URL: overrides ollama.url
//   - OLLAMA_HOST: used for ollama.url when RIGCHAT_OLLAMA_URL is unset
//   - RIGCHAT_MODEL: overrides ollama.model
//   - RIGCHAT_LOG_LEVEL: overrides log.level
//   - RIGCHAT_NO_STREAM: "1" or "true" disables streaming
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv("RIGCHAT_OLLAMA_URL"); u != "" {
		c.Ollama.URL = u
	} else if host := os.Getenv("OLLAMA_HOST"); host != "" {
		c.Ollama.URL = HostToURL(host)
	}

	if model := os.Getenv("RIGCHAT_MODEL"); model != "" {
		c.Ollama.Model = model
	}

	if level := os.Getenv("RIGCHAT_LOG_LEVEL"); level != "" {
		c.Log.Level = strings.ToLower(level)
	}

	if v := os.Getenv("RIGCHAT_NO_STREAM"); v != "" {
		if noStream, err := strconv.ParseBool(v); err == nil {
			c.Chat.Stream = !noStream
		}
	}
}

// HostToURL turns an OLLAMA_HOST value ("host", "host:port" or a full URL)
// into a base URL, filling in the scheme and the default port.
func HostToURL(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if strings.Contains(host, "://") {
		return host
	}
	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(strings.Trim(host, "[]"), "11434")
	}
	return "http://" + host
}
