// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for rigchat.
//
// # Configuration Precedence
//
// Later layers win:
//   - Built-in defaults
//   - ~/.rigchat/config.toml
//   - Environment variables (RIGCHAT_*, OLLAMA_HOST)
//   - Command-line flags (applied by the cli package)
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	client := ollama.NewClientWithConfig(&ollama.ClientConfig{
//	    BaseURL: cfg.Ollama.URL,
//	    Timeout: cfg.Timeout(),
//	})
package config
